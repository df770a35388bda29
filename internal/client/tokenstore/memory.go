package tokenstore

import (
	"context"
	"sync"
)

// Memory is a process-local slot. Used by tests and when no durable path is configured.
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemory returns an empty slot.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

func (m *Memory) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	return nil
}

func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}
