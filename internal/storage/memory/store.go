package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/authflow/internal/models"
	"github.com/hongminglow/authflow/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store keeps users in process memory. Usernames are unique case-insensitively.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.User
	byName map[string]int64
}

// NewUserStore returns an empty in-memory store.
func NewUserStore() *Store {
	return &Store{
		byID:   make(map[int64]models.User),
		byName: make(map[string]int64),
	}
}

// Close is a no-op.
func (s *Store) Close() {}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// CreateUser assigns an id and creation time and stores the user.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, ok := s.byName[key]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	s.byID[user.ID] = user
	s.byName[key] = user.ID
	return user, nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[strings.ToLower(username)]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.byID[id], nil
}
