package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/authflow/internal/models"
	"github.com/hongminglow/authflow/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewUserStore(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.CreateUser(ctx, models.User{Username: "bob", Firstname: "Bob", Lastname: "Builder", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Bob", created.Firstname)
	assert.Equal(t, "hash", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)

	byName, err := s.FindByUsername(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestStore_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Username: "ALICE", PasswordHash: "y"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.FindByID(ctx, 99)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	s, err := NewUserStore(ctx, path)
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, models.User{Username: "carol", PasswordHash: "x"})
	require.NoError(t, err)
	s.Close()

	s, err = NewUserStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.FindByUsername(ctx, "carol")
	require.NoError(t, err)
}

func TestStore_Ping(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))

	s.Close()
	assert.Error(t, s.Ping(context.Background()))
}
