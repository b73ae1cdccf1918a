package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/contactbook/contactbook/internal/apperr"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return User{}, apperr.ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	r.users[user.Email] = user
	return user, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return user, nil
}
