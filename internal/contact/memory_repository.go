package contact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contactbook/contactbook/internal/apperr"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Contact
}

// NewMemoryRepository constructs an in-memory contact store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Contact)}
}

func (r *memoryRepository) Create(_ context.Context, c Contact) (Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.storage[c.ID] = c
	return c, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Contact, 0)
	for _, c := range r.storage {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) FindByOwner(_ context.Context, ownerID, id string) (Contact, error) {
	if err := checkID(id); err != nil {
		return Contact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.storage[id]
	if !ok || c.OwnerID != ownerID {
		return Contact{}, apperr.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) UpdateByOwner(_ context.Context, ownerID, id string, patch Patch, at time.Time) (int64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok || c.OwnerID != ownerID {
		return 0, nil
	}
	patch.apply(&c)
	c.UpdatedAt = at
	r.storage[id] = c
	return 1, nil
}

func (r *memoryRepository) DeleteByOwner(_ context.Context, ownerID, id string) (int64, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok || c.OwnerID != ownerID {
		return 0, nil
	}
	delete(r.storage, id)
	return 1, nil
}

func checkID(id string) error {
	_, err := parseUUID("contact", id)
	return err
}
