package identity

import (
	"context"
	"sync"
)

// MemoryStore keeps the identity in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	id    Identity
	saved bool
	saves int
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved identity or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return Identity{}, ErrNotFound
	}
	return s.id.Clone(), nil
}

// Save replaces the stored identity.
func (s *MemoryStore) Save(ctx context.Context, id Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id.Clone()
	s.saved = true
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
