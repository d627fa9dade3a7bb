// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/arena/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		games: make(map[string][]byte),
	}
}

// WriteGame stores a copy of data.
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) WriteGame(ctx context.Context, id string, data []byte) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.games[id] = copied
	return nil
}

// ReadGame reads a game record from memory.
func (s *Store) ReadGame(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// ListGames returns the stored ids.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
