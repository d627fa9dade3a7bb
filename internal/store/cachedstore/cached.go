package cachedstore

import (
	"context"

	"github.com/discochess/arena/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store with caching.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// WriteGame writes through to the underlying store and caches the record.
func (s *Store) WriteGame(ctx context.Context, id string, data []byte) error {
	if err := s.underlying.WriteGame(ctx, id, data); err != nil {
		return err
	}
	s.backend.Set(id, data)
	return nil
}

// ReadGame reads a record, checking the cache first.
func (s *Store) ReadGame(ctx context.Context, id string) ([]byte, error) {
	if data, ok := s.backend.Get(id); ok {
		return data, nil
	}

	// Cache miss - read from underlying store.
	data, err := s.underlying.ReadGame(ctx, id)
	if err != nil {
		return nil, err
	}

	s.backend.Set(id, data)

	return data, nil
}

// ListGames is not cached; new records may appear at any time.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	return s.underlying.ListGames(ctx)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
