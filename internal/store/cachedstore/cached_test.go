package cachedstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/arena/internal/store"
)

// fakeBackend is a simple in-memory backend for testing.
type fakeBackend struct {
	data   map[string][]byte
	hits   int64
	misses int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string][]byte)}
}

func (b *fakeBackend) Get(id string) ([]byte, bool) {
	if data, ok := b.data[id]; ok {
		b.hits++
		return data, true
	}
	b.misses++
	return nil, false
}

func (b *fakeBackend) Set(id string, data []byte) {
	b.data[id] = data
}

func (b *fakeBackend) Stats() Stats {
	return Stats{Hits: b.hits, Misses: b.misses, Size: len(b.data)}
}

// fakeStore is a simple store for testing.
type fakeStore struct {
	data  map[string][]byte
	reads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) WriteGame(ctx context.Context, id string, data []byte) error {
	s.data[id] = data
	return nil
}

func (s *fakeStore) ReadGame(ctx context.Context, id string) ([]byte, error) {
	s.reads++
	if data, ok := s.data[id]; ok {
		return data, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) ListGames(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) Close() error {
	return nil
}

func TestStore_CacheHit(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()

	// Pre-populate cache.
	backend.Set("g1", []byte("cached data"))

	s := New(underlying, backend)

	data, err := s.ReadGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ReadGame() error = %v", err)
	}
	if string(data) != "cached data" {
		t.Errorf("ReadGame() = %q, want %q", data, "cached data")
	}
	if underlying.reads != 0 {
		t.Errorf("underlying reads = %d, want 0", underlying.reads)
	}
	if stats := s.Stats(); stats.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", stats.Hits)
	}
}

func TestStore_CacheMiss(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	underlying.data["g1"] = []byte("underlying data")

	s := New(underlying, backend)

	data, err := s.ReadGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ReadGame() error = %v", err)
	}
	if string(data) != "underlying data" {
		t.Errorf("ReadGame() = %q, want %q", data, "underlying data")
	}
	if _, ok := backend.data["g1"]; !ok {
		t.Error("data should be cached after miss")
	}
	if stats := s.Stats(); stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", stats.Misses)
	}
}

func TestStore_WriteThrough(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	s := New(underlying, backend)
	ctx := context.Background()

	if err := s.WriteGame(ctx, "g1", []byte("rec")); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}
	if string(underlying.data["g1"]) != "rec" {
		t.Error("record not written to underlying store")
	}
	if _, err := s.ReadGame(ctx, "g1"); err != nil {
		t.Fatalf("ReadGame() error = %v", err)
	}
	if underlying.reads != 0 {
		t.Errorf("underlying reads = %d, want 0 after write-through", underlying.reads)
	}

	ids, err := s.ListGames(ctx)
	if err != nil || len(ids) != 1 {
		t.Errorf("ListGames() = (%v, %v), want one id", ids, err)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New(newFakeStore(), newFakeBackend())

	_, err := s.ReadGame(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadGame() error = %v, want ErrNotFound", err)
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
