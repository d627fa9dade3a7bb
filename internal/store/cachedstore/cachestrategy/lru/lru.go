// Package lru implements an LRU cache eviction strategy.
package lru

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/arena/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Strategy implements cachestrategy.Strategy.
var _ cachestrategy.Strategy = (*Strategy)(nil)

// Strategy implements LRU eviction keyed by game id.
type Strategy struct {
	cache *lru.Cache[string, []byte]
}

// New creates a new LRU strategy holding at most capacity records.
func New(capacity int) (*Strategy, error) {
	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Strategy{cache: c}, nil
}

// Get retrieves a record by id.
func (s *Strategy) Get(id string) ([]byte, bool) {
	return s.cache.Get(id)
}

// Add adds a record, reporting whether an eviction occurred.
func (s *Strategy) Add(id string, value []byte) bool {
	return s.cache.Add(id, value)
}

// Len returns the number of cached records.
func (s *Strategy) Len() int {
	return s.cache.Len()
}
