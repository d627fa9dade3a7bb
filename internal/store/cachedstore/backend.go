// Package cachedstore provides a caching wrapper for Store implementations.
// Only finished games are persisted and records never change afterwards, so
// cached reads cannot go stale.
package cachedstore

// Backend defines the interface for cache storage backends.
// Implementations handle storage and eviction strategy (LRU).
type Backend interface {
	// Get retrieves a cached record. Returns nil, false if not found.
	Get(id string) ([]byte, bool)

	// Set stores a record in the cache.
	Set(id string, data []byte)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
