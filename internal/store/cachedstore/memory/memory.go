// Package memory implements an in-memory cache backend.
package memory

import (
	"sync/atomic"

	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/store/cachedstore"
	"github.com/discochess/arena/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Backend implements cachedstore.Backend.
var _ cachedstore.Backend = (*Backend)(nil)

// Backend keeps game records in process memory. It is safe for concurrent
// use as long as the strategy is.
type Backend struct {
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The collector is optional; if nil, a no-op collector is used.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

// Get returns the cached record for id.
func (b *Backend) Get(id string) ([]byte, bool) {
	data, ok := b.strategy.Get(id)
	if !ok {
		b.misses.Add(1)
		b.collector.IncCounter(stats.MetricCacheMisses, 1)
		return nil, false
	}
	b.hits.Add(1)
	b.collector.IncCounter(stats.MetricCacheHits, 1)
	return data, true
}

// Set caches a record for id.
func (b *Backend) Set(id string, data []byte) {
	b.strategy.Add(id, data)
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
}

// Stats returns current cache statistics.
func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.strategy.Len(),
	}
}
