package memory

import (
	"testing"

	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/store/cachedstore/cachestrategy/lru"
)

func newBackend(t *testing.T, capacity int, collector stats.Collector) *Backend {
	t.Helper()
	strategy, err := lru.New(capacity)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	return New(strategy, collector)
}

func TestBackend_GetSet(t *testing.T) {
	b := newBackend(t, 10, nil)

	if _, ok := b.Get("g1"); ok {
		t.Error("Get() should return false for missing id")
	}

	b.Set("g1", []byte("record"))
	data, ok := b.Get("g1")
	if !ok {
		t.Fatal("Get() should return true after Set")
	}
	if string(data) != "record" {
		t.Errorf("Get() = %q, want %q", data, "record")
	}
}

// countingCollector records counter totals and the last gauge value.
type countingCollector struct {
	stats.Noop
	counters map[string]int64
	gauges   map[string]int64
}

func (c *countingCollector) IncCounter(name string, delta int64) { c.counters[name] += delta }
func (c *countingCollector) SetGauge(name string, value int64)   { c.gauges[name] = value }

func TestBackend_Stats(t *testing.T) {
	collector := &countingCollector{counters: map[string]int64{}, gauges: map[string]int64{}}
	b := newBackend(t, 10, collector)

	b.Set("g1", []byte("data"))
	b.Get("g1") // hit
	b.Get("g2") // miss

	s := b.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", s)
	}
	if collector.counters[stats.MetricCacheHits] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheHits, collector.counters[stats.MetricCacheHits])
	}
	if collector.counters[stats.MetricCacheMisses] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheMisses, collector.counters[stats.MetricCacheMisses])
	}
	if collector.gauges[stats.MetricCacheSize] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheSize, collector.gauges[stats.MetricCacheSize])
	}
}

func TestBackend_LRUEviction(t *testing.T) {
	b := newBackend(t, 2, nil)

	b.Set("a", []byte("one"))
	b.Set("b", []byte("two"))
	b.Set("c", []byte("three")) // evicts a

	if _, ok := b.Get("a"); ok {
		t.Error("Get(a) should return false after eviction")
	}
	for _, id := range []string{"b", "c"} {
		if _, ok := b.Get(id); !ok {
			t.Errorf("Get(%s) should return true", id)
		}
	}
}

// mapStrategy is an unbounded strategy for testing injection.
type mapStrategy map[string][]byte

func (s mapStrategy) Get(id string) ([]byte, bool) {
	v, ok := s[id]
	return v, ok
}

func (s mapStrategy) Add(id string, value []byte) bool {
	s[id] = value
	return false
}

func (s mapStrategy) Len() int { return len(s) }

func TestBackend_InjectableStrategy(t *testing.T) {
	b := New(mapStrategy{}, nil)

	b.Set("g1", []byte("test"))
	if data, ok := b.Get("g1"); !ok || string(data) != "test" {
		t.Error("injected strategy should serve cached records")
	}
}
