// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/arena/internal/stats"
)

// LatencyBuckets are histogram buckets for metrics reported in milliseconds.
var LatencyBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000}

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are created and registered lazily on first use.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func (c *Collector) IncCounter(name string, delta int64) {
	lookup(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: stats.Help(name)})
	}).Add(float64(delta))
}

func (c *Collector) SetGauge(name string, value int64) {
	c.gauge(name).Set(float64(value))
}

func (c *Collector) AddGauge(name string, delta int64) {
	c.gauge(name).Add(float64(delta))
}

func (c *Collector) ObserveHistogram(name string, value float64) {
	lookup(c, c.histograms, name, func() prometheus.Histogram {
		buckets := prometheus.DefBuckets
		if strings.HasSuffix(name, "_ms") {
			buckets = LatencyBuckets
		}
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    stats.Help(name),
			Buckets: buckets,
		})
	}).Observe(value)
}

func (c *Collector) gauge(name string) prometheus.Gauge {
	return lookup(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: stats.Help(name)})
	})
}

// lookup returns the metric cached under name, creating and registering it
// on first use. A metric already present in the registry is reused.
func lookup[M prometheus.Collector](c *Collector, cache map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := cache[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if m, ok = cache[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
		// Otherwise the unregistered metric still works, it is just not exported.
	}
	cache[name] = m
	return m
}
