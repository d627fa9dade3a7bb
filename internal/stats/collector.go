// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names emitted by the arena.
const (
	// Game lifecycle metrics.
	MetricGamesStarted  = "arena_games_started_total"
	MetricGamesFinished = "arena_games_finished_total"
	MetricGamesErrored  = "arena_games_errored_total"
	MetricGamesRunning  = "arena_games_running"

	// Provider metrics.
	MetricProviderAttempts = "arena_provider_attempts_total"
	MetricProviderFailures = "arena_provider_failures_total"
	MetricFallbacks        = "arena_fallbacks_total"
	MetricMoveLatency      = "arena_move_latency_ms"

	// Record cache metrics.
	MetricCacheHits   = "arena_cache_hits_total"
	MetricCacheMisses = "arena_cache_misses_total"
	MetricCacheSize   = "arena_cache_size"
)

var help = map[string]string{
	MetricGamesStarted:     "Games accepted by the arena.",
	MetricGamesFinished:    "Games that reached a terminal position or the ply cap.",
	MetricGamesErrored:     "Games aborted by a rules engine failure.",
	MetricGamesRunning:     "Games currently being played.",
	MetricProviderAttempts: "Provider invocations, including retries.",
	MetricProviderFailures: "Attempts that did not yield a legal move.",
	MetricFallbacks:        "Moves substituted with a random legal move.",
	MetricMoveLatency:      "Wall time per ply in milliseconds.",
	MetricCacheHits:        "Game record cache hits.",
	MetricCacheMisses:      "Game record cache misses.",
	MetricCacheSize:        "Game records held in the cache.",
}

// Help returns the description of a known metric, or the name itself.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// AddGauge adjusts a gauge metric by delta.
	AddGauge(name string, delta int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
