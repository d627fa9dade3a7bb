package arena

import (
	"go.uber.org/zap"

	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/rules"
	"github.com/discochess/arena/internal/rules/notnilrules"
	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/store"
)

// Option configures an Arena.
type Option interface {
	apply(*options)
}

// options holds the arena configuration.
type options struct {
	store   store.Store
	gateway *provider.Gateway
	rules   rules.Factory
	stats   stats.Collector
	logger  *zap.Logger
	seed    *uint64
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		gateway: provider.NewGateway(),
		rules:   notnilrules.Factory,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the backend finished games are persisted to. Required.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithGateway sets the provider gateway.
// If not set, only mock-random sides can produce moves.
func WithGateway(g *provider.Gateway) Option {
	return optionFunc(func(o *options) {
		o.gateway = g
	})
}

// WithRules sets the rules engine factory.
// If not set, github.com/notnil/chess is used.
func WithRules(f rules.Factory) Option {
	return optionFunc(func(o *options) {
		o.rules = f
	})
}

// WithStats sets the stats collector for metrics.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithSeed makes random move selection reproducible: the n-th game started
// draws from a source seeded with (seed, n).
func WithSeed(seed uint64) Option {
	return optionFunc(func(o *options) {
		o.seed = &seed
	})
}
