// Package arenafx provides an fx module for an arena configured from
// *config.Config: store backend, codec, read cache, metrics and providers.
package arenafx

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/codec"
	"github.com/discochess/arena/internal/config"
	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/provider/anthropic"
	"github.com/discochess/arena/internal/provider/gemini"
	"github.com/discochess/arena/internal/provider/openai"
	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/stats/logger"
	promstats "github.com/discochess/arena/internal/stats/prometheus"
	"github.com/discochess/arena/internal/store"
	"github.com/discochess/arena/internal/store/cachedstore"
	"github.com/discochess/arena/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/arena/internal/store/cachedstore/memory"
	"github.com/discochess/arena/internal/store/diskstore"
	"github.com/discochess/arena/internal/store/gcsstore"
	"github.com/discochess/arena/internal/store/memstore"
	"github.com/discochess/arena/internal/store/s3store"
)

// Module provides an *arena.Arena, its store.Store, a stats.Collector and
// the prometheus.Gatherer metrics are registered with.
// Requires a *config.Config and a *zap.Logger to be provided.
var Module = fx.Module("arena",
	fx.Provide(
		newMetrics,
		newStore,
		NewGateway,
		newArena,
	),
)

// Metrics holds the provided collector and registry.
type Metrics struct {
	fx.Out

	Collector stats.Collector
	Gatherer  prometheus.Gatherer
}

// newMetrics records to a private Prometheus registry when metrics are
// enabled and to debug logs otherwise.
func newMetrics(cfg *config.Config, log *zap.Logger) Metrics {
	reg := prometheus.NewRegistry()
	if !cfg.Metrics {
		return Metrics{Collector: logger.New(log.Named("arena.stats")), Gatherer: reg}
	}
	return Metrics{Collector: promstats.New(reg), Gatherer: reg}
}

// NewGateway returns a gateway that knows every network provider kind.
func NewGateway() *provider.Gateway {
	return provider.NewGateway(openai.New(), anthropic.New(), gemini.New())
}

// StoreParams holds dependencies for creating the store.
type StoreParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Collector stats.Collector
}

func newStore(p StoreParams) (store.Store, error) {
	return NewStore(context.Background(), p.Config, p.Collector, p.Logger)
}

// NewStore opens the backend selected by cfg. Persistent backends are
// wrapped in an LRU read cache unless cfg.CacheSize is zero.
func NewStore(ctx context.Context, cfg *config.Config, collector stats.Collector, log *zap.Logger) (store.Store, error) {
	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}

	var base store.Store
	switch cfg.Store {
	case config.StoreMemory:
		base = memstore.New()
	case config.StoreDisk:
		base, err = diskstore.New(cfg.DataDir, c)
	case config.StoreS3:
		opts := []s3store.Option{s3store.WithPrefix(cfg.Prefix)}
		if cfg.S3Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3Region))
		}
		if cfg.S3Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.S3Endpoint))
		}
		base, err = s3store.New(ctx, cfg.Bucket, c, opts...)
	case config.StoreGCS:
		opts := []gcsstore.Option{gcsstore.WithPrefix(cfg.Prefix)}
		if cfg.GCSEndpoint != "" {
			opts = append(opts, gcsstore.WithEndpoint(cfg.GCSEndpoint))
		}
		base, err = gcsstore.New(ctx, cfg.Bucket, c, opts...)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}

	log.Info("store opened",
		zap.String("store", cfg.Store),
		zap.String("codec", cfg.Codec),
		zap.Int("cacheSize", cfg.CacheSize),
	)

	if cfg.Store == config.StoreMemory || cfg.CacheSize == 0 {
		return base, nil
	}
	strategy, err := lru.New(cfg.CacheSize)
	if err != nil {
		base.Close()
		return nil, err
	}
	return cachedstore.New(base, memory.New(strategy, collector)), nil
}

// Params holds dependencies for creating the arena.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     store.Store
	Gateway   *provider.Gateway
	Lifecycle fx.Lifecycle
}

// Result holds the provided arena.
type Result struct {
	fx.Out

	Arena *arena.Arena
}

func newArena(p Params) (Result, error) {
	a, err := arena.New(
		arena.WithStore(p.Store),
		arena.WithGateway(p.Gateway),
		arena.WithStats(p.Collector),
		arena.WithLogger(p.Logger.Named("arena")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close()
		},
	})

	return Result{Arena: a}, nil
}
