// Package memoryarenafx provides an fx module for an arena backed by an
// in-memory store. Useful for testing.
package memoryarenafx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/stats/logger"
	"github.com/discochess/arena/internal/store/memstore"
)

// Module provides an in-memory arena for testing. Providers other than
// mock-random are unsupported and fall back to random moves.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryarena",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newArena,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("arena.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the arena.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided arena and store.
type Result struct {
	fx.Out

	Arena *arena.Arena
	Store *memstore.Store // Exposed for test setup
}

func newArena(p Params) (Result, error) {
	a, err := arena.New(
		arena.WithStore(p.Store),
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

	return Result{
		Arena: a,
		Store: p.Store,
	}, nil
}
