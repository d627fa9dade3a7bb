// Package serverfx provides an fx module serving the arena HTTP routes.
package serverfx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/config"
	"github.com/discochess/arena/internal/server"
)

// Module provides the gin router and an *http.Server that listens on
// start and drains on stop. Requires a *config.Config, a *zap.Logger,
// an *arena.Arena and a prometheus.Gatherer; arenafx.Module provides the
// last two.
var Module = fx.Module("server",
	fx.Provide(
		newRouter,
		newServer,
	),
)

// RouterParams holds dependencies for creating the router.
type RouterParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Arena    *arena.Arena
	Gatherer prometheus.Gatherer
}

func newRouter(p RouterParams) *gin.Engine {
	opts := []server.Option{
		server.WithLogger(p.Logger),
		server.WithProviderDefaults(p.Config.Providers),
	}
	if p.Config.Metrics {
		opts = append(opts, server.WithMetrics(p.Gatherer))
	}
	if p.Config.StaticDir != "" {
		opts = append(opts, server.WithStaticDir(p.Config.StaticDir))
	}
	return server.NewRouter(p.Arena, opts...)
}

// Params holds dependencies for creating the server.
type Params struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Router    *gin.Engine
	Lifecycle fx.Lifecycle
}

func newServer(p Params) *http.Server {
	srv := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(p.Config.Port)),
		Handler: p.Router,
	}
	log := p.Logger.Named("server")

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("serve failed", zap.Error(err))
				}
			}()
			return nil
		},
		// Registered after the arena's hook, so it runs first: requests
		// drain before running games are awaited.
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
