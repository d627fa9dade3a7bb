// Package server exposes the arena over HTTP: starting games, status and
// replay lookups, listings, metrics and an optional static UI.
package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/provider"
)

// Service is the part of *arena.Arena the routes need.
type Service interface {
	StartGame(ctx context.Context, req arena.GameRequest) (*arena.Summary, error)
	Summary(ctx context.Context, id string) (*arena.Summary, error)
	Replay(ctx context.Context, id string) (*arena.Game, error)
	List(ctx context.Context, limit int) ([]arena.Summary, error)
}

// Compile-time check that *arena.Arena implements Service.
var _ Service = (*arena.Arena)(nil)

// Option configures the router.
type Option interface {
	apply(*options)
}

type options struct {
	logger    *zap.Logger
	defaults  map[string]provider.Defaults
	gatherer  prometheus.Gatherer
	staticDir string
}

func defaultOptions() options {
	return options{
		logger:   zap.NewNop(),
		defaults: provider.Builtin(),
	}
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = logger
	})
}

// WithProviderDefaults sets the per-provider credentials, endpoints and models
// used for fields a start request leaves empty.
func WithProviderDefaults(defaults map[string]provider.Defaults) Option {
	return optionFunc(func(o *options) {
		o.defaults = defaults
	})
}

// WithMetrics serves the gatherer's metrics on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return optionFunc(func(o *options) {
		o.gatherer = g
	})
}

// WithStaticDir serves a UI from dir; unknown GET routes get its index.html.
func WithStaticDir(dir string) Option {
	return optionFunc(func(o *options) {
		o.staticDir = dir
	})
}

// handler holds the route dependencies.
type handler struct {
	svc      Service
	defaults map[string]provider.Defaults
	logger   *zap.Logger
}

// NewRouter builds the HTTP router for svc.
func NewRouter(svc Service, opts ...Option) *gin.Engine {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	h := &handler{svc: svc, defaults: cfg.defaults, logger: cfg.logger}

	router := gin.New()
	router.Use(requestLogger(cfg.logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	api := router.Group("/api")
	api.GET("/health", h.health)
	api.POST("/game/start", h.startGame)
	api.GET("/game/:id", h.gameSummary)
	api.GET("/game/:id/replay", h.replay)
	api.GET("/games", h.listGames)

	if cfg.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(staticFallback(cfg.staticDir))

	return router
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
