package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/arena/fx/arenafx"
	"github.com/discochess/arena/fx/serverfx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API, metrics and UI",
	Long: heredoc.Doc(`
		Serve the arena over HTTP until interrupted.

		Routes:
		  GET  /api/health
		  POST /api/game/start
		  GET  /api/game/:id
		  GET  /api/game/:id/replay
		  GET  /api/games
		  GET  /metrics            (unless --metrics=false)

		With --static, files from that directory are served and unknown
		routes fall back to its index.html.

		On interrupt the server stops accepting requests, running games
		finish and are stored, then the process exits.
	`),
	RunE: runServe,
}

var (
	port            int
	staticDir       string
	metrics         bool
	shutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default $PORT or 3000)")
	serveCmd.Flags().StringVar(&staticDir, "static", "", "directory with the web UI (default $ARENA_STATIC_DIR)")
	serveCmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Minute, "how long to wait for running games on interrupt")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics = metrics
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(zapcore.InfoLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	app := fx.New(
		fx.Supply(cfg, log),
		arenafx.Module,
		serverfx.Module,
		fx.Invoke(func(*http.Server) {}),
		fx.WithLogger(fxLogger),
		fx.StopTimeout(shutdownTimeout),
	)

	startCtx, cancel := context.WithTimeout(cmd.Context(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Done()
	log.Info("shutting down", zap.String("signal", sig.String()))

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
