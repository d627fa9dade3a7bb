package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/arena"
	"github.com/discochess/arena/fx/arenafx"
	"github.com/discochess/arena/internal/config"
)

var (
	// Global flags.
	dataDir   string
	storeKind string
	codecName string
	envFile   string
	useXDG    bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Automated chess games between language models",
	Long: heredoc.Doc(`
		Arena plays chess games between move providers: OpenAI, Anthropic
		and Gemini models, or a random mover. Every ply is audited with the
		raw model output, the extracted move and whether a random fallback
		was needed. Finished games are stored for replay and analysis.

		Settings come from the environment and an optional .env file
		(PORT, ARENA_STORE, ARENA_DATA_DIR, OPENAI_API_KEY, ...). Flags
		override them.

		Examples:
		  # Serve the HTTP API and UI
		  arena serve --port 3000 --static ./public

		  # Play one game in the terminal
		  arena play --white openai --black mock-random

		  # Summarize stored games
		  arena stats --markdown > report.md
	`),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "directory for game records (default $ARENA_DATA_DIR or ./data/games)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "storage backend: disk, memory, s3, gcs (default $ARENA_STORE or disk)")
	rootCmd.PersistentFlags().StringVar(&codecName, "codec", "", "record compression: none, gzip, zstd (default $ARENA_CODEC or none)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load; missing files are ignored")
	rootCmd.PersistentFlags().BoolVar(&useXDG, "xdg", false, "keep records under $XDG_DATA_HOME/arena/games unless --data-dir is set")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	switch {
	case dataDir != "":
		cfg.DataDir = dataDir
	case useXDG:
		cfg.DataDir = filepath.Join(xdg.DataHome, "arena", "games")
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	if codecName != "" {
		cfg.Codec = codecName
	}
	return cfg, cfg.Validate()
}

// newLogger logs to stderr: everything when verbose, otherwise from level.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func fxLogger(log *zap.Logger) fxevent.Logger {
	if !verbose {
		return fxevent.NopLogger
	}
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}

// withArena starts an arena for the configured store, runs fn and stops
// it. Stopping waits for games fn started.
func withArena(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, a *arena.Arena) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(zapcore.WarnLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	var a *arena.Arena
	app := fx.New(
		fx.Supply(cfg, log),
		arenafx.Module,
		fx.Populate(&a),
		fx.WithLogger(fxLogger),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx, cfg, a)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
