package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/analysis"
	"github.com/discochess/arena/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize stored games per provider",
	Long: heredoc.Doc(`
		Summarize every stored game:
		- results by termination and winner
		- per provider: games, wins, moves, fallback rate, attempts
		- move latency mean, median, standard deviation and p90
		- whether the two busiest providers differ significantly in latency

		Records that cannot be read are reported on stderr and skipped.
	`),
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsMarkdown bool
	statsTitle    string
)

func init() {
	statsCmd.Flags().BoolVar(&statsMarkdown, "markdown", false, "render a Markdown report")
	statsCmd.Flags().StringVar(&statsTitle, "title", "Arena Report", "Markdown report title")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return withArena(cmd.Context(), func(ctx context.Context, cfg *config.Config, a *arena.Arena) error {
		games, err := a.Games(ctx)
		if games == nil && err != nil {
			return err
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}

		report := analysis.Analyze(games)
		out := cmd.OutOrStdout()
		if statsMarkdown {
			analysis.NewMarkdownReport(out).Write(statsTitle, report)
			return nil
		}
		printStats(out, cfg, report)
		return nil
	})
}

func printStats(w io.Writer, cfg *config.Config, r *analysis.Report) {
	fmt.Fprintf(w, "Store:    %s (%s)\n", cfg.Store, location(cfg))
	fmt.Fprintf(w, "Games:    %d\n", r.Games)
	if r.Games == 0 {
		fmt.Fprintln(w, "No games found. Run 'arena play' or 'arena serve' first.")
		return
	}
	for _, status := range slices.Sorted(maps.Keys(r.ByStatus)) {
		fmt.Fprintf(w, "  %-9s %d\n", status+":", r.ByStatus[status])
	}
	fmt.Fprintln(w)

	for _, p := range r.Providers {
		fmt.Fprintf(w, "%s\n", p.Identity)
		fmt.Fprintf(w, "  games %d, W/L/D %d/%d/%d\n", p.Games, p.Wins, p.Losses, p.Draws)
		fmt.Fprintf(w, "  moves %d, fallbacks %d (%.1f%%), avg attempts %.2f\n",
			p.Moves, p.Fallbacks, p.FallbackRate*100, p.Attempts.Mean)
		fmt.Fprintf(w, "  latency mean %.0fms, median %.0fms, stddev %.0fms\n",
			p.Latency.Mean, p.Latency.Median, p.Latency.StdDev)
	}
}

func location(cfg *config.Config) string {
	switch cfg.Store {
	case config.StoreDisk:
		return cfg.DataDir
	case config.StoreS3:
		return "s3://" + cfg.Bucket + "/" + cfg.Prefix
	case config.StoreGCS:
		return "gs://" + cfg.Bucket + "/" + cfg.Prefix
	default:
		return "process memory"
	}
}
