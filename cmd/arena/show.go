package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show the summary of a stored game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var replayCmd = &cobra.Command{
	Use:   "replay <game-id>",
	Short: "List every ply of a stored game",
	Long: heredoc.Doc(`
		List every ply of a stored game: the move, who played it, how
		long the provider took, and whether the move came from the model
		or from the random fallback (with the reason).
	`),
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored games, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	showJSON  bool
	listLimit int
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	replayCmd.Flags().BoolVar(&showJSON, "json", false, "output the full record as JSON")
	listCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", arena.DefaultListLimit, "maximum number of games")
	rootCmd.AddCommand(showCmd, replayCmd, listCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return withArena(cmd.Context(), func(ctx context.Context, _ *config.Config, a *arena.Arena) error {
		s, err := a.Summary(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showJSON {
			return writeJSON(out, s)
		}

		fmt.Fprintf(out, "Game:     %s\n", s.ID)
		fmt.Fprintf(out, "Created:  %s\n", s.CreatedAt.Format(time.RFC3339))
		if s.StartedAt != nil && s.FinishedAt != nil {
			fmt.Fprintf(out, "Duration: %s\n", s.FinishedAt.Sub(*s.StartedAt).Round(time.Millisecond))
		}
		fmt.Fprintf(out, "White:    %s (%s)\n", s.White.Name, s.White.Provider)
		fmt.Fprintf(out, "Black:    %s (%s)\n", s.Black.Name, s.Black.Provider)
		fmt.Fprintf(out, "Status:   %s\n", s.Status)
		fmt.Fprintf(out, "Plies:    %d / %d\n", s.MoveCount, s.MaxPlies)
		if s.Result != nil {
			fmt.Fprintf(out, "Result:   %s (%s)\n", s.Result.Winner, s.Result.Termination)
		}
		fmt.Fprintf(out, "FEN:      %s\n", s.FEN)
		return nil
	})
}

func runReplay(cmd *cobra.Command, args []string) error {
	return withArena(cmd.Context(), func(ctx context.Context, _ *config.Config, a *arena.Arena) error {
		g, err := a.Replay(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showJSON {
			return writeJSON(out, g)
		}
		printReplay(out, g)
		return nil
	})
}

func printReplay(w io.Writer, g *arena.Game) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLY\tSIDE\tMOVE\tUCI\tPROVIDER\tTRIES\tLATENCY\tSOURCE")
	for _, m := range g.Moves {
		source := "model"
		if m.UsedFallback && m.FallbackReason == "" {
			source = "random"
		} else if m.UsedFallback {
			source = "fallback: " + oneLine(m.FallbackReason, 60)
		} else if m.FallbackReason != "" {
			source = "model after: " + oneLine(m.FallbackReason, 60)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%dms\t%s\n",
			m.Ply, m.Color, m.MoveSAN, m.MoveUCI, m.Provider, m.Attempts, m.LatencyMs, source)
	}
	tw.Flush()

	if g.Result != nil {
		fmt.Fprintf(w, "\nResult: %s (%s)\n", g.Result.Winner, g.Result.Termination)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	return withArena(cmd.Context(), func(ctx context.Context, _ *config.Config, a *arena.Arena) error {
		games, err := a.List(ctx, listLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showJSON {
			return writeJSON(out, games)
		}
		if len(games) == 0 {
			fmt.Fprintln(out, "No games found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tWHITE\tBLACK\tSTATUS\tPLIES\tRESULT")
		for _, s := range games {
			result := "-"
			if s.Result != nil {
				result = fmt.Sprintf("%s (%s)", s.Result.Winner, s.Result.Termination)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				s.ID, s.CreatedAt.Format(time.DateTime), s.White.Name, s.Black.Name, s.Status, s.MoveCount, result)
		}
		return tw.Flush()
	})
}

// oneLine collapses whitespace and truncates s to n runes.
func oneLine(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
