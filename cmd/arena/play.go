package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/config"
	"github.com/discochess/arena/internal/provider"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game and print the result",
	Long: heredoc.Doc(`
		Play one game in this process, wait for it to finish and print the
		result and PGN. The record is stored like games started over HTTP.

		Provider kinds are openai, anthropic, gemini and mock-random.
		Credentials, endpoints and default models come from the
		environment (OPENAI_API_KEY, ANTHROPIC_MODEL, ...).

		Examples:
		  # Two random movers
		  arena play --white mock-random --black mock-random

		  # A model against itself from a given position
		  arena play --white openai --black openai --fen "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1"
	`),
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var (
	whiteKind  string
	whiteModel string
	blackKind  string
	blackModel string
	startFEN   string
	playPlies  int
	playTries  int
	moveTime   time.Duration
	playJSON   bool
)

func init() {
	playCmd.Flags().StringVar(&whiteKind, "white", provider.KindMockRandom, "white provider kind")
	playCmd.Flags().StringVar(&whiteModel, "white-model", "", "white model (default from environment)")
	playCmd.Flags().StringVar(&blackKind, "black", provider.KindMockRandom, "black provider kind")
	playCmd.Flags().StringVar(&blackModel, "black-model", "", "black model (default from environment)")
	playCmd.Flags().StringVar(&startFEN, "fen", "", "starting position (default standard)")
	playCmd.Flags().IntVar(&playPlies, "max-plies", arena.DefaultMaxPlies, "ply cap")
	playCmd.Flags().IntVar(&playTries, "max-retries", arena.DefaultMaxRetries, "attempts per ply before a random move")
	playCmd.Flags().DurationVar(&moveTime, "move-time", arena.DefaultMoveTimeLimit, "time limit per provider attempt")
	playCmd.Flags().BoolVar(&playJSON, "json", false, "print the full game record as JSON")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	return withArena(cmd.Context(), func(ctx context.Context, cfg *config.Config, a *arena.Arena) error {
		req := arena.GameRequest{
			White:         provider.Normalize(provider.Side{Provider: whiteKind, Model: whiteModel}, cfg.Providers, provider.KindMockRandom),
			Black:         provider.Normalize(provider.Side{Provider: blackKind, Model: blackModel}, cfg.Providers, provider.KindMockRandom),
			StartFEN:      startFEN,
			MaxPlies:      playPlies,
			MaxRetries:    playTries,
			MoveTimeLimit: moveTime,
		}
		summary, err := a.StartGame(ctx, req)
		if err != nil {
			return err
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = cmd.ErrOrStderr()
		s.Suffix = fmt.Sprintf(" %s vs %s", req.White.Name, req.Black.Name)
		s.Start()
		g, err := waitWithProgress(ctx, a, summary.ID, s)
		s.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if playJSON {
			return writeJSON(out, g)
		}
		printResult(out, g)
		return nil
	})
}

// waitWithProgress waits for the game while showing the ply count.
func waitWithProgress(ctx context.Context, a *arena.Arena, id string, s *spinner.Spinner) (*arena.Game, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(250 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if sum, err := a.Summary(ctx, id); err == nil {
					s.Lock()
					s.Prefix = fmt.Sprintf("ply %d ", sum.MoveCount)
					s.Unlock()
				}
			}
		}
	}()
	return a.Wait(ctx, id)
}

func printResult(w io.Writer, g *arena.Game) {
	fmt.Fprintf(w, "Game:    %s\n", g.ID)
	fmt.Fprintf(w, "White:   %s\n", g.White.Name)
	fmt.Fprintf(w, "Black:   %s\n", g.Black.Name)
	fmt.Fprintf(w, "Status:  %s\n", g.Status)
	if g.Result != nil {
		fmt.Fprintf(w, "Result:  %s (%s)\n", g.Result.Winner, g.Result.Termination)
		if g.Result.Reason != "" {
			fmt.Fprintf(w, "Reason:  %s\n", g.Result.Reason)
		}
	}
	fallbacks := 0
	for _, m := range g.Moves {
		if m.UsedFallback {
			fallbacks++
		}
	}
	fmt.Fprintf(w, "Plies:   %d (%d random fallbacks)\n", len(g.Moves), fallbacks)
	if g.PGN != "" {
		fmt.Fprintf(w, "\n%s\n", g.PGN)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
