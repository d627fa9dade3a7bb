package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/rules"
	"github.com/discochess/arena/internal/stats"
)

// run owns the game in e from start to persistence. It is the only writer
// of the entry.
func (a *Arena) run(ctx context.Context, e *entry, engine rules.Engine, rng *rand.Rand) {
	defer a.running.Done()

	// Configuration fields are never written after creation.
	g := e.game
	logger := a.logger.With(zap.String("game", g.ID))

	a.stats.AddGauge(stats.MetricGamesRunning, 1)
	defer a.stats.AddGauge(stats.MetricGamesRunning, -1)

	started := time.Now().UTC()
	e.update(func(g *Game) {
		g.Status = StatusRunning
		g.StartedAt = &started
		g.FEN = engine.FEN()
		g.Snapshots = append(g.Snapshots, Snapshot{Ply: 0, FEN: g.FEN, Note: "initial"})
	})

	o := &orchestrator{
		gateway: a.gateway,
		stats:   a.stats,
		logger:  logger,
		rng:     rng,
	}
	result, err := a.play(ctx, e, engine, o)
	pgn := safePGN(engine)

	finished := time.Now().UTC()
	e.update(func(g *Game) {
		g.FinishedAt = &finished
		g.PGN = pgn
		if err != nil {
			g.Status = StatusError
			r := engineErrorResult(err)
			g.Result = &r
			return
		}
		g.Status = StatusFinished
		g.Result = &result
	})

	if err != nil {
		a.stats.IncCounter(stats.MetricGamesErrored, 1)
		logger.Error("game aborted", zap.Error(fmt.Errorf("%w: %w", ErrEngine, err)))
	} else {
		a.stats.IncCounter(stats.MetricGamesFinished, 1)
		logger.Info("game finished",
			zap.String("winner", string(result.Winner)),
			zap.String("termination", string(result.Termination)),
		)
	}

	a.persist(ctx, e, logger)
}

// play drives plies until the position is terminal or the ply cap is hit.
// An error means the rules engine failed; moves played so far are kept.
func (a *Arena) play(ctx context.Context, e *entry, engine rules.Engine, o *orchestrator) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rules engine panic: %v", r)
		}
	}()

	g := e.game
	timeLimit := time.Duration(g.MoveTimeLimitMs) * time.Millisecond

	// With no move played, a mate is credited to the side not to move.
	mover := engine.Turn().Other()
	for ply := 1; ; ply++ {
		if st := engine.Status(); st.Over() {
			return classify(st, mover), nil
		}
		if ply > g.MaxPlies {
			return maxPliesResult(g.MaxPlies), nil
		}

		color := engine.Turn()
		side, opponent := g.Side(color), g.Side(color.Other())
		legal := engine.LegalMoves()
		if len(legal) == 0 {
			return Result{}, errors.New("no legal moves in a position not reported as terminal")
		}
		fenBefore := engine.FEN()

		req := provider.Request{
			Color:     string(color),
			FEN:       fenBefore,
			LegalUCI:  make([]string, len(legal)),
			LegalSAN:  make([]string, len(legal)),
			Ply:       ply,
			Opponent:  opponent.Identity(),
			TimeLimit: timeLimit,
		}
		if ply > 1 {
			req.PGN = engine.PGN()
		}
		for i, m := range legal {
			req.LegalUCI[i] = m.UCI()
			req.LegalSAN[i] = m.SAN
		}

		begin := time.Now()
		out := o.play(ctx, turn{side: side, request: req, legal: legal, attempts: g.MaxRetries})

		san, err := engine.Apply(out.move)
		if err != nil {
			return Result{}, fmt.Errorf("applying %s at ply %d: %w", out.move.UCI(), ply, err)
		}
		fenAfter := engine.FEN()
		latency := time.Since(begin)

		rec := MoveRecord{
			Ply:            ply,
			Color:          color,
			Provider:       side.Provider,
			Model:          side.Model,
			MoveUCI:        out.move.UCI(),
			MoveSAN:        san,
			FENBefore:      fenBefore,
			FENAfter:       fenAfter,
			LegalUCI:       req.LegalUCI,
			RawModelOutput: out.raw,
			ExtractedToken: out.token,
			UsedFallback:   out.usedFallback,
			FallbackReason: out.fallbackReason,
			Attempts:       out.attempts,
			LatencyMs:      latency.Milliseconds(),
			Timestamp:      time.Now().UTC(),
		}
		e.update(func(g *Game) {
			g.Moves = append(g.Moves, rec)
			g.Snapshots = append(g.Snapshots, Snapshot{Ply: ply, FEN: fenAfter, SAN: san})
			g.FEN = fenAfter
		})
		a.stats.ObserveHistogram(stats.MetricMoveLatency, float64(latency.Milliseconds()))

		mover = color
	}
}

// safePGN serializes the move history even if the engine is broken.
func safePGN(engine rules.Engine) (pgn string) {
	defer func() {
		if recover() != nil {
			pgn = ""
		}
	}()
	return engine.PGN()
}
