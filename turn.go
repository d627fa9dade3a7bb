package arena

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/arena/internal/extract"
	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/resolve"
	"github.com/discochess/arena/internal/rules"
	"github.com/discochess/arena/internal/stats"
)

// defaultFallbackReason is recorded when every attempt was spent without
// any diagnostic being captured.
const defaultFallbackReason = "no legal move from provider, random legal move substituted"

// turnState is a state of the per-ply state machine.
type turnState int

const (
	stateRequesting turnState = iota
	stateExtracting
	stateResolving
	stateRetrying
	stateFallback
	stateApplied
)

func (s turnState) String() string {
	switch s {
	case stateRequesting:
		return "requesting"
	case stateExtracting:
		return "extracting"
	case stateResolving:
		return "resolving"
	case stateRetrying:
		return "retrying"
	case stateFallback:
		return "fallback"
	case stateApplied:
		return "applied"
	default:
		return fmt.Sprintf("turnState(%d)", int(s))
	}
}

// turn is the input of one ply.
type turn struct {
	side     SideConfig
	request  provider.Request
	legal    []rules.Move
	attempts int // retry budget, at least 1
}

// turnOutcome is a resolved legal move plus its audit trail.
type turnOutcome struct {
	move           rules.Move
	raw            string
	token          string
	usedFallback   bool
	fallbackReason string
	attempts       int
}

// orchestrator drives the Requesting → Extracting → Resolving state machine
// for the plies of one game.
type orchestrator struct {
	gateway *provider.Gateway
	stats   stats.Collector
	logger  *zap.Logger
	rng     *rand.Rand
}

// play always returns a move from t.legal, which must not be empty.
// Provider failures and unresolvable tokens consume attempts; once the
// budget is spent a uniformly random legal move is substituted.
func (o *orchestrator) play(ctx context.Context, t turn) turnOutcome {
	var (
		out      turnOutcome
		reason   string
		resolver = resolve.New(t.legal)
		mock     = strings.EqualFold(t.side.Provider, provider.KindMockRandom)
		state    = stateRequesting
	)

	for {
		switch state {
		case stateRequesting:
			out.attempts++
			o.stats.IncCounter(stats.MetricProviderAttempts, 1)

			// A mock-random move is itself the fallback source, so it is
			// flagged as one but carries no diagnostic.
			if mock {
				out.raw = provider.KindMockRandom
				out.token = t.legal[o.rng.IntN(len(t.legal))].UCI()
				out.usedFallback = true
				state = stateResolving
				continue
			}

			resp, err := o.gateway.Invoke(ctx, t.side, t.request)
			if err != nil {
				reason = err.Error()
				state = stateRetrying
				continue
			}
			out.raw = resp.Text
			state = stateExtracting

		case stateExtracting:
			out.token = extract.Token(out.raw)
			state = stateResolving

		case stateResolving:
			m, err := resolver.Resolve(out.token)
			if err != nil {
				reason = fmt.Sprintf("illegal move token %q", out.token)
				state = stateRetrying
				continue
			}
			out.move = m
			state = stateApplied

		case stateRetrying:
			o.stats.IncCounter(stats.MetricProviderFailures, 1)
			o.logger.Debug("attempt failed",
				zap.Int("ply", t.request.Ply),
				zap.Int("attempt", out.attempts),
				zap.String("provider", t.side.Provider),
				zap.String("reason", reason),
			)
			if out.attempts >= t.attempts {
				state = stateFallback
				continue
			}
			state = stateRequesting

		case stateFallback:
			if reason == "" {
				reason = defaultFallbackReason
			}
			out.move = t.legal[o.rng.IntN(len(t.legal))]
			out.usedFallback = true
			out.fallbackReason = reason
			o.stats.IncCounter(stats.MetricFallbacks, 1)
			o.logger.Warn("random fallback move",
				zap.Int("ply", t.request.Ply),
				zap.String("provider", t.side.Provider),
				zap.String("move", out.move.UCI()),
				zap.String("reason", reason),
			)
			return out

		case stateApplied:
			// A diagnostic from an earlier failed attempt is kept for the record.
			out.fallbackReason = reason
			return out
		}
	}
}
