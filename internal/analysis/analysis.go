// Package analysis summarizes stored games: how each provider played, how
// often it needed the random fallback, how fast it answered and how games
// ended.
package analysis

import (
	"cmp"
	"slices"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/fen"
	"github.com/discochess/arena/internal/rules"
)

// ProviderStats aggregates the moves and games of one provider:model pair.
type ProviderStats struct {
	Identity string

	Games  int
	Wins   int
	Losses int
	Draws  int

	Moves        int
	Fallbacks    int
	FallbackRate float64
	Attempts     DescriptiveStats
	Latency      DescriptiveStats // milliseconds

	// MaterialEdge is the provider's material lead in points (1/3/3/5/9)
	// at the end of finished games.
	MaterialEdge DescriptiveStats

	// FallbackReasons counts the diagnostics that led to random moves.
	FallbackReasons map[string]int

	latencies []float64
}

// Report is the aggregate over a set of games.
type Report struct {
	Games         int
	ByStatus      map[arena.Status]int
	ByTermination map[arena.Termination]int
	ByWinner      map[arena.Winner]int
	Plies         DescriptiveStats

	// Providers is sorted by move count, then identity.
	Providers []*ProviderStats
}

// Analyze builds a report over games. Games that are still running count
// towards status totals and move statistics only.
func Analyze(games []*arena.Game) *Report {
	r := &Report{
		Games:         len(games),
		ByStatus:      make(map[arena.Status]int),
		ByTermination: make(map[arena.Termination]int),
		ByWinner:      make(map[arena.Winner]int),
	}

	byID := make(map[string]*ProviderStats)
	get := func(identity string) *ProviderStats {
		p, ok := byID[identity]
		if !ok {
			p = &ProviderStats{Identity: identity, FallbackReasons: make(map[string]int)}
			byID[identity] = p
		}
		return p
	}

	var plies []float64
	attempts := make(map[string][]float64)
	edges := make(map[string][]float64)
	for _, g := range games {
		r.ByStatus[g.Status]++

		white, black := get(g.White.Identity()), get(g.Black.Identity())
		white.Games++
		if black != white {
			black.Games++
		}

		for _, m := range g.Moves {
			side := white
			if m.Color == rules.Black {
				side = black
			}
			side.Moves++
			side.latencies = append(side.latencies, float64(m.LatencyMs))
			attempts[side.Identity] = append(attempts[side.Identity], float64(m.Attempts))
			if m.UsedFallback {
				side.Fallbacks++
				if m.FallbackReason != "" {
					side.FallbackReasons[m.FallbackReason]++
				}
			}
		}

		if g.Result == nil || !g.Status.Terminal() {
			continue
		}
		plies = append(plies, float64(len(g.Moves)))
		if m, err := fen.ParseMaterial(g.FEN); err == nil {
			edges[white.Identity] = append(edges[white.Identity], float64(m.Balance()))
			edges[black.Identity] = append(edges[black.Identity], float64(-m.Balance()))
		}
		r.ByTermination[g.Result.Termination]++
		r.ByWinner[g.Result.Winner]++
		switch g.Result.Winner {
		case arena.WinnerWhite:
			white.Wins++
			black.Losses++
		case arena.WinnerBlack:
			black.Wins++
			white.Losses++
		default:
			white.Draws++
			black.Draws++
		}
	}

	r.Plies = Describe(plies)
	for _, p := range byID {
		if p.Moves > 0 {
			p.FallbackRate = float64(p.Fallbacks) / float64(p.Moves)
		}
		p.Latency = Describe(p.latencies)
		p.Attempts = Describe(attempts[p.Identity])
		p.MaterialEdge = Describe(edges[p.Identity])
		r.Providers = append(r.Providers, p)
	}
	slices.SortFunc(r.Providers, func(a, b *ProviderStats) int {
		if c := cmp.Compare(b.Moves, a.Moves); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity, b.Identity)
	})
	return r
}

// LatencyComparison compares the move latencies of two providers.
type LatencyComparison struct {
	First, Second  string
	MannWhitney    MannWhitneyResult
	CohensD        float64
	Interpretation string

	// Faster is the provider with the lower mean latency when the
	// difference is significant, empty otherwise.
	Faster string
}

// CompareLatency compares the two providers with the most moves. It
// returns nil when fewer than two providers moved.
func (r *Report) CompareLatency() *LatencyComparison {
	if len(r.Providers) < 2 || r.Providers[1].Moves == 0 {
		return nil
	}
	a, b := r.Providers[0], r.Providers[1]

	c := &LatencyComparison{
		First:       a.Identity,
		Second:      b.Identity,
		MannWhitney: MannWhitneyU(a.latencies, b.latencies),
	}
	c.CohensD, c.Interpretation = CohensD(a.latencies, b.latencies)
	if c.MannWhitney.Significant {
		c.Faster = a.Identity
		if b.Latency.Mean < a.Latency.Mean {
			c.Faster = b.Identity
		}
	}
	return c
}
