package analysis

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// maxReasons bounds the fallback reasons listed per provider.
const maxReasons = 5

// MarkdownReport renders reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// Write renders every section of r.
func (m *MarkdownReport) Write(title string, r *Report) {
	m.WriteHeader(title, r)
	m.WriteResults(r)
	m.WriteProviders(r)
	m.WriteLatencyComparison(r.CompareLatency())
	m.WriteFallbackReasons(r)
}

// WriteHeader writes the report header.
func (m *MarkdownReport) WriteHeader(title string, r *Report) {
	fmt.Fprintf(m.w, "# %s\n\n", title)
	fmt.Fprintf(m.w, "Generated: %s\n\n", m.now().Format(time.RFC3339))
	fmt.Fprintf(m.w, "- **Games:** %d\n", r.Games)
	for _, s := range sortedKeys(r.ByStatus) {
		fmt.Fprintf(m.w, "- **%s:** %d\n", s, r.ByStatus[s])
	}
	if r.Plies.N > 0 {
		fmt.Fprintf(m.w, "- **Plies per finished game:** mean %.1f, median %.0f, max %.0f\n",
			r.Plies.Mean, r.Plies.Median, r.Plies.Max)
	}
	fmt.Fprintln(m.w)
}

// WriteResults writes winner and termination tallies.
func (m *MarkdownReport) WriteResults(r *Report) {
	if len(r.ByTermination) == 0 {
		return
	}
	fmt.Fprintln(m.w, "## Results")
	fmt.Fprintln(m.w)
	fmt.Fprintln(m.w, "| Termination | Games |")
	fmt.Fprintln(m.w, "|-------------|-------|")
	for _, t := range sortedKeys(r.ByTermination) {
		fmt.Fprintf(m.w, "| %s | %d |\n", t, r.ByTermination[t])
	}
	fmt.Fprintln(m.w)
	fmt.Fprintln(m.w, "| Winner | Games |")
	fmt.Fprintln(m.w, "|--------|-------|")
	for _, w := range sortedKeys(r.ByWinner) {
		fmt.Fprintf(m.w, "| %s | %d |\n", w, r.ByWinner[w])
	}
	fmt.Fprintln(m.w)
}

// WriteProviders writes the per-provider table.
func (m *MarkdownReport) WriteProviders(r *Report) {
	fmt.Fprintln(m.w, "## Providers")
	fmt.Fprintln(m.w)
	if len(r.Providers) == 0 {
		fmt.Fprintln(m.w, "No games recorded.")
		fmt.Fprintln(m.w)
		return
	}
	fmt.Fprintln(m.w, "| Provider | Games | W/L/D | Moves | Fallback Rate | Avg Attempts | Latency Mean (ms) | Median | Std Dev | P90 | Material Edge |")
	fmt.Fprintln(m.w, "|----------|-------|-------|-------|---------------|--------------|-------------------|--------|---------|-----|---------------|")
	for _, p := range r.Providers {
		fmt.Fprintf(m.w, "| %s | %d | %d/%d/%d | %d | %.1f%% | %.2f | %.0f | %.0f | %.0f | %.0f | %+.1f |\n",
			p.Identity, p.Games, p.Wins, p.Losses, p.Draws, p.Moves, p.FallbackRate*100,
			p.Attempts.Mean, p.Latency.Mean, p.Latency.Median, p.Latency.StdDev, p.Latency.P90,
			p.MaterialEdge.Mean)
	}
	fmt.Fprintln(m.w)
}

// WriteLatencyComparison writes the latency test between the two busiest
// providers. A nil comparison writes nothing.
func (m *MarkdownReport) WriteLatencyComparison(c *LatencyComparison) {
	if c == nil {
		return
	}
	fmt.Fprintf(m.w, "## Latency: %s vs %s\n\n", c.First, c.Second)
	fmt.Fprintf(m.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		c.MannWhitney.U, c.MannWhitney.Z, c.MannWhitney.PValue)
	fmt.Fprintf(m.w, "- **Effect size (Cohen's d):** %.2f (%s)\n", c.CohensD, c.Interpretation)
	fmt.Fprintln(m.w)
	if c.Faster != "" {
		fmt.Fprintf(m.w, "**%s** answers significantly faster (p < 0.05).\n", c.Faster)
	} else {
		fmt.Fprintln(m.w, "No statistically significant latency difference (p >= 0.05).")
	}
	fmt.Fprintln(m.w)
}

// WriteFallbackReasons lists the most frequent fallback diagnostics.
func (m *MarkdownReport) WriteFallbackReasons(r *Report) {
	var wrote bool
	for _, p := range r.Providers {
		if p.Fallbacks == 0 {
			continue
		}
		if !wrote {
			fmt.Fprintln(m.w, "## Fallback Reasons")
			fmt.Fprintln(m.w)
			wrote = true
		}
		fmt.Fprintf(m.w, "### %s\n\n", p.Identity)

		reasons := slices.Collect(maps.Keys(p.FallbackReasons))
		slices.SortFunc(reasons, func(a, b string) int {
			if c := cmp.Compare(p.FallbackReasons[b], p.FallbackReasons[a]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for _, reason := range reasons[:min(len(reasons), maxReasons)] {
			fmt.Fprintf(m.w, "- %d × %s\n", p.FallbackReasons[reason], oneLine(reason))
		}
		fmt.Fprintln(m.w)
	}
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(none)"
	}
	if len(s) > 120 {
		return s[:117] + "..."
	}
	return s
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
