package analysis

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DescriptiveStats contains basic descriptive statistics.
type DescriptiveStats struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P90    float64
}

// Describe computes descriptive statistics for a sample.
func Describe(sample []float64) DescriptiveStats {
	if len(sample) == 0 {
		return DescriptiveStats{}
	}

	sorted := slices.Clone(sample)
	sort.Float64s(sorted)

	d := DescriptiveStats{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
	// StdDev is NaN for a single observation.
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// MannWhitneyResult contains the result of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U           float64
	Z           float64 // normal approximation
	PValue      float64 // two-tailed
	Significant bool    // p < 0.05
}

// MannWhitneyU tests whether two samples come from different
// distributions without assuming normality.
func MannWhitneyU(sample1, sample2 []float64) MannWhitneyResult {
	n1, n2 := float64(len(sample1)), float64(len(sample2))
	if n1 == 0 || n2 == 0 {
		return MannWhitneyResult{PValue: 1}
	}

	type ranked struct {
		value float64
		first bool
	}
	combined := make([]ranked, 0, len(sample1)+len(sample2))
	for _, v := range sample1 {
		combined = append(combined, ranked{v, true})
	}
	for _, v := range sample2 {
		combined = append(combined, ranked{v, false})
	}
	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Ties share their average rank.
	var r1 float64
	for i := 0; i < len(combined); {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if combined[k].first {
				r1 += rank
			}
		}
		i = j
	}

	u1 := r1 - n1*(n1+1)/2
	u := math.Min(u1, n1*n2-u1)

	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12)
	var z float64
	if sigma > 0 {
		z = (u - mu) / sigma
	}
	p := 2 * normalCDF(-math.Abs(z))

	return MannWhitneyResult{U: u, Z: z, PValue: p, Significant: p < 0.05}
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// CohensD returns the standardized mean difference of two samples and its
// conventional interpretation.
func CohensD(sample1, sample2 []float64) (float64, string) {
	if len(sample1) < 2 || len(sample2) < 2 {
		return 0, "undefined"
	}
	n1, n2 := float64(len(sample1)), float64(len(sample2))
	v1, v2 := stat.Variance(sample1, nil), stat.Variance(sample2, nil)
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))

	var d float64
	if pooled > 0 {
		d = (stat.Mean(sample1, nil) - stat.Mean(sample2, nil)) / pooled
	}

	switch a := math.Abs(d); {
	case a < 0.2:
		return d, "negligible"
	case a < 0.5:
		return d, "small"
	case a < 0.8:
		return d, "medium"
	default:
		return d, "large"
	}
}
