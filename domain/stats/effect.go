package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"nsfgstats/internal/errors"
)

// CohenEffectSize computes Cohen's d for two groups: the difference of the
// means expressed in units of the pooled standard deviation.
//
// NaN entries are missing values. Means and sample variances (n-1
// denominator) skip them, while the pooling weights use the full group
// lengths, so survey columns with unanswered items give the same result as
// the published exercise. Equal means yield 0 whatever the variances; a
// nonzero difference over zero pooled variance yields ±Inf.
func CohenEffectSize(group1, group2 []float64) (float64, error) {
	x1 := DropMissing(group1)
	x2 := DropMissing(group2)
	if len(x1) == 0 || len(x2) == 0 {
		return math.NaN(), errors.InsufficientData("effect size needs observed values in both groups")
	}

	diff := stat.Mean(x1, nil) - stat.Mean(x2, nil)
	if diff == 0 {
		return 0, nil
	}
	if len(x1) < 2 || len(x2) < 2 {
		return math.NaN(), errors.InsufficientData("effect size needs at least two observed values per group")
	}

	_, var1 := stat.MeanVariance(x1, nil)
	_, var2 := stat.MeanVariance(x2, nil)

	n1, n2 := float64(len(group1)), float64(len(group2))
	pooledVar := (n1*var1 + n2*var2) / (n1 + n2)
	return diff / math.Sqrt(pooledVar), nil
}

// DropMissing returns the non-NaN values of xs. The input is not modified.
func DropMissing(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
