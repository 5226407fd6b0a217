package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"nsfgstats/internal/errors"
)

// Summary holds descriptive statistics of one column
type Summary struct {
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
}

// Summarize computes descriptive statistics over the observed values of
// xs. Variance is the sample variance; with a single observation it is 0.
func Summarize(xs []float64) (Summary, error) {
	data := DropMissing(xs)
	summary := Summary{Count: len(data), Missing: len(xs) - len(data)}
	if len(data) == 0 {
		return summary, errors.InsufficientData("summary of a column with no observed values")
	}

	if len(data) > 1 {
		summary.Mean, summary.Variance = stat.MeanVariance(data, nil)
	} else {
		summary.Mean = data[0]
	}
	summary.StdDev = math.Sqrt(summary.Variance)

	var err error
	if summary.Min, err = mstats.Min(data); err != nil {
		return summary, errors.Wrap(err, "min")
	}
	if summary.Max, err = mstats.Max(data); err != nil {
		return summary, errors.Wrap(err, "max")
	}
	if summary.Median, err = mstats.Median(data); err != nil {
		return summary, errors.Wrap(err, "median")
	}
	if summary.Q25, err = mstats.Percentile(data, 25); err != nil {
		summary.Q25 = summary.Min
	}
	if summary.Q75, err = mstats.Percentile(data, 75); err != nil {
		summary.Q75 = summary.Max
	}

	return summary, nil
}
