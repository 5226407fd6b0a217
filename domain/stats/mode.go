package stats

import (
	"math"
	"sort"

	"nsfgstats/internal/errors"
)

// Mode returns the value with the highest frequency. When several values
// share the highest frequency the one observed first wins.
func Mode(h *Hist) (float64, error) {
	if h == nil || h.Len() == 0 {
		return math.NaN(), errors.InsufficientData("mode of an empty histogram")
	}

	modeValue := math.NaN()
	modeFreq := math.MinInt
	for _, p := range h.items {
		if p.Freq > modeFreq {
			modeFreq = p.Freq
			modeValue = p.Value
		}
	}
	return modeValue, nil
}

// AllModes returns every value/frequency pair in decreasing order of
// frequency. Pairs with equal frequency keep their encounter order.
func AllModes(h *Hist) []Pair {
	if h == nil {
		return nil
	}
	modes := h.Items()
	sort.SliceStable(modes, func(i, j int) bool { return modes[i].Freq > modes[j].Freq })
	return modes
}
