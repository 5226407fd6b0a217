package stats

import (
	"math"
	"sort"
)

// Pair is one entry of a frequency table.
type Pair struct {
	Value float64 `json:"value"`
	Freq  int     `json:"freq"`
}

// Hist is a frequency table mapping observed values to occurrence counts.
// Items are kept in the order their value was first observed; Mode and
// AllModes rely on that order to break ties.
type Hist struct {
	index map[float64]int
	items []Pair
	total int
}

// NewHist counts the given values. NaN marks a missing observation and is
// not counted.
func NewHist(values []float64) *Hist {
	h := &Hist{index: make(map[float64]int)}
	for _, v := range values {
		h.Incr(v, 1)
	}
	return h
}

// Incr adds n to the count of v. Negative n is allowed; an entry whose
// count drops to zero stays in place so encounter order is preserved.
func (h *Hist) Incr(v float64, n int) {
	if math.IsNaN(v) {
		return
	}
	if h.index == nil {
		h.index = make(map[float64]int)
	}
	i, ok := h.index[v]
	if !ok {
		i = len(h.items)
		h.index[v] = i
		h.items = append(h.items, Pair{Value: v})
	}
	h.items[i].Freq += n
	h.total += n
}

// Freq returns the count of v, zero when v was never observed.
func (h *Hist) Freq(v float64) int {
	if i, ok := h.index[v]; ok {
		return h.items[i].Freq
	}
	return 0
}

// Total is the number of counted observations.
func (h *Hist) Total() int { return h.total }

// Len is the number of distinct values.
func (h *Hist) Len() int { return len(h.items) }

// Items returns a copy of the value/frequency pairs in encounter order.
func (h *Hist) Items() []Pair {
	out := make([]Pair, len(h.items))
	copy(out, h.items)
	return out
}

// Values returns the distinct values in encounter order.
func (h *Hist) Values() []float64 {
	out := make([]float64, len(h.items))
	for i, p := range h.items {
		out[i] = p.Value
	}
	return out
}

// Smallest returns up to n pairs with the smallest values, ascending.
func (h *Hist) Smallest(n int) []Pair {
	sorted := h.byValue()
	if n < len(sorted) {
		sorted = sorted[:max(n, 0)]
	}
	return sorted
}

// Largest returns up to n pairs with the largest values, descending.
func (h *Hist) Largest(n int) []Pair {
	sorted := h.byValue()
	out := make([]Pair, 0, min(max(n, 0), len(sorted)))
	for i := len(sorted) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sorted[i])
	}
	return out
}

func (h *Hist) byValue() []Pair {
	sorted := h.Items()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	return sorted
}
