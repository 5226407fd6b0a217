package report

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"nsfgstats/adapters/nsfg"
	"nsfgstats/domain/core"
	"nsfgstats/domain/stats"
	"nsfgstats/internal/errors"
)

// Options controls what a report contains
type Options struct {
	// ModeVariable is the live-birth column whose modes are reported.
	ModeVariable string
	// TopModes is how many of the most frequent values are listed.
	TopModes int
	// Extremes is how many of the smallest and largest values are listed.
	Extremes int
	// Compare lists the columns compared between first babies and others.
	Compare []string
}

// DefaultOptions reproduces the chapter 2 exercises
func DefaultOptions() Options {
	return Options{
		ModeVariable: "prglngth",
		TopModes:     5,
		Extremes:     10,
		Compare:      []string{"totalwgt_lb", "prglngth", "agepreg"},
	}
}

// Comparison is the first-babies-versus-others result for one column
type Comparison struct {
	Variable   string        `json:"variable"`
	FirstsMean float64       `json:"firsts_mean"`
	OthersMean float64       `json:"others_mean"`
	Difference float64       `json:"difference"`
	CohenD     float64       `json:"cohen_d"`
	Firsts     stats.Summary `json:"firsts"`
	Others     stats.Summary `json:"others"`
}

// MarshalJSON writes an infinite or undefined effect size as a string
// ("+Inf", "-Inf", "NaN") since JSON numbers cannot hold them.
func (c Comparison) MarshalJSON() ([]byte, error) {
	type plain Comparison
	out := struct {
		plain
		CohenD interface{} `json:"cohen_d"`
	}{plain: plain(c), CohenD: c.CohenD}
	switch {
	case math.IsInf(c.CohenD, 1):
		out.CohenD = "+Inf"
	case math.IsInf(c.CohenD, -1):
		out.CohenD = "-Inf"
	case math.IsNaN(c.CohenD):
		out.CohenD = "NaN"
	}
	return json.Marshal(out)
}

// Report collects the computed statistics of one run
type Report struct {
	RunID       core.RunID `json:"run_id"`
	Source      string     `json:"source"`
	GeneratedAt time.Time  `json:"generated_at"`

	Live   int `json:"live"`
	Firsts int `json:"firsts"`
	Others int `json:"others"`

	ModeVariable string       `json:"mode_variable"`
	Mode         float64      `json:"mode"`
	TopModes     []stats.Pair `json:"top_modes"`
	Smallest     []stats.Pair `json:"smallest"`
	Largest      []stats.Pair `json:"largest"`

	Comparisons []Comparison `json:"comparisons"`
}

// Comparison returns the comparison for a column
func (r *Report) Comparison(variable string) (Comparison, bool) {
	for _, c := range r.Comparisons {
		if c.Variable == variable {
			return c, true
		}
	}
	return Comparison{}, false
}

// Builder computes reports
type Builder struct {
	opts Options
	log  logrus.FieldLogger
}

// NewBuilder creates a report builder
func NewBuilder(opts Options, log logrus.FieldLogger) *Builder {
	return &Builder{opts: opts, log: log.WithField("component", "report")}
}

// Build computes the mode section and the comparisons. Comparisons of
// different columns run concurrently.
func (b *Builder) Build(ctx context.Context, source string, groups *nsfg.Groups) (*Report, error) {
	if groups == nil || groups.Live == nil {
		return nil, errors.InvalidInput("no pregnancy groups to report on")
	}
	if b.opts.TopModes <= 0 {
		return nil, errors.InvalidInput("top modes must be positive")
	}

	r := &Report{
		RunID:        core.NewRunID(),
		Source:       source,
		GeneratedAt:  time.Now().UTC(),
		Live:         groups.Live.Len(),
		Firsts:       groups.Firsts.Len(),
		Others:       groups.Others.Len(),
		ModeVariable: b.opts.ModeVariable,
	}
	log := b.log.WithField("run_id", r.RunID)

	hist, err := groups.Live.Hist(b.opts.ModeVariable)
	if err != nil {
		return nil, errors.Wrap(err, "building histogram")
	}
	if r.Mode, err = stats.Mode(hist); err != nil {
		return nil, errors.Wrapf(err, "mode of %s", b.opts.ModeVariable)
	}
	modes := stats.AllModes(hist)
	r.TopModes = modes[:min(b.opts.TopModes, len(modes))]
	r.Smallest = hist.Smallest(b.opts.Extremes)
	r.Largest = hist.Largest(b.opts.Extremes)

	r.Comparisons = make([]Comparison, len(b.opts.Compare))
	g, ctx := errgroup.WithContext(ctx)
	for i, variable := range b.opts.Compare {
		i, variable := i, variable
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := Compare(groups, variable)
			if err != nil {
				return errors.Wrapf(err, "comparing %s", variable)
			}
			r.Comparisons[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"live":        r.Live,
		"mode":        r.Mode,
		"comparisons": len(r.Comparisons),
	}).Info("report built")
	return r, nil
}

// Compare summarizes one column for first babies and others and computes
// the effect size between them.
func Compare(groups *nsfg.Groups, variable string) (Comparison, error) {
	firsts, err := groups.Firsts.Column(variable)
	if err != nil {
		return Comparison{}, err
	}
	others, err := groups.Others.Column(variable)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{Variable: variable}
	if c.Firsts, err = stats.Summarize(firsts); err != nil {
		return c, errors.Wrap(err, "first babies")
	}
	if c.Others, err = stats.Summarize(others); err != nil {
		return c, errors.Wrap(err, "other babies")
	}
	c.FirstsMean = c.Firsts.Mean
	c.OthersMean = c.Others.Mean
	c.Difference = c.FirstsMean - c.OthersMean

	if c.CohenD, err = stats.CohenEffectSize(firsts, others); err != nil {
		return c, err
	}
	return c, nil
}
