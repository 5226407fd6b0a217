package report

import (
	stderrors "errors"

	"nsfgstats/internal/errors"
)

// Expectations are the literal results the exercise asserts
type Expectations struct {
	Mode        float64
	TopModeFreq int
}

// Chapter2 holds the expected live-birth pregnancy length results
var Chapter2 = Expectations{Mode: 39, TopModeFreq: 4693}

// Check verifies a report against the expectations
func Check(r *Report, want Expectations) error {
	var failures []error
	if r.Mode != want.Mode {
		failures = append(failures, errors.CheckFailed("mode of "+r.ModeVariable, want.Mode, r.Mode))
	}
	switch {
	case len(r.TopModes) == 0:
		failures = append(failures, errors.CheckFailed("frequency of the top mode", want.TopModeFreq, "no modes"))
	case r.TopModes[0].Freq != want.TopModeFreq:
		failures = append(failures, errors.CheckFailed("frequency of the top mode", want.TopModeFreq, r.TopModes[0].Freq))
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.Wrap(stderrors.Join(failures...), "report check failed")
}
