package nsfg

import (
	stderrors "errors"
	"fmt"
	"math"

	"nsfgstats/domain/dataset"
	"nsfgstats/internal/errors"
)

// Pregnancy outcome and birth order codes used to split the live births.
const (
	OutcomeLiveBirth = 1
	FirstBirth       = 1
)

// Codes for "not ascertained", "refused" and "don't know".
var notAnswered = []float64{97, 98, 99}

// CleanFemPreg recodes the raw pregnancy variables in place:
//
//   - agepreg is stored in centiyears and becomes years
//   - birthwgt_lb above 20 is a data entry error and becomes missing
//   - 97/98/99 answers of birthwgt_lb, birthwgt_oz and hpagelb become missing
//   - babysex 7/9 and nbrnaliv 9 become missing
//   - totalwgt_lb = birthwgt_lb + birthwgt_oz/16 is added
//   - cmintvw is cleared, its last digit is lost in the public data file
//
// Variables absent from the frame are left alone, so a dictionary that
// only selects some columns can still be cleaned.
func CleanFemPreg(f *dataset.Frame) error {
	has := func(name string) bool {
		kind, ok := f.Kind(name)
		return ok && kind == dataset.KindNumeric
	}
	nan := math.NaN()

	if has("agepreg") {
		if err := f.Apply("agepreg", func(v float64) float64 { return v / 100.0 }); err != nil {
			return err
		}
	}

	if has("birthwgt_lb") {
		if err := f.Apply("birthwgt_lb", func(v float64) float64 {
			if v > 20 {
				return nan
			}
			return v
		}); err != nil {
			return err
		}
	}

	for _, name := range []string{"birthwgt_lb", "birthwgt_oz", "hpagelb"} {
		if has(name) {
			if err := f.Replace(name, notAnswered, nan); err != nil {
				return err
			}
		}
	}
	if has("babysex") {
		if err := f.Replace("babysex", []float64{7, 9}, nan); err != nil {
			return err
		}
	}
	if has("nbrnaliv") {
		if err := f.Replace("nbrnaliv", []float64{9}, nan); err != nil {
			return err
		}
	}

	if has("birthwgt_lb") && has("birthwgt_oz") {
		lb, _ := f.Column("birthwgt_lb")
		oz, _ := f.Column("birthwgt_oz")
		total := make([]float64, len(lb))
		for i := range lb {
			total[i] = lb[i] + oz[i]/16.0
		}
		if err := f.SetNumeric("totalwgt_lb", total); err != nil {
			return err
		}
	}

	if has("cmintvw") {
		if err := f.Apply("cmintvw", func(float64) float64 { return nan }); err != nil {
			return err
		}
	}
	return nil
}

// Groups are the pregnancy subsets compared in the exercises
type Groups struct {
	Live   *dataset.Frame
	Firsts *dataset.Frame
	Others *dataset.Frame
}

// MakeFrames splits the pregnancies into live births, first babies and
// all other live births. Live births with a missing birth order count as
// others.
func MakeFrames(preg *dataset.Frame) (*Groups, error) {
	live, err := preg.Where("outcome", dataset.Equal(OutcomeLiveBirth))
	if err != nil {
		return nil, errors.Wrap(err, "selecting live births")
	}
	firsts, err := live.Where("birthord", dataset.Equal(FirstBirth))
	if err != nil {
		return nil, errors.Wrap(err, "selecting first babies")
	}
	others, err := live.Where("birthord", dataset.NotEqual(FirstBirth))
	if err != nil {
		return nil, errors.Wrap(err, "selecting other babies")
	}
	return &Groups{Live: live, Firsts: firsts, Others: others}, nil
}

// ExpectedFemPreg holds the published counts of the 2002 pregnancy file
type ExpectedFemPreg struct {
	Records     int
	LastCaseID  string
	ValueCounts []ValueCount
	// MaxFinalWgtCount is how often the largest finalwgt occurs.
	MaxFinalWgtCount int
}

// ValueCount is one expected frequency
type ValueCount struct {
	Variable string
	Value    float64
	Count    int
}

// Published2002 is the reference for the 2002 female pregnancy file
var Published2002 = ExpectedFemPreg{
	Records:    13593,
	LastCaseID: "12571",
	ValueCounts: []ValueCount{
		{"pregordr", 1, 5033},
		{"nbrnaliv", 1, 8981},
		{"babysex", 1, 4641},
		{"birthwgt_lb", 7, 3049},
		{"birthwgt_oz", 0, 1037},
		{"prglngth", 39, 4744},
		{"outcome", 1, 9148},
		{"birthord", 1, 4413},
		{"agepreg", 22.75, 100},
		{"totalwgt_lb", 7.5, 302},
	},
	MaxFinalWgtCount: 6,
}

// CheckFemPreg compares a cleaned pregnancy frame with expected counts
// and reports every mismatch.
func CheckFemPreg(f *dataset.Frame, want ExpectedFemPreg) error {
	var failures []error

	if f.Len() != want.Records {
		failures = append(failures, errors.CheckFailed("records", want.Records, f.Len()))
	}

	if want.LastCaseID != "" {
		ids, err := f.Strings("caseid")
		switch {
		case err != nil:
			failures = append(failures, err)
		case len(ids) == 0:
			failures = append(failures, errors.CheckFailed("last caseid", want.LastCaseID, "no records"))
		case ids[len(ids)-1] != want.LastCaseID:
			failures = append(failures, errors.CheckFailed("last caseid", want.LastCaseID, ids[len(ids)-1]))
		}
	}

	for _, vc := range want.ValueCounts {
		h, err := f.Hist(vc.Variable)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if got := h.Freq(vc.Value); got != vc.Count {
			failures = append(failures, errors.CheckFailed(fmt.Sprintf("%s count of %g", vc.Variable, vc.Value), vc.Count, got))
		}
	}

	if want.MaxFinalWgtCount > 0 {
		h, err := f.Hist("finalwgt")
		if err != nil {
			failures = append(failures, err)
		} else if largest := h.Largest(1); len(largest) == 0 || largest[0].Freq != want.MaxFinalWgtCount {
			got := 0
			if len(largest) > 0 {
				got = largest[0].Freq
			}
			failures = append(failures, errors.CheckFailed("count of largest finalwgt", want.MaxFinalWgtCount, got))
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return errors.Wrap(stderrors.Join(failures...), "pregnancy file check failed")
}
