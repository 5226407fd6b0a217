package dataset

import (
	"fmt"
	"math"

	"nsfgstats/domain/stats"
	"nsfgstats/internal/errors"
)

// ColumnKind distinguishes numeric from text columns
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
)

// Frame is a column-oriented table. Numeric columns use NaN for missing
// values; text columns use the empty string.
type Frame struct {
	names   []string
	kinds   map[string]ColumnKind
	numeric map[string][]float64
	text    map[string][]string
	length  int
}

// NewFrame returns an empty frame
func NewFrame() *Frame {
	return &Frame{
		kinds:   make(map[string]ColumnKind),
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
		length:  -1,
	}
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f.length < 0 {
		return 0
	}
	return f.length
}

// Names returns the column names in insertion order
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Kind returns the kind of a column and whether it exists
func (f *Frame) Kind(name string) (ColumnKind, bool) {
	kind, ok := f.kinds[name]
	return kind, ok
}

// SetNumeric adds or replaces a numeric column. The slice is kept, not
// copied.
func (f *Frame) SetNumeric(name string, values []float64) error {
	if err := f.checkLength(name, len(values)); err != nil {
		return err
	}
	f.register(name, KindNumeric)
	delete(f.text, name)
	f.numeric[name] = values
	return nil
}

// SetText adds or replaces a text column. The slice is kept, not copied.
func (f *Frame) SetText(name string, values []string) error {
	if err := f.checkLength(name, len(values)); err != nil {
		return err
	}
	f.register(name, KindText)
	delete(f.numeric, name)
	f.text[name] = values
	return nil
}

// Column returns a numeric column. Callers must not modify the result;
// use Apply or Replace to change values.
func (f *Frame) Column(name string) ([]float64, error) {
	values, ok := f.numeric[name]
	if !ok {
		if _, isText := f.text[name]; isText {
			return nil, errors.InvalidInput(fmt.Sprintf("column %s is not numeric", name))
		}
		return nil, errors.NotFound("column " + name)
	}
	return values, nil
}

// Strings returns a text column. Numeric columns are rendered with %g,
// missing values as "".
func (f *Frame) Strings(name string) ([]string, error) {
	if values, ok := f.text[name]; ok {
		return values, nil
	}
	values, ok := f.numeric[name]
	if !ok {
		return nil, errors.NotFound("column " + name)
	}
	out := make([]string, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = fmt.Sprintf("%g", v)
		}
	}
	return out, nil
}

// Hist builds a frequency table of a numeric column
func (f *Frame) Hist(name string) (*stats.Hist, error) {
	values, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	return stats.NewHist(values), nil
}

// Apply replaces every value of a numeric column with fn(value). NaN is
// passed through to fn like any other value.
func (f *Frame) Apply(name string, fn func(float64) float64) error {
	values, err := f.Column(name)
	if err != nil {
		return err
	}
	for i, v := range values {
		values[i] = fn(v)
	}
	return nil
}

// Replace sets every occurrence of the given codes in a numeric column to
// with.
func (f *Frame) Replace(name string, codes []float64, with float64) error {
	set := make(map[float64]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return f.Apply(name, func(v float64) float64 {
		if set[v] {
			return with
		}
		return v
	})
}

// Where returns a new frame holding the rows whose value in the named
// numeric column satisfies pred.
func (f *Frame) Where(name string, pred func(float64) bool) (*Frame, error) {
	values, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, len(values))
	for i, v := range values {
		if pred(v) {
			rows = append(rows, i)
		}
	}
	return f.Take(rows), nil
}

// Equal is a Where predicate matching one value
func Equal(want float64) func(float64) bool {
	return func(v float64) bool { return v == want }
}

// NotEqual is a Where predicate rejecting one value. Missing values are
// kept, since NaN differs from everything.
func NotEqual(want float64) func(float64) bool {
	return func(v float64) bool { return v != want }
}

// Take returns a new frame with the given rows, in the given order
func (f *Frame) Take(rows []int) *Frame {
	out := NewFrame()
	out.length = len(rows)
	for _, name := range f.names {
		out.register(name, f.kinds[name])
		switch f.kinds[name] {
		case KindNumeric:
			src := f.numeric[name]
			dst := make([]float64, len(rows))
			for i, r := range rows {
				dst[i] = src[r]
			}
			out.numeric[name] = dst
		case KindText:
			src := f.text[name]
			dst := make([]string, len(rows))
			for i, r := range rows {
				dst[i] = src[r]
			}
			out.text[name] = dst
		}
	}
	return out
}

func (f *Frame) register(name string, kind ColumnKind) {
	if _, ok := f.kinds[name]; !ok {
		f.names = append(f.names, name)
	}
	f.kinds[name] = kind
}

func (f *Frame) checkLength(name string, n int) error {
	if name == "" {
		return errors.InvalidInput("column name cannot be empty")
	}
	if f.length >= 0 && n != f.length {
		// A frame whose only column is being replaced can change length.
		if len(f.names) == 1 && f.names[0] == name {
			f.length = n
			return nil
		}
		return errors.InvalidInput(fmt.Sprintf("column %s has %d rows, frame has %d", name, n, f.length))
	}
	f.length = n
	return nil
}
