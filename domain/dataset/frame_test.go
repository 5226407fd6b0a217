package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsfgstats/internal/errors"
)

func newPregFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame()
	require.NoError(t, f.SetText("caseid", []string{"1", "1", "2", "6", "6"}))
	require.NoError(t, f.SetNumeric("outcome", []float64{1, 1, 4, 1, 1}))
	require.NoError(t, f.SetNumeric("birthord", []float64{1, 2, math.NaN(), 1, 2}))
	require.NoError(t, f.SetNumeric("prglngth", []float64{39, 39, 6, 38, 40}))
	return f
}

func TestFrameBasics(t *testing.T) {
	f := newPregFrame(t)

	assert.Equal(t, 5, f.Len())
	assert.Equal(t, []string{"caseid", "outcome", "birthord", "prglngth"}, f.Names())

	kind, ok := f.Kind("caseid")
	assert.True(t, ok)
	assert.Equal(t, KindText, kind)

	_, err := f.Column("missing")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = f.Column("caseid")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestFrameLengthMismatch(t *testing.T) {
	f := newPregFrame(t)
	err := f.SetNumeric("agepreg", []float64{1, 2})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	assert.Error(t, f.SetNumeric("", []float64{1, 2, 3, 4, 5}))
}

func TestFrameWhere(t *testing.T) {
	f := newPregFrame(t)

	live, err := f.Where("outcome", Equal(1))
	require.NoError(t, err)
	assert.Equal(t, 4, live.Len())

	firsts, err := live.Where("birthord", Equal(1))
	require.NoError(t, err)
	others, err := live.Where("birthord", NotEqual(1))
	require.NoError(t, err)

	assert.Equal(t, 2, firsts.Len())
	assert.Equal(t, 2, others.Len())

	ids, err := firsts.Strings("caseid")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "6"}, ids)

	lengths, err := others.Column("prglngth")
	require.NoError(t, err)
	assert.Equal(t, []float64{39, 40}, lengths)
}

func TestFrameWhereCopiesData(t *testing.T) {
	f := newPregFrame(t)
	sub, err := f.Where("outcome", Equal(1))
	require.NoError(t, err)

	require.NoError(t, sub.Apply("prglngth", func(v float64) float64 { return v + 1 }))

	orig, _ := f.Column("prglngth")
	assert.Equal(t, 39.0, orig[0])
}

func TestFrameReplaceAndApply(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.SetNumeric("birthwgt_lb", []float64{7, 97, 8, 99, 51}))

	require.NoError(t, f.Replace("birthwgt_lb", []float64{97, 98, 99}, math.NaN()))
	require.NoError(t, f.Apply("birthwgt_lb", func(v float64) float64 {
		if v > 20 {
			return math.NaN()
		}
		return v
	}))

	col, _ := f.Column("birthwgt_lb")
	assert.Equal(t, 7.0, col[0])
	assert.True(t, math.IsNaN(col[1]))
	assert.True(t, math.IsNaN(col[3]))
	assert.True(t, math.IsNaN(col[4]))
}

func TestFrameHistAndStrings(t *testing.T) {
	f := newPregFrame(t)

	h, err := f.Hist("prglngth")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Freq(39))

	rendered, err := f.Strings("birthord")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "", "1", "2"}, rendered)
}

func TestFrameReplaceKind(t *testing.T) {
	f := newPregFrame(t)
	require.NoError(t, f.SetNumeric("caseid", []float64{1, 1, 2, 6, 6}))

	kind, _ := f.Kind("caseid")
	assert.Equal(t, KindNumeric, kind)
	assert.Len(t, f.Names(), 4)
}
