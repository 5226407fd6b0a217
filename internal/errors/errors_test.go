package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := NotFound("column prglngth")
	err := Wrap(inner, "building histogram")

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "building histogram: column prglngth not found", err.Error())
	assert.True(t, IsAppError(err))
	assert.True(t, stderrors.Is(err, inner))
}

func TestWrapPlainError(t *testing.T) {
	err := Wrapf(io.ErrUnexpectedEOF, "reading %s", "2002FemPreg.dat")

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", CheckFailed("mode", 39, 40))

	assert.True(t, HasCode(err, CodeCheckFailed))
	assert.Contains(t, err.Error(), "mode: want 39, got 40")
	assert.Equal(t, "", GetCode(nil))
}

func TestDataFormatMessage(t *testing.T) {
	err := DataFormat(12, "missing variable name")
	assert.Equal(t, "line 12: missing variable name", err.Error())
	assert.Equal(t, CodeDataFormat, err.Code)
}
