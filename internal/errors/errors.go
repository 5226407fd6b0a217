package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code of the first AppError in the chain.
// Plain errors report CodeInternalError.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if err == nil {
		return ""
	}
	return CodeInternalError
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeDataFormat       = "DATA_FORMAT"
	CodeCheckFailed      = "CHECK_FAILED"
	CodeInsufficientData = "INSUFFICIENT_DATA"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// DataFormat reports malformed input at a given line
func DataFormat(line int, message string) *AppError {
	return New(CodeDataFormat, fmt.Sprintf("line %d: %s", line, message))
}

// CheckFailed reports an expected value that did not hold
func CheckFailed(what string, want, got interface{}) *AppError {
	return New(CodeCheckFailed, fmt.Sprintf("%s: want %v, got %v", what, want, got))
}

func InsufficientData(message string) *AppError {
	return New(CodeInsufficientData, message)
}
