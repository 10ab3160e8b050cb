// Package errors defines the coded errors shared by the loader, the
// analysis stages and the HTTP layer.
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

// Is matches any AppError carrying the same code, so callers can test
// errors.Is(err, errors.ErrDataUnavailable) regardless of the message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Error codes
const (
	CodeDataUnavailable    = "DATA_UNAVAILABLE"
	CodeEmptyDataset       = "EMPTY_DATASET"
	CodeUndefinedStatistic = "UNDEFINED_STATISTIC"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons.
var (
	ErrDataUnavailable = New(CodeDataUnavailable, "data unavailable")
	ErrEmptyDataset    = New(CodeEmptyDataset, "no data")
	ErrInvalidInput    = New(CodeInvalidInput, "invalid input")
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// inner AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
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

// GetCode returns the code of the outermost AppError in the chain, or
// CodeInternalError when there is none.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// DataUnavailable reports a source file that is missing or malformed.
func DataUnavailable(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeDataUnavailable,
		Message: fmt.Sprintf("dataset %q unavailable", path),
		Cause:   cause,
	}
}

// InvalidInput reports a selector value outside its closed set.
func InvalidInput(format string, args ...interface{}) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...))
}
