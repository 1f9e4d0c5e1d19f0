// Package errors defines the coded errors returned by the temporal engine.
//
// Every failure of the engine carries one of the ErrorCode values below so
// callers can decide per dimension whether to skip a layer's time control.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorCode represents a specific error type for temporal operations.
type ErrorCode string

const (
	// ErrCodeInvalidDate indicates a mandatory date did not parse.
	ErrCodeInvalidDate ErrorCode = "INVALID_DATE"
	// ErrCodeInvalidTimeDimension indicates a dimension value string has no recognized shape,
	// or its expansion produced no values.
	ErrCodeInvalidTimeDimension ErrorCode = "INVALID_TIME_DIMENSION"
	// ErrCodeInvalidTimeDimensionDuration indicates a malformed ISO 8601 duration.
	ErrCodeInvalidTimeDimensionDuration ErrorCode = "INVALID_TIME_DIMENSION_DURATION"
	// ErrCodeInvalidDateFormat indicates a format string that cannot be split into fragments.
	ErrCodeInvalidDateFormat ErrorCode = "INVALID_DATE_FORMAT"
	// ErrCodeDateNormalizationFailed indicates the input format could not be reduced to UTC.
	ErrCodeDateNormalizationFailed ErrorCode = "DATE_NORMALIZATION_FAILED"
)

// TemporalError represents a structured error for temporal operations.
type TemporalError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *TemporalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TemporalError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *TemporalError) WithContext(key string, value interface{}) *TemporalError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *TemporalError) GetCode() ErrorCode {
	return e.Code
}

// InvalidDate creates an invalid date error for the given input.
func InvalidDate(input string, cause error) *TemporalError {
	return &TemporalError{
		Code:    ErrCodeInvalidDate,
		Message: fmt.Sprintf("invalid date %q", input),
		Cause:   cause,
	}
}

// InvalidTimeDimension creates an invalid time dimension error.
func InvalidTimeDimension(msg string) *TemporalError {
	return &TemporalError{Code: ErrCodeInvalidTimeDimension, Message: msg}
}

// InvalidTimeDimensionDuration creates an invalid duration error.
func InvalidTimeDimensionDuration(input string, cause error) *TemporalError {
	return &TemporalError{
		Code:    ErrCodeInvalidTimeDimensionDuration,
		Message: fmt.Sprintf("invalid duration %q", input),
		Cause:   cause,
	}
}

// InvalidDateFormat creates an invalid date format error.
func InvalidDateFormat(format string, msg string) *TemporalError {
	return &TemporalError{
		Code:    ErrCodeInvalidDateFormat,
		Message: fmt.Sprintf("invalid date format %q: %s", format, msg),
	}
}

// DateNormalizationFailed creates a normalization failure error.
func DateNormalizationFailed(input string, cause error) *TemporalError {
	return &TemporalError{
		Code:    ErrCodeDateNormalizationFailed,
		Message: fmt.Sprintf("cannot normalize %q to UTC", input),
		Cause:   cause,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *TemporalError {
	return &TemporalError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error, or any error it wraps, is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	var tErr *TemporalError
	if pkgerrors.As(err, &tErr) {
		return tErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a TemporalError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var tErr *TemporalError
	if pkgerrors.As(err, &tErr) {
		return tErr.Code
	}
	return defaultCode
}
