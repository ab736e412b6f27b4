// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, strikes, option types, configuration
//   - Data errors (200-299): Missing series and insufficient baseline data
//   - Cache errors (300-399): Cache artifact read/write failures and layout mismatches
//   - Market data errors (400-499): Provider construction and remote fetch failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeInvalidStrike, "strike %d does not fit the identifier", strike)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeCacheWriteFailed, "failed to write cache file", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeInsufficientBaselineData) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from the outermost coded error in err's chain.
// Returns ErrCodeUnknown if the chain carries no code.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var baselineErr *InsufficientBaselineError
	if errors.As(err, &baselineErr) {
		return baselineErr.Code()
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientBaselineError is returned when month 1 of a year has no bars,
// so there is no range to forward-fill the following months from.
type InsufficientBaselineError struct {
	Symbol  string // Optional: symbol context
	Year    int
	Message string
}

// NewInsufficientBaselineError creates a new InsufficientBaselineError.
func NewInsufficientBaselineError(symbol string, year int) *InsufficientBaselineError {
	return &InsufficientBaselineError{
		Symbol:  symbol,
		Year:    year,
		Message: fmt.Sprintf("insufficient baseline data: no bars for %s in January %d", symbol, year),
	}
}

// Error implements the error interface.
func (e *InsufficientBaselineError) Error() string {
	return e.Message
}

// Code returns ErrCodeInsufficientBaselineData so the error participates in GetCode/HasCode.
func (e *InsufficientBaselineError) Code() ErrorCode {
	return ErrCodeInsufficientBaselineData
}

// IsInsufficientBaselineError checks if an error is an InsufficientBaselineError.
// It uses errors.As to check the error chain.
func IsInsufficientBaselineError(err error) bool {
	var baselineErr *InsufficientBaselineError

	return errors.As(err, &baselineErr)
}
