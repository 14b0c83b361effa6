package errors

import (
	"errors"
	"fmt"
)

// Error represents a PostgreSQL-compatible error with SQLSTATE code
type Error struct {
	Code    string // SQLSTATE code
	Message string // Primary error message
	Detail  string // Optional detailed error message
	Hint    string // Optional hint message
	Where   string // Context where error occurred
	Routine string // Source routine name
	Err     error  // Wrapped cause, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
	if e.Routine != "" {
		msg = e.Routine + ": " + msg
	}
	if e.Detail != "" {
		msg += " DETAIL: " + e.Detail
	}
	if e.Hint != "" {
		msg += " HINT: " + e.Hint
	}
	if e.Where != "" {
		msg += " WHERE: " + e.Where
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given code and message
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error around an existing cause.
func Wrap(code string, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail adds detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHintf adds a formatted hint to the error
func (e *Error) WithHintf(format string, args ...interface{}) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// WithWhere sets the context where the error occurred
func (e *Error) WithWhere(where string) *Error {
	e.Where = where
	return e
}

// WithRoutine sets the routine that raised the error
func (e *Error) WithRoutine(routine string) *Error {
	e.Routine = routine
	return e
}

// InternalErrorf creates an internal error
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(InternalError, format, args...)
}

// IsError checks if an error chain contains an Error with a specific code
func IsError(err error, code string) bool {
	var qErr *Error
	if !errors.As(err, &qErr) {
		return false
	}
	return qErr.Code == code
}

// GetError attempts to extract an Error from any error
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	var qErr *Error
	if errors.As(err, &qErr) {
		return qErr
	}
	// Wrap generic errors as internal errors
	return Wrap(InternalError, err, "internal error")
}
