// Package errors provides the engine's error taxonomy.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an engine error.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Roster engine codes. Only CONFIGURATION_ERROR and UNKNOWN_RULE abort a
	// generation run; unfillable requirements and soft-rule failures degrade
	// into the solution's violation list instead of becoming errors.
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeUnknownRule   Code = "UNKNOWN_RULE"
)

// AppError is the engine's error type.
type AppError struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details string         `json:"details,omitempty"`
	Cause   error          `json:"-"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches free-form detail text.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause attaches an underlying cause.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField attaches a structured field.
func (e *AppError) WithField(key string, value any) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// New creates a new error.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is checks whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the code from an error.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// Configuration creates a configuration error: contradictory or malformed
// active rules detected during expansion. Fatal to the request.
func Configuration(detail string) *AppError {
	return New(CodeConfiguration, "inconsistent rule configuration").WithDetails(detail)
}

// InvalidInput creates an input validation error.
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("field %q invalid: %s", field, reason))
}

// UnknownRule creates a rule rejection error for unsupported constraint types.
func UnknownRule(id, constraintType string) *AppError {
	return New(CodeUnknownRule, fmt.Sprintf("rule %s has unsupported constraint type %q", id, constraintType))
}
