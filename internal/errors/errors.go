package errors

import (
	"fmt"
)

// QueryError is the structured error type for genequery.
// It provides context for error handling, logging, and user presentation.
type QueryError struct {
	// Code is the unique error code (e.g., "ERR_402_AMBIGUOUS_GENOMIC_QUERY").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, External, User, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with QueryError.
func (e *QueryError) Is(target error) bool {
	if t, ok := target.(*QueryError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *QueryError) WithDetail(key, value string) *QueryError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new QueryError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *QueryError {
	return &QueryError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new QueryError with a formatted message.
func Newf(code string, format string, args ...any) *QueryError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a QueryError from an existing error.
// The error's message becomes the QueryError message.
func Wrap(code string, err error) *QueryError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// UserError creates an invalid-input error, surfaced to the caller.
func UserError(message string) *QueryError {
	return New(ErrCodeInvalidInput, message, nil)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *QueryError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ExternalError creates a collaborator-failure error.
// These are soft: callers log them and degrade rather than abort.
func ExternalError(code string, message string, cause error) *QueryError {
	return New(code, message, cause)
}

// IsUserError reports whether the error is caller-facing invalid input.
func IsUserError(err error) bool {
	if qe, ok := err.(*QueryError); ok {
		return qe.Category == CategoryUser
	}
	return false
}

// IsSoft reports whether the error is a degradable collaborator failure.
func IsSoft(err error) bool {
	if qe, ok := err.(*QueryError); ok {
		return qe.Category == CategoryExternal
	}
	return false
}

// GetCode extracts the error code from a QueryError.
// Returns empty string if not a QueryError.
func GetCode(err error) string {
	if qe, ok := err.(*QueryError); ok {
		return qe.Code
	}
	return ""
}
