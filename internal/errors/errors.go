// Package errors provides error types with actionable suggestions for
// ckpectl. Errors carry contextual detail so users can resolve problems
// without digging through logs.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the INI file could not be parsed.
	ErrParse = errors.New("parse error")
	// ErrSchema indicates a problem with the settings schema itself.
	ErrSchema = errors.New("schema error")
	// ErrValidation indicates a value was rejected by its key spec.
	ErrValidation = errors.New("validation error")
	// ErrStore indicates a settings store operation failed.
	ErrStore = errors.New("store error")
	// ErrConfig indicates a ckpectl configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrBackup indicates a backup operation failed.
	ErrBackup = errors.New("backup error")
	// ErrMigrate indicates a migration failure.
	ErrMigrate = errors.New("migration error")
	// ErrHook indicates a post-save hook failure.
	ErrHook = errors.New("hook error")
	// ErrFilename indicates the target file has a non-canonical name.
	ErrFilename = errors.New("filename error")
	// ErrNotFound indicates a section, key or file was not found.
	ErrNotFound = errors.New("not found")
)

// CkpeError is the base error type for ckpectl errors.
// It wraps an underlying error and provides additional context.
type CkpeError struct {
	// Kind is the category of error (e.g., ErrParse, ErrValidation).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, line number).
	Details map[string]string
}

// Error implements the error interface.
func (e *CkpeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *CkpeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether any error in err's chain matches the target.
func (e *CkpeError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *CkpeError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for k, v := range e.Details {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *CkpeError) WithDetails(key, value string) *CkpeError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *CkpeError) WithCause(cause error) *CkpeError {
	e.Cause = cause
	return e
}

// New creates a new CkpeError with the given kind and message.
func New(kind error, message string) *CkpeError {
	return &CkpeError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *CkpeError {
	return &CkpeError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *CkpeError {
	return &CkpeError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}
