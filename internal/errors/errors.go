// Package errors provides the error taxonomy for the vutil CLI.
package errors

import (
	"fmt"
	"strings"
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path or URL involved (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// SourceUnavailableError reports a feed that could not be fetched.
type SourceUnavailableError struct {
	// Source names the feed (archive, live, patchline, ...).
	Source string

	// Timeout is set when the failure was a deadline or client timeout.
	Timeout bool

	// Cause is the transport or status error.
	Cause error
}

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	kind := "unavailable"
	if e.Timeout {
		kind = "timed out"
	}
	if e.Cause == nil {
		return fmt.Sprintf("source %q %s", e.Source, kind)
	}
	return fmt.Sprintf("source %q %s: %v", e.Source, kind, e.Cause)
}

// Unwrap returns the underlying error.
func (e *SourceUnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrSourceUnavailable.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// MalformedRecordError reports a record missing a required field.
type MalformedRecordError struct {
	// Source names the feed the record came from.
	Source string

	// Index is the record's position in the fetched list, -1 if unknown.
	Index int

	// Field is the dotted path of the missing or invalid field.
	Field string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed record from %q: missing %s", e.Source, e.Field)
	}
	return fmt.Sprintf("malformed record %d from %q: missing %s", e.Index, e.Source, e.Field)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// MarkerNotFoundError reports an executable without the build-info marker.
type MarkerNotFoundError struct {
	// Marker is the text that was searched for.
	Marker string

	// Path is the executable path, if known.
	Path string
}

// Error implements the error interface.
func (e *MarkerNotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("build-info marker %q not found", e.Marker)
	}
	return fmt.Sprintf("build-info marker %q not found in %s", e.Marker, e.Path)
}

// Is reports whether target is ErrMarkerNotFound.
func (e *MarkerNotFoundError) Is(target error) bool {
	return target == ErrMarkerNotFound
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
