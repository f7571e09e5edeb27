package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid configuration or user input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file, manifest, or engine entry was not found.
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable indicates a feed could not be reached or read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord indicates a fetched record is missing required fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrParse indicates a version string has a non-numeric component.
	ErrParse = errors.New("parse error")

	// ErrMarkerNotFound indicates an executable carries no build-info marker.
	ErrMarkerNotFound = errors.New("marker not found")
)
