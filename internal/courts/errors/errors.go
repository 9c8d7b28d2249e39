package errors

import "errors"

var (
	ErrNotFound = errors.New("court not found")

	ErrInvalidID = errors.New("invalid court ID format")

	// ErrUpstream is returned when the OpenStreetMap mirror cannot be reached.
	ErrUpstream = errors.New("court data source unavailable")
)
