// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrRunInProgress is returned when an import is triggered while a
	// previous run is still in flight. Overlapping triggers are dropped,
	// never queued.
	ErrRunInProgress = errors.New("import run already in progress")

	// Transport failure categories, used for user-facing messaging.
	ErrUnauthorized      = errors.New("authorization failed")
	ErrNetwork           = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
)
