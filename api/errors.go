package api

import "errors"

// Failure taxonomy for backend calls. Callers match with errors.Is; the
// wrapped detail carries the HTTP or transport cause.
var (
	// ErrCatalogUnavailable: the train catalog could not be fetched.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrConfirmationFailed: the registry rejected or failed a booking
	// creation.
	ErrConfirmationFailed = errors.New("booking confirmation failed")

	// ErrUnauthenticated: no live session. Raised before any network call
	// is attempted.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden: the session's role or identity does not permit the
	// operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: the referenced resource does not exist.
	ErrNotFound = errors.New("not found")
)
