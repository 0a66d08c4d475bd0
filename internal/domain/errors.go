package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers map them
// to HTTP statuses with errors.Is; anything else is a 500.
var (
	// ErrValidation - malformed or missing input, the caller's fault.
	ErrValidation = errors.New("validation error")
	// ErrNotFound - the referenced booking or flight does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBusinessRule - the transition is forbidden, e.g. cancelling a
	// delivered booking.
	ErrBusinessRule = errors.New("business rule violation")
	// ErrConcurrentModification - the version read at the start of the
	// update no longer matches; another writer won the race. Safe to retry.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrResourceLocked - the booking's lock is held by another operation.
	// Safe to retry after backoff.
	ErrResourceLocked = errors.New("resource locked")
	// ErrDuplicateReference - the generated reference code collided with an
	// existing one. Retry with a fresh code.
	ErrDuplicateReference = errors.New("duplicate reference code")
)
