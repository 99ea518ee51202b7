package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrInsertRejected wraps store-side failures of an insert (constraint
	// violations, permission errors).
	ErrInsertRejected = errors.New("repository: insert rejected")
)
