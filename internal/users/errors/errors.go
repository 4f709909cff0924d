package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the unique index on email rejects an insert.
	ErrDuplicateEmail = errors.New("email already registered")
)
