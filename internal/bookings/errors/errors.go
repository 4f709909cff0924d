package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken is returned by the repository when the unique index on
	// confirmed (date, start_time, court) rejects an insert.
	ErrSlotTaken = errors.New("slot already has a confirmed booking")

	ErrLockHeld = errors.New("booking lock is held by another request")
)
