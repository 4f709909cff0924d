package errors

import "errors"

var (
	ErrNotFound = errors.New("charge not found")
)
