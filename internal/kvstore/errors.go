package kvstore

import "errors"

var (
	// ErrNotFound is returned by Store.Get when the key does not exist.
	ErrNotFound = errors.New("key not found")

	// ErrEmptyKey is returned when an operation is given an empty key.
	ErrEmptyKey = errors.New("key must not be empty")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown store driver")
)
