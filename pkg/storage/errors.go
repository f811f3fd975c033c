package storage

import "errors"

var (
	// ErrKeyNotFound is returned when loading a key that was never saved.
	ErrKeyNotFound = errors.New("storage key not found")

	// ErrNilClient is returned when a backend is constructed without a client.
	ErrNilClient = errors.New("storage client cannot be nil")

	// ErrEmptyKey is returned when an empty key is used.
	ErrEmptyKey = errors.New("storage key cannot be empty")
)
