package repositories

import "errors"

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrStoreNotLoaded is returned when the store is read before its first Load.
	ErrStoreNotLoaded = errors.New("store has not been loaded")
)
