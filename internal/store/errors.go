package store

import "errors"

// Sentinel errors returned by the storage engine. Callers distinguish them
// with errors.Is.
var (
	// ErrKeyTooLong is returned when constructing a Key longer than MaxKeyLen.
	ErrKeyTooLong = errors.New("store: key too long")
	// ErrValueTooLong is returned when constructing a Value longer than MaxValueLen.
	ErrValueTooLong = errors.New("store: value too long")
	// ErrNotFound is returned by Expire when the key is missing or already expired.
	ErrNotFound = errors.New("store: key not found")
)
