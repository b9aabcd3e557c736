package diskcache

import "errors"

// Sentinel errors for durable cache operations.
var (
	// ErrIO wraps storage create/read/write/rename failures. It
	// signals a broken execution environment and is always propagated
	// from Open, Set, Delete, Stats and Maintenance.
	ErrIO = errors.New("diskcache: storage I/O failure")

	// ErrSerialization wraps envelope encoding failures on Set.
	ErrSerialization = errors.New("diskcache: entry cannot be encoded")

	// ErrInvalidKey is returned when a key is empty.
	ErrInvalidKey = errors.New("diskcache: key is empty")
)
