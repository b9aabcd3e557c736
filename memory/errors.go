package memory

import "errors"

// Sentinel errors for memory operations.
var (
	// ErrCapacityExceeded is returned when a single allocation request
	// is larger than the configured ceiling. This is the only
	// allocation-time rejection; crossing the cleanup threshold never
	// rejects.
	ErrCapacityExceeded = errors.New("memory: allocation exceeds configured ceiling")

	// ErrInvalidKey is returned when an allocation key is empty.
	ErrInvalidKey = errors.New("memory: key is empty")

	// ErrInvalidSize is returned when an allocation size is negative.
	ErrInvalidSize = errors.New("memory: size is negative")
)
