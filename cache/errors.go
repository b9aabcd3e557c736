package cache

import "errors"

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache      = errors.New("cache: cache is nil")
	ErrInvalidKey    = errors.New("cache: key is invalid")
	ErrKeyTooLong    = errors.New("cache: key exceeds max length")
	ErrClosed        = errors.New("cache: manager is closed")
	ErrSerialization = errors.New("cache: value cannot be encoded")
	ErrInvalidConfig = errors.New("cache: invalid configuration")
)
