// Package cache provides the process-wide entity cache shared by the
// resource stores, with TTL-based expiration.
package cache

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a cache entry is not found or expired.
var ErrNotFound = errors.New("cache entry not found or expired")

// Entry represents a cached collection snapshot with metadata.
type Entry struct {
	Data      any
	FetchedAt time.Time
}

// Reader defines the interface for reading cache entries.
type Reader interface {
	// Read retrieves a cache entry by key with TTL validation.
	// An expired entry is still returned, but with ok == false, so callers
	// may render last-known-good data while a refetch is in flight.
	Read(key string, maxAge time.Duration) (*Entry, bool)

	// Valid reports whether a fresh (non-expired) entry exists for key.
	Valid(key string, maxAge time.Duration) bool
}

// Writer defines the interface for writing cache entries.
type Writer interface {
	// Write stores data under key, stamping it with the current time and
	// unconditionally overwriting any existing entry.
	Write(key string, data any)
}

// Clearer removes cache entries.
type Clearer interface {
	// Clear removes the named entries, or every entry when called with no
	// keys (session teardown).
	Clear(keys ...string)
}

// Store is the main interface that combines all cache operations.
type Store interface {
	Reader
	Writer
	Clearer
}
