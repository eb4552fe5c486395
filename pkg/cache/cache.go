// Package cache provides the age-bounded key/blob store used by every
// network-backed lookup in gemstar.
//
// # Backends
//
//   - [FileCache]: one file per key under a directory, expiry by file mtime
//   - [RedisCache]: shared store, expiry by key TTL
//   - [NullCache]: stores nothing (--no-cache)
//
// # Negative results
//
// [Memo.Fetch] wraps a backend with fetch-through semantics. A producer that
// reports [ErrNotFound] (or returns no data) stores a negative marker, so a
// confirmed-missing resource is not requested again until the entry ages
// out. Any other producer error is returned as absent without being stored.
package cache

import (
	"context"
	"time"
)

// DefaultMaxAge is how long an entry is served before it is refetched.
const DefaultMaxAge = 7 * 24 * time.Hour

// Cache is a key/blob store. Implementations must be safe for concurrent
// use; writes to different keys are independent.
type Cache interface {
	// Get returns the stored blob and true for a live entry.
	// Missing and expired entries return (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, resetting its age.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
