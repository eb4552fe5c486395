package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrNotFound reports a confirmed-missing resource. Producers return it
	// to have the absence cached.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// 5xx responses). It is never cached.
	ErrNetwork = errors.New("network error")
)
