// Package observability provides hooks for counting cache, HTTP and pipeline
// events during a single gemstar run.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Pass an implementation to each component at construction
//
// There is no process-wide registry. A run creates one [Diagnostics] value,
// hands it to the cache, the HTTP client and the pipeline, and reads the
// totals back from the pipeline result:
//
//	diag := observability.NewDiagnostics()
//	memo := cache.NewMemo(backend, diag)
//	client := integrations.NewClient(memo, 8*time.Second, nil, diag)
//	// ... run pipeline ...
//	fmt.Println(diag.Snapshot().CacheHits)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the update pipeline.
type PipelineHooks interface {
	// OnPackageStart records that a package entered the resolving state.
	OnPackageStart(ctx context.Context, name string)

	// OnPackageComplete records that a package reached a terminal state.
	// err is nil for resolved packages.
	OnPackageComplete(ctx context.Context, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a live entry holding data.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheNegativeHit records a live entry holding the negative marker.
	OnCacheNegativeHit(ctx context.Context, key string)

	// OnCacheMiss records a missing or expired entry.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPackageStart(context.Context, string)                         {}
func (NoopPipelineHooks) OnPackageComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)         {}
func (NoopCacheHooks) OnCacheNegativeHit(context.Context, string) {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)        {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
