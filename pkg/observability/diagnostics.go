package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Diagnostics accumulates event counts for one run. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks] and is safe for concurrent use.
type Diagnostics struct {
	runID string

	cacheHits      atomic.Int64
	cacheNegatives atomic.Int64
	cacheMisses    atomic.Int64
	cacheWrites    atomic.Int64

	requests   atomic.Int64
	httpErrors atomic.Int64
	notFound   atomic.Int64

	resolved atomic.Int64
	failed   atomic.Int64
}

// Stats is a point-in-time copy of the counters in a [Diagnostics].
type Stats struct {
	RunID          string
	CacheHits      int64 // live entries with data
	CacheNegatives int64 // live entries holding the negative marker
	CacheMisses    int64 // absent or expired entries
	CacheWrites    int64
	Requests       int64
	HTTPErrors     int64 // network failures and timeouts
	NotFound       int64 // 404 responses
	Resolved       int64
	Failed         int64
}

// NewDiagnostics creates an accumulator tagged with a fresh run ID.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{runID: uuid.NewString()}
}

// RunID returns the identifier assigned at construction.
func (d *Diagnostics) RunID() string { return d.runID }

// Snapshot returns the current counter values.
func (d *Diagnostics) Snapshot() Stats {
	return Stats{
		RunID:          d.runID,
		CacheHits:      d.cacheHits.Load(),
		CacheNegatives: d.cacheNegatives.Load(),
		CacheMisses:    d.cacheMisses.Load(),
		CacheWrites:    d.cacheWrites.Load(),
		Requests:       d.requests.Load(),
		HTTPErrors:     d.httpErrors.Load(),
		NotFound:       d.notFound.Load(),
		Resolved:       d.resolved.Load(),
		Failed:         d.failed.Load(),
	}
}

func (d *Diagnostics) OnPackageStart(context.Context, string) {}

func (d *Diagnostics) OnPackageComplete(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		d.failed.Add(1)
		return
	}
	d.resolved.Add(1)
}

func (d *Diagnostics) OnCacheHit(context.Context, string)         { d.cacheHits.Add(1) }
func (d *Diagnostics) OnCacheNegativeHit(context.Context, string) { d.cacheNegatives.Add(1) }
func (d *Diagnostics) OnCacheMiss(context.Context, string)        { d.cacheMisses.Add(1) }
func (d *Diagnostics) OnCacheSet(context.Context, string, int)    { d.cacheWrites.Add(1) }

func (d *Diagnostics) OnRequest(context.Context, string, string, string) { d.requests.Add(1) }

func (d *Diagnostics) OnResponse(_ context.Context, _, _, _ string, statusCode int, _ time.Duration) {
	if statusCode == 404 {
		d.notFound.Add(1)
	}
}

func (d *Diagnostics) OnError(context.Context, string, string, string, error) { d.httpErrors.Add(1) }

var (
	_ PipelineHooks = (*Diagnostics)(nil)
	_ CacheHooks    = (*Diagnostics)(nil)
	_ HTTPHooks     = (*Diagnostics)(nil)
)
