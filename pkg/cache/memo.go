package cache

import (
	"bytes"
	"context"
	"errors"

	"github.com/matzehuels/gemstar/pkg/observability"
)

// negativeMarker is the blob stored for a confirmed-missing resource.
var negativeMarker = []byte("__404__")

// Producer computes the blob for a key on a cache miss. Returning
// [ErrNotFound], or nil data with a nil error, records a negative result.
type Producer func(ctx context.Context) ([]byte, error)

// Memo adds fetch-through semantics and negative caching on top of a
// [Cache] backend.
type Memo struct {
	backend Cache
	hooks   observability.CacheHooks
}

// NewMemo wraps backend. hooks may be nil.
func NewMemo(backend Cache, hooks observability.CacheHooks) *Memo {
	if backend == nil {
		backend = NewNullCache()
	}
	if hooks == nil {
		hooks = observability.NoopCacheHooks{}
	}
	return &Memo{backend: backend, hooks: hooks}
}

// Fetch returns the blob for key. A live entry is returned without calling
// produce; a live negative entry reports absent. On a miss produce is called
// exactly once and its outcome is stored, except for errors other than
// [ErrNotFound], which report absent and leave the cache untouched.
//
// Backend read and write failures degrade to a miss and a skipped write.
func (m *Memo) Fetch(ctx context.Context, key string, produce Producer) ([]byte, bool) {
	if data, ok, err := m.backend.Get(ctx, key); err == nil && ok {
		if bytes.Equal(data, negativeMarker) {
			m.hooks.OnCacheNegativeHit(ctx, key)
			return nil, false
		}
		m.hooks.OnCacheHit(ctx, key)
		return data, true
	}
	m.hooks.OnCacheMiss(ctx, key)

	data, err := produce(ctx)
	switch {
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, false
	case err != nil || data == nil:
		m.store(ctx, key, negativeMarker)
		return nil, false
	default:
		m.store(ctx, key, data)
		return data, true
	}
}

func (m *Memo) store(ctx context.Context, key string, data []byte) {
	if err := m.backend.Set(ctx, key, data); err == nil {
		m.hooks.OnCacheSet(ctx, key, len(data))
	}
}
