package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gemstar/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ChangelogKey("https://x/CHANGELOG.md"), "changelog-https://x/CHANGELOG.md"},
		{RubyGemsKey("rails"), "rubygems-rails"},
		{ProbeKey("https://raw/o/r", "main"), "gitignore-https://raw/o/r/main"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
	if ProbeKey("https://raw/a/b", "main") == ProbeKey("https://raw/c/d", "main") {
		t.Error("probe keys for different repositories should differ")
	}
}

func TestFileCache_GetSet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c := NewFileCache(dir, time.Hour)

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("directory should not exist before first write")
	}

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if string(data) != "value" {
		t.Errorf("got %q, want %q", data, "value")
	}

	if _, err := os.Stat(filepath.Join(dir, Hash([]byte("key")))); err != nil {
		t.Errorf("entry file should be named by key hash: %v", err)
	}
}

func TestFileCache_Miss(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Hour)
	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewFileCache(dir, time.Hour)

	if err := c.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(c.path("key"), old, old); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestFileCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(t.TempDir(), 0)

	_ = c.Set(ctx, "key", []byte("value"))
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(filepath.Join(t.TempDir(), "cache"), 0)

	if n, err := c.Clear(); err != nil || n != 0 {
		t.Fatalf("Clear() on missing dir = %d, %v", n, err)
	}
	_ = c.Set(ctx, "a", []byte("1"))
	_ = c.Set(ctx, "b", []byte("2"))

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d entries, want 2", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestFileCache_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(t.TempDir(), time.Hour)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "shared"
			if i%2 == 0 {
				key = "other"
			}
			if err := c.Set(ctx, key, []byte("payload")); err != nil {
				t.Errorf("Set() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, key := range []string{"shared", "other"} {
		data, ok, err := c.Get(ctx, key)
		if err != nil || !ok || string(data) != "payload" {
			t.Errorf("Get(%q) = %q, %v, %v", key, data, ok, err)
		}
	}
}

func TestMemo_ProducerCalledOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemo(NewFileCache(t.TempDir(), time.Hour), nil)

	calls := 0
	produce := func(context.Context) ([]byte, error) {
		calls++
		return []byte("body"), nil
	}

	first, ok1 := m.Fetch(ctx, "k", produce)
	second, ok2 := m.Fetch(ctx, "k", produce)

	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
	if !ok1 || !ok2 || string(first) != string(second) {
		t.Errorf("results differ: %q/%v vs %q/%v", first, ok1, second, ok2)
	}
}

func TestMemo_NegativeResultCached(t *testing.T) {
	ctx := context.Background()
	diag := observability.NewDiagnostics()
	m := NewMemo(NewFileCache(t.TempDir(), time.Hour), diag)

	calls := 0
	produce := func(context.Context) ([]byte, error) {
		calls++
		return nil, ErrNotFound
	}

	for range 2 {
		if _, ok := m.Fetch(ctx, "missing", produce); ok {
			t.Error("confirmed-missing resource should report absent")
		}
	}
	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
	if got := diag.Snapshot().CacheNegatives; got != 1 {
		t.Errorf("got %d negative hits, want 1", got)
	}
}

func TestMemo_NilDataIsNegative(t *testing.T) {
	ctx := context.Background()
	m := NewMemo(NewFileCache(t.TempDir(), time.Hour), nil)

	calls := 0
	produce := func(context.Context) ([]byte, error) {
		calls++
		return nil, nil
	}
	m.Fetch(ctx, "k", produce)
	m.Fetch(ctx, "k", produce)
	if calls != 1 {
		t.Errorf("producer called %d times, want 1", calls)
	}
}

func TestMemo_TransientErrorNotCached(t *testing.T) {
	ctx := context.Background()
	m := NewMemo(NewFileCache(t.TempDir(), time.Hour), nil)

	calls := 0
	produce := func(context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.Join(ErrNetwork, errors.New("timeout"))
		}
		return []byte("recovered"), nil
	}

	if _, ok := m.Fetch(ctx, "flaky", produce); ok {
		t.Error("transient failure should report absent")
	}
	data, ok := m.Fetch(ctx, "flaky", produce)
	if !ok || string(data) != "recovered" {
		t.Errorf("second fetch = %q, %v; want recovered", data, ok)
	}
	if calls != 2 {
		t.Errorf("producer called %d times, want 2", calls)
	}
}

func TestMemo_ExpiredEntryRefetched(t *testing.T) {
	ctx := context.Background()
	fc := NewFileCache(t.TempDir(), time.Hour)
	m := NewMemo(fc, nil)

	calls := 0
	produce := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}
	m.Fetch(ctx, "k", produce)

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(fc.path("k"), old, old); err != nil {
		t.Fatal(err)
	}
	m.Fetch(ctx, "k", produce)

	if calls != 2 {
		t.Errorf("producer called %d times, want 2", calls)
	}
}

func TestMemo_NullBackendAlwaysProduces(t *testing.T) {
	m := NewMemo(nil, nil)
	calls := 0
	for range 3 {
		m.Fetch(context.Background(), "k", func(context.Context) ([]byte, error) {
			calls++
			return []byte("x"), nil
		})
	}
	if calls != 3 {
		t.Errorf("producer called %d times, want 3", calls)
	}
}
