package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// countingCache records how often the persistent layer is read
type countingCache struct {
	*FileCache
	gets int
}

func (c *countingCache) Get(ctx context.Context, key string) (*ports.CachedTranscript, error) {
	c.gets++
	return c.FileCache.Get(ctx, key)
}

func newTestMemoryCache(t *testing.T) (*MemoryCache, *countingCache) {
	t.Helper()
	next := &countingCache{FileCache: NewFileCache(t.TempDir())}
	mem, err := NewMemoryCache(next, 2)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	return mem, next
}

func TestMemoryCache_HitSkipsDisk(t *testing.T) {
	mem, next := newTestMemoryCache(t)
	ctx := context.Background()

	item := &ports.CachedTranscript{Transcript: testTranscript(), ExpiresAt: time.Now().Add(time.Hour)}
	if err := mem.Set(ctx, "k1", item); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := mem.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got.Transcript.Words) != 2 {
			t.Errorf("Get() returned %d words", len(got.Transcript.Words))
		}
	}
	if next.gets != 0 {
		t.Errorf("persistent layer read %d times, want 0", next.gets)
	}
}

func TestMemoryCache_FillsFromDisk(t *testing.T) {
	mem, next := newTestMemoryCache(t)
	ctx := context.Background()

	item := &ports.CachedTranscript{Transcript: testTranscript(), ExpiresAt: time.Now().Add(time.Hour)}
	if err := next.FileCache.Set(ctx, "k1", item); err != nil {
		t.Fatal(err)
	}

	if _, err := mem.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := mem.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if next.gets != 1 {
		t.Errorf("persistent layer read %d times, want 1", next.gets)
	}
}

func TestMemoryCache_ExpiredFallsThrough(t *testing.T) {
	mem, next := newTestMemoryCache(t)
	ctx := context.Background()

	item := &ports.CachedTranscript{Transcript: testTranscript(), ExpiresAt: time.Now().Add(-time.Minute)}
	if err := mem.Set(ctx, "k1", item); err != nil {
		t.Fatal(err)
	}

	_, err := mem.Get(ctx, "k1")
	if !errors.Is(err, domain.ErrCacheExpired) {
		t.Errorf("Get() error = %v, want ErrCacheExpired", err)
	}
	if next.gets != 1 {
		t.Errorf("persistent layer read %d times, want 1", next.gets)
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	mem, _ := newTestMemoryCache(t)
	ctx := context.Background()

	item := &ports.CachedTranscript{Transcript: testTranscript(), ExpiresAt: time.Now().Add(time.Hour)}
	for _, k := range []string{"a", "b"} {
		if err := mem.Set(ctx, k, item); err != nil {
			t.Fatal(err)
		}
	}

	if err := mem.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := mem.Get(ctx, "a"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get(a) after Delete error = %v, want ErrCacheMiss", err)
	}

	if err := mem.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := mem.Get(ctx, "b"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get(b) after Clear error = %v, want ErrCacheMiss", err)
	}
	if n, _, _ := mem.Stats(ctx); n != 0 {
		t.Errorf("Stats() count = %d, want 0", n)
	}
}
