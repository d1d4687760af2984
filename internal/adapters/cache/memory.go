package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/devbush/kortsubs/internal/ports"
)

// DefaultMemoryEntries bounds the in-process layer
const DefaultMemoryEntries = 128

// MemoryCache keeps recently used transcripts in process in front of a
// persistent cache. Batch runs over repeated inputs hit it instead of
// re-reading meta files.
type MemoryCache struct {
	next  ports.TranscriptCache
	items *lru.Cache[string, *ports.CachedTranscript]
	now   func() time.Time
}

// NewMemoryCache wraps next with an LRU of size entries
func NewMemoryCache(next ports.TranscriptCache, size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	items, err := lru.New[string, *ports.CachedTranscript](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{next: next, items: items, now: time.Now}, nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*ports.CachedTranscript, error) {
	if item, ok := c.items.Get(key); ok {
		if c.now().Before(item.ExpiresAt) {
			return item, nil
		}
		c.items.Remove(key)
	}

	item, err := c.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.items.Add(key, item)
	return item, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, item *ports.CachedTranscript) error {
	if err := c.next.Set(ctx, key, item); err != nil {
		return err
	}
	c.items.Add(key, item)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.items.Remove(key)
	return c.next.Delete(ctx, key)
}

func (c *MemoryCache) CleanExpired(ctx context.Context) (int, error) {
	now := c.now()
	for _, key := range c.items.Keys() {
		if item, ok := c.items.Peek(key); ok && !now.Before(item.ExpiresAt) {
			c.items.Remove(key)
		}
	}
	return c.next.CleanExpired(ctx)
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.items.Purge()
	return c.next.Clear(ctx)
}

// Stats reports the persistent layer; the LRU only holds copies.
func (c *MemoryCache) Stats(ctx context.Context) (int, int64, error) {
	return c.next.Stats(ctx)
}

var _ ports.TranscriptCache = (*MemoryCache)(nil)
