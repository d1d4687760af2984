package ports

import (
	"context"
	"time"

	"github.com/devbush/kortsubs/internal/domain"
)

// CachedTranscript is a transcript stored for a media file.
type CachedTranscript struct {
	Key        string
	SourcePath string // media file the transcript was made from
	Transcript *domain.Transcript
	CreatedAt  time.Time // when this item was cached
	ExpiresAt  time.Time // when this item should be considered stale
}

// TranscriptCache handles persistent caching of word-level transcripts so
// that re-segmenting does not re-transcribe.
type TranscriptCache interface {
	// Get retrieves a cached transcript, returning domain.ErrCacheMiss or
	// domain.ErrCacheExpired when there is nothing usable.
	Get(ctx context.Context, key string) (*CachedTranscript, error)

	// Set stores a transcript in the cache.
	Set(ctx context.Context, key string, item *CachedTranscript) error

	// Delete removes a specific item from the cache.
	Delete(ctx context.Context, key string) error

	// CleanExpired removes all expired items and returns the count removed.
	CleanExpired(ctx context.Context) (int, error)

	// Clear removes all cached items.
	Clear(ctx context.Context) error

	// Stats returns cache statistics: item count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}
