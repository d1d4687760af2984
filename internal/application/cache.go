package application

import (
	"context"
	"log/slog"

	"github.com/devbush/kortsubs/internal/logging"
	"github.com/devbush/kortsubs/internal/ports"
)

// CacheStats holds cache statistics
type CacheStats struct {
	ItemCount int
	TotalSize int64
}

// CacheService handles transcript cache maintenance
type CacheService struct {
	cache  ports.TranscriptCache
	logger *slog.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(cache ports.TranscriptCache, logger *slog.Logger) *CacheService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CacheService{cache: cache, logger: logger}
}

// Stats returns cache statistics
func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	count, size, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{
		ItemCount: count,
		TotalSize: size,
	}, nil
}

// CleanExpired removes expired transcripts
func (s *CacheService) CleanExpired(ctx context.Context) (int, error) {
	n, err := s.cache.CleanExpired(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("expired transcripts removed", "count", n)
	return n, nil
}

// Clear removes all cached transcripts
func (s *CacheService) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.logger.Debug("transcript cache cleared")
	return nil
}
