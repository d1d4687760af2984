package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/logging"
	"github.com/devbush/kortsubs/internal/ports"
)

// KeyFunc derives a cache key for a media file and the provider settings
// that shape its transcript.
type KeyFunc func(mediaPath string, parts ...string) (string, error)

// GenerateOptions configures one subtitle run
type GenerateOptions struct {
	Format   domain.SubtitleFormat
	Segment  domain.SegmentConfig
	Model    string
	Language string
	NoCache  bool
}

// GenerateResult contains the rendered subtitles and what they came from
type GenerateResult struct {
	Transcript *domain.Transcript
	Cues       []domain.Cue
	Format     domain.SubtitleFormat
	Content    string
	FileName   string
	MIMEType   string
	FromCache  bool
}

// SubtitleService orchestrates transcription, segmentation and rendering
type SubtitleService struct {
	cache       ports.TranscriptCache
	transcriber ports.Transcriber
	keyFn       KeyFunc
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewSubtitleService creates a new subtitle service. cache and keyFn may be
// nil to disable caching.
func NewSubtitleService(
	cache ports.TranscriptCache,
	transcriber ports.Transcriber,
	keyFn KeyFunc,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *SubtitleService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SubtitleService{
		cache:       cache,
		transcriber: transcriber,
		keyFn:       keyFn,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Generate transcribes mediaPath (or reuses a cached transcript) and renders
// it as subtitles.
func (s *SubtitleService) Generate(ctx context.Context, mediaPath string, opts GenerateOptions) (*GenerateResult, error) {
	seg, format, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	transcript, fromCache, err := s.Transcribe(ctx, mediaPath, opts)
	if err != nil {
		return nil, err
	}

	result := render(seg, format, transcript, mediaPath)
	result.FromCache = fromCache

	s.logger.Info("subtitles generated",
		"source", mediaPath,
		"words", len(transcript.Words),
		"cues", len(result.Cues),
		"format", string(format),
		"cached", fromCache,
	)
	return result, nil
}

// Convert renders subtitles from words that were transcribed earlier.
// source names the original media file and only affects FileName.
func (s *SubtitleService) Convert(words []domain.Word, source string, opts GenerateOptions) (*GenerateResult, error) {
	seg, format, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	transcript := &domain.Transcript{Words: words, Language: opts.Language}
	result := render(seg, format, transcript, source)

	s.logger.Debug("words converted", "words", len(words), "cues", len(result.Cues))
	return result, nil
}

// Transcribe returns the transcript of mediaPath, reporting whether it came
// from the cache. Cache failures are logged and never fatal.
func (s *SubtitleService) Transcribe(ctx context.Context, mediaPath string, opts GenerateOptions) (*domain.Transcript, bool, error) {
	key := s.cacheKey(mediaPath, opts)

	if key != "" && !opts.NoCache {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil && cached.Transcript != nil && len(cached.Transcript.Words) > 0:
			s.logger.Debug("transcript cache hit", "source", mediaPath, "key", key)
			return cached.Transcript, true, nil
		case err == nil, errors.Is(err, domain.ErrCacheMiss), errors.Is(err, domain.ErrCacheExpired):
		default:
			s.logger.Warn("transcript cache read failed", "key", key, "error", err)
		}
	}

	transcript, err := s.transcriber.Transcribe(ctx, mediaPath, ports.TranscribeOpts{
		Model:    opts.Model,
		Language: opts.Language,
	})
	if err != nil {
		return nil, false, err
	}
	if len(transcript.Words) == 0 {
		return nil, false, fmt.Errorf("%s: %w", mediaPath, domain.ErrNoWordTimestamps)
	}

	if key != "" {
		now := time.Now()
		item := &ports.CachedTranscript{
			Key:        key,
			SourcePath: mediaPath,
			Transcript: transcript,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, key, item); err != nil {
			s.logger.Warn("transcript cache write failed", "key", key, "error", err)
		}
	}

	return transcript, false, nil
}

func (s *SubtitleService) cacheKey(mediaPath string, opts GenerateOptions) string {
	if s.cache == nil || s.keyFn == nil {
		return ""
	}
	key, err := s.keyFn(mediaPath, s.transcriber.Name(), opts.Model, opts.Language)
	if err != nil {
		s.logger.Warn("transcript cache disabled for file", "source", mediaPath, "error", err)
		return ""
	}
	return key
}

func prepare(opts GenerateOptions) (*domain.Segmenter, domain.SubtitleFormat, error) {
	format, err := domain.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, "", err
	}
	seg, err := domain.NewSegmenter(opts.Segment)
	if err != nil {
		return nil, "", err
	}
	return seg, format, nil
}

func render(seg *domain.Segmenter, format domain.SubtitleFormat, transcript *domain.Transcript, source string) *GenerateResult {
	cues := transcript.Cues(seg)
	return &GenerateResult{
		Transcript: transcript,
		Cues:       cues,
		Format:     format,
		Content:    format.Render(cues),
		FileName:   domain.OutputFileName(source, format),
		MIMEType:   format.MIMEType(),
	}
}
