package domain

import "errors"

var (
	// Segmentation errors
	ErrInvalidConfig = errors.New("invalid segment config")
	ErrUnknownFormat = errors.New("unknown subtitle format")

	// Provider response errors
	ErrUnexpectedResponse = errors.New("unexpected transcription response format")
	ErrNoWordTimestamps   = errors.New("no word timestamps in transcription response")

	// Transcription errors
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrModelNotFound       = errors.New("model not found")
	ErrUnknownProvider     = errors.New("unknown transcription provider")
	ErrMissingCredentials  = errors.New("missing provider credentials")

	// Cache errors
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheMiss    = errors.New("cache miss")

	// Dependency errors
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
)
