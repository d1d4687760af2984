package ports

import (
	"context"

	"github.com/devbush/kortsubs/internal/domain"
)

// Model represents a locally managed Whisper model
type Model struct {
	Name        string
	Size        int64 // bytes
	Description string
	Downloaded  bool
}

// TranscribeOpts configures transcription behavior
type TranscribeOpts struct {
	Model    string
	Language string // empty for provider auto-detect
}

// Transcriber turns a media file into a word-level transcript
type Transcriber interface {
	// Name identifies the provider ("openai", "azure", "whisper")
	Name() string

	// Transcribe returns the words of mediaPath with start/end timestamps
	Transcribe(ctx context.Context, mediaPath string, opts TranscribeOpts) (*domain.Transcript, error)
}

// ModelManager handles models for providers that run locally
type ModelManager interface {
	// AvailableModels returns list of available models
	AvailableModels() []Model

	// IsModelDownloaded checks if a model is available locally
	IsModelDownloaded(model string) bool

	// DownloadModel downloads a model with progress callback
	DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error

	// DeleteModel removes a downloaded model
	DeleteModel(model string) error
}
