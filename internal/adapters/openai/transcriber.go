package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/devbush/kortsubs/internal/adapters/verbosejson"
	"github.com/devbush/kortsubs/internal/domain"
	"github.com/devbush/kortsubs/internal/ports"
)

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

const (
	// DefaultModel is the transcription model, or for Azure the deployment name
	DefaultModel = "whisper-1"

	// DefaultAzureAPIVersion is used when no API version is configured
	DefaultAzureAPIVersion = "2025-01-01-preview"
)

// Config selects and authenticates the transcription backend
type Config struct {
	Provider        string // "openai" (default) or "azure"
	APIKey          string
	Model           string
	BaseURL         string // OpenAI-compatible endpoint override
	AzureEndpoint   string
	AzureAPIVersion string
	MaxRetries      int
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Transcriber implements ports.Transcriber using the OpenAI audio
// transcription API with word-level timestamps.
type Transcriber struct {
	client   openai.Client
	provider string
	model    string
	logger   *slog.Logger
}

// NewTranscriber builds a client for the configured provider
func NewTranscriber(cfg Config) (*Transcriber, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s API key not set", domain.ErrMissingCredentials, provider)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}

	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}

	switch provider {
	case ProviderOpenAI:
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
	case ProviderAzure:
		if cfg.AzureEndpoint == "" {
			return nil, fmt.Errorf("%w: azure endpoint not set", domain.ErrMissingCredentials)
		}
		version := cfg.AzureAPIVersion
		if version == "" {
			version = DefaultAzureAPIVersion
		}
		opts = append(opts,
			azure.WithEndpoint(cfg.AzureEndpoint, version),
			azure.WithAPIKey(cfg.APIKey),
		)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, cfg.Provider)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Transcriber{
		client:   openai.NewClient(opts...),
		provider: provider,
		model:    model,
		logger:   logger,
	}, nil
}

// Name returns the provider name
func (t *Transcriber) Name() string {
	return t.provider
}

// Model returns the default model or deployment
func (t *Transcriber) Model() string {
	return t.model
}

// Transcribe uploads mediaPath and requests verbose_json with word
// timestamps.
func (t *Transcriber) Transcribe(ctx context.Context, mediaPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	model := opts.Model
	if model == "" {
		model = t.model
	}

	f, err := os.Open(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   openai.File(f, filepath.Base(mediaPath), "application/octet-stream"),
		Model:                  openai.AudioModel(model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	}
	if opts.Language != "" && opts.Language != "auto" {
		params.Language = openai.String(opts.Language)
	}

	t.logger.Debug("requesting transcription",
		slog.String("provider", t.provider),
		slog.String("model", model),
		slog.String("language", opts.Language),
		slog.String("file", mediaPath),
	)

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTranscriptionFailed, t.provider, err)
	}

	result, err := verbosejson.Parse([]byte(resp.RawJSON()))
	if err != nil {
		return nil, err
	}

	language := result.Language
	if language == "" {
		language = opts.Language
	}

	return &domain.Transcript{
		Text:          result.Text,
		Words:         result.Words,
		Provider:      t.provider,
		Model:         model,
		Language:      language,
		TranscribedAt: time.Now(),
	}, nil
}

// Ensure Transcriber implements interface
var _ ports.Transcriber = (*Transcriber)(nil)
