package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/devbush/kortsubs/internal/adapters/cache"
	"github.com/devbush/kortsubs/internal/adapters/ffmpeg"
	"github.com/devbush/kortsubs/internal/adapters/openai"
	"github.com/devbush/kortsubs/internal/adapters/whisper"
	"github.com/devbush/kortsubs/internal/application"
	"github.com/devbush/kortsubs/internal/config"
	"github.com/devbush/kortsubs/internal/logging"
	"github.com/devbush/kortsubs/internal/ports"
)

// defaultWhisperModel is used when the configured model is an API model name
const defaultWhisperModel = "small"

// App holds all application dependencies
type App struct {
	Config  *config.Config
	Secrets config.Secrets
	Logger  *slog.Logger

	Cache     ports.TranscriptCache
	Extractor *ffmpeg.Extractor
	Whisper   *whisper.Transcriber

	CacheSvc *application.CacheService

	cacheTTL    time.Duration
	transcriber ports.Transcriber
}

// NewApp loads configuration from configPath and wires the adapters that
// need no credentials. Provider clients are built on first use.
func NewApp(configPath string) (*App, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = config.ConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}

	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	logger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		ttl = 7 * 24 * time.Hour
	}

	cacheStore, err := cache.NewMemoryCache(cache.NewFileCache(config.CacheDir()), cache.DefaultMemoryEntries)
	if err != nil {
		return nil, err
	}
	extractor := ffmpeg.NewExtractor(cfg.Paths.FFmpeg)
	whisperTr := whisper.NewTranscriber(config.ModelsDir(), extractor, logger.With("component", "whisper"))

	return &App{
		Config:    cfg,
		Secrets:   config.LoadSecrets(os.Getenv),
		Logger:    logger,
		Cache:     cacheStore,
		Extractor: extractor,
		Whisper:   whisperTr,
		CacheSvc:  application.NewCacheService(cacheStore, logger.With("component", "cache")),
		cacheTTL:  ttl,
	}, nil
}

// Model returns the model to request from the configured provider
func (a *App) Model() string {
	model := a.Config.Provider.Model
	if a.Config.Provider.Name == config.ProviderWhisper && (model == "" || model == openai.DefaultModel) {
		return defaultWhisperModel
	}
	return model
}

// Transcriber returns the configured transcription provider
func (a *App) Transcriber() (ports.Transcriber, error) {
	if a.transcriber != nil {
		return a.transcriber, nil
	}

	p := a.Config.Provider
	switch p.Name {
	case config.ProviderWhisper:
		a.transcriber = a.Whisper
	case config.ProviderOpenAI, config.ProviderAzure:
		key := a.Secrets.OpenAIAPIKey
		if p.Name == config.ProviderAzure {
			key = a.Secrets.AzureAPIKey
		}
		tr, err := openai.NewTranscriber(openai.Config{
			Provider:        p.Name,
			APIKey:          key,
			Model:           p.Model,
			AzureEndpoint:   p.AzureEndpoint,
			AzureAPIVersion: p.AzureAPIVersion,
			MaxRetries:      2,
			Logger:          a.Logger.With("component", p.Name),
		})
		if err != nil {
			return nil, err
		}
		a.transcriber = tr
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}
	return a.transcriber, nil
}

// SubtitleService returns a service backed by the configured provider
func (a *App) SubtitleService() (*application.SubtitleService, error) {
	tr, err := a.Transcriber()
	if err != nil {
		return nil, err
	}
	return application.NewSubtitleService(a.Cache, tr, cache.KeyForFile, a.cacheTTL, a.Logger.With("component", "subtitles")), nil
}

// ConvertService returns a service that only segments and renders
func (a *App) ConvertService() *application.SubtitleService {
	return application.NewSubtitleService(nil, nil, nil, 0, a.Logger.With("component", "convert"))
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed. Flag
// overrides are applied on every call.
func GetApp() (*App, error) {
	if globalApp == nil {
		app, err := NewApp(configFlag)
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	if err := applyProviderFlags(globalApp); err != nil {
		return nil, err
	}
	return globalApp, nil
}
