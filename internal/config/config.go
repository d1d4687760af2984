package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devbush/kortsubs/internal/domain"
)

// Provider names accepted in the provider section
const (
	ProviderOpenAI  = "openai"
	ProviderAzure   = "azure"
	ProviderWhisper = "whisper"
)

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig       `yaml:"defaults"`
	Segment  domain.SegmentConfig `yaml:"segment"`
	Provider ProviderConfig       `yaml:"provider"`
	Logging  LoggingConfig        `yaml:"logging"`
	Paths    PathsConfig          `yaml:"paths"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	Format   string `yaml:"format"`
	Language string `yaml:"language"`
	CacheTTL string `yaml:"cache_ttl"`
	Workers  int    `yaml:"workers"`
}

// ProviderConfig selects and configures the transcription backend.
// API keys are never stored here; see Secrets.
type ProviderConfig struct {
	Name            string `yaml:"name"`
	Model           string `yaml:"model"`
	AzureEndpoint   string `yaml:"azure_endpoint,omitempty"`
	AzureAPIVersion string `yaml:"azure_api_version,omitempty"`
}

// LoggingConfig controls diagnostics output
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	FFmpeg string `yaml:"ffmpeg,omitempty"`
}

// Secrets holds credentials read from the environment
type Secrets struct {
	OpenAIAPIKey string
	AzureAPIKey  string
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Format:   "srt",
			Language: "sv",
			CacheTTL: "7d",
			Workers:  2,
		},
		Segment: domain.DefaultSegmentConfig(),
		Provider: ProviderConfig{
			Name:  ProviderOpenAI,
			Model: "whisper-1",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// AppDir returns the application directory (~/.kortsubs)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kortsubs"
	}
	return filepath.Join(home, ".kortsubs")
}

// ModelsDir returns the whisper.cpp models directory
func ModelsDir() string {
	return filepath.Join(AppDir(), "models")
}

// CacheDir returns the transcript cache directory
func CacheDir() string {
	return filepath.Join(AppDir(), "cache")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), ModelsDir(), CacheDir(), BinDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

// ApplyEnv overlays non-secret environment settings onto c
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("LLM_PROVIDER")); v != "" {
		c.Provider.Name = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("AZURE_OPENAI_ENDPOINT")); v != "" {
		c.Provider.AzureEndpoint = v
	}
	if v := strings.TrimSpace(getenv("AZURE_OPENAI_API_VERSION")); v != "" {
		c.Provider.AzureAPIVersion = v
	}

	modelVar := "OPENAI_TRANSCRIBE_MODEL"
	if c.Provider.Name == ProviderAzure {
		modelVar = "AZURE_OPENAI_MODEL"
	}
	if v := strings.TrimSpace(getenv(modelVar)); v != "" {
		c.Provider.Model = v
	}
}

// LoadSecrets reads provider credentials from the environment
func LoadSecrets(getenv func(string) string) Secrets {
	return Secrets{
		OpenAIAPIKey: strings.TrimSpace(getenv("OPENAI_API_KEY")),
		AzureAPIKey:  strings.TrimSpace(getenv("AZURE_OPENAI_API_KEY")),
	}
}

// Validate checks the sections that are interpreted at startup
func (c *Config) Validate() error {
	if _, err := domain.ParseFormat(c.Defaults.Format); err != nil {
		return fmt.Errorf("defaults.format: %w", err)
	}
	if _, err := ParseDuration(c.Defaults.CacheTTL); err != nil {
		return fmt.Errorf("defaults.cache_ttl: %w", err)
	}
	if c.Defaults.Workers < 0 {
		return fmt.Errorf("defaults.workers must not be negative, got %d", c.Defaults.Workers)
	}
	if err := c.Segment.Validate(); err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	switch c.Provider.Name {
	case ProviderOpenAI, ProviderAzure, ProviderWhisper:
	default:
		return fmt.Errorf("provider.name: %w: %q", domain.ErrUnknownProvider, c.Provider.Name)
	}
	return nil
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return ParseDuration(c.Defaults.CacheTTL)
}

var durationPattern = regexp.MustCompile(`^(\d+)(h|d)$`)

// ParseDuration parses duration strings like "24h", "7d", "30d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
