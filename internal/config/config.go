package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config aggregates every setting of the assistant.
type Config struct {
	Server   ServerConfig   `envPrefix:""`
	Log      LogConfig      `envPrefix:"LOG_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Defaults DefaultsConfig `envPrefix:"DEFAULT_"`
	Content  ContentConfig  `envPrefix:"CONTENT_"`
	Remote   RemoteConfig   `envPrefix:"REMOTE_"`
	AI       AIConfig       `envPrefix:"GEN_"`
	Ark      ArkConfig      `envPrefix:"ARK_"`
	Speech   SpeechConfig   `envPrefix:"SPEECH_"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Addr turns Port into a listen address. ":8080" and "127.0.0.1:8080" are
// accepted as given.
func (c ServerConfig) Addr() (string, error) {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	return ":" + port, nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// StorageConfig selects where transcript and profile are persisted.
type StorageConfig struct {
	Driver     string `env:"DRIVER" envDefault:"file"`
	Dir        string `env:"DIR" envDefault:"./data"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/assistant.db"`
}

// DefaultsConfig fills profile fields the student has not saved yet.
type DefaultsConfig struct {
	Branch   string `env:"BRANCH" envDefault:"CSE"`
	Semester int    `env:"SEMESTER" envDefault:"5"`
	Batch    string `env:"BATCH" envDefault:"2025"`
}

// ContentConfig points at an optional YAML content catalog.
type ContentConfig struct {
	Catalog string `env:"CATALOG"`
}

// RemoteConfig describes the remote query service.
type RemoteConfig struct {
	QueryURL string        `env:"QUERY_URL"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"8s"`
}

// Enabled reports whether a query endpoint is configured.
func (c RemoteConfig) Enabled() bool {
	return strings.TrimSpace(c.QueryURL) != ""
}

// AIConfig describes the generative-text service.
type AIConfig struct {
	Provider        string        `env:"PROVIDER" envDefault:"http"`
	APIKey          string        `env:"API_KEY"`
	URL             string        `env:"URL"`
	Model           string        `env:"MODEL"`
	Temperature     float32       `env:"TEMPERATURE" envDefault:"0.7"`
	MaxOutputTokens int           `env:"MAX_OUTPUT_TOKENS" envDefault:"512"`
	TopP            float32       `env:"TOP_P" envDefault:"0.9"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// ArkConfig holds the extra credentials the ark provider accepts.
type ArkConfig struct {
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Region    string `env:"REGION" envDefault:"cn-beijing"`
}

// GenerativeEnabled reports whether a credential is present for the configured
// provider. Without one the generative step is skipped entirely.
func (c Config) GenerativeEnabled() bool {
	if strings.TrimSpace(c.AI.APIKey) != "" {
		return true
	}
	return c.AI.Provider == "ark" && c.Ark.AccessKey != "" && c.Ark.SecretKey != ""
}

// SpeechConfig describes the ASR service used for voice input.
type SpeechConfig struct {
	AppID       string        `env:"APP_ID"`
	AccessToken string        `env:"ACCESS_TOKEN"`
	URL         string        `env:"URL" envDefault:"wss://openspeech.bytedance.com/api/v3/sauc/bigmodel_nostream"`
	ResourceID  string        `env:"RESOURCE_ID" envDefault:"volc.bigasr.sauc.duration"`
	Language    string        `env:"LANGUAGE" envDefault:"en-IN"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether speech credentials are configured.
func (c SpeechConfig) Enabled() bool {
	return strings.TrimSpace(c.AppID) != "" && strings.TrimSpace(c.AccessToken) != ""
}

// Load parses the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Server.Addr(); err != nil {
		errs = append(errs, err)
	}
	switch c.Storage.Driver {
	case "file", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be file or sqlite, got %q", c.Storage.Driver))
	}
	if c.Defaults.Semester < 1 || c.Defaults.Semester > 8 {
		errs = append(errs, fmt.Errorf("DEFAULT_SEMESTER must be between 1 and 8, got %d", c.Defaults.Semester))
	}
	switch c.AI.Provider {
	case "http", "ark", "gemini", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("GEN_PROVIDER %q is not supported", c.AI.Provider))
	}
	if c.AI.Provider == "http" && c.GenerativeEnabled() && strings.TrimSpace(c.AI.URL) == "" {
		errs = append(errs, errors.New("GEN_URL is required for the http provider"))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, errors.New("REMOTE_TIMEOUT must be positive"))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("GEN_TIMEOUT must be positive"))
	}
	if c.Speech.Timeout <= 0 {
		errs = append(errs, errors.New("SPEECH_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
