// Package config assembles the application configuration from environment
// variables and the optional strategy overrides file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"paper-digest/internal/infra/fetcher"
	"paper-digest/internal/infra/summarizer"
	"paper-digest/internal/infra/worker"
	"paper-digest/internal/usecase/summarize"
	envconfig "paper-digest/pkg/config"
)

// Usage store backends accepted by USAGE_STORE.
const (
	UsageStoreFile     = "file"
	UsageStorePostgres = "postgres"
)

// Config is the complete application configuration.
type Config struct {
	// Summarize configures the orchestrator and the result cache.
	Summarize summarize.Config

	// Workers sizes the strategy worker pool.
	Workers worker.Config

	// Remote configures the remote model strategy.
	Remote summarizer.Config

	// Fetch configures URL ingestion.
	Fetch fetcher.Config

	// Server configures the HTTP API.
	Server ServerConfig

	// Usage configures where the usage counter is persisted.
	Usage UsageConfig

	// StrategiesFile is an optional YAML file with per-strategy overrides.
	StrategiesFile string
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	// UploadDir receives uploaded PDFs and summary artifacts. Default: "uploads"
	UploadDir string

	// RequestTimeout bounds a whole request, including ingestion. Default: 60s
	RequestTimeout time.Duration

	// MaxUploadSize caps the multipart request body. Default: 32MB
	MaxUploadSize int64

	// MetricsEnabled exposes /metrics and records Prometheus metrics. Default: true
	MetricsEnabled bool
}

// UsageConfig holds the usage counter settings.
type UsageConfig struct {
	// Store is file or postgres. Default: file
	Store string

	// File is the counter file used by the file store. Default: uploads/usage_count.txt
	File string

	// DatabaseURL is the PostgreSQL DSN used by the postgres store.
	DatabaseURL string
}

// Load reads the configuration from the environment and validates it.
// Malformed values fall back to their defaults with a warning; only
// combinations that cannot work are returned as errors.
func Load() (*Config, error) {
	sum := summarize.DefaultConfig()
	sum.WordBudget = envconfig.GetEnvInt("SUMMARIZE_WORD_BUDGET", sum.WordBudget)
	sum.StrategyTimeout = envconfig.GetEnvDuration("SUMMARIZE_STRATEGY_TIMEOUT", sum.StrategyTimeout)
	sum.CacheCapacity = envconfig.GetEnvInt("SUMMARIZE_CACHE_CAPACITY", sum.CacheCapacity)
	sum.TieWindow = envconfig.GetEnvDuration("SUMMARIZE_TIE_WINDOW", sum.TieWindow)
	if raw := envconfig.GetEnvString("SUMMARIZE_MODE", string(sum.Mode)); raw != "" {
		mode, err := summarize.ParseMode(raw)
		if err != nil {
			slog.Warn("invalid SUMMARIZE_MODE, using default",
				slog.String("value", raw),
				slog.String("default", string(sum.Mode)))
		} else {
			sum.Mode = mode
		}
	}

	workers := worker.DefaultConfig()
	workers.Size = envconfig.GetEnvInt("SUMMARIZE_WORKERS", workers.Size)

	fetch := fetcher.DefaultConfig()
	fetch.Timeout = envconfig.GetEnvDuration("FETCH_TIMEOUT", fetch.Timeout)
	fetch.MaxBodySize = envconfig.GetEnvInt64("FETCH_MAX_BODY_SIZE", fetch.MaxBodySize)
	fetch.DenyPrivateIPs = envconfig.GetEnvBool("FETCH_DENY_PRIVATE_IPS", fetch.DenyPrivateIPs)
	fetch.Extractor = strings.ToLower(envconfig.GetEnvString("FETCH_EXTRACTOR", fetch.Extractor))

	uploadDir := envconfig.GetEnvString("UPLOAD_DIR", "uploads")
	cfg := &Config{
		Summarize: sum,
		Workers:   workers,
		Remote:    loadRemote(),
		Fetch:     fetch,
		Server: ServerConfig{
			Addr:           envconfig.GetEnvString("HTTP_ADDR", ":8080"),
			UploadDir:      uploadDir,
			RequestTimeout: envconfig.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
			MaxUploadSize:  envconfig.GetEnvInt64("HTTP_MAX_UPLOAD_SIZE", 32<<20),
			MetricsEnabled: envconfig.GetEnvBool("METRICS_ENABLED", true),
		},
		Usage: UsageConfig{
			Store:       strings.ToLower(envconfig.GetEnvString("USAGE_STORE", UsageStoreFile)),
			File:        envconfig.GetEnvString("USAGE_FILE", uploadDir+"/usage_count.txt"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		StrategiesFile: os.Getenv("STRATEGIES_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadRemote reads the remote model settings. A provider without an API key
// is disabled with a warning so the extractive strategies still serve requests.
func loadRemote() summarizer.Config {
	provider := strings.ToLower(envconfig.GetEnvString("REMOTE_PROVIDER", summarizer.ProviderGemini))
	cfg := summarizer.DefaultConfig(provider)
	cfg.APIKey = os.Getenv(apiKeyEnv(provider))
	cfg.Model = os.Getenv("REMOTE_MODEL")
	cfg.BaseURL = os.Getenv("REMOTE_BASE_URL")
	cfg.MaxTokens = envconfig.GetEnvInt("REMOTE_MAX_TOKENS", cfg.MaxTokens)
	cfg.RateLimit = envconfig.GetEnvFloat("REMOTE_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = envconfig.GetEnvInt("REMOTE_RATE_BURST", cfg.RateBurst)

	if cfg.Enabled() && cfg.APIKey == "" && apiKeyEnv(provider) != "" {
		slog.Warn("remote model disabled: API key not set",
			slog.String("provider", provider),
			slog.String("env", apiKeyEnv(provider)))
		cfg.Provider = summarizer.ProviderNone
	}
	return cfg
}

// apiKeyEnv returns the environment variable holding the provider's API key.
func apiKeyEnv(provider string) string {
	switch provider {
	case summarizer.ProviderGemini:
		return "GOOGLE_API_KEY"
	case summarizer.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case summarizer.ProviderClaude:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Validate checks every section and returns all problems joined together.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Summarize.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("summarize: %w", err))
	}
	if err := c.Workers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("workers: %w", err))
	}
	if err := c.Remote.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("remote: %w", err))
	}
	if err := c.Fetch.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("fetch: %w", err))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server: HTTP_ADDR cannot be empty"))
	}
	if c.Server.UploadDir == "" {
		errs = append(errs, errors.New("server: UPLOAD_DIR cannot be empty"))
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server: request timeout: %w", err))
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("server: max upload size must be positive, got %d", c.Server.MaxUploadSize))
	}

	if err := envconfig.ValidateOneOf(c.Usage.Store, UsageStoreFile, UsageStorePostgres); err != nil {
		errs = append(errs, fmt.Errorf("usage store: %w", err))
	}
	if c.Usage.Store == UsageStoreFile && c.Usage.File == "" {
		errs = append(errs, errors.New("usage: USAGE_FILE cannot be empty"))
	}
	if c.Usage.Store == UsageStorePostgres && c.Usage.DatabaseURL == "" {
		errs = append(errs, errors.New("usage: DATABASE_URL is required when USAGE_STORE=postgres"))
	}

	return errors.Join(errs...)
}
