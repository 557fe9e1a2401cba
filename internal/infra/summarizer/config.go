package summarizer

import (
	"errors"
	"fmt"

	"paper-digest/pkg/config"
)

// Provider names accepted by REMOTE_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

const (
	// DefaultRateLimit is the sustained number of remote calls per second.
	DefaultRateLimit = 2.0

	// DefaultRateBurst is the number of remote calls allowed in a burst.
	DefaultRateBurst = 4

	// DefaultMaxTokens caps the length of the generated summary.
	DefaultMaxTokens = 1024
)

// Config holds the settings of the remote model strategy.
type Config struct {
	// Provider is gemini, openai, claude or none.
	// Default: gemini
	Provider string

	// APIKey authenticates against the provider.
	APIKey string

	// Model overrides the provider's default model when set.
	Model string

	// BaseURL overrides the provider endpoint. Used by tests and proxies.
	BaseURL string

	// MaxTokens caps the generated summary length.
	// Default: 1024
	MaxTokens int

	// RateLimit is the sustained remote call rate per second. Zero disables limiting.
	// Default: 2
	RateLimit float64

	// RateBurst is the token bucket size.
	// Default: 4
	RateBurst int
}

// DefaultConfig returns the default settings for provider.
func DefaultConfig(provider string) Config {
	return Config{
		Provider:  provider,
		MaxTokens: DefaultMaxTokens,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// Enabled reports whether a remote strategy should be registered at all.
func (c Config) Enabled() bool {
	return c.Provider != ProviderNone
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if err := config.ValidateOneOf(c.Provider, ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderNone); err != nil {
		errs = append(errs, fmt.Errorf("provider: %w", err))
	}
	if !c.Enabled() {
		return errors.Join(errs...)
	}
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w for %s", ErrMissingAPIKey, c.Provider))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("rate burst must be at least 1, got %d", c.RateBurst))
	}

	return errors.Join(errs...)
}
