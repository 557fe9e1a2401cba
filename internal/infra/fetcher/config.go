package fetcher

import (
	"errors"
	"fmt"
	"time"

	"paper-digest/pkg/config"
)

// Extractor names accepted by FETCH_EXTRACTOR.
const (
	ExtractorParagraphs  = "paragraphs"
	ExtractorReadability = "readability"
)

// Config controls how paper pages are fetched.
//
// Security settings:
//   - DenyPrivateIPs: blocks URLs resolving to private addresses (SSRF prevention)
//   - MaxBodySize: rejects oversized responses
//   - MaxRedirects: bounds redirect chains, each hop is validated again
type Config struct {
	// Timeout is the maximum duration of a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes, enforced while reading.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs that resolve to loopback, private or link-local addresses.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// Extractor selects how page text is extracted: paragraphs or readability.
	// Default: paragraphs
	Extractor string

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		Extractor:      ExtractorParagraphs,
		UserAgent:      "PaperDigestBot/1.0",
	}
}

// Validate checks that the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - Extractor: paragraphs or readability
func (c Config) Validate() error {
	var errs []error

	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		errs = append(errs, fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize))
	}

	if err := config.ValidateIntRange(c.MaxRedirects, 0, 10); err != nil {
		errs = append(errs, fmt.Errorf("max redirects: %w", err))
	}

	if err := config.ValidateOneOf(c.Extractor, ExtractorParagraphs, ExtractorReadability); err != nil {
		errs = append(errs, fmt.Errorf("extractor: %w", err))
	}

	return errors.Join(errs...)
}
