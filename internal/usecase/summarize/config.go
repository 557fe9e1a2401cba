package summarize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"paper-digest/internal/utils/text"
	"paper-digest/pkg/config"
)

// Mode selects the strategy execution discipline.
type Mode string

const (
	// ModeRacing runs every non-terminal strategy concurrently and accepts the first success.
	ModeRacing Mode = "racing"
	// ModeSequential tries strategies one at a time in priority order.
	ModeSequential Mode = "sequential"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRacing:
		return ModeRacing, nil
	case ModeSequential:
		return ModeSequential, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

const (
	DefaultStrategyTimeout = 5 * time.Second
	DefaultCacheCapacity   = 32
)

// Config holds the orchestration settings.
type Config struct {
	// WordBudget is the maximum number of words passed to truncated-input strategies.
	// Default: 2000
	WordBudget int

	// StrategyTimeout caps each non-terminal strategy invocation unless the
	// descriptor sets its own timeout. It starts when the strategy starts executing.
	// Default: 5s
	StrategyTimeout time.Duration

	// CacheCapacity is the maximum number of cached summaries.
	// Default: 32
	CacheCapacity int

	// Mode is racing or sequential.
	// Default: racing
	Mode Mode

	// TieWindow is how long, after the first success in racing mode, the orchestrator
	// keeps collecting successes before picking the best-ranked one. Successes already
	// queued are always compared. Default: 0
	TieWindow time.Duration
}

// DefaultConfig returns the default orchestration settings.
func DefaultConfig() Config {
	return Config{
		WordBudget:      text.DefaultWordBudget,
		StrategyTimeout: DefaultStrategyTimeout,
		CacheCapacity:   DefaultCacheCapacity,
		Mode:            ModeRacing,
	}
}

// Validate checks every field and returns all problems joined together.
func (c Config) Validate() error {
	var errs []error

	if err := config.ValidateIntRange(c.WordBudget, 1, 1_000_000); err != nil {
		errs = append(errs, fmt.Errorf("word budget: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.StrategyTimeout); err != nil {
		errs = append(errs, fmt.Errorf("strategy timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.CacheCapacity, 1, 100_000); err != nil {
		errs = append(errs, fmt.Errorf("cache capacity: %w", err))
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if err := config.ValidateNonNegativeDuration(c.TieWindow); err != nil {
		errs = append(errs, fmt.Errorf("tie window: %w", err))
	}

	return errors.Join(errs...)
}
