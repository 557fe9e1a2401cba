package worker

import (
	"fmt"

	"paper-digest/pkg/config"
)

// DefaultSize is one worker per non-terminal summarization strategy.
const DefaultSize = 3

// Config holds the configuration for the worker pool.
//
// The size is read from SUMMARIZE_WORKERS by the application config loader.
type Config struct {
	// Size is the number of long-lived worker goroutines.
	// Range: 1-64
	// Default: 3
	Size int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{Size: DefaultSize}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if err := config.ValidateIntRange(c.Size, 1, 64); err != nil {
		return fmt.Errorf("pool size: %w", err)
	}
	return nil
}
