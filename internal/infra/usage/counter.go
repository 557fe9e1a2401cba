// Package usage keeps the process-wide count of produced summaries and persists
// it to a file or a PostgreSQL table.
package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"paper-digest/internal/observability/metrics"
	"paper-digest/internal/resilience/retry"
)

// ErrNotLoaded is returned by Increment before Load has succeeded.
var ErrNotLoaded = errors.New("usage counter not loaded")

// Store persists the usage count.
type Store interface {
	// Load returns the persisted count, or zero when nothing was stored yet.
	Load(ctx context.Context) (int64, error)

	// Save replaces the persisted count with n.
	Save(ctx context.Context, n int64) error
}

// Counter is the in-memory usage count backed by a Store.
// Increments are serialized so the persisted value never goes backwards.
type Counter struct {
	store  Store
	retry  retry.Config
	logger *slog.Logger

	mu     sync.Mutex
	value  int64
	loaded bool
}

// NewCounter creates a Counter over store. Call Load before Increment.
func NewCounter(store Store, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{
		store:  store,
		retry:  retry.UsageStoreConfig(),
		logger: logger,
	}
}

// Load reads the persisted count into memory.
func (c *Counter) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load usage count: %w", err)
	}
	c.value = n
	c.loaded = true
	metrics.SetUsageCount(n)

	c.logger.Info("usage counter loaded", slog.Int64("count", n))
	return nil
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Increment adds one and persists the result. When persisting fails the
// in-memory value is left unchanged and the previous count is returned with the error.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return 0, ErrNotLoaded
	}

	next := c.value + 1
	err := retry.WithBackoff(ctx, c.retry, func() error {
		return c.store.Save(ctx, next)
	})
	if err != nil {
		metrics.RecordUsagePersistFailure()
		c.logger.Warn("failed to persist usage count",
			slog.Int64("count", c.value),
			slog.Any("error", err))
		return c.value, fmt.Errorf("persist usage count: %w", err)
	}

	c.value = next
	metrics.SetUsageCount(next)
	return next, nil
}
