// Package summarize implements the summarization use case: a strategy registry,
// an orchestrator that races or sequences unreliable strategies under per-strategy
// time budgets with a guaranteed fallback, and an LRU result cache with single-flight
// computation.
package summarize

import "errors"

// Sentinel errors for registry construction and configuration.
var (
	// ErrNoTerminal indicates that a registry was built without a terminal strategy.
	ErrNoTerminal = errors.New("terminal strategy is required")

	// ErrDuplicateStrategy indicates that two descriptors share an ID.
	ErrDuplicateStrategy = errors.New("duplicate strategy id")

	// ErrInvalidDescriptor indicates a descriptor with a missing ID or strategy.
	ErrInvalidDescriptor = errors.New("invalid strategy descriptor")

	// ErrInvalidMode indicates an unknown orchestration mode.
	ErrInvalidMode = errors.New("invalid orchestration mode")

	// errWorkerAborted is recorded when a worker stops before reporting a result.
	errWorkerAborted = errors.New("worker aborted before the strategy reported")
)
