package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for summarization.
var (
	// ErrEmptyDocument indicates that no text was available to summarize.
	// It is raised by the ingestion side, never inside the orchestrator.
	ErrEmptyDocument = errors.New("document text is empty")

	// ErrStrategyTimeout indicates that a strategy exceeded its per-call deadline.
	ErrStrategyTimeout = errors.New("strategy timed out")

	// ErrEmptyResult indicates that a strategy finished without producing text.
	ErrEmptyResult = errors.New("strategy returned an empty summary")
)

// StrategyFailure wraps the transport, parsing or library error returned by a strategy.
type StrategyFailure struct {
	StrategyID string
	Err        error
}

// Error returns a formatted error message naming the failing strategy.
func (e *StrategyFailure) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.StrategyID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StrategyFailure) Unwrap() error {
	return e.Err
}
