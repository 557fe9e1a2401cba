package summarize

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Strategy produces a candidate summary or fails.
// Implementations must be safe for concurrent use and should honor ctx cancellation,
// but the orchestrator does not depend on them doing so.
type Strategy interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, text string) (string, error)

// Summarize calls f(ctx, text).
func (f StrategyFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Terminal is the last-resort strategy. It never fails and is never raced.
type Terminal interface {
	Summarize(text string) string
}

// InputVariant selects which version of the document a strategy receives.
type InputVariant string

const (
	// InputTruncated is the document cut to the configured word budget.
	InputTruncated InputVariant = "truncated"
	// InputFull is the untruncated document.
	InputFull InputVariant = "full"
)

// StrategyDescriptor is the static registration of one non-terminal strategy.
type StrategyDescriptor struct {
	// ID names the strategy in results, logs and metrics.
	ID string

	// Strategy is the invoke capability.
	Strategy Strategy

	// Timeout overrides Config.StrategyTimeout when positive.
	Timeout time.Duration

	// Input selects full or truncated text. Empty means truncated.
	Input InputVariant

	// Priority ranks the strategy for sequential order and racing tie-breaks.
	// Lower runs first and wins ties; equal priorities keep registration order.
	Priority int
}

// TerminalDescriptor registers the terminal strategy.
type TerminalDescriptor struct {
	ID       string
	Strategy Terminal
}

// Registry is the ordered, immutable set of strategies available to the orchestrator.
type Registry struct {
	strategies []StrategyDescriptor
	rank       map[string]int
	terminal   TerminalDescriptor
}

// NewRegistry validates the descriptors and orders them by priority.
// Registration order breaks priority ties.
func NewRegistry(terminal TerminalDescriptor, descriptors ...StrategyDescriptor) (*Registry, error) {
	if terminal.Strategy == nil || terminal.ID == "" {
		return nil, ErrNoTerminal
	}

	seen := map[string]bool{terminal.ID: true}
	ordered := make([]StrategyDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.ID == "" || d.Strategy == nil {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidDescriptor, d)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStrategy, d.ID)
		}
		seen[d.ID] = true
		if d.Input == "" {
			d.Input = InputTruncated
		}
		ordered = append(ordered, d)
	}

	slices.SortStableFunc(ordered, func(a, b StrategyDescriptor) int {
		return a.Priority - b.Priority
	})

	rank := make(map[string]int, len(ordered))
	for i, d := range ordered {
		rank[d.ID] = i
	}

	return &Registry{strategies: ordered, rank: rank, terminal: terminal}, nil
}

// Strategies returns the non-terminal strategies in priority order.
func (r *Registry) Strategies() []StrategyDescriptor {
	return slices.Clone(r.strategies)
}

// Terminal returns the terminal strategy.
func (r *Registry) Terminal() TerminalDescriptor {
	return r.terminal
}

// Len returns the number of non-terminal strategies.
func (r *Registry) Len() int {
	return len(r.strategies)
}

// outranks reports whether strategy a wins a tie against strategy b.
func (r *Registry) outranks(a, b string) bool {
	return r.rank[a] < r.rank[b]
}
