package entity

import "time"

// Outcome is the classification of a single strategy invocation.
type Outcome int

const (
	// OutcomeSuccess means the strategy produced non-empty, trimmed text.
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty means the call succeeded but produced blank output.
	OutcomeEmpty
	// OutcomeFailure means the strategy returned an error.
	OutcomeFailure
	// OutcomeTimeout means the per-strategy deadline was exceeded.
	OutcomeTimeout
)

// String returns the metric/log label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// StrategyResult records one invocation attempt.
// Text is only set when Outcome is OutcomeSuccess; Reason is set for every other outcome.
type StrategyResult struct {
	StrategyID string
	Outcome    Outcome
	Text       string
	Reason     error
	Elapsed    time.Duration
}

// Accepted reports whether the result can be taken as a summary.
func (r StrategyResult) Accepted() bool {
	return r.Outcome == OutcomeSuccess && r.Text != ""
}
