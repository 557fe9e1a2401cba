// Package entity defines the core domain entities for document summarization.
// It contains the input Document, the per-strategy StrategyResult and the final Summary,
// along with the domain-specific errors shared by strategies and the orchestrator.
package entity

import (
	"strings"
	"time"
)

// Document is the immutable input to summarization.
// Text is plain UTF-8 and never blank; use NewDocument to construct one.
type Document struct {
	Text      string
	WordCount int
}

// NewDocument builds a Document from extracted text.
// Blank text is rejected with ErrEmptyDocument so the summarization core never sees it.
func NewDocument(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}
	return Document{
		Text:      text,
		WordCount: len(strings.Fields(text)),
	}, nil
}

// Summary is the sole output of an orchestration call.
// It is never empty and is treated as immutable once produced.
type Summary struct {
	// Text is the accepted summary text.
	Text string

	// StrategyID identifies the strategy whose result was accepted.
	StrategyID string

	// Elapsed is the total orchestration time.
	Elapsed time.Duration

	// Fallback is true when the terminal strategy produced the text.
	Fallback bool

	// Attempts holds the results observed before the winner was accepted,
	// in the order the orchestrator consumed them.
	Attempts []StrategyResult
}
