// Package extractive provides local, dependency-free extractive summarizers:
// a TextRank sentence graph, a word-frequency scorer and the lead-sentence
// fallback that never fails.
package extractive

import "errors"

// Sentinel errors for extractive summarization.
var (
	// ErrTooFewSentences indicates the input does not have enough sentences to rank.
	ErrTooFewSentences = errors.New("too few sentences to summarize")

	// ErrNoContentWords indicates every token of the input was a stopword or punctuation.
	ErrNoContentWords = errors.New("no content words in input")
)

const (
	// DefaultSentences is the number of sentences extracted by TextRank and Lead.
	DefaultSentences = 5

	// minGraphSentences is the smallest input a sentence graph can be built from.
	minGraphSentences = 2
)
