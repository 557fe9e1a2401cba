package extractive

import (
	"strings"

	"paper-digest/internal/utils/text"
)

// Lead returns the opening sentences of a document. It never fails and is used
// as the terminal fallback when every other strategy is exhausted.
type Lead struct {
	// Sentences is the number of leading sentences to keep. Default: 5.
	Sentences int
}

// NewLead creates a Lead summarizer keeping DefaultSentences sentences.
func NewLead() *Lead {
	return &Lead{Sentences: DefaultSentences}
}

// Summarize returns the first Sentences sentences joined by a space, ending with
// terminal punctuation. Each sentence keeps its own punctuation, hence the space
// separator. Inputs with fewer sentences are returned whole (trimmed); the worst
// case is the input verbatim.
func (l *Lead) Summarize(input string) string {
	n := l.Sentences
	if n <= 0 {
		n = DefaultSentences
	}

	sentences := text.SplitSentences(input)
	if len(sentences) < n {
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			return trimmed
		}
		return input
	}

	summary := strings.Join(sentences[:n], " ")
	if !text.EndsWithTerminalPunct(summary) {
		summary += "."
	}
	return summary
}
