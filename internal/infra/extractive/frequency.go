package extractive

import (
	"context"
	"math"
	"strings"

	"paper-digest/internal/utils/text"
)

const (
	defaultRatio         = 0.2
	defaultPositionBoost = 0.1
)

// Frequency scores sentences by the normalized frequency of their content words,
// with a small bonus for sentences near the start of the document, and keeps
// the top Ratio of sentences in their original order.
type Frequency struct {
	// Ratio is the fraction of sentences to keep. Default: 0.2.
	Ratio float64

	// MaxSentences caps the output length. Default: 5.
	MaxSentences int
}

// NewFrequency creates a Frequency summarizer with default ratio and cap.
func NewFrequency() *Frequency {
	return &Frequency{Ratio: defaultRatio, MaxSentences: DefaultSentences}
}

// Summarize implements the summarization strategy contract.
// It fails with ErrTooFewSentences on single-sentence input and with
// ErrNoContentWords when nothing but stopwords remain.
func (f *Frequency) Summarize(ctx context.Context, input string) (string, error) {
	sentences := text.SplitSentences(input)
	if len(sentences) < minGraphSentences {
		return "", ErrTooFewSentences
	}

	tokens := make([][]string, len(sentences))
	freq := make(map[string]float64)
	for i, s := range sentences {
		tokens[i] = contentWords(s)
		for _, w := range tokens[i] {
			freq[w]++
		}
	}
	if len(freq) == 0 {
		return "", ErrNoContentWords
	}

	maxFreq := 0.0
	for _, c := range freq {
		maxFreq = math.Max(maxFreq, c)
	}

	n := float64(len(sentences))
	scores := make([]float64, len(sentences))
	for i, toks := range tokens {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(toks) == 0 {
			continue
		}
		sum := 0.0
		for _, w := range toks {
			sum += freq[w] / maxFreq
		}
		scores[i] = sum/float64(len(toks)) + defaultPositionBoost*(1-float64(i)/n)
	}

	return strings.Join(topInOrder(sentences, scores, f.count(len(sentences))), " "), nil
}

// count returns how many sentences to keep for an input of n sentences.
func (f *Frequency) count(n int) int {
	ratio := f.Ratio
	if ratio <= 0 || ratio > 1 {
		ratio = defaultRatio
	}
	limit := f.MaxSentences
	if limit <= 0 {
		limit = DefaultSentences
	}
	k := int(math.Ceil(float64(n) * ratio))
	if k < 1 {
		k = 1
	}
	if k > limit {
		k = limit
	}
	return k
}
