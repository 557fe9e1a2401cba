package extractive

import (
	"context"
	"math"
	"sort"
	"strings"

	"paper-digest/internal/utils/text"
)

const (
	dampingFactor     = 0.85
	maxRankIterations = 100
	rankTolerance     = 1e-6
)

// TextRank ranks sentences by centrality in a word-overlap similarity graph
// and returns the top sentences in their original order.
//
// Similarity between sentences i and j follows the original TextRank paper:
//
//	|common words| / (log(1+|Si|) + log(1+|Sj|))
//
// TextRank is stateless and safe for concurrent use.
type TextRank struct {
	// Sentences is the number of sentences to extract. Default: 5.
	Sentences int
}

// NewTextRank creates a TextRank summarizer extracting DefaultSentences sentences.
func NewTextRank() *TextRank {
	return &TextRank{Sentences: DefaultSentences}
}

// Summarize implements the summarization strategy contract.
// It fails with ErrTooFewSentences when the text has fewer than two sentences,
// and returns ctx.Err() if the context is cancelled while ranking.
func (t *TextRank) Summarize(ctx context.Context, input string) (string, error) {
	sentences := text.SplitSentences(input)
	if len(sentences) < minGraphSentences {
		return "", ErrTooFewSentences
	}

	words := make([]map[string]struct{}, len(sentences))
	for i, s := range sentences {
		words[i] = make(map[string]struct{})
		for _, w := range contentWords(s) {
			words[i][w] = struct{}{}
		}
	}

	weights := similarityMatrix(words)
	scores, err := pageRank(ctx, weights)
	if err != nil {
		return "", err
	}

	return strings.Join(topInOrder(sentences, scores, t.limit()), " "), nil
}

func (t *TextRank) limit() int {
	if t.Sentences <= 0 {
		return DefaultSentences
	}
	return t.Sentences
}

// similarityMatrix builds the symmetric edge-weight matrix of the sentence graph.
func similarityMatrix(words []map[string]struct{}) [][]float64 {
	n := len(words)
	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			common := 0
			for w := range words[i] {
				if _, ok := words[j][w]; ok {
					common++
				}
			}
			if common == 0 {
				continue
			}
			denom := math.Log(1+float64(len(words[i]))) + math.Log(1+float64(len(words[j])))
			weights[i][j] = float64(common) / denom
			weights[j][i] = weights[i][j]
		}
	}
	return weights
}

// pageRank runs weighted PageRank power iteration until convergence.
func pageRank(ctx context.Context, weights [][]float64) ([]float64, error) {
	n := len(weights)
	outWeight := make([]float64, n)
	for j := range weights {
		for k := range weights[j] {
			outWeight[j] += weights[j][k]
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < maxRankIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		delta := 0.0
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if weights[j][i] == 0 || outWeight[j] == 0 {
					continue
				}
				sum += weights[j][i] / outWeight[j] * scores[j]
			}
			next[i] = (1-dampingFactor)/float64(n) + dampingFactor*sum
			delta = math.Max(delta, math.Abs(next[i]-scores[i]))
		}
		scores, next = next, scores
		if delta < rankTolerance {
			break
		}
	}
	return scores, nil
}

// topInOrder picks the limit highest-scoring sentences (earlier sentence wins ties)
// and returns them in document order.
func topInOrder(sentences []string, scores []float64, limit int) []string {
	idx := make([]int, len(sentences))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if limit > len(idx) {
		limit = len(idx)
	}
	picked := append([]int(nil), idx[:limit]...)
	sort.Ints(picked)

	out := make([]string, 0, len(picked))
	for _, i := range picked {
		out = append(out, sentences[i])
	}
	return out
}
