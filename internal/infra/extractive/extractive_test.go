package extractive_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-digest/internal/infra/extractive"
	"paper-digest/internal/utils/text"
)

const paperAbstract = `Transformers process sequences with attention. ` +
	`Attention lets every token look at every other token. ` +
	`The weather was pleasant during the conference. ` +
	`Self attention replaces recurrence in sequence models. ` +
	`Training transformers on large corpora improves translation quality. ` +
	`Lunch was served at noon. ` +
	`Attention heads learn different sequence relations. ` +
	`Transformers now dominate sequence modelling benchmarks.`

/* ───────── TextRank ───────── */

func TestTextRank_Summarize(t *testing.T) {
	tr := extractive.NewTextRank()

	got, err := tr.Summarize(context.Background(), paperAbstract)
	require.NoError(t, err)

	sentences := text.SplitSentences(got)
	assert.Len(t, sentences, 5)
	assert.NotContains(t, got, "Lunch was served at noon.")

	// selected sentences keep their original relative order
	last := -1
	for _, s := range sentences {
		pos := strings.Index(paperAbstract, s)
		require.GreaterOrEqual(t, pos, 0, "sentence %q not found in source", s)
		assert.Greater(t, pos, last)
		last = pos
	}
}

func TestTextRank_Deterministic(t *testing.T) {
	tr := extractive.NewTextRank()

	first, err := tr.Summarize(context.Background(), paperAbstract)
	require.NoError(t, err)
	second, err := tr.Summarize(context.Background(), paperAbstract)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTextRank_FewerSentencesThanLimit(t *testing.T) {
	tr := extractive.NewTextRank()

	got, err := tr.Summarize(context.Background(), "Graphs rank sentences. Sentences form graphs.")
	require.NoError(t, err)
	assert.Equal(t, "Graphs rank sentences. Sentences form graphs.", got)
}

func TestTextRank_TooFewSentences(t *testing.T) {
	tr := extractive.NewTextRank()

	_, err := tr.Summarize(context.Background(), "Only one sentence here")
	assert.ErrorIs(t, err, extractive.ErrTooFewSentences)
}

func TestTextRank_CancelledContext(t *testing.T) {
	tr := extractive.NewTextRank()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Summarize(ctx, paperAbstract)
	assert.ErrorIs(t, err, context.Canceled)
}

/* ───────── Frequency ───────── */

func TestFrequency_Summarize(t *testing.T) {
	f := extractive.NewFrequency()

	got, err := f.Summarize(context.Background(), paperAbstract)
	require.NoError(t, err)

	// 8 sentences * 0.2 rounds up to 2
	sentences := text.SplitSentences(got)
	assert.Len(t, sentences, 2)
	for _, s := range sentences {
		assert.Contains(t, paperAbstract, s)
	}
	assert.NotContains(t, got, "Lunch")
}

func TestFrequency_Errors(t *testing.T) {
	f := extractive.NewFrequency()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "single sentence", input: "Just one.", wantErr: extractive.ErrTooFewSentences},
		{name: "only stopwords", input: "It is. And then. Or so.", wantErr: extractive.ErrNoContentWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Summarize(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFrequency_MaxSentences(t *testing.T) {
	f := &extractive.Frequency{Ratio: 1, MaxSentences: 3}

	got, err := f.Summarize(context.Background(), paperAbstract)
	require.NoError(t, err)
	assert.Len(t, text.SplitSentences(got), 3)
}

/* ───────── Lead ───────── */

func TestLead_Summarize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "six sentences keeps first five",
			input: "One is here. Two is here. Three is here. Four is here. Five is here. Six is here.",
			want:  "One is here. Two is here. Three is here. Four is here. Five is here.",
		},
		{
			name:  "mixed punctuation preserved",
			input: "Why? Because! It works. Really. Yes. No.",
			want:  "Why? Because! It works. Really. Yes.",
		},
		{
			name:  "fewer than five returns whole text",
			input: "  Short text. Only two sentences  ",
			want:  "Short text. Only two sentences",
		},
		{
			name:  "no punctuation at all",
			input: "a wall of text without any sentence ends",
			want:  "a wall of text without any sentence ends",
		},
	}

	lead := extractive.NewLead()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lead.Summarize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestLead_NeverEmptyForNonEmptyInput(t *testing.T) {
	lead := extractive.NewLead()
	for _, input := range []string{"x", ".", "?!", "word.", strings.Repeat("a. ", 50)} {
		assert.NotEmpty(t, strings.TrimSpace(lead.Summarize(input)), "input %q", input)
	}
}
