package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantWords int
		wantErr   error
	}{
		{name: "single sentence", text: "Attention is all you need.", wantWords: 5},
		{name: "multi-line text", text: "Abstract\n\nWe propose  a model.", wantWords: 5},
		{name: "empty text", text: "", wantErr: ErrEmptyDocument},
		{name: "whitespace only", text: " \n\t ", wantErr: ErrEmptyDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.text, doc.Text)
			assert.Equal(t, tt.wantWords, doc.WordCount)
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
	assert.Equal(t, "timeout", OutcomeTimeout.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestStrategyResult_Accepted(t *testing.T) {
	assert.True(t, StrategyResult{Outcome: OutcomeSuccess, Text: "x"}.Accepted())
	assert.False(t, StrategyResult{Outcome: OutcomeSuccess}.Accepted())
	assert.False(t, StrategyResult{Outcome: OutcomeFailure, Text: "x"}.Accepted())
}

func TestStrategyFailure_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := fmt.Errorf("invoke: %w", &StrategyFailure{StrategyID: "remote", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invoke: strategy remote failed: quota exceeded", err.Error())

	var failure *StrategyFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "remote", failure.StrategyID)
}
