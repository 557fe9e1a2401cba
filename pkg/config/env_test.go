package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 2000},
		{name: "valid", value: "500", want: 500},
		{name: "with spaces", value: " 42 ", want: 42},
		{name: "invalid falls back", value: "lots", want: 2000},
		{name: "decimal falls back", value: "1.5", want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_WORD_BUDGET", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("TEST_WORD_BUDGET", 2000))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_TIMEOUT", "750ms")
	assert.Equal(t, 750*time.Millisecond, GetEnvDuration("TEST_TIMEOUT", 5*time.Second))

	t.Setenv("TEST_TIMEOUT", "five seconds")
	assert.Equal(t, 5*time.Second, GetEnvDuration("TEST_TIMEOUT", 5*time.Second))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "false")
	assert.False(t, GetEnvBool("TEST_FLAG", true))

	t.Setenv("TEST_FLAG", "maybe")
	assert.True(t, GetEnvBool("TEST_FLAG", true))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("TEST_RATE", "2.5")
	assert.InDelta(t, 2.5, GetEnvFloat("TEST_RATE", 1), 1e-9)
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("TEST_LIST", " gemini, ,openai ")
	assert.Equal(t, []string{"gemini", "openai"}, GetEnvStringList("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("TEST_LIST", []string{"x"}))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateNonNegativeDuration(0))
	assert.Error(t, ValidateNonNegativeDuration(-time.Millisecond))

	assert.NoError(t, ValidateDurationRange(time.Second, time.Millisecond, time.Minute))
	assert.Error(t, ValidateDurationRange(time.Hour, time.Millisecond, time.Minute))
	assert.Error(t, ValidateDurationRange(time.Second, time.Minute, time.Millisecond))

	assert.NoError(t, ValidateIntRange(3, 1, 64))
	assert.Error(t, ValidateIntRange(0, 1, 64))

	assert.NoError(t, ValidateOneOf("racing", "racing", "sequential"))
	assert.Error(t, ValidateOneOf("parallel", "racing", "sequential"))
}
