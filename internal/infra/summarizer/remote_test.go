package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-digest/internal/domain/entity"
	"paper-digest/internal/resilience/circuitbreaker"
)

type fakeBackend struct {
	calls  atomic.Int32
	prompt atomic.Value
	out    string
	err    error
}

func (f *fakeBackend) generate(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.prompt.Store(prompt)
	return f.out, f.err
}

// abandonedBackend blocks until the caller gives up on the request.
type abandonedBackend struct {
	calls atomic.Int32
}

func (b *abandonedBackend) generate(ctx context.Context, _ string) (string, error) {
	b.calls.Add(1)
	<-ctx.Done()
	return "", fmt.Errorf("post: %w", ctx.Err())
}

type mockMetrics struct {
	mu       sync.Mutex
	statuses []string
	lengths  []int
}

func (m *mockMetrics) RecordRequest(_, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *mockMetrics) RecordSummaryLength(_ string, runes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lengths = append(m.lengths, runes)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRemote(b backend, m MetricsRecorder, opts ...Option) *Remote {
	cfg := DefaultConfig("fake")
	cfg.RateLimit = 0
	opts = append([]Option{WithMetrics(m), WithLogger(quietLogger())}, opts...)
	return newRemote("fake", b, cfg, opts)
}

/* ───────── Prompt ───────── */

func TestPrompt(t *testing.T) {
	assert.Equal(t, "Summarize this research paper in simple words:\n\nAbstract.", Prompt("Abstract."))
}

/* ───────── Summarize ───────── */

func TestRemote_Success(t *testing.T) {
	b := &fakeBackend{out: "  A short summary.\n"}
	m := &mockMetrics{}
	r := newTestRemote(b, m)

	got, err := r.Summarize(context.Background(), "Paper text.")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
	assert.Equal(t, Prompt("Paper text."), b.prompt.Load())
	assert.Equal(t, []string{StatusSuccess}, m.statuses)
	assert.Equal(t, []int{16}, m.lengths)
}

func TestRemote_BlankCompletionIsEmptyResult(t *testing.T) {
	m := &mockMetrics{}
	r := newTestRemote(&fakeBackend{out: " \n "}, m)

	_, err := r.Summarize(context.Background(), "Paper text.")
	assert.ErrorIs(t, err, entity.ErrEmptyResult)
	assert.Equal(t, []string{StatusEmpty}, m.statuses)
}

func TestRemote_BackendError(t *testing.T) {
	cause := errors.New("quota exceeded")
	m := &mockMetrics{}
	r := newTestRemote(&fakeBackend{err: cause}, m)

	_, err := r.Summarize(context.Background(), "Paper text.")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fake api")
	assert.Equal(t, []string{StatusError}, m.statuses)
}

func TestRemote_NoRetry(t *testing.T) {
	b := &fakeBackend{err: errors.New("503")}
	r := newTestRemote(b, NoopMetrics{})

	_, err := r.Summarize(context.Background(), "Paper text.")
	require.Error(t, err)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestRemote_CircuitOpens(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "fake-api",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	})
	b := &fakeBackend{err: errors.New("boom")}
	m := &mockMetrics{}
	r := newTestRemote(b, m, WithBreaker(cb))

	_, err := r.Summarize(context.Background(), "x")
	require.Error(t, err)
	_, err = r.Summarize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCircuitOpen)

	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, []string{StatusError, StatusCircuitOpen}, m.statuses)
}

func TestRemote_AbandonedCallsKeepCircuitClosed(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "fake-api",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	})
	b := &abandonedBackend{}
	r := newTestRemote(b, NoopMetrics{}, WithBreaker(cb))

	// a racing orchestrator cancels the remote call once a faster strategy wins
	for i := 0; i < 6; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		stop := time.AfterFunc(5*time.Millisecond, cancel)
		_, err := r.Summarize(ctx, "x")
		stop.Stop()
		cancel()
		require.ErrorIs(t, err, context.Canceled)
		require.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, int32(6), b.calls.Load())
	assert.False(t, cb.IsOpen())

	ok := &fakeBackend{out: "A summary."}
	got, err := newTestRemote(ok, NoopMetrics{}, WithBreaker(cb)).Summarize(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", got)
	assert.Equal(t, int32(1), ok.calls.Load())
}

func TestRemote_RateLimitHonorsContext(t *testing.T) {
	cfg := DefaultConfig("fake")
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	b := &fakeBackend{out: "ok"}
	m := &mockMetrics{}
	r := newRemote("fake", b, cfg, []Option{WithMetrics(m), WithLogger(quietLogger())})

	_, err := r.Summarize(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Summarize(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, []string{StatusSuccess, StatusRateLimited}, m.statuses)
}

/* ───────── New ───────── */

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  error
		provider string
	}{
		{name: "gemini", cfg: Config{Provider: ProviderGemini, APIKey: "k"}, provider: ProviderGemini},
		{name: "openai", cfg: Config{Provider: ProviderOpenAI, APIKey: "k"}, provider: ProviderOpenAI},
		{name: "claude", cfg: Config{Provider: ProviderClaude, APIKey: "k"}, provider: ProviderClaude},
		{name: "none", cfg: Config{Provider: ProviderNone}, wantErr: ErrProviderDisabled},
		{name: "unknown", cfg: Config{Provider: "llama", APIKey: "k"}, wantErr: ErrUnknownProvider},
		{name: "missing key", cfg: Config{Provider: ProviderGemini}, wantErr: ErrMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, r.Provider())
		})
	}
}

/* ───────── Config ───────── */

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig(ProviderGemini)
	valid.APIKey = "k"
	assert.NoError(t, valid.Validate())
	assert.NoError(t, DefaultConfig(ProviderNone).Validate())

	missing := DefaultConfig(ProviderClaude)
	assert.ErrorIs(t, missing.Validate(), ErrMissingAPIKey)

	bad := Config{Provider: "bogus", APIKey: "k", MaxTokens: -1, RateLimit: -1}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
	assert.Contains(t, err.Error(), "max tokens")
	assert.Contains(t, err.Error(), "rate limit")
}
