package summarize_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"paper-digest/internal/domain/entity"
	"paper-digest/internal/infra/extractive"
	"paper-digest/internal/usecase/summarize"
)

const sixSentences = "Transformers changed NLP. They rely on attention. Attention weighs tokens. " +
	"Training needs large corpora. Results beat recurrent models. Future work remains open."

var errQuota = errors.New("quota exceeded")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDocument(t *testing.T, text string) entity.Document {
	t.Helper()
	doc, err := entity.NewDocument(text)
	require.NoError(t, err)
	return doc
}

// after returns text once delay has passed, or the context error.
func after(delay time.Duration, text string) summarize.StrategyFunc {
	return func(ctx context.Context, _ string) (string, error) {
		select {
		case <-time.After(delay):
			return text, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func failing(err error) summarize.StrategyFunc {
	return func(context.Context, string) (string, error) {
		return "", err
	}
}

// stubborn ignores cancellation and only returns once release is closed.
func stubborn(t *testing.T) summarize.StrategyFunc {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	return func(context.Context, string) (string, error) {
		<-release
		return "too late", nil
	}
}

// counting wraps a strategy and counts invocations and the inputs it saw.
type counting struct {
	next   summarize.Strategy
	calls  atomic.Int32
	mu     sync.Mutex
	inputs []string
}

func (c *counting) Summarize(ctx context.Context, text string) (string, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.inputs = append(c.inputs, text)
	c.mu.Unlock()
	return c.next.Summarize(ctx, text)
}

func terminal() summarize.TerminalDescriptor {
	return summarize.TerminalDescriptor{ID: "lead", Strategy: extractive.NewLead()}
}

func newRegistry(t *testing.T, descriptors ...summarize.StrategyDescriptor) *summarize.Registry {
	t.Helper()
	reg, err := summarize.NewRegistry(terminal(), descriptors...)
	require.NoError(t, err)
	return reg
}

func testConfig(mode summarize.Mode) summarize.Config {
	cfg := summarize.DefaultConfig()
	cfg.Mode = mode
	cfg.StrategyTimeout = 100 * time.Millisecond
	return cfg
}

// recordingMetrics captures what the orchestrator and cache report.
type recordingMetrics struct {
	mu             sync.Mutex
	strategies     map[string][]entity.Outcome
	orchestrations int
	fallbacks      int
	cache          map[summarize.CacheEvent]int
	size           int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		strategies: map[string][]entity.Outcome{},
		cache:      map[summarize.CacheEvent]int{},
	}
}

func (m *recordingMetrics) RecordStrategy(id string, outcome entity.Outcome, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies[id] = append(m.strategies[id], outcome)
}

func (m *recordingMetrics) RecordOrchestration(_ summarize.Mode, _ string, fallback bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orchestrations++
	if fallback {
		m.fallbacks++
	}
}

func (m *recordingMetrics) RecordCache(event summarize.CacheEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[event]++
}

func (m *recordingMetrics) SetCacheSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.size = n
}

func (m *recordingMetrics) cacheCount(event summarize.CacheEvent) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache[event]
}

func outcomeOf(t *testing.T, s entity.Summary, id string) entity.Outcome {
	t.Helper()
	for _, a := range s.Attempts {
		if a.StrategyID == id {
			return a.Outcome
		}
	}
	t.Fatalf("no attempt recorded for %s in %+v", id, s.Attempts)
	return -1
}
