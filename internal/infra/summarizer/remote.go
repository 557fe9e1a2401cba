// Package summarizer provides the remote generative-model summarization strategy.
// Gemini, OpenAI and Claude backends share one wrapper that adds a circuit breaker,
// a token-bucket rate limiter, tracing, structured logging and Prometheus metrics.
//
// Remote calls are never retried: the orchestrator's per-strategy timeout is the
// only budget, and the local strategies are the fallback.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"paper-digest/internal/domain/entity"
	"paper-digest/internal/observability/tracing"
	"paper-digest/internal/resilience/circuitbreaker"
	"paper-digest/internal/utils/text"
)

// Sentinel errors for remote summarization.
var (
	// ErrMissingAPIKey indicates that the selected provider has no API key configured.
	ErrMissingAPIKey = errors.New("missing api key")

	// ErrProviderDisabled is returned by New when the provider is "none".
	ErrProviderDisabled = errors.New("remote provider disabled")

	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown remote provider")

	// ErrCircuitOpen indicates that the provider's circuit breaker rejected the call.
	ErrCircuitOpen = errors.New("remote provider unavailable: circuit breaker open")
)

const promptTemplate = "Summarize this research paper in simple words:\n\n%s"

// Prompt builds the instruction sent to every provider.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// backend performs a single generation request.
type backend interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Remote summarizes text with a hosted generative model.
// It satisfies the orchestrator's strategy contract and is safe for concurrent use.
type Remote struct {
	provider string
	backend  backend
	breaker  *circuitbreaker.CircuitBreaker
	limiter  *rate.Limiter
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// Option customizes a Remote.
type Option func(*Remote)

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *Remote) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Remote) { r.logger = l }
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(r *Remote) { r.breaker = cb }
}

// New returns the Remote for cfg.Provider.
func New(cfg Config, opts ...Option) (*Remote, error) {
	switch cfg.Provider {
	case ProviderNone:
		return nil, ErrProviderDisabled
	case ProviderGemini, ProviderOpenAI, ProviderClaude:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg, opts...), nil
	case ProviderClaude:
		return NewClaude(cfg, opts...), nil
	default:
		return NewGemini(cfg, opts...), nil
	}
}

func newRemote(provider string, b backend, cfg Config, opts []Option) *Remote {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	r := &Remote{
		provider: provider,
		backend:  b,
		breaker:  circuitbreaker.New(circuitbreaker.RemoteModelConfig(provider)),
		limiter:  rate.NewLimiter(limit, max(cfg.RateBurst, 1)),
		metrics:  NoopMetrics{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Provider returns the provider name.
func (r *Remote) Provider() string {
	return r.provider
}

// Summarize asks the provider for a plain-language summary of text.
// A blank completion is reported as entity.ErrEmptyResult.
func (r *Remote) Summarize(ctx context.Context, input string) (string, error) {
	requestID := uuid.NewString()
	logger := r.logger.With(
		slog.String("provider", r.provider),
		slog.String("remote_request_id", requestID))

	ctx, span := tracing.GetTracer().Start(ctx, "summarizer.Remote")
	span.SetAttributes(
		attribute.String("summarizer.provider", r.provider),
		attribute.Int("summarizer.input_runes", text.CountRunes(input)))
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		r.metrics.RecordRequest(r.provider, StatusRateLimited, 0)
		span.SetStatus(codes.Error, "rate limited")
		return "", fmt.Errorf("%s rate limit: %w", r.provider, err)
	}

	start := time.Now()
	res, err := circuitbreaker.Do(r.breaker, func() (string, error) {
		return r.backend.generate(ctx, Prompt(input))
	})
	duration := time.Since(start)

	if err != nil {
		if circuitbreaker.IsRejected(err) {
			r.metrics.RecordRequest(r.provider, StatusCircuitOpen, duration)
			logger.Warn("remote call rejected", slog.String("state", r.breaker.State().String()))
			span.SetStatus(codes.Error, "circuit open")
			return "", ErrCircuitOpen
		}
		r.metrics.RecordRequest(r.provider, StatusError, duration)
		logger.Warn("remote call failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%s api: %w", r.provider, err)
	}

	summary := strings.TrimSpace(res)
	if summary == "" {
		r.metrics.RecordRequest(r.provider, StatusEmpty, duration)
		logger.Warn("remote call returned no text", slog.Duration("duration", duration))
		return "", fmt.Errorf("%s api: %w", r.provider, entity.ErrEmptyResult)
	}

	runes := text.CountRunes(summary)
	r.metrics.RecordRequest(r.provider, StatusSuccess, duration)
	r.metrics.RecordSummaryLength(r.provider, runes)
	span.SetAttributes(attribute.Int("summarizer.summary_runes", runes))
	logger.Info("remote call completed",
		slog.Int("summary_length", runes),
		slog.Duration("duration", duration))

	return summary, nil
}
