package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"paper-digest/internal/domain/entity"
	"paper-digest/internal/observability/logging"
	"paper-digest/internal/observability/tracing"
	"paper-digest/internal/utils/text"
)

// Executor runs strategy invocations. *worker.Pool satisfies it.
type Executor interface {
	// Submit hands fn to a worker, blocking until one accepts it or ctx is done.
	Submit(ctx context.Context, fn func()) error
}

// goroutineExecutor runs every task on its own goroutine.
// It is used when no pool is configured, e.g. in the CLI.
type goroutineExecutor struct{}

func (goroutineExecutor) Submit(_ context.Context, fn func()) error {
	go fn()
	return nil
}

// Orchestrator runs the registered strategies and always produces a Summary.
type Orchestrator struct {
	registry *Registry
	cfg      Config
	exec     Executor
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithExecutor runs racing-mode invocations on exec instead of ad hoc goroutines.
func WithExecutor(exec Executor) Option {
	return func(o *Orchestrator) { o.exec = exec }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator creates an Orchestrator over registry.
// Zero-valued config fields take their defaults.
func NewOrchestrator(registry *Registry, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.WordBudget <= 0 {
		cfg.WordBudget = def.WordBudget
	}
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = def.StrategyTimeout
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}

	o := &Orchestrator{
		registry: registry,
		cfg:      cfg,
		exec:     goroutineExecutor{},
		metrics:  NoopMetrics{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run summarizes doc. It never fails and never returns empty text for a non-empty document.
//
// Caller cancellation is ignored: per-strategy timeouts bound the call, and any
// request deadline belongs to an outer layer.
func (o *Orchestrator) Run(ctx context.Context, doc entity.Document) entity.Summary {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Orchestrate",
		trace.WithAttributes(
			attribute.String("summarize.mode", string(o.cfg.Mode)),
			attribute.Int("summarize.words", doc.WordCount),
		))
	defer span.End()

	full := doc.Text
	truncated := text.TruncateWords(doc.Text, o.cfg.WordBudget)

	var (
		winner   *entity.StrategyResult
		attempts []entity.StrategyResult
	)
	if o.cfg.Mode == ModeSequential {
		winner, attempts = o.sequential(ctx, full, truncated)
	} else {
		winner, attempts = o.race(ctx, full, truncated)
	}

	summary := entity.Summary{Attempts: attempts}
	if winner != nil {
		summary.Text = winner.Text
		summary.StrategyID = winner.StrategyID
	} else {
		// The terminal sees the same word budget as the local strategies.
		terminal := o.registry.Terminal()
		summary.Text = strings.TrimSpace(terminal.Strategy.Summarize(truncated))
		if summary.Text == "" {
			summary.Text = truncated
		}
		summary.StrategyID = terminal.ID
		summary.Fallback = true
	}
	summary.Elapsed = time.Since(start)

	o.metrics.RecordOrchestration(o.cfg.Mode, summary.StrategyID, summary.Fallback, summary.Elapsed)
	span.SetAttributes(
		attribute.String("summarize.strategy", summary.StrategyID),
		attribute.Bool("summarize.fallback", summary.Fallback),
		attribute.Int("summarize.attempts", len(attempts)),
	)
	logging.WithRequestID(ctx, o.logger).Info("summary produced",
		slog.String("strategy", summary.StrategyID),
		slog.String("mode", string(o.cfg.Mode)),
		slog.Bool("fallback", summary.Fallback),
		slog.Int("attempts", len(attempts)),
		slog.Duration("elapsed", summary.Elapsed))

	return summary
}

// sequential tries each strategy in priority order on the calling goroutine.
func (o *Orchestrator) sequential(ctx context.Context, full, truncated string) (*entity.StrategyResult, []entity.StrategyResult) {
	strategies := o.registry.Strategies()
	attempts := make([]entity.StrategyResult, 0, len(strategies))

	for _, d := range strategies {
		r := o.invoke(ctx, d, o.input(d, full, truncated))
		attempts = append(attempts, r)
		o.observe(ctx, r)
		if r.Accepted() {
			return &r, attempts
		}
	}
	return nil, attempts
}

// race launches every strategy on the executor and accepts the first success.
// Results that arrive after the winner are discarded; the buffered channel keeps
// late senders from blocking.
func (o *Orchestrator) race(ctx context.Context, full, truncated string) (*entity.StrategyResult, []entity.StrategyResult) {
	strategies := o.registry.Strategies()
	if len(strategies) == 0 {
		return nil, nil
	}

	runCtx, abandon := context.WithCancel(ctx)
	defer abandon()

	results := make(chan entity.StrategyResult, len(strategies))
	go o.submitAll(runCtx, strategies, full, truncated, results)

	attempts := make([]entity.StrategyResult, 0, len(strategies))
	pending := len(strategies)
	for pending > 0 {
		r := <-results
		pending--
		attempts = append(attempts, r)
		o.observe(ctx, r)

		if r.Accepted() {
			best := o.settleTie(ctx, r, results, &pending, &attempts)
			return &best, attempts
		}
	}
	return nil, attempts
}

// submitAll hands each strategy to the executor. Every strategy reports exactly
// one result on results, including when it could not be scheduled.
func (o *Orchestrator) submitAll(ctx context.Context, strategies []StrategyDescriptor, full, truncated string, results chan<- entity.StrategyResult) {
	for _, d := range strategies {
		input := o.input(d, full, truncated)
		task := func() {
			r := entity.StrategyResult{StrategyID: d.ID, Outcome: entity.OutcomeFailure, Reason: errWorkerAborted}
			defer func() { results <- r }()
			r = o.invoke(ctx, d, input)
		}

		// waiting for a worker is bounded by the strategy's own budget
		waitCtx, cancel := context.WithTimeout(ctx, o.timeout(d))
		err := o.exec.Submit(waitCtx, task)
		cancel()
		if err != nil {
			results <- classify(d.ID, "", fmt.Errorf("schedule: %w", err), o.timeout(d), 0)
		}
	}
}

// settleTie compares best against successes that are already queued, or that
// arrive within the tie window, and returns the highest-ranked one.
func (o *Orchestrator) settleTie(ctx context.Context, best entity.StrategyResult, results <-chan entity.StrategyResult, pending *int, attempts *[]entity.StrategyResult) entity.StrategyResult {
	var window <-chan time.Time
	if o.cfg.TieWindow > 0 {
		timer := time.NewTimer(o.cfg.TieWindow)
		defer timer.Stop()
		window = timer.C
	}

	for *pending > 0 {
		var r entity.StrategyResult
		select {
		case r = <-results:
		default:
			if window == nil {
				return best
			}
			select {
			case r = <-results:
			case <-window:
				return best
			}
		}

		*pending--
		*attempts = append(*attempts, r)
		o.observe(ctx, r)
		if r.Accepted() && o.registry.outranks(r.StrategyID, best.StrategyID) {
			best = r
		}
	}
	return best
}

type reply struct {
	out string
	err error
}

// invoke runs one strategy under its timeout. It returns when the strategy
// returns or the timeout fires, whichever comes first; a strategy that ignores
// cancellation keeps running on its own goroutine and its reply is dropped.
func (o *Orchestrator) invoke(ctx context.Context, d StrategyDescriptor, input string) entity.StrategyResult {
	timeout := o.timeout(d)

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Strategy",
		trace.WithAttributes(attribute.String("summarize.strategy", d.ID)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- reply{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		out, err := d.Strategy.Summarize(ctx, input)
		done <- reply{out: out, err: err}
	}()

	var r entity.StrategyResult
	select {
	case rep := <-done:
		r = classify(d.ID, rep.out, rep.err, timeout, time.Since(start))
	case <-ctx.Done():
		r = classify(d.ID, "", ctx.Err(), timeout, time.Since(start))
	}

	span.SetAttributes(attribute.String("summarize.outcome", r.Outcome.String()))
	if r.Reason != nil {
		span.SetStatus(codes.Error, r.Reason.Error())
	}
	return r
}

func (o *Orchestrator) observe(ctx context.Context, r entity.StrategyResult) {
	o.metrics.RecordStrategy(r.StrategyID, r.Outcome, r.Elapsed)

	logger := logging.WithRequestID(ctx, o.logger)
	if r.Outcome == entity.OutcomeSuccess {
		logger.Info("strategy succeeded",
			slog.String("strategy", r.StrategyID),
			slog.String("outcome", r.Outcome.String()),
			slog.Duration("elapsed", r.Elapsed))
		return
	}
	logger.Warn("strategy produced no summary",
		slog.String("strategy", r.StrategyID),
		slog.String("outcome", r.Outcome.String()),
		slog.Duration("elapsed", r.Elapsed),
		slog.Any("reason", r.Reason))
}

func (o *Orchestrator) input(d StrategyDescriptor, full, truncated string) string {
	if d.Input == InputFull {
		return full
	}
	return truncated
}

func (o *Orchestrator) timeout(d StrategyDescriptor) time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return o.cfg.StrategyTimeout
}

// Mode returns the configured execution mode.
func (o *Orchestrator) Mode() Mode { return o.cfg.Mode }
