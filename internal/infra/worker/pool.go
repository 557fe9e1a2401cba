// Package worker provides a long-lived, bounded pool of goroutines that runs
// summarization strategy invocations. The pool is started once at process start
// and shared by every request.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrPoolClosed is returned by Submit after Run has returned.
	ErrPoolClosed = errors.New("worker: pool closed")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("worker: pool already running")
)

type task struct {
	fn       func()
	enqueued time.Time
}

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Submit blocks until a worker accepts the task, so at most Size tasks run at once.
type Pool struct {
	size    int
	tasks   chan task
	done    chan struct{}
	running atomic.Bool
	logger  *slog.Logger
	metrics Metrics
}

// NewPool creates a pool. Call Run to start the workers.
func NewPool(cfg Config, logger *slog.Logger, metrics Metrics) *Pool {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	metrics.SetSize(cfg.Size)
	return &Pool{
		size:    cfg.Size,
		tasks:   make(chan task),
		done:    make(chan struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run starts the workers and blocks until ctx is cancelled and every worker
// has returned from its current task. After Run returns, Submit fails with ErrPoolClosed.
func (p *Pool) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(p.done)

	p.logger.Info("worker pool started", slog.Int("workers", p.size))

	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < p.size; i++ {
		eg.Go(func() error {
			p.work(egCtx)
			return nil
		})
	}
	err := eg.Wait()

	p.logger.Info("worker pool stopped")
	return err
}

// Submit hands fn to an idle worker. It blocks until a worker accepts the task,
// ctx is done, or the pool is closed.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task{fn: fn, enqueued: time.Now()}:
		return nil
	case <-p.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return fmt.Errorf("waiting for worker: %w", ctx.Err())
	}
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.tasks:
			p.run(t)
		}
	}
}

func (p *Pool) run(t task) {
	p.metrics.TaskStarted(time.Since(t.enqueued))
	panicked := true
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker task panicked", slog.Any("panic", r))
		}
		p.metrics.TaskFinished(panicked)
	}()

	t.fn()
	panicked = false
}
