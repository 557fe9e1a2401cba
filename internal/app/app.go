// Package app wires the summarization service from the application
// configuration. It is shared by the HTTP API and the command line tool.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"paper-digest/internal/config"
	"paper-digest/internal/infra/extractive"
	"paper-digest/internal/infra/summarizer"
	"paper-digest/internal/infra/worker"
	"paper-digest/internal/usecase/summarize"
)

// Strategy ids used in results, logs, metrics and STRATEGIES_FILE.
const (
	StrategyRemote      = "remote"
	StrategyTextRank    = "textrank"
	StrategyStatistical = "statistical"
	StrategyLead        = "lead"
)

// Built-in priorities. Lower runs first in sequential mode and wins racing ties.
const (
	priorityRemote      = 0
	priorityTextRank    = 10
	priorityStatistical = 20
)

// Options controls how the service is instrumented and executed.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Executor runs racing-mode invocations. Nil starts one goroutine per invocation.
	Executor summarize.Executor

	// Metrics enables Prometheus metrics on the default registry.
	Metrics bool
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Descriptors returns the built-in strategies in registration order. The remote
// strategy is only included when a provider is configured.
func Descriptors(cfg *config.Config, opts Options) ([]summarize.StrategyDescriptor, error) {
	var descriptors []summarize.StrategyDescriptor

	if cfg.Remote.Enabled() {
		remoteOpts := []summarizer.Option{summarizer.WithLogger(opts.logger())}
		if opts.Metrics {
			remoteOpts = append(remoteOpts, summarizer.WithMetrics(summarizer.DefaultPrometheusMetrics()))
		}
		remote, err := summarizer.New(cfg.Remote, remoteOpts...)
		switch {
		case errors.Is(err, summarizer.ErrProviderDisabled):
		case err != nil:
			return nil, fmt.Errorf("remote strategy: %w", err)
		default:
			descriptors = append(descriptors, summarize.StrategyDescriptor{
				ID:       StrategyRemote,
				Strategy: remote,
				Input:    summarize.InputFull,
				Priority: priorityRemote,
			})
		}
	}

	descriptors = append(descriptors,
		summarize.StrategyDescriptor{
			ID:       StrategyTextRank,
			Strategy: extractive.NewTextRank(),
			Input:    summarize.InputTruncated,
			Priority: priorityTextRank,
		},
		summarize.StrategyDescriptor{
			ID:       StrategyStatistical,
			Strategy: extractive.NewFrequency(),
			Input:    summarize.InputTruncated,
			Priority: priorityStatistical,
		},
	)
	return descriptors, nil
}

// NewRegistry builds the strategy registry with overrides applied.
// A nil overrides value leaves the built-in settings untouched.
func NewRegistry(cfg *config.Config, overrides *config.StrategyOverrides, opts Options) (*summarize.Registry, error) {
	descriptors, err := Descriptors(cfg, opts)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		if descriptors, err = overrides.Apply(descriptors); err != nil {
			return nil, err
		}
	}

	terminal := summarize.TerminalDescriptor{ID: StrategyLead, Strategy: extractive.NewLead()}
	return summarize.NewRegistry(terminal, descriptors...)
}

// NewService creates the summarization service over registry, with the result
// cache sized by cfg.Summarize.CacheCapacity.
func NewService(cfg *config.Config, registry *summarize.Registry, opts Options) *summarize.Service {
	var metrics summarize.MetricsRecorder = summarize.NoopMetrics{}
	if opts.Metrics {
		metrics = summarize.DefaultPrometheusMetrics()
	}

	orchOpts := []summarize.Option{
		summarize.WithLogger(opts.logger()),
		summarize.WithMetrics(metrics),
	}
	if opts.Executor != nil {
		orchOpts = append(orchOpts, summarize.WithExecutor(opts.Executor))
	}

	orchestrator := summarize.NewOrchestrator(registry, cfg.Summarize, orchOpts...)
	cache := summarize.NewCache(cfg.Summarize.CacheCapacity, metrics)
	return summarize.NewService(orchestrator, cache)
}

// NewPool creates the strategy worker pool. Prometheus registration happens at
// most once per process, so call it once.
func NewPool(cfg *config.Config, opts Options) *worker.Pool {
	var metrics worker.Metrics = worker.NoopMetrics{}
	if opts.Metrics {
		metrics = worker.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	}
	return worker.NewPool(cfg.Workers, opts.logger(), metrics)
}
