// Package circuitbreaker guards the outbound dependencies of the summarizer:
// remote model providers, paper page fetching and the usage store. Each guard
// wraps a github.com/sony/gobreaker breaker whose failure accounting ignores
// calls the caller gave up on, so abandoned racing attempts never open a circuit.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes one breaker.
type Config struct {
	// Name labels state-change logs.
	Name string

	// MaxRequests is how many trial calls pass while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts. Zero keeps them until a trip.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0.6 = 60%) that opens the circuit
	// once MinRequests calls have been counted.
	FailureThreshold float64
	MinRequests      uint32

	// Neutral reports errors that say nothing about the dependency's health.
	// Nil means IgnoreCancellation.
	Neutral func(err error) bool
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// RemoteModelConfig guards one generative model provider. Quota errors come in
// bursts, so the circuit stays open for a minute once 60% of calls fail.
func RemoteModelConfig(provider string) Config {
	return DefaultConfig(provider + "-api")
}

// ContentFetchConfig guards fetching paper pages by URL.
func ContentFetchConfig() Config {
	cfg := DefaultConfig("content-fetch")
	cfg.MaxRequests = 5
	cfg.Interval = time.Minute
	return cfg
}

// IgnoreCancellation treats context.Canceled as neutral. A missed deadline
// still counts against the dependency.
func IgnoreCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsRejected reports whether err came from the breaker refusing a call rather
// than from the guarded function.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// CircuitBreaker is a named gobreaker breaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	neutral := cfg.Neutral
	if neutral == nil {
		neutral = IgnoreCancellation
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		// gobreaker v1 has no "ignore" outcome; neutral errors are booked as successes.
		IsSuccessful: func(err error) bool {
			return err == nil || neutral(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker. While the circuit is open it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// Do is Execute for a typed result.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		v, err := fn()
		out = v
		return nil, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Counts returns the counts of the current generation.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
