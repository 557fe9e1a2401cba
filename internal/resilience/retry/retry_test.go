package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		Name:           "test",
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff_Success(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(3), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithBackoff_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 500, Message: "Server Error"}
	err := WithBackoff(context.Background(), fastConfig(2), func() error {
		attempts++
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Errorf("expected wrapped %v, got %v", testErr, err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestWithBackoff_NonRetryableError(t *testing.T) {
	attempts := 0
	testErr := &HTTPError{StatusCode: 404, Message: "Not Found"}
	err := WithBackoff(context.Background(), fastConfig(5), func() error {
		attempts++
		return testErr
	})

	if err != testErr {
		t.Errorf("expected %v, got %v", testErr, err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		return syscall.ECONNRESET
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestWithBackoff_ZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	_ = WithBackoff(context.Background(), fastConfig(0), func() error {
		attempts++
		return nil
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "connection reset wrapped", err: fmt.Errorf("dial: %w", syscall.ECONNRESET), want: true},
		{name: "500", err: &HTTPError{StatusCode: 500}, want: true},
		{name: "429", err: &HTTPError{StatusCode: 429}, want: true},
		{name: "408", err: &HTTPError{StatusCode: 408}, want: true},
		{name: "404", err: &HTTPError{StatusCode: 404}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigs(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), ContentFetchConfig(), UsageStoreConfig()} {
		if cfg.MaxAttempts < 1 {
			t.Errorf("%s: MaxAttempts = %d", cfg.Name, cfg.MaxAttempts)
		}
		if cfg.InitialDelay > cfg.MaxDelay {
			t.Errorf("%s: InitialDelay %v > MaxDelay %v", cfg.Name, cfg.InitialDelay, cfg.MaxDelay)
		}
	}
	if UsageStoreConfig().MaxDelay >= ContentFetchConfig().MaxDelay {
		t.Error("usage store retries should back off faster than content fetches")
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 502, Message: "Bad Gateway"}
	if got := err.Error(); got != "HTTP 502: Bad Gateway" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestAddJitter(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		got := addJitter(base, 0.5)
		if got < base || got > base+base/2 {
			t.Fatalf("jitter out of range: %v", got)
		}
	}
	if got := addJitter(base, 0); got != base {
		t.Errorf("zero fraction should not change delay, got %v", got)
	}
}
