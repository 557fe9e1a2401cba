package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"paper-digest/internal/handler/http/respond"
)

// Timeout returns middleware that bounds the whole request, ingestion included.
// When the deadline passes first the client gets 504 and later writes from the
// handler are dropped. The handler's context is cancelled so in-flight fetches
// stop; the orchestrator ignores that cancellation and finishes within its
// per-strategy timeouts.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			tw := &timeoutWriter{ResponseWriter: w, header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
			case <-ctx.Done():
			}

			tw.mu.Lock()
			defer tw.mu.Unlock()
			if ctx.Err() != nil {
				tw.timedOut = true
				respond.Error(w, http.StatusGatewayTimeout, "request timeout")
				return
			}
			tw.flush()
		})
	}
}

// timeoutWriter buffers the handler's response until it completes, so a
// timeout response is never interleaved with a partial one.
type timeoutWriter struct {
	http.ResponseWriter

	mu       sync.Mutex
	header   http.Header
	body     []byte
	status   int
	timedOut bool
}

func (w *timeoutWriter) Header() http.Header {
	return w.header
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.status != 0 {
		return
	}
	w.status = code
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body = append(w.body, b...)
	return len(b), nil
}

// flush copies the buffered response to the client. Callers hold mu.
func (w *timeoutWriter) flush() {
	dst := w.ResponseWriter.Header()
	for k, v := range w.header {
		dst[k] = v
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(w.body)
}
