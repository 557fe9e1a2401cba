// Package resilience provides fault tolerance helpers for calls that leave the
// process: remote model providers, paper pages and the usage database.
//
// The package supports:
//   - Circuit breakers around remote providers and database statements
//   - Retry with exponential backoff and jitter for transient fetch failures
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.RemoteModelConfig("gemini"))
//	summary, err := circuitbreaker.Do(cb, func() (string, error) {
//	    return callProvider(ctx)
//	})
//	if circuitbreaker.IsRejected(err) {
//	    // circuit open, try the next strategy
//	}
//
//	err := retry.WithBackoff(ctx, retry.ContentFetchConfig(), func() error {
//	    return fetchPage()
//	})
package resilience
