// Package resilience bounds backend round trips in time and optionally
// retries them.
//
// Secret resolution is strictly sequential, so only the patterns that make
// sense for a single caller are provided:
//
//   - Timeout: each attempt gets its own deadline.
//   - Retry: failed attempts are retried with backoff unless the error is
//     marked Permanent (for example an HTTP 4xx from the backend).
//
// Compose them with an Executor:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3})),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return login(ctx)
//	})
package resilience
