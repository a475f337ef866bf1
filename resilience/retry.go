package resilience

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryConfig configures a Retry. Zero fields take the defaults noted.
type RetryConfig struct {
	// MaxAttempts counts the first try. Default: 3.
	MaxAttempts int

	// InitialDelay is the wait after the first failure. Default: 100ms.
	InitialDelay time.Duration

	// MaxDelay caps a single wait. Default: 30s.
	MaxDelay time.Duration

	// Multiplier grows the wait after each failure. Default: 2.
	Multiplier float64

	// Jitter adds up to a quarter of the wait at random.
	Jitter bool

	// RetryIf reports whether err is worth another attempt.
	// Default: any error not marked Permanent.
	RetryIf func(err error) bool

	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry reruns a failing operation with exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a Retry from config.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier < 1 {
		config.Multiplier = 2
	}
	if config.RetryIf == nil {
		config.RetryIf = retryable
	}
	return &Retry{config: config}
}

// Execute runs op until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. Exhaustion wraps the last error with
// ErrMaxRetriesExceeded when more than one attempt was allowed. A canceled
// ctx stops the loop immediately.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil || !r.config.RetryIf(err) {
			return err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}
		if werr := sleep(ctx, delay); werr != nil {
			return werr
		}
	}

	if r.config.MaxAttempts == 1 {
		return err
	}
	return fmt.Errorf("%w (%d attempts): %w", ErrMaxRetriesExceeded, r.config.MaxAttempts, err)
}

func retryable(err error) bool {
	return err != nil && !IsPermanent(err)
}

// delay returns the wait after the given failed attempt:
// InitialDelay * Multiplier^(attempt-1), capped at MaxDelay, plus jitter.
func (r *Retry) delay(attempt int) time.Duration {
	d := float64(r.config.InitialDelay)
	for i := 1; i < attempt && d < float64(r.config.MaxDelay); i++ {
		d *= r.config.Multiplier
	}
	wait := min(time.Duration(d), r.config.MaxDelay)

	if r.config.Jitter && wait >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		wait += time.Duration(rand.Int64N(int64(wait / 4)))
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
