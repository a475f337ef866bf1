package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_NoOptionsRunsOnce(t *testing.T) {
	e := NewExecutor()

	calls := 0
	testErr := errors.New("fail")
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return testErr
	})

	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecutor_TimeoutPerAttempt(t *testing.T) {
	e := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
		WithTimeout(20*time.Millisecond),
	)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		// A fresh deadline is set for each attempt.
		if dl, ok := ctx.Deadline(); !ok || time.Until(dl) <= 0 {
			t.Error("expected a live deadline on retry")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestExecutor_PermanentStopsRetry(t *testing.T) {
	e := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})),
		WithTimeout(time.Second),
	)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(errors.New("400 bad request"))
	})

	if !IsPermanent(err) {
		t.Errorf("Execute() error = %v, want permanent", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
