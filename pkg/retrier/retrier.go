// Package retrier implements bounded retries with exponential backoff.
package retrier

import (
	"context"
	"time"
)

const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
	defaultFactor   = 2.0
	defaultMaxDelay = 30 * time.Second
)

// Retrier reruns an operation a bounded number of times, sleeping a
// growing interval between tries.
type Retrier struct {
	attempts int
	delay    time.Duration
	factor   float64
	maxDelay time.Duration
}

// New creates a retrier. attempts is the total number of tries; values
// below 1 fall back to the default. delay <= 0 falls back to the
// default initial interval.
func New(attempts int, delay time.Duration) *Retrier {
	if attempts < 1 {
		attempts = defaultAttempts
	}
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Retrier{
		attempts: attempts,
		delay:    delay,
		factor:   defaultFactor,
		maxDelay: defaultMaxDelay,
	}
}

// Do runs fn until it succeeds, the attempt budget is spent, or the
// context is canceled. The last error is returned.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := r.delay

	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * r.factor)
			if delay > r.maxDelay {
				delay = r.maxDelay
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}

// DoWithData runs fn with retries and returns its value.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
