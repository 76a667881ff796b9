package common

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy configures Retrier. A zero MaxRetries disables retrying.
type RetryPolicy struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	EnableJitter bool
	// ShouldRetry decides whether an error is worth another attempt. Defaults to IsRetryable.
	ShouldRetry func(error) bool
}

// Retrier runs an operation with bounded exponential backoff.
type Retrier struct {
	policy RetryPolicy
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a new retrier
func NewRetrier(policy RetryPolicy, logger zerolog.Logger) *Retrier {
	if policy.ShouldRetry == nil {
		policy.ShouldRetry = IsRetryable
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	return &Retrier{
		policy: policy,
		logger: logger.With().Str("component", "Retrier").Logger(),
		sleep:  sleepContext,
	}
}

// NoRetry returns a retrier that runs every operation exactly once.
func NoRetry() *Retrier {
	return NewRetrier(RetryPolicy{}, zerolog.Nop())
}

// Enabled reports whether the retrier may repeat an operation.
func (r *Retrier) Enabled() bool {
	return r != nil && r.policy.MaxRetries > 0
}

// CalculateDelay calculates the delay for the next retry attempt using exponential backoff
func (r *Retrier) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return r.policy.BaseDelay
	}

	delay := r.policy.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	if delay > r.policy.MaxDelay || delay <= 0 {
		delay = r.policy.MaxDelay
	}

	if r.policy.EnableJitter && delay >= 10*time.Millisecond {
		jitter := time.Duration(rand.Int63n(int64(delay / 10)))
		delay += jitter
	}

	return delay
}

// Do runs op until it succeeds, returns a non-retryable error, the attempts are
// exhausted or ctx is done. The last error is returned unchanged.
func (r *Retrier) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	if r == nil {
		return op(ctx)
	}

	var lastErr error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == r.policy.MaxRetries || !r.policy.ShouldRetry(lastErr) {
			return lastErr
		}

		delay := r.CalculateDelay(attempt)
		r.logger.Warn().
			Err(lastErr).
			Str("operation", name).
			Int("attempt", attempt+1).
			Int("max_retries", r.policy.MaxRetries).
			Dur("delay", delay).
			Msg("Operation failed, retrying")

		if err := r.sleep(ctx, delay); err != nil {
			return lastErr
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
