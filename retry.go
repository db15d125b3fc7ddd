package renderscreenshot

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy computes backoff for callers that want to retry failed
// requests. The client itself never retries; a typical loop is:
//
//	policy := renderscreenshot.DefaultRetryPolicy()
//	for attempt := 0; ; attempt++ {
//		data, err := client.Take(ctx, opts)
//		if !policy.ShouldRetry(attempt, err) {
//			return data, err
//		}
//		if err := policy.Wait(ctx, attempt, err); err != nil {
//			return nil, err
//		}
//	}
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the initial delay between retry attempts.
	BaseDelay time.Duration
	// MaxDelay caps computed delays. A server Retry-After hint may exceed it.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay increases after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to computed
	// delays.
	Jitter float64
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}
}

// ShouldRetry reports whether another attempt should follow the zero-based
// attempt that returned err.
func (r *RetryPolicy) ShouldRetry(attempt int, err error) bool {
	if err == nil || attempt >= r.MaxRetries {
		return false
	}
	return IsRetryable(err)
}

// Delay returns the wait before the next attempt. A Retry-After hint on err
// is used as-is; otherwise the delay grows exponentially from BaseDelay.
func (r *RetryPolicy) Delay(attempt int, err error) time.Duration {
	if d, ok := RetryAfter(err); ok {
		return d
	}

	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// Wait sleeps for Delay(attempt, err) or until ctx is done.
func (r *RetryPolicy) Wait(ctx context.Context, attempt int, err error) error {
	timer := time.NewTimer(r.Delay(attempt, err))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
