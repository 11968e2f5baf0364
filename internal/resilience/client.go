// Package resilience provides the rate-limited, retrying client that
// wraps every call to external services. External-service
// unavailability is treated as a degraded-but-non-fatal condition: on
// retry exhaustion the caller's fallback value is returned instead of
// an error.
package resilience

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
)

// Policy configures retry behaviour.
type Policy struct {
	// MaxRetries is the number of attempts after the first failure.
	MaxRetries int

	// BackoffBase scales the delay between attempts as
	// base * 2^attempt.
	BackoffBase time.Duration

	// CallTimeout bounds each individual attempt. Zero disables the
	// per-attempt timeout.
	CallTimeout time.Duration
}

// DefaultPolicy matches the documented defaults: 3 retries, 500ms
// backoff base, 120s per-call ceiling.
var DefaultPolicy = Policy{
	MaxRetries:  3,
	BackoffBase: 500 * time.Millisecond,
	CallTimeout: 120 * time.Second,
}

// Client serializes calls to an external platform, enforcing a minimum
// inter-call gap with a single-slot token bucket and retrying failures
// with exponential backoff.
type Client struct {
	limiter *rate.Limiter
	policy  Policy
}

// NewClient creates a client enforcing minInterval between calls.
func NewClient(minInterval time.Duration, policy Policy) *Client {
	if minInterval <= 0 {
		minInterval = 100 * time.Millisecond
	}
	return &Client{
		// Burst 1 makes this a single-slot bucket: at most one call
		// per interval, no catch-up bursts.
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		policy:  policy,
	}
}

// Policy returns the client's retry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// permanentError marks an error as terminal: retrying cannot change
// the outcome, so the retry loop stops at the first occurrence.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Call and CallStrict stop retrying immediately
// and surface it. Use it for deterministic outcomes such as not-found
// lookups, where backoff only adds latency.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Call invokes fn with rate limiting and retries. On exhaustion it
// logs the failure and returns fallback with a nil error; the batch
// carries on. Context cancellation aborts both the limiter wait and
// the backoff sleeps and is returned as an error.
func Call[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error), fallback T) (T, error) {
	v, err := CallStrict(ctx, c, op, fn)
	if err == nil {
		return v, nil
	}
	if ctx.Err() != nil {
		return fallback, ctx.Err()
	}
	logger.Warn("%s: retries exhausted, using fallback: %v", op, err)
	return fallback, nil
}

// CallStrict is Call without the fallback swallow: the final error is
// surfaced to the caller. Used where failure must skip the item rather
// than degrade it.
func CallStrict[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.policy.BackoffBase << (attempt - 1)
			logger.Debug("%s: attempt %d failed, retrying in %v: %v", op, attempt, delay, lastErr)
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return zero, err
		}

		v, err := invoke(ctx, c.policy.CallTimeout, fn)
		if err == nil {
			return v, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

func invoke[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
