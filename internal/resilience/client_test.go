package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickPolicy() Policy {
	return Policy{MaxRetries: 3, BackoffBase: time.Millisecond, CallTimeout: time.Second}
}

func TestCallEnforcesMinimumInterval(t *testing.T) {
	const interval = 30 * time.Millisecond
	c := NewClient(interval, quickPolicy())

	var stamps []time.Time
	for i := 0; i < 7; i++ {
		_, err := Call(context.Background(), c, "stamp", func(context.Context) (int, error) {
			stamps = append(stamps, time.Now())
			return i, nil
		}, -1)
		require.NoError(t, err)
	}

	require.Len(t, stamps, 7)
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		// Allow a few milliseconds of timer slack below the interval.
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "gap %d too small", i)
	}
}

func TestCallSucceedsWithinRetryBudget(t *testing.T) {
	c := NewClient(time.Millisecond, quickPolicy())

	attempts := 0
	v, err := Call(context.Background(), c, "flaky", func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, "fallback")

	require.NoError(t, err)
	assert.Equal(t, "ok", v, "third attempt should win, not the fallback")
	assert.Equal(t, 3, attempts)
}

func TestCallReturnsFallbackOnExhaustion(t *testing.T) {
	c := NewClient(time.Millisecond, quickPolicy())

	attempts := 0
	v, err := Call(context.Background(), c, "down", func(context.Context) (string, error) {
		attempts++
		return "", errors.New("still down")
	}, "fallback")

	require.NoError(t, err, "exhaustion degrades, it does not fail")
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 4, attempts, "first try plus MaxRetries")
}

func TestCallStrictSurfacesFinalError(t *testing.T) {
	c := NewClient(time.Millisecond, quickPolicy())

	sentinel := errors.New("bad position")
	_, err := CallStrict(context.Background(), c, "validate", func(context.Context) (int, error) {
		return 0, sentinel
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestCallStrictStopsOnPermanentError(t *testing.T) {
	c := NewClient(time.Millisecond, quickPolicy())

	sentinel := errors.New("no such region")
	attempts := 0
	_, err := CallStrict(context.Background(), c, "lookup", func(context.Context) (int, error) {
		attempts++
		return 0, Permanent(sentinel)
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts, "a permanent error must not be retried")
}

func TestPermanentNilStaysNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestCallHonoursContextCancellation(t *testing.T) {
	c := NewClient(time.Millisecond, Policy{MaxRetries: 10, BackoffBase: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Call(ctx, c, "cancelled", func(context.Context) (int, error) {
			attempts++
			return 0, errors.New("fail")
		}, -1)
		assert.ErrorIs(t, err, context.Canceled)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cancellation did not stop the retry loop")
	}
	assert.Less(t, attempts, 11, "cancellation must cut the retry loop short")
}

func TestCallTimeoutAppliesPerAttempt(t *testing.T) {
	c := NewClient(time.Millisecond, Policy{MaxRetries: 0, BackoffBase: time.Millisecond, CallTimeout: 20 * time.Millisecond})

	v, err := Call(context.Background(), c, "slow", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, "fallback")

	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}
