package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable marks failures to reach a remote cache backend.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError flags a failure that may succeed when repeated.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// classify wraps connection-level failures from the Redis client as
// transient ErrUnavailable errors. Command errors such as WRONGTYPE pass
// through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, redis.ErrPoolTimeout) {
		return &transientError{fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	return err
}

// retryPolicy repeats transient failures with doubling delays.
type retryPolicy struct {
	attempts int
	delay    time.Duration
	maxDelay time.Duration
}

var defaultRetry = retryPolicy{attempts: 3, delay: 50 * time.Millisecond, maxDelay: time.Second}

// do runs fn until it succeeds, fails permanently or attempts run out. The
// returned error names op and unwraps to the last failure.
func (p retryPolicy) do(ctx context.Context, op string, fn func() error) error {
	delay := p.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) || attempt >= p.attempts {
			return fmt.Errorf("%s: %w", op, err)
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-t.C:
		}
		delay = min(2*delay, p.maxDelay)
	}
}
