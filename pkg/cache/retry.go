package cache

import (
	"context"
	"time"
)

// Connection attempts made by NewRedisCache before giving up.
const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// retry calls fn up to attempts times, doubling delay after each failure.
// Context errors from fn end the loop at once. It returns the last error,
// or ctx.Err() if ctx is done while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		lastErr = fn(ctx)
		if lastErr == nil || ctx.Err() != nil {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
