package screenshot

import (
	"context"
	"time"
)

// BackoffPolicy computes deterministic exponential delays between
// attempts of the same provider: min(base * 2^attempt, max).
type BackoffPolicy struct {
	Base time.Duration
	Max  time.Duration
}

// DefaultBackoffPolicy matches the chain's stock retry cadence.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{Base: 500 * time.Millisecond, Max: 8 * time.Second}
}

// Delay returns the wait before retrying after the given zero-based
// attempt index.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	delay := p.Base << uint(attempt)
	if delay > p.Max || delay <= 0 {
		delay = p.Max
	}
	return delay
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
