package throttle

import (
	"context"
	"time"

	"DevInsights/internal/ports"
)

// Fixed sleeps for a constant delay on every Wait.
type Fixed struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.Throttle = (*Fixed)(nil)

// NewFixed builds a throttle that waits d before each call; d <= 0 disables waiting.
func NewFixed(d time.Duration) *Fixed {
	return &Fixed{delay: d, sleep: sleepContext}
}

// Delay reports the configured wait.
func (f *Fixed) Delay() time.Duration {
	return f.delay
}

// Wait blocks for the configured delay or until ctx is done.
func (f *Fixed) Wait(ctx context.Context) error {
	if f == nil || f.delay <= 0 {
		return nil
	}
	return f.sleep(ctx, f.delay)
}

// None returns a throttle that never waits.
func None() ports.Throttle {
	return NewFixed(0)
}

// OrNone returns t, or a non-waiting throttle when t is nil.
func OrNone(t ports.Throttle) ports.Throttle {
	if t == nil {
		return None()
	}
	return t
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
