package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWaitsConfiguredDelay(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	f := NewFixed(2 * time.Second)
	f.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, f.Wait(context.Background()))
	require.NoError(t, f.Wait(context.Background()))
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
	assert.Equal(t, 2*time.Second, f.Delay())
}

func TestNoneNeverWaits(t *testing.T) {
	t.Parallel()

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, None().Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFixed(time.Hour).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleepContextElapses(t *testing.T) {
	t.Parallel()

	start := time.Now()
	require.NoError(t, sleepContext(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestOrNone(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, OrNone(nil))
	f := NewFixed(time.Second)
	assert.Same(t, f, OrNone(f))
}
