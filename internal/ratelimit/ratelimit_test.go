package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSleepsAtLeastBase(t *testing.T) {
	l := New(20 * time.Millisecond)

	start := time.Now()
	err := l.Wait(context.Background())
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	// Base plus 25% jitter, with scheduler slack.
	assert.Less(t, elapsed, 200*time.Millisecond)
}

func TestWaitHonorsCancellation(t *testing.T) {
	l := New(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
