package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitEnforcesPerHostRate(t *testing.T) {
	// 10 RPS with burst 1: the second token arrives ~100ms after the
	// first is consumed.
	l := New(Config{RPS: 10, Burst: 1})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "https://acme.example/home"))

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://acme.example/about"))
	require.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestWaitIsIndependentPerHost(t *testing.T) {
	l := New(Config{RPS: 10, Burst: 1})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "https://acme.example"))

	// A different host has its own bucket and must not inherit the
	// first host's depletion.
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://other.example"))
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitUnlimitedByDefault(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, l.Wait(ctx, "https://acme.example"))
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, l.Wait(ctx, "https://acme.example"))
	cancel()
	require.Error(t, l.Wait(ctx, "https://acme.example"))
}
