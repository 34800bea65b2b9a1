package screenshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/clock/system"
)

// validPNG is large enough to dodge the blank-capture penalty.
func validPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	rng := rand.New(rand.NewSource(1))
	for y := range 256 {
		for x := range 256 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.Greater(t, buf.Len(), minExpectedBytes)
	return buf.Bytes()
}

type stubProvider struct {
	name     string
	attempts int
	fail     int
	ref      brand.ScreenshotRef
	err      error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Render(_ context.Context, _ string, _ brand.RenderConfig) (brand.ScreenshotRef, error) {
	p.attempts++
	if p.err != nil && p.attempts <= p.fail {
		return brand.ScreenshotRef{}, p.err
	}
	return p.ref, nil
}

func fastOptions() Options {
	return Options{
		Render:             brand.RenderConfig{Timeout: time.Second},
		Backoff:            BackoffPolicy{Base: time.Millisecond, Max: 4 * time.Millisecond},
		InterProviderDelay: time.Millisecond,
	}
}

func newTestChain(entries ...Entry) *Chain {
	return NewChain(entries, NewValidator(nil), fastOptions(), system.New(), zap.NewNop())
}

func TestAlwaysFailingProviderAttemptedExactlyMaxRetries(t *testing.T) {
	failing := &stubProvider{name: "broken", err: errors.New("boom"), fail: 1 << 30}
	chain := newTestChain(Entry{Provider: failing, MaxRetries: 3})

	_, trail, ok := chain.Run(context.Background(), "https://acme.example")
	require.False(t, ok)
	require.Equal(t, 3, failing.attempts)
	require.Len(t, trail, 3)
	for i, rec := range trail {
		require.Equal(t, brand.OutcomeFailure, rec.Outcome)
		require.Equal(t, i+1, rec.Attempt)
		require.Equal(t, "broken", rec.Provider)
	}
}

func TestChainAdvancesToNextProvider(t *testing.T) {
	failing := &stubProvider{name: "broken", err: errors.New("boom"), fail: 1 << 30}
	working := &stubProvider{name: "working", ref: brand.ScreenshotRef{Bytes: validPNG(t)}}
	chain := newTestChain(
		Entry{Provider: failing, MaxRetries: 2},
		Entry{Provider: working, MaxRetries: 2},
	)

	artifact, trail, ok := chain.Run(context.Background(), "https://acme.example")
	require.True(t, ok)
	require.Equal(t, "working", artifact.Provider)
	require.Equal(t, 1, artifact.Attempt)
	require.True(t, artifact.Validation.IsValid)
	require.Equal(t, 2, failing.attempts)
	require.Equal(t, 1, working.attempts)
	require.Len(t, trail, 3)
	require.Equal(t, brand.OutcomeSuccess, trail[2].Outcome)
}

func TestChainStopsAtFirstAcceptedArtifact(t *testing.T) {
	first := &stubProvider{name: "first", ref: brand.ScreenshotRef{Bytes: validPNG(t)}}
	second := &stubProvider{name: "second", ref: brand.ScreenshotRef{Bytes: validPNG(t)}}
	chain := newTestChain(
		Entry{Provider: first, MaxRetries: 3},
		Entry{Provider: second, MaxRetries: 3},
	)

	artifact, _, ok := chain.Run(context.Background(), "https://acme.example")
	require.True(t, ok)
	require.Equal(t, "first", artifact.Provider)
	require.Zero(t, second.attempts)
}

func TestRecoveryWithinSameProvider(t *testing.T) {
	flaky := &stubProvider{
		name: "flaky",
		err:  errors.New("transient"),
		fail: 2,
		ref:  brand.ScreenshotRef{Bytes: validPNG(t)},
	}
	chain := newTestChain(Entry{Provider: flaky, MaxRetries: 3})

	artifact, trail, ok := chain.Run(context.Background(), "https://acme.example")
	require.True(t, ok)
	require.Equal(t, 3, artifact.Attempt)
	require.Len(t, trail, 3)
	require.Equal(t, brand.OutcomeFailure, trail[0].Outcome)
	require.Equal(t, brand.OutcomeFailure, trail[1].Outcome)
	require.Equal(t, brand.OutcomeSuccess, trail[2].Outcome)
}

func TestInvalidCaptureRecordedAsInvalid(t *testing.T) {
	// Tiny non-image payload: rejected by content sniffing.
	bogus := &stubProvider{name: "bogus", ref: brand.ScreenshotRef{Bytes: []byte("nope")}}
	chain := newTestChain(Entry{Provider: bogus, MaxRetries: 2})

	_, trail, ok := chain.Run(context.Background(), "https://acme.example")
	require.False(t, ok)
	require.Len(t, trail, 2)
	for _, rec := range trail {
		require.Equal(t, brand.OutcomeInvalid, rec.Outcome)
	}
}

func TestChainHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failing := &stubProvider{name: "broken", err: errors.New("boom"), fail: 1 << 30}
	chain := newTestChain(Entry{Provider: failing, MaxRetries: 5})

	_, _, ok := chain.Run(ctx, "https://acme.example")
	require.False(t, ok)
	require.LessOrEqual(t, failing.attempts, 1)
}

func TestBackoffDelayFormula(t *testing.T) {
	p := BackoffPolicy{Base: 100 * time.Millisecond, Max: 500 * time.Millisecond}
	require.Equal(t, 100*time.Millisecond, p.Delay(0))
	require.Equal(t, 200*time.Millisecond, p.Delay(1))
	require.Equal(t, 400*time.Millisecond, p.Delay(2))
	require.Equal(t, 500*time.Millisecond, p.Delay(3), "delay is capped at max")
	require.Equal(t, 500*time.Millisecond, p.Delay(40), "shift overflow falls back to max")
}
