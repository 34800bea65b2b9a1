package vision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/clock/system"
)

type stubVision struct {
	name       string
	completion string
	err        error
	calls      int
}

func (s *stubVision) Name() string { return s.name }

func (s *stubVision) Infer(_ context.Context, _ brand.ScreenshotRef, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.completion, nil
}

func artifact() brand.ScreenshotArtifact {
	return brand.ScreenshotArtifact{
		Ref:      brand.ScreenshotRef{Bytes: []byte{0x89, 'P', 'N', 'G'}},
		Provider: "chromedp",
	}
}

const goodCompletion = `{
  "name": "Acme",
  "primaryColor": "#E11D48",
  "secondaryColor": "#F1F5F9",
  "accentColor": "#0EA5E9",
  "fontFamily": "Fira Sans",
  "confidence": {"name": 0.9, "colors": 0.8, "typography": 0.7, "logo": 0.5, "personality": 0.6, "overall": 0.7}
}`

func newTestChain(providers ...brand.VisionProvider) *Chain {
	return NewChain(providers, time.Second, system.New(), zap.NewNop())
}

func TestChainReturnsSanitizedProfile(t *testing.T) {
	good := &stubVision{name: "gemini", completion: goodCompletion}
	profile, trail := newTestChain(good).Run(context.Background(), artifact())
	require.NotNil(t, profile)
	require.Equal(t, "Acme", profile.Name)
	require.Equal(t, "#E11D48", profile.PrimaryColor)
	require.Len(t, trail, 1)
	require.Equal(t, brand.OutcomeSuccess, trail[0].Outcome)
	require.Equal(t, brand.StageVision, trail[0].Stage)
}

func TestMalformedJSONFallsThroughWithoutError(t *testing.T) {
	broken := &stubVision{name: "gemini", completion: "sorry, no JSON here"}
	good := &stubVision{name: "llama", completion: goodCompletion}

	profile, trail := newTestChain(broken, good).Run(context.Background(), artifact())
	require.NotNil(t, profile)
	require.Equal(t, 1, broken.calls)
	require.Equal(t, 1, good.calls)
	require.Len(t, trail, 2)
	require.Equal(t, brand.OutcomeInvalid, trail[0].Outcome)
	require.Equal(t, brand.OutcomeSuccess, trail[1].Outcome)
}

func TestProviderErrorAdvancesChain(t *testing.T) {
	down := &stubVision{name: "gemini", err: errors.New("http 500")}
	good := &stubVision{name: "llama", completion: goodCompletion}

	profile, trail := newTestChain(down, good).Run(context.Background(), artifact())
	require.NotNil(t, profile)
	require.Equal(t, brand.OutcomeFailure, trail[0].Outcome)
}

func TestAllProvidersFailYieldsAbsent(t *testing.T) {
	down := &stubVision{name: "gemini", err: errors.New("boom")}
	broken := &stubVision{name: "llama", completion: "{}"}

	profile, trail := newTestChain(down, broken).Run(context.Background(), artifact())
	require.Nil(t, profile)
	require.Len(t, trail, 2)
}

func TestNoScreenshotYieldsAbsentWithoutCalls(t *testing.T) {
	provider := &stubVision{name: "gemini", completion: goodCompletion}
	profile, trail := newTestChain(provider).Run(context.Background(), brand.ScreenshotArtifact{})
	require.Nil(t, profile)
	require.Empty(t, trail)
	require.Zero(t, provider.calls)
}
