package vision

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/metrics"
)

// Chain tries vision providers in order until one returns a fragment
// that survives parsing and sanitization.
type Chain struct {
	providers []brand.VisionProvider
	timeout   time.Duration
	clock     brand.Clock
	logger    *zap.Logger
}

// NewChain builds a Chain with a per-call timeout.
func NewChain(providers []brand.VisionProvider, timeout time.Duration, clock brand.Clock, logger *zap.Logger) *Chain {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Chain{providers: providers, timeout: timeout, clock: clock, logger: logger}
}

// Run submits the screenshot to each provider in turn. A nil profile
// means the stage resolved to absent: every provider failed, or there
// was nothing to submit. That is a degraded outcome, not an error.
func (c *Chain) Run(ctx context.Context, artifact brand.ScreenshotArtifact) (*brand.BrandProfile, []brand.AttemptRecord) {
	var trail []brand.AttemptRecord
	if artifact.Ref.IsZero() {
		return nil, nil
	}

	for _, provider := range c.providers {
		if ctx.Err() != nil {
			return nil, trail
		}
		name := provider.Name()
		start := c.clock.Now()

		completion, err := c.infer(ctx, provider, artifact.Ref)
		latency := c.clock.Now().Sub(start)

		if err != nil {
			trail = append(trail, c.record(name, brand.OutcomeFailure, latency, err.Error()))
			c.logger.Warn("vision provider failed",
				zap.String("provider", name), zap.Error(err))
			continue
		}

		frag, err := ParseFragment(completion)
		if err != nil {
			trail = append(trail, c.record(name, brand.OutcomeInvalid, latency, err.Error()))
			c.logger.Warn("vision response rejected",
				zap.String("provider", name), zap.Error(err))
			continue
		}

		profile := Sanitize(frag)
		trail = append(trail, c.record(name, brand.OutcomeSuccess, latency, ""))
		return &profile, trail
	}
	return nil, trail
}

func (c *Chain) infer(ctx context.Context, provider brand.VisionProvider, ref brand.ScreenshotRef) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return provider.Infer(callCtx, ref, Instructions)
}

func (c *Chain) record(provider string, outcome brand.AttemptOutcome, latency time.Duration, reason string) brand.AttemptRecord {
	metrics.ObserveProviderAttempt(brand.StageVision, provider, string(outcome))
	return brand.AttemptRecord{
		Stage:       brand.StageVision,
		Provider:    provider,
		Attempt:     1,
		Outcome:     outcome,
		Latency:     latency,
		ErrorReason: reason,
	}
}
