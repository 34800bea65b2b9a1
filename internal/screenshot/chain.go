package screenshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/metrics"
)

// Entry is one provider in the chain with its own retry budget.
type Entry struct {
	Provider   brand.ScreenshotProvider
	MaxRetries int
}

// Options tunes chain behavior. The score threshold is configurable
// because the stock value of 50 is an empirical choice, not an
// invariant.
type Options struct {
	Render             brand.RenderConfig
	Backoff            BackoffPolicy
	InterProviderDelay time.Duration
	ScoreThreshold     int
}

// Chain tries providers in order until one capture passes validation.
type Chain struct {
	entries   []Entry
	validator *Validator
	opts      Options
	clock     brand.Clock
	logger    *zap.Logger
}

// NewChain builds a Chain. Zero option fields get stock values.
func NewChain(entries []Entry, validator *Validator, opts Options, clock brand.Clock, logger *zap.Logger) *Chain {
	if opts.Backoff == (BackoffPolicy{}) {
		opts.Backoff = DefaultBackoffPolicy()
	}
	if opts.InterProviderDelay == 0 {
		opts.InterProviderDelay = 2 * time.Second
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = DefaultScoreThresh
	}
	if opts.Render.Timeout == 0 {
		opts.Render.Timeout = 30 * time.Second
	}
	return &Chain{entries: entries, validator: validator, opts: opts, clock: clock, logger: logger}
}

// Run walks the chain. The boolean is false when every provider was
// exhausted without an accepted capture; that is a degraded outcome,
// not an error.
func (c *Chain) Run(ctx context.Context, url string) (brand.ScreenshotArtifact, []brand.AttemptRecord, bool) {
	var trail []brand.AttemptRecord

	for i, entry := range c.entries {
		artifact, records, ok := c.runProvider(ctx, entry, url)
		trail = append(trail, records...)
		if ok {
			return artifact, trail, true
		}
		if ctx.Err() != nil {
			return brand.ScreenshotArtifact{}, trail, false
		}
		if i < len(c.entries)-1 {
			if err := sleep(ctx, c.opts.InterProviderDelay); err != nil {
				return brand.ScreenshotArtifact{}, trail, false
			}
		}
	}
	return brand.ScreenshotArtifact{}, trail, false
}

func (c *Chain) runProvider(ctx context.Context, entry Entry, url string) (brand.ScreenshotArtifact, []brand.AttemptRecord, bool) {
	var records []brand.AttemptRecord
	name := entry.Provider.Name()

	for attempt := 1; attempt <= entry.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return brand.ScreenshotArtifact{}, records, false
		}

		start := c.clock.Now()
		ref, err := c.render(ctx, entry.Provider, url)
		latency := c.clock.Now().Sub(start)

		if err != nil {
			records = append(records, c.record(name, attempt, brand.OutcomeFailure, latency, err.Error()))
			c.logger.Warn("screenshot attempt failed",
				zap.String("provider", name),
				zap.Int("attempt", attempt),
				zap.Error(err))
			c.backoffBetween(ctx, entry, attempt)
			continue
		}

		validation := c.validator.Validate(ctx, ref)
		if validation.IsValid && validation.Score >= c.opts.ScoreThreshold {
			records = append(records, c.record(name, attempt, brand.OutcomeSuccess, latency, ""))
			return brand.ScreenshotArtifact{
				Ref:        ref,
				Provider:   name,
				Attempt:    attempt,
				Validation: validation,
			}, records, true
		}

		reason := "validation rejected"
		if len(validation.Reasons) > 0 {
			reason = validation.Reasons[0]
		}
		records = append(records, c.record(name, attempt, brand.OutcomeInvalid, latency, reason))
		c.logger.Warn("screenshot failed validation",
			zap.String("provider", name),
			zap.Int("attempt", attempt),
			zap.Int("score", validation.Score),
			zap.Strings("reasons", validation.Reasons))
		c.backoffBetween(ctx, entry, attempt)
	}
	return brand.ScreenshotArtifact{}, records, false
}

func (c *Chain) render(ctx context.Context, provider brand.ScreenshotProvider, url string) (brand.ScreenshotRef, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.Render.Timeout)
	defer cancel()
	return provider.Render(callCtx, url, c.opts.Render)
}

func (c *Chain) backoffBetween(ctx context.Context, entry Entry, attempt int) {
	if attempt >= entry.MaxRetries {
		return
	}
	_ = sleep(ctx, c.opts.Backoff.Delay(attempt-1))
}

func (c *Chain) record(provider string, attempt int, outcome brand.AttemptOutcome, latency time.Duration, reason string) brand.AttemptRecord {
	metrics.ObserveProviderAttempt(brand.StageScreenshot, provider, string(outcome))
	return brand.AttemptRecord{
		Stage:       brand.StageScreenshot,
		Provider:    provider,
		Attempt:     attempt,
		Outcome:     outcome,
		Latency:     latency,
		ErrorReason: reason,
	}
}
