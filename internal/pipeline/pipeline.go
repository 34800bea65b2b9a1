// Package pipeline orchestrates one brand-profile extraction: fetch the
// document, then run the network-free heuristic branch concurrently with
// the screenshot+vision branch, and fuse both results.
package pipeline

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/fusion"
	"github.com/jam5991/brandlens/internal/heuristic"
	"github.com/jam5991/brandlens/internal/metrics"
	"github.com/jam5991/brandlens/internal/palette"
	"github.com/jam5991/brandlens/internal/ratelimit"
	"github.com/jam5991/brandlens/internal/screenshot"
	"github.com/jam5991/brandlens/internal/vision"
)

// Heuristic confidence scheme. These cap well below vision-backed
// scores so a degraded extraction is visibly less certain.
const (
	confNameTitle   = 0.55
	confNameHeading = 0.50
	confNameMeta    = 0.40
	confPlaceholder = 0.10
	confColorsFound = 0.50
	confColorsNone  = 0.20
	confFontFound   = 0.45
	confFontDefault = 0.20
	confLogoFound   = 0.50
	confLogoMissing = 0.10
	confPersonality = 0.30
)

// Options tunes the orchestrator.
type Options struct {
	Weights fusion.Weights
	// DominantColorFallback harmonizes K-means colors from the accepted
	// screenshot when the document itself yielded no usable candidates.
	DominantColorFallback bool
	// Limiter throttles outbound traffic per target host. Nil disables
	// throttling.
	Limiter *ratelimit.Limiter
}

// Extractor wires the pipeline stages together.
type Extractor struct {
	fetcher     brand.DocumentFetcher
	screenshots *screenshot.Chain
	vision      *vision.Chain
	engine      *fusion.Engine
	clock       brand.Clock
	logger      *zap.Logger
	opts        Options
}

// New builds an Extractor.
func New(
	fetcher brand.DocumentFetcher,
	screenshots *screenshot.Chain,
	visionChain *vision.Chain,
	opts Options,
	clock brand.Clock,
	logger *zap.Logger,
) *Extractor {
	return &Extractor{
		fetcher:     fetcher,
		screenshots: screenshots,
		vision:      visionChain,
		engine:      fusion.New(opts.Weights),
		clock:       clock,
		logger:      logger,
		opts:        opts,
	}
}

type visionBranch struct {
	artifact brand.ScreenshotArtifact
	captured bool
	profile  *brand.BrandProfile
	trail    []brand.AttemptRecord
}

// ExtractBrandProfile derives a brand profile for the URL. Only a fetch
// failure is returned as an error; every later stage degrades into
// lower confidence scores instead. The attempt trail covers every
// screenshot and vision provider call made on behalf of the request.
func (e *Extractor) ExtractBrandProfile(ctx context.Context, url string) (brand.BrandProfile, []brand.AttemptRecord, error) {
	if e.opts.Limiter != nil {
		if err := e.opts.Limiter.Wait(ctx, url); err != nil {
			return brand.BrandProfile{}, nil, err
		}
	}

	fetchStart := e.clock.Now()
	doc, err := e.fetcher.Fetch(ctx, url)
	metrics.ObserveStageDuration("fetch", e.clock.Now().Sub(fetchStart))
	if err != nil {
		metrics.ObserveExtraction("fetch_error")
		return brand.BrandProfile{}, nil, err
	}

	var (
		wg      sync.WaitGroup
		heurRes heuristic.Result
		visRes  visionBranch
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		start := e.clock.Now()
		heurRes = heuristic.Extract(doc)
		metrics.ObserveStageDuration("heuristic", e.clock.Now().Sub(start))
	}()
	go func() {
		defer wg.Done()
		visRes = e.runVisionBranch(ctx, url)
	}()
	wg.Wait()

	heurProfile := e.buildHeuristicProfile(heurRes, visRes)
	fused := e.engine.Fuse(heurProfile, visRes.profile)

	if visRes.profile == nil {
		metrics.ObserveDegradedExtraction()
		metrics.ObserveExtraction("degraded")
		e.logger.Info("extraction degraded to heuristics",
			zap.String("url", url),
			zap.Bool("screenshot_captured", visRes.captured))
	} else {
		metrics.ObserveExtraction("success")
	}

	return fused, visRes.trail, nil
}

func (e *Extractor) runVisionBranch(ctx context.Context, url string) visionBranch {
	var out visionBranch

	shotStart := e.clock.Now()
	artifact, shotTrail, ok := e.screenshots.Run(ctx, url)
	metrics.ObserveStageDuration(brand.StageScreenshot, e.clock.Now().Sub(shotStart))
	out.artifact = artifact
	out.captured = ok
	out.trail = shotTrail
	if !ok {
		return out
	}

	visStart := e.clock.Now()
	profile, visTrail := e.vision.Run(ctx, artifact)
	metrics.ObserveStageDuration(brand.StageVision, e.clock.Now().Sub(visStart))
	out.profile = profile
	out.trail = append(out.trail, visTrail...)
	return out
}

func (e *Extractor) buildHeuristicProfile(res heuristic.Result, visRes visionBranch) brand.BrandProfile {
	triad := palette.Harmonize(res.Candidates)
	colorsFound := triad != palette.DefaultTriad()

	// The document gave us nothing usable; mine the screenshot pixels
	// instead when one was accepted.
	if !colorsFound && e.opts.DominantColorFallback && visRes.captured && len(visRes.artifact.Ref.Bytes) > 0 {
		if dominant, err := palette.DominantColors(visRes.artifact.Ref.Bytes); err == nil {
			triad = palette.Harmonize(dominant)
			colorsFound = triad != palette.DefaultTriad()
		} else {
			e.logger.Debug("dominant color fallback failed", zap.Error(err))
		}
	}

	profile := brand.BrandProfile{
		Name:           res.Name,
		PrimaryColor:   triad.Primary,
		SecondaryColor: triad.Secondary,
		AccentColor:    triad.Accent,
		FontFamily:     res.FontFamily,
		LogoURL:        res.LogoURL,
		Personality:    fusion.DerivePersonality(res.Signals, triad.Primary),
	}
	profile.Confidence = heuristicConfidence(res, colorsFound)
	return profile
}

func heuristicConfidence(res heuristic.Result, colorsFound bool) brand.Confidence {
	c := brand.Confidence{
		Colors:      confColorsNone,
		Typography:  confFontDefault,
		Logo:        confLogoMissing,
		Personality: confPersonality,
	}
	switch res.NameSource {
	case heuristic.NameFromTitle:
		c.Name = confNameTitle
	case heuristic.NameFromHeading:
		c.Name = confNameHeading
	case heuristic.NameFromMeta:
		c.Name = confNameMeta
	default:
		c.Name = confPlaceholder
	}
	if colorsFound {
		c.Colors = confColorsFound
	}
	if res.FontFamily != brand.DefaultFontFamily {
		c.Typography = confFontFound
	}
	if res.LogoURL != "" {
		c.Logo = confLogoFound
	}
	c.Overall = round2((c.Name + c.Colors + c.Typography + c.Logo + c.Personality) / 5)
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
