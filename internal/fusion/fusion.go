package fusion

import (
	"math"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/palette"
)

// Weights controls how the two sides' confidence sub-scores are
// averaged. The stock 0.7/0.3 split is an empirical choice carried from
// production tuning, not a derived constant, so it stays configurable.
type Weights struct {
	Vision    float64
	Heuristic float64
}

// DefaultWeights returns the stock vision/heuristic split.
func DefaultWeights() Weights {
	return Weights{Vision: 0.7, Heuristic: 0.3}
}

// Engine applies the fusion rules.
type Engine struct {
	weights Weights
}

// New builds an Engine; non-positive weights fall back to the defaults.
func New(weights Weights) *Engine {
	if weights.Vision <= 0 || weights.Heuristic <= 0 {
		weights = DefaultWeights()
	}
	return &Engine{weights: weights}
}

// Fuse merges the two profiles. A nil vision profile returns the
// heuristic profile verbatim, with its own (lower) confidence scores.
func (e *Engine) Fuse(heur brand.BrandProfile, vis *brand.BrandProfile) brand.BrandProfile {
	if vis == nil {
		return heur
	}

	out := brand.BrandProfile{
		Name:           fuseName(heur.Name, vis.Name),
		PrimaryColor:   fuseColor(vis.PrimaryColor, heur.PrimaryColor),
		SecondaryColor: fuseColor(vis.SecondaryColor, heur.SecondaryColor),
		AccentColor:    fuseColor(vis.AccentColor, heur.AccentColor),
		FontFamily:     fuseFont(heur.FontFamily, vis.FontFamily),
		LogoURL:        fuseLogo(heur.LogoURL, vis.LogoURL),
		Personality:    fusePersonality(heur.Personality, vis.Personality),
	}
	out.Confidence = e.fuseConfidence(heur.Confidence, vis.Confidence)
	ensureDistinctColors(&out)
	return out
}

// fuseName prefers the vision answer unless it is the placeholder or
// degenerate; heuristics fill in after that.
func fuseName(heurName, visName string) string {
	if visName != brand.PlaceholderName && len(visName) > 1 {
		return visName
	}
	if heurName != brand.PlaceholderName && heurName != "" {
		return heurName
	}
	return brand.PlaceholderName
}

// fuseColor prefers the vision value when non-generic, then the
// heuristic value, then falls back to vision's raw answer. Generic means
// pure black/white or either side's fallback constant.
func fuseColor(visColor, heurColor string) string {
	if !brand.IsGenericColor(visColor) {
		return visColor
	}
	if !brand.IsGenericColor(heurColor) {
		return heurColor
	}
	return visColor
}

func fuseFont(heurFont, visFont string) string {
	if visFont != brand.VisionDefaultFont && visFont != "" {
		return visFont
	}
	return heurFont
}

// fuseLogo prefers the heuristic logo: a literal src attribute is more
// trustworthy than a visually inferred URL.
func fuseLogo(heurLogo, visLogo string) string {
	if heurLogo != "" {
		return heurLogo
	}
	return visLogo
}

func fusePersonality(heurP, visP brand.Personality) brand.Personality {
	if visP.PrimaryTrait != "" {
		return visP
	}
	return heurP
}

func (e *Engine) fuseConfidence(heur, vis brand.Confidence) brand.Confidence {
	avg := func(h, v float64) float64 {
		return brand.Clamp01(v*e.weights.Vision + h*e.weights.Heuristic)
	}
	out := brand.Confidence{
		Name:        avg(heur.Name, vis.Name),
		Colors:      avg(heur.Colors, vis.Colors),
		Typography:  avg(heur.Typography, vis.Typography),
		Logo:        avg(heur.Logo, vis.Logo),
		Personality: avg(heur.Personality, vis.Personality),
	}
	out.Overall = round2((out.Name + out.Colors + out.Typography + out.Logo + out.Personality) / 5)
	return out
}

// ensureDistinctColors breaks up duplicate colors after fusion by
// re-deriving the colliding slot from the primary seed.
func ensureDistinctColors(p *brand.BrandProfile) {
	seed, err := palette.HexToHSL(p.PrimaryColor)
	if err != nil {
		return
	}
	derived := palette.TriadFromSeed(seed)
	if p.SecondaryColor == p.PrimaryColor {
		p.SecondaryColor = derived.Secondary
	}
	if p.AccentColor == p.PrimaryColor || p.AccentColor == p.SecondaryColor {
		p.AccentColor = derived.Accent
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
