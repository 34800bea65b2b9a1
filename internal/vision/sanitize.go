package vision

import (
	"math"
	"net/url"
	"strings"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/palette"
)

// Length bounds for free-text fields coming back from a model.
const (
	maxNameLength = 100
	maxFontLength = 50
	maxTraits     = 3
)

// Sanitize converts an untrusted fragment into a typed brand profile.
// Every field is validated independently; a bad value is replaced by a
// fixed fallback rather than failing the fragment.
func Sanitize(frag Fragment) brand.BrandProfile {
	profile := brand.BrandProfile{
		Name:           sanitizeName(frag.Name),
		PrimaryColor:   sanitizeHex(frag.PrimaryColor, brand.VisionDefaultPrimary),
		SecondaryColor: sanitizeHex(frag.SecondaryColor, brand.VisionDefaultSecondary),
		AccentColor:    sanitizeHex(frag.AccentColor, brand.VisionDefaultAccent),
		FontFamily:     sanitizeFont(frag.FontFamily),
		LogoURL:        sanitizeLogoURL(frag.LogoURL),
		Personality:    sanitizePersonality(frag.Personality),
	}
	profile.Confidence = sanitizeConfidence(frag.Confidence)
	return profile
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || len(name) >= maxNameLength {
		return brand.PlaceholderName
	}
	return name
}

func sanitizeHex(hex, fallback string) string {
	if norm, ok := palette.NormalizeHex(hex); ok {
		return norm
	}
	return fallback
}

func sanitizeFont(font string) string {
	font = strings.TrimSpace(font)
	if font == "" || len(font) >= maxFontLength {
		return brand.VisionDefaultFont
	}
	return font
}

func sanitizeLogoURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return ""
	}
	return parsed.String()
}

func sanitizePersonality(p FragmentPersonality) brand.Personality {
	traits := make([]string, 0, maxTraits)
	for _, trait := range p.SecondaryTraits {
		trait = strings.TrimSpace(trait)
		if trait == "" {
			continue
		}
		traits = append(traits, trait)
		if len(traits) == maxTraits {
			break
		}
	}
	return brand.Personality{
		PrimaryTrait:    strings.TrimSpace(p.PrimaryTrait),
		SecondaryTraits: traits,
		IndustryContext: strings.TrimSpace(p.IndustryContext),
		DesignApproach:  strings.TrimSpace(p.DesignApproach),
	}
}

// sanitizeConfidence resets out-of-range sub-scores to the neutral
// default and recomputes the overall when it is missing or inconsistent
// with its sub-scores.
func sanitizeConfidence(c FragmentConfidence) brand.Confidence {
	out := brand.Confidence{
		Name:        sanitizeScore(c.Name),
		Colors:      sanitizeScore(c.Colors),
		Typography:  sanitizeScore(c.Typography),
		Logo:        sanitizeScore(c.Logo),
		Personality: sanitizeScore(c.Personality),
	}
	mean := (out.Name + out.Colors + out.Typography + out.Logo + out.Personality) / 5
	overall := c.Overall
	if overall <= 0 || overall > 1 || math.Abs(overall-mean) > 0.25 {
		overall = mean
	}
	out.Overall = round2(overall)
	return out
}

func sanitizeScore(v float64) float64 {
	if v < 0 || v > 1 {
		return brand.NeutralConfidence
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
