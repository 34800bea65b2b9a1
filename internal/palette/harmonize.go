package palette

import (
	"math"

	"github.com/jam5991/brandlens/internal/brand"
)

// Harmonization constants. The secondary is a light, desaturated
// near-complement usable as a background tone; the accent is a vivid
// triadic companion.
const (
	topCandidates = 5

	secondaryHueShift   = 180.0
	secondarySatFactor  = 0.30
	secondaryLightBoost = 25.0
	secondaryLightCap   = 90.0

	accentHueShift = 120.0
	accentMinSat   = 40.0
	accentMinLight = 30.0
	accentMaxLight = 70.0
)

// Triad is the harmonized primary/secondary/accent color set.
type Triad struct {
	Primary   string
	Secondary string
	Accent    string
}

// DefaultTriad is returned when no candidate survives filtering.
func DefaultTriad() Triad {
	return Triad{
		Primary:   brand.HeuristicDefaultPrimary,
		Secondary: brand.HeuristicDefaultSecondary,
		Accent:    brand.HeuristicDefaultAccent,
	}
}

// Harmonize filters, ranks, and harmonizes raw candidates into a triad.
// Identical candidate sets always yield identical triads.
func Harmonize(candidates []brand.ColorCandidate) Triad {
	survivors := Filter(candidates)
	if len(survivors) == 0 {
		return DefaultTriad()
	}
	ranked := Rank(survivors)
	if len(ranked) > topCandidates {
		ranked = ranked[:topCandidates]
	}

	primary := ranked[0]
	for _, cand := range ranked[1:] {
		if cand.HSL.S > primary.HSL.S {
			primary = cand
		}
	}
	triad := TriadFromSeed(primary.HSL)
	// Keep the candidate's exact hex rather than a round-tripped value.
	triad.Primary = primary.Hex
	return triad
}

// TriadFromSeed derives secondary and accent colors from a single seed
// via hue rotation and saturation/lightness adjustment, so even one
// surviving color produces a harmonious, non-degenerate triad.
func TriadFromSeed(seed brand.HSL) Triad {
	secondary := brand.HSL{
		H: rotateHue(seed.H, secondaryHueShift),
		S: seed.S * secondarySatFactor,
		L: math.Min(seed.L+secondaryLightBoost, secondaryLightCap),
	}
	accent := brand.HSL{
		H: rotateHue(seed.H, accentHueShift),
		S: math.Max(seed.S, accentMinSat),
		L: clampFloat(seed.L, accentMinLight, accentMaxLight),
	}
	return Triad{
		Primary:   HSLToHex(seed),
		Secondary: HSLToHex(secondary),
		Accent:    HSLToHex(accent),
	}
}

func rotateHue(h, shift float64) float64 {
	return math.Mod(h+shift, 360)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
