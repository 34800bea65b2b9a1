package palette

import (
	"sort"

	"github.com/jam5991/brandlens/internal/brand"
)

// Filtering thresholds. A candidate survives only if it is neither pure
// black/white, nor a near-gray, nor too washed-out to be a brand color.
const (
	grayChannelSpread = 15
	minSaturationPct  = 20.0
	maxLightnessPct   = 85.0
	minLightnessPct   = 15.0
)

// Filter drops candidates that cannot plausibly be brand colors: pure
// black and white, near-grays, low-saturation colors, and lightness
// extremes (probable backgrounds and text). Candidates with missing HSL
// data are recomputed from their hex value.
func Filter(candidates []brand.ColorCandidate) []brand.ColorCandidate {
	survivors := make([]brand.ColorCandidate, 0, len(candidates))
	for _, cand := range candidates {
		norm, ok := NormalizeHex(cand.Hex)
		if !ok {
			continue
		}
		if norm == "#000000" || norm == "#FFFFFF" {
			continue
		}
		if isNearGray(norm) {
			continue
		}
		hsl, err := HexToHSL(norm)
		if err != nil {
			continue
		}
		if hsl.S < minSaturationPct {
			continue
		}
		if hsl.L > maxLightnessPct || hsl.L < minLightnessPct {
			continue
		}
		cand.Hex = norm
		cand.HSL = hsl
		survivors = append(survivors, cand)
	}
	return survivors
}

func isNearGray(hex string) bool {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		return false
	}
	spread := absInt(r - g)
	if d := absInt(g - b); d > spread {
		spread = d
	}
	if d := absInt(r - b); d > spread {
		spread = d
	}
	return spread <= grayChannelSpread
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rank orders survivors by frequency descending, breaking near-ties
// (frequency delta of at most 2) in favor of the more saturated color.
func Rank(candidates []brand.ColorCandidate) []brand.ColorCandidate {
	ranked := make([]brand.ColorCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if absInt(a.Frequency-b.Frequency) <= 2 {
			if a.HSL.S != b.HSL.S {
				return a.HSL.S > b.HSL.S
			}
			return a.Hex < b.Hex
		}
		return a.Frequency > b.Frequency
	})
	return ranked
}
