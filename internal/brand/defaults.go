package brand

import "strings"

// Fallback constants substituted when a stage cannot produce a value.
// Fusion treats the color constants, together with pure black and white,
// as "generic": a generic value loses to any non-generic value from the
// other side.
const (
	PlaceholderName   = "Unknown Brand"
	DefaultFontFamily = "Inter, sans-serif"

	HeuristicDefaultPrimary   = "#336699"
	HeuristicDefaultSecondary = "#E8EEF4"
	HeuristicDefaultAccent    = "#CC7A33"

	VisionDefaultPrimary   = "#333333"
	VisionDefaultSecondary = "#666666"
	VisionDefaultAccent    = "#999999"
	VisionDefaultFont      = "Arial, sans-serif"

	// NeutralConfidence replaces out-of-range confidence sub-scores.
	NeutralConfidence = 0.5
)

var genericColors = map[string]struct{}{
	"#000000":                 {},
	"#FFFFFF":                 {},
	HeuristicDefaultPrimary:   {},
	HeuristicDefaultSecondary: {},
	HeuristicDefaultAccent:    {},
	VisionDefaultPrimary:      {},
	VisionDefaultSecondary:    {},
	VisionDefaultAccent:       {},
}

// IsGenericColor reports whether hex belongs to the generic set: pure
// black, pure white, or either stage's fallback constants.
func IsGenericColor(hex string) bool {
	_, ok := genericColors[strings.ToUpper(hex)]
	return ok
}

// Clamp01 pins v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
