package fusion

import (
	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/heuristic"
	"github.com/jam5991/brandlens/internal/palette"
)

// Fixed trait taxonomy shared with the vision prompt.
const (
	TraitProfessional = "Professional"
	TraitCreative     = "Creative"
	TraitApproachable = "Approachable"
	TraitBold         = "Bold"
	TraitMinimal      = "Minimal"
	TraitPlayful      = "Playful"
	TraitLuxurious    = "Luxurious"
	TraitTechnical    = "Technical"
)

// Industry contexts.
const (
	IndustryFinance    = "Finance"
	IndustryTechnology = "Technology"
	IndustryHealthcare = "Healthcare"
	IndustryRetail     = "Retail"
	IndustryCreative   = "Creative"
	IndustryOther      = "Other"
)

// Design approaches.
const (
	DesignMinimal      = "minimal"
	DesignBold         = "bold"
	DesignClassic      = "classic"
	DesignExperimental = "experimental"
)

// DerivePersonality maps structural page signals and the primary
// color's hue bucket onto the fixed taxonomy. Used when vision returned
// no descriptor.
func DerivePersonality(signals heuristic.Signals, primaryHex string) brand.Personality {
	hsl, err := palette.HexToHSL(primaryHex)
	if err != nil {
		hsl = brand.HSL{}
	}

	primary, industry := hueBucket(hsl)
	p := brand.Personality{
		PrimaryTrait:    primary,
		IndustryContext: industry,
		DesignApproach:  designApproach(signals, hsl),
	}

	for _, trait := range signalTraits(signals) {
		if trait == p.PrimaryTrait {
			continue
		}
		p.SecondaryTraits = append(p.SecondaryTraits, trait)
		if len(p.SecondaryTraits) == 3 {
			break
		}
	}
	return p
}

// hueBucket translates the primary color into a trait and industry
// guess: cool desaturated blues read corporate, greens read healthcare,
// saturated warm hues read creative.
func hueBucket(hsl brand.HSL) (trait, industry string) {
	switch {
	case hsl.H >= 200 && hsl.H < 260 && hsl.S < 60:
		return TraitProfessional, IndustryFinance
	case hsl.H >= 200 && hsl.H < 260:
		return TraitTechnical, IndustryTechnology
	case hsl.H >= 90 && hsl.H < 170:
		return TraitApproachable, IndustryHealthcare
	case hsl.H >= 260 && hsl.H < 310:
		return TraitLuxurious, IndustryRetail
	case (hsl.H < 60 || hsl.H >= 310) && hsl.S >= 60:
		return TraitCreative, IndustryCreative
	default:
		return TraitMinimal, IndustryOther
	}
}

func signalTraits(signals heuristic.Signals) []string {
	var traits []string
	if signals.HasAnimation {
		traits = append(traits, TraitPlayful)
	}
	if signals.HasVideo {
		traits = append(traits, TraitBold)
	}
	if signals.HasForms {
		traits = append(traits, TraitApproachable)
	}
	if signals.HasNavigation {
		traits = append(traits, TraitProfessional)
	}
	return traits
}

func designApproach(signals heuristic.Signals, hsl brand.HSL) string {
	switch {
	case signals.HasAnimation && hsl.S >= 70:
		return DesignExperimental
	case hsl.S >= 70:
		return DesignBold
	case hsl.L >= 60:
		return DesignMinimal
	default:
		return DesignClassic
	}
}
