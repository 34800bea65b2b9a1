package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fragment mirrors the JSON object requested from vision providers.
// Field values are untrusted until Sanitize has run.
type Fragment struct {
	Name           string              `json:"name"`
	PrimaryColor   string              `json:"primaryColor"`
	SecondaryColor string              `json:"secondaryColor"`
	AccentColor    string              `json:"accentColor"`
	FontFamily     string              `json:"fontFamily"`
	LogoURL        string              `json:"logoUrl"`
	Personality    FragmentPersonality `json:"personality"`
	Confidence     FragmentConfidence  `json:"confidence"`
}

// FragmentPersonality is the personality descriptor as returned by the
// model.
type FragmentPersonality struct {
	PrimaryTrait    string   `json:"primaryTrait"`
	SecondaryTraits []string `json:"secondaryTraits"`
	IndustryContext string   `json:"industryContext"`
	DesignApproach  string   `json:"designApproach"`
}

// FragmentConfidence carries the per-attribute sub-scores.
type FragmentConfidence struct {
	Name        float64 `json:"name"`
	Colors      float64 `json:"colors"`
	Typography  float64 `json:"typography"`
	Logo        float64 `json:"logo"`
	Personality float64 `json:"personality"`
	Overall     float64 `json:"overall"`
}

// ParseFragment extracts the first JSON object from a completion text
// and decodes it. Models wrap answers in markdown fences or prose often
// enough that a plain Unmarshal is not good enough.
func ParseFragment(completion string) (Fragment, error) {
	raw := extractJSONObject(completion)
	if raw == "" {
		return Fragment{}, fmt.Errorf("no JSON object in completion")
	}
	var frag Fragment
	if err := json.Unmarshal([]byte(raw), &frag); err != nil {
		return Fragment{}, fmt.Errorf("decode fragment: %w", err)
	}
	if frag.Name == "" && frag.PrimaryColor == "" {
		return Fragment{}, fmt.Errorf("fragment missing name and primaryColor")
	}
	return frag, nil
}

func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
