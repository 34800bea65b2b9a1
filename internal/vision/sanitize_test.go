package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jam5991/brandlens/internal/brand"
)

func TestSanitizeReplacesBadHexes(t *testing.T) {
	profile := Sanitize(Fragment{
		Name:           "Acme",
		PrimaryColor:   "blueish",
		SecondaryColor: "#12345",
		AccentColor:    "#1A2B3C",
	})
	require.Equal(t, brand.VisionDefaultPrimary, profile.PrimaryColor)
	require.Equal(t, brand.VisionDefaultSecondary, profile.SecondaryColor)
	require.Equal(t, "#1A2B3C", profile.AccentColor)
}

func TestSanitizeNameBounds(t *testing.T) {
	require.Equal(t, "Acme", Sanitize(Fragment{Name: " Acme "}).Name)
	require.Equal(t, brand.PlaceholderName, Sanitize(Fragment{Name: ""}).Name)

	long := make([]byte, 120)
	for i := range long {
		long[i] = 'x'
	}
	require.Equal(t, brand.PlaceholderName, Sanitize(Fragment{Name: string(long)}).Name)
}

func TestSanitizeFontBounds(t *testing.T) {
	require.Equal(t, "Fira Sans", Sanitize(Fragment{FontFamily: "Fira Sans"}).FontFamily)
	require.Equal(t, brand.VisionDefaultFont, Sanitize(Fragment{}).FontFamily)

	long := make([]byte, 60)
	for i := range long {
		long[i] = 'f'
	}
	require.Equal(t, brand.VisionDefaultFont, Sanitize(Fragment{FontFamily: string(long)}).FontFamily)
}

func TestSanitizeLogoURLMustBeAbsolute(t *testing.T) {
	require.Equal(t, "https://acme.example/logo.png",
		Sanitize(Fragment{LogoURL: "https://acme.example/logo.png"}).LogoURL)
	require.Empty(t, Sanitize(Fragment{LogoURL: "/logo.png"}).LogoURL)
	require.Empty(t, Sanitize(Fragment{LogoURL: "::not a url::"}).LogoURL)
}

func TestSanitizeConfidenceResetsOutOfRange(t *testing.T) {
	profile := Sanitize(Fragment{Confidence: FragmentConfidence{
		Name: 1.7, Colors: -0.2, Typography: 0.8, Logo: 0.6, Personality: 0.4,
	}})
	require.Equal(t, brand.NeutralConfidence, profile.Confidence.Name)
	require.Equal(t, brand.NeutralConfidence, profile.Confidence.Colors)
	require.Equal(t, 0.8, profile.Confidence.Typography)

	mean := (0.5 + 0.5 + 0.8 + 0.6 + 0.4) / 5
	require.InDelta(t, mean, profile.Confidence.Overall, 0.005)
}

func TestSanitizeOverallRecomputedWhenSuspicious(t *testing.T) {
	profile := Sanitize(Fragment{Confidence: FragmentConfidence{
		Name: 0.9, Colors: 0.9, Typography: 0.9, Logo: 0.9, Personality: 0.9,
		Overall: 0.1,
	}})
	require.InDelta(t, 0.9, profile.Confidence.Overall, 0.005)
}

func TestSanitizeOverallKeptWhenConsistent(t *testing.T) {
	profile := Sanitize(Fragment{Confidence: FragmentConfidence{
		Name: 0.8, Colors: 0.8, Typography: 0.8, Logo: 0.8, Personality: 0.8,
		Overall: 0.75,
	}})
	require.InDelta(t, 0.75, profile.Confidence.Overall, 0.005)
}

func TestSanitizeSecondaryTraitsCapped(t *testing.T) {
	profile := Sanitize(Fragment{Personality: FragmentPersonality{
		PrimaryTrait:    "Professional",
		SecondaryTraits: []string{"Bold", "", "Minimal", "Playful", "Technical"},
	}})
	require.Equal(t, []string{"Bold", "Minimal", "Playful"}, profile.Personality.SecondaryTraits)
}

func TestParseFragmentFromFencedCompletion(t *testing.T) {
	completion := "Here is the result:\n```json\n" +
		`{"name": "Acme", "primaryColor": "#1A2B3C"}` + "\n```"
	frag, err := ParseFragment(completion)
	require.NoError(t, err)
	require.Equal(t, "Acme", frag.Name)
	require.Equal(t, "#1A2B3C", frag.PrimaryColor)
}

func TestParseFragmentRejectsGarbage(t *testing.T) {
	_, err := ParseFragment("I could not analyze the image")
	require.Error(t, err)

	_, err = ParseFragment(`{"unrelated": true}`)
	require.Error(t, err)

	_, err = ParseFragment(`{"name": "Acme"`)
	require.Error(t, err)
}
