package brand

import (
	"time"
)

// CapturedDocument holds everything fetched for one URL. It lives for the
// duration of a single extraction request and is never persisted.
type CapturedDocument struct {
	URL            string
	HTML           string
	StylesheetText string
	FetchedAt      time.Time
}

// ColorSource tags where a color candidate was found in the document.
type ColorSource string

// Color candidate sources, ordered roughly by trustworthiness.
const (
	SourceCSSLiteral   ColorSource = "css-literal"
	SourceCSSVariable  ColorSource = "css-variable"
	SourceInlineStyle  ColorSource = "inline-style"
	SourceBrandElement ColorSource = "brand-element"
	SourceSVG          ColorSource = "svg"
	SourceGradient     ColorSource = "gradient"
	SourceCSSInJS      ColorSource = "css-in-js"
	SourceScreenshot   ColorSource = "screenshot"
)

// HSL is a hue/saturation/lightness triple with H in degrees [0,360) and
// S, L as percentages [0,100].
type HSL struct {
	H float64
	S float64
	L float64
}

// ColorCandidate is one deduplicated color observed in a document.
type ColorCandidate struct {
	Hex       string
	HSL       HSL
	Frequency int
	Source    ColorSource
}

// ScreenshotRef points at a rendered capture, either a hosted URL or raw
// image bytes. Exactly one of the two fields is set.
type ScreenshotRef struct {
	URL   string
	Bytes []byte
}

// IsZero reports whether the ref carries neither a URL nor bytes.
func (r ScreenshotRef) IsZero() bool {
	return r.URL == "" && len(r.Bytes) == 0
}

// Validation is the outcome of screening one screenshot capture.
type Validation struct {
	IsValid bool
	Score   int
	Reasons []string
}

// ScreenshotArtifact is a validated capture produced by one provider attempt.
type ScreenshotArtifact struct {
	Ref        ScreenshotRef
	Provider   string
	Attempt    int
	Validation Validation
}

// AttemptOutcome classifies one provider attempt.
type AttemptOutcome string

// Attempt outcomes recorded in the diagnostic trail.
const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeFailure AttemptOutcome = "failure"
	OutcomeInvalid AttemptOutcome = "invalid"
)

// Stage names used in attempt records and metrics labels.
const (
	StageScreenshot = "screenshot"
	StageVision     = "vision"
)

// AttemptRecord is one entry in the per-request diagnostic trail.
type AttemptRecord struct {
	Stage       string         `json:"stage"`
	Provider    string         `json:"provider"`
	Attempt     int            `json:"attempt"`
	Outcome     AttemptOutcome `json:"outcome"`
	Latency     time.Duration  `json:"latency_ns"`
	ErrorReason string         `json:"error_reason,omitempty"`
}

// Personality describes the perceived character of a brand, drawn from
// fixed taxonomies.
type Personality struct {
	PrimaryTrait    string   `json:"primary_trait"`
	SecondaryTraits []string `json:"secondary_traits"`
	IndustryContext string   `json:"industry_context"`
	DesignApproach  string   `json:"design_approach"`
}

// Confidence holds per-attribute reliability estimates in [0,1].
type Confidence struct {
	Name        float64 `json:"name"`
	Colors      float64 `json:"colors"`
	Typography  float64 `json:"typography"`
	Logo        float64 `json:"logo"`
	Personality float64 `json:"personality"`
	Overall     float64 `json:"overall"`
}

// BrandProfile is the sole durable output of the pipeline.
type BrandProfile struct {
	Name           string      `json:"name"`
	PrimaryColor   string      `json:"primary_color"`
	SecondaryColor string      `json:"secondary_color"`
	AccentColor    string      `json:"accent_color"`
	FontFamily     string      `json:"font_family"`
	LogoURL        string      `json:"logo_url,omitempty"`
	Personality    Personality `json:"personality"`
	Confidence     Confidence  `json:"confidence"`
}

// RenderConfig is the shared configuration handed to every screenshot
// provider attempt.
type RenderConfig struct {
	Width              int
	Height             int
	Format             string
	Quality            int
	FullPage           bool
	WaitCondition      string
	BlockAds           bool
	BlockCookieBanners bool
	Timeout            time.Duration
}
