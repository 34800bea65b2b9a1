package heuristic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jam5991/brandlens/internal/brand"
)

// NameSource records which signal produced the brand name, ordered from
// most to least trustworthy.
type NameSource string

// Name sources in priority order.
const (
	NameFromTitle       NameSource = "title"
	NameFromHeading     NameSource = "h1"
	NameFromMeta        NameSource = "meta"
	NameFromPlaceholder NameSource = "placeholder"
)

// Signals captures structural markers used when deriving a personality
// descriptor without vision input.
type Signals struct {
	HasNavigation bool
	HasForms      bool
	HasVideo      bool
	HasAnimation  bool
}

// Result is everything the heuristic pass recovers from one document.
type Result struct {
	Name       string
	NameSource NameSource
	LogoURL    string
	FontFamily string
	Candidates []brand.ColorCandidate
	Signals    Signals
}

// Extract runs every heuristic scan over the captured document. It never
// fails: unparseable markup degrades to CSS-text-only scans and fixed
// placeholders.
func Extract(doc brand.CapturedDocument) Result {
	res := Result{
		Name:       brand.PlaceholderName,
		NameSource: NameFromPlaceholder,
		FontFamily: brand.DefaultFontFamily,
	}

	q, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err == nil {
		res.Name, res.NameSource = extractName(q)
		res.LogoURL = extractLogo(q, doc.URL)
		res.Signals = extractSignals(q, doc.StylesheetText)
	}

	if font, ok := extractFont(doc.StylesheetText); ok {
		res.FontFamily = font
	}
	res.Candidates = extractColorCandidates(q, doc)
	return res
}

func extractSignals(q *goquery.Document, css string) Signals {
	lowerCSS := strings.ToLower(css)
	return Signals{
		HasNavigation: q.Find("nav, [role=navigation]").Length() > 0,
		HasForms:      q.Find("form").Length() > 0,
		HasVideo:      q.Find("video, iframe[src*=youtube], iframe[src*=vimeo]").Length() > 0,
		HasAnimation: strings.Contains(lowerCSS, "@keyframes") ||
			strings.Contains(lowerCSS, "animation:") ||
			strings.Contains(lowerCSS, "transition:"),
	}
}
