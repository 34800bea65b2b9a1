package heuristic

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/palette"
)

var (
	hexPattern        = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbPattern        = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)`)
	customPropPattern = regexp.MustCompile(`--[\w-]+\s*:\s*(#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b|rgba?\([^)]*\))`)
	cssBlockPattern   = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
	gradientPattern   = regexp.MustCompile(`(?:linear|radial|conic)-gradient\(([^()]*(?:\([^()]*\)[^()]*)*)\)`)
)

// Selector tokens that suggest a rule styles a brand-bearing element.
var brandTokens = []string{"brand", "logo", "header", "nav", "primary", "accent"}

// extractColorCandidates runs the independent color scans over the
// document and returns deduplicated candidates with frequency counts.
// The goquery document may be nil when markup parsing failed; the
// CSS-text scans still run.
func extractColorCandidates(q *goquery.Document, doc brand.CapturedDocument) []brand.ColorCandidate {
	c := newColorCollector()
	css := doc.StylesheetText

	// Literal colors anywhere in stylesheet text.
	for _, m := range hexPattern.FindAllString(css, -1) {
		c.add(m, brand.SourceCSSLiteral)
	}
	for _, m := range rgbPattern.FindAllStringSubmatch(css, -1) {
		if hex, ok := rgbMatchToHex(m); ok {
			c.add(hex, brand.SourceCSSLiteral)
		}
	}

	// CSS custom properties.
	for _, m := range customPropPattern.FindAllStringSubmatch(css, -1) {
		c.addValue(m[1], brand.SourceCSSVariable)
	}

	// Rule blocks whose selector carries a brand token.
	for _, m := range cssBlockPattern.FindAllStringSubmatch(css, -1) {
		if selectorHasBrandToken(m[1]) {
			c.scanText(m[2], brand.SourceBrandElement)
		}
	}

	// Gradient stop colors.
	for _, m := range gradientPattern.FindAllStringSubmatch(css, -1) {
		c.scanText(m[1], brand.SourceGradient)
	}

	if q != nil {
		// Inline style attributes.
		q.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
			if style, exists := sel.Attr("style"); exists {
				c.scanText(style, brand.SourceInlineStyle)
			}
		})

		// SVG fill/stroke attributes and gradient stops.
		q.Find("[fill], [stroke]").Each(func(_ int, sel *goquery.Selection) {
			for _, attr := range []string{"fill", "stroke"} {
				if val, exists := sel.Attr(attr); exists {
					c.addValue(val, brand.SourceSVG)
				}
			}
		})
		q.Find("stop[stop-color]").Each(func(_ int, sel *goquery.Selection) {
			if val, exists := sel.Attr("stop-color"); exists {
				c.addValue(val, brand.SourceGradient)
			}
		})

		// Colors embedded in script bodies (styled-components and friends).
		q.Find("script").Each(func(_ int, sel *goquery.Selection) {
			c.scanText(sel.Text(), brand.SourceCSSInJS)
		})
	}

	return c.list()
}

func selectorHasBrandToken(selector string) bool {
	lower := strings.ToLower(selector)
	for _, token := range brandTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func rgbMatchToHex(m []string) (string, bool) {
	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])
	if r > 255 || g > 255 || b > 255 {
		return "", false
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), true
}

type colorCollector struct {
	seen  map[string]*brand.ColorCandidate
	order []string
}

func newColorCollector() *colorCollector {
	return &colorCollector{seen: make(map[string]*brand.ColorCandidate)}
}

// add records one observation of a hex color. The source tag of the
// first observation wins; later scans only bump the frequency.
func (c *colorCollector) add(hex string, source brand.ColorSource) {
	norm, ok := palette.NormalizeHex(hex)
	if !ok {
		return
	}
	if cand, exists := c.seen[norm]; exists {
		cand.Frequency++
		return
	}
	hsl, err := palette.HexToHSL(norm)
	if err != nil {
		return
	}
	c.seen[norm] = &brand.ColorCandidate{Hex: norm, HSL: hsl, Frequency: 1, Source: source}
	c.order = append(c.order, norm)
}

// addValue accepts either a hex literal or an rgb()/rgba() expression.
func (c *colorCollector) addValue(raw string, source brand.ColorSource) {
	raw = strings.TrimSpace(raw)
	if m := rgbPattern.FindStringSubmatch(raw); m != nil {
		if hex, ok := rgbMatchToHex(m); ok {
			c.add(hex, source)
		}
		return
	}
	c.add(raw, source)
}

// scanText picks up every hex and rgb() color inside a text fragment.
func (c *colorCollector) scanText(text string, source brand.ColorSource) {
	for _, m := range hexPattern.FindAllString(text, -1) {
		c.add(m, source)
	}
	for _, m := range rgbPattern.FindAllStringSubmatch(text, -1) {
		if hex, ok := rgbMatchToHex(m); ok {
			c.add(hex, source)
		}
	}
}

func (c *colorCollector) list() []brand.ColorCandidate {
	out := make([]brand.ColorCandidate, 0, len(c.order))
	for _, hex := range c.order {
		out = append(out, *c.seen[hex])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Hex < out[j].Hex
	})
	return out
}
