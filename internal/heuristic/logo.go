package heuristic

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractLogo searches src/href attributes for "logo" or "brand" tokens,
// then falls back to icon links. Relative references are resolved against
// the page URL.
func extractLogo(q *goquery.Document, pageURL string) string {
	for _, token := range []string{"logo", "brand"} {
		if ref := findAttrContaining(q, "img", "src", token); ref != "" {
			return ResolveURL(pageURL, ref)
		}
		if ref := findAttrContaining(q, "a, link", "href", token); ref != "" {
			return ResolveURL(pageURL, ref)
		}
	}
	if ref, exists := q.Find(`link[rel*="icon"]`).First().Attr("href"); exists && ref != "" {
		return ResolveURL(pageURL, ref)
	}
	return ""
}

func findAttrContaining(q *goquery.Document, selector, attr, token string) string {
	var found string
	q.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		val, exists := sel.Attr(attr)
		if !exists {
			return true
		}
		if strings.Contains(strings.ToLower(val), token) {
			found = val
			return false
		}
		return true
	})
	return found
}

// ResolveURL converts a possibly relative reference into an absolute URL
// against base. Unparseable inputs return the reference unchanged.
func ResolveURL(base, ref string) string {
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return refURL.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
