package heuristic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jam5991/brandlens/internal/brand"
)

const maxNameLength = 50

// extractName resolves the brand name by priority: <title> trimmed of a
// trailing " - X" or " | X" suffix, then the first <h1>, then
// meta[name=title], then the fixed placeholder.
func extractName(q *goquery.Document) (string, NameSource) {
	if name, ok := acceptName(trimTitleSuffix(q.Find("title").First().Text())); ok {
		return name, NameFromTitle
	}
	if name, ok := acceptName(q.Find("h1").First().Text()); ok {
		return name, NameFromHeading
	}
	if content, exists := q.Find(`meta[name="title"]`).First().Attr("content"); exists {
		if name, ok := acceptName(content); ok {
			return name, NameFromMeta
		}
	}
	return brand.PlaceholderName, NameFromPlaceholder
}

// trimTitleSuffix drops a trailing " - X" / " | X" tagline, keeping the
// part before the first separator.
func trimTitleSuffix(title string) string {
	for _, sep := range []string{" - ", " | ", " — ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
		}
	}
	return title
}

func acceptName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) >= maxNameLength {
		return "", false
	}
	return name, true
}
