package heuristic

import (
	"regexp"
	"strings"
)

const maxFontLength = 50

var fontFamilyPattern = regexp.MustCompile(`font-family\s*:\s*([^;{}]+)`)

// Generic CSS font keywords that carry no brand information.
var genericFaces = map[string]struct{}{
	"serif":      {},
	"sans-serif": {},
}

// extractFont returns the first font-family declaration whose leading
// face is not a generic keyword.
func extractFont(stylesheetText string) (string, bool) {
	for _, match := range fontFamilyPattern.FindAllStringSubmatch(stylesheetText, -1) {
		value := strings.TrimSpace(match[1])
		if value == "" || len(value) >= maxFontLength {
			continue
		}
		first := strings.TrimSpace(strings.Split(value, ",")[0])
		first = strings.Trim(first, `"'`)
		if first == "" {
			continue
		}
		if _, generic := genericFaces[strings.ToLower(first)]; generic {
			continue
		}
		return value, true
	}
	return "", false
}
