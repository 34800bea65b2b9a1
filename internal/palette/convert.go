package palette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jam5991/brandlens/internal/brand"
)

var (
	hexSixPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hexThreePattern = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)
)

// NormalizeHex canonicalizes a 3- or 6-digit hex color (with or without a
// leading '#') into uppercase "#RRGGBB" form. The second return is false
// when the input is not a hex color.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	switch {
	case hexSixPattern.MatchString(s):
		return strings.ToUpper(s), true
	case hexThreePattern.MatchString(s):
		expanded := []byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]}
		return strings.ToUpper(string(expanded)), true
	default:
		return "", false
	}
}

// IsHex reports whether s is a strict 6-digit "#RRGGBB" color.
func IsHex(s string) bool {
	return hexSixPattern.MatchString(s)
}

// HexToRGB splits a normalized hex color into its 8-bit channels.
func HexToRGB(hex string) (r, g, b int, err error) {
	norm, ok := NormalizeHex(hex)
	if !ok {
		return 0, 0, 0, fmt.Errorf("parse hex %q", hex)
	}
	rv, _ := strconv.ParseInt(norm[1:3], 16, 32)
	gv, _ := strconv.ParseInt(norm[3:5], 16, 32)
	bv, _ := strconv.ParseInt(norm[5:7], 16, 32)
	return int(rv), int(gv), int(bv), nil
}

// HexToHSL converts a hex color to HSL with H in degrees and S, L as
// percentages.
func HexToHSL(hex string) (brand.HSL, error) {
	norm, ok := NormalizeHex(hex)
	if !ok {
		return brand.HSL{}, fmt.Errorf("parse hex %q", hex)
	}
	c, err := colorful.Hex(strings.ToLower(norm))
	if err != nil {
		return brand.HSL{}, fmt.Errorf("parse hex %q: %w", hex, err)
	}
	h, s, l := c.Hsl()
	return brand.HSL{H: h, S: s * 100, L: l * 100}, nil
}

// HSLToHex converts an HSL triple back to uppercase "#RRGGBB".
func HSLToHex(hsl brand.HSL) string {
	c := colorful.Hsl(hsl.H, hsl.S/100, hsl.L/100).Clamped()
	return strings.ToUpper(c.Hex())
}
