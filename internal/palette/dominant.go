package palette

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp"

	"github.com/jam5991/brandlens/internal/brand"
)

// DominantColors runs K-means clustering over a decoded screenshot and
// returns the dominant colors as candidates tagged with the screenshot
// source. Earlier clusters carry higher frequency so ranking prefers the
// more prominent colors.
func DominantColors(data []byte) (candidates []brand.ColorCandidate, err error) {
	// prominentcolor panics on some degenerate inputs.
	defer func() {
		if rec := recover(); rec != nil {
			candidates = nil
			err = fmt.Errorf("dominant colors: %v", rec)
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("screenshot has empty bounds")
	}
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	items, err := prominentcolor.KmeansWithAll(
		prominentcolor.DefaultK,
		nrgba,
		prominentcolor.ArgumentDefault,
		prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks(),
	)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}

	for i, item := range items {
		hex, ok := NormalizeHex(fmt.Sprintf("#%02X%02X%02X", item.Color.R, item.Color.G, item.Color.B))
		if !ok {
			continue
		}
		hsl, hslErr := HexToHSL(hex)
		if hslErr != nil {
			continue
		}
		candidates = append(candidates, brand.ColorCandidate{
			Hex:       hex,
			HSL:       hsl,
			Frequency: len(items) - i,
			Source:    brand.SourceScreenshot,
		})
	}
	return candidates, nil
}
