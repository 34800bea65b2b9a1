package vision

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jam5991/brandlens/internal/brand"
)

const maxImageBytes = 10 << 20

// ImageBytes materializes a screenshot reference into raw bytes plus a
// MIME type, downloading hosted captures when necessary. Providers that
// need inline image data share this helper.
func ImageBytes(ctx context.Context, client *http.Client, ref brand.ScreenshotRef) ([]byte, string, error) {
	if len(ref.Bytes) > 0 {
		return ref.Bytes, http.DetectContentType(ref.Bytes), nil
	}
	if ref.URL == "" {
		return nil, "", fmt.Errorf("empty screenshot reference")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download screenshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download screenshot: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read screenshot: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}
