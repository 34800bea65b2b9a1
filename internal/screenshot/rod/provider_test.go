package rodshot

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"

	"github.com/jam5991/brandlens/internal/brand"
)

func TestCaptureRequestDefaultsToPNG(t *testing.T) {
	req := captureRequest(brand.RenderConfig{})
	require.Equal(t, proto.PageCaptureScreenshotFormatPng, req.Format)
	require.Nil(t, req.Quality)
}

func TestCaptureRequestJPEGQuality(t *testing.T) {
	req := captureRequest(brand.RenderConfig{Format: "jpeg", Quality: 80})
	require.Equal(t, proto.PageCaptureScreenshotFormatJpeg, req.Format)
	require.NotNil(t, req.Quality)
	require.Equal(t, 80, *req.Quality)

	req = captureRequest(brand.RenderConfig{Format: "jpg", Quality: 0})
	require.Equal(t, 90, *req.Quality)
}

func TestCloseOnNilProvider(t *testing.T) {
	var p *Provider
	require.NoError(t, p.Close())
}
