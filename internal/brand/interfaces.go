package brand

import (
	"context"
	"time"
)

// DocumentFetcher retrieves the markup and stylesheet text for a URL.
// A single attempt; retrying is the caller's concern.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (CapturedDocument, error)
}

// ScreenshotProvider renders one visual capture of a page.
type ScreenshotProvider interface {
	Name() string
	Render(ctx context.Context, url string, cfg RenderConfig) (ScreenshotRef, error)
}

// VisionProvider submits a screenshot to a vision-capable model and
// returns the raw completion text, which is expected to contain a JSON
// brand-profile fragment.
type VisionProvider interface {
	Name() string
	Infer(ctx context.Context, image ScreenshotRef, instructions string) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces request IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
