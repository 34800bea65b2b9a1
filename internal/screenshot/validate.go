package screenshot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jam5991/brandlens/internal/brand"
)

// Validation scoring. A capture starts from the base score, loses 30
// points when suspiciously small (likely a blank capture) and 10 when
// oversized, and is rejected outright when unreachable or not an image.
const (
	baseScore          = 100
	smallSizePenalty   = 30
	largeSizePenalty   = 10
	minExpectedBytes   = 10 * 1024
	maxExpectedBytes   = 5 * 1024 * 1024
	DefaultScoreThresh = 50
)

// Validator screens screenshot references before they reach vision
// inference. URL references are HEAD-checked; byte references are
// content-sniffed.
type Validator struct {
	client *http.Client
}

// NewValidator builds a Validator. A nil client gets a 10s-timeout
// default.
func NewValidator(client *http.Client) *Validator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Validator{client: client}
}

// Validate scores one capture.
func (v *Validator) Validate(ctx context.Context, ref brand.ScreenshotRef) brand.Validation {
	if len(ref.Bytes) > 0 {
		return v.validateBytes(ref.Bytes)
	}
	if ref.URL != "" {
		return v.validateURL(ctx, ref.URL)
	}
	return brand.Validation{Reasons: []string{"empty reference"}}
}

func (v *Validator) validateBytes(data []byte) brand.Validation {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return brand.Validation{
			Reasons: []string{fmt.Sprintf("content-type %q is not an image", contentType)},
		}
	}
	return scoreSize(int64(len(data)))
}

func (v *Validator) validateURL(ctx context.Context, url string) brand.Validation {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return brand.Validation{Reasons: []string{fmt.Sprintf("build HEAD request: %v", err)}}
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return brand.Validation{Reasons: []string{fmt.Sprintf("HEAD request: %v", err)}}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return brand.Validation{Reasons: []string{fmt.Sprintf("HEAD status %d", resp.StatusCode)}}
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return brand.Validation{
			Reasons: []string{fmt.Sprintf("content-type %q is not an image", contentType)},
		}
	}
	if resp.ContentLength < 0 {
		// Unknown size: reachable and image-typed is enough.
		return brand.Validation{IsValid: true, Score: baseScore}
	}
	return scoreSize(resp.ContentLength)
}

func scoreSize(size int64) brand.Validation {
	v := brand.Validation{IsValid: true, Score: baseScore}
	switch {
	case size < minExpectedBytes:
		v.Score -= smallSizePenalty
		v.Reasons = append(v.Reasons, fmt.Sprintf("size %d below %d bytes, likely blank", size, minExpectedBytes))
	case size > maxExpectedBytes:
		v.Score -= largeSizePenalty
		v.Reasons = append(v.Reasons, fmt.Sprintf("size %d above %d bytes", size, maxExpectedBytes))
	}
	return v
}
