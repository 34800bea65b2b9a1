// Package shotapi renders pages through a hosted screenshot API that
// stores the capture and returns its URL. It backs up the local browser
// providers when no Chrome is available or a site blocks datacenter
// rendering.
package shotapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jam5991/brandlens/internal/brand"
)

// Config locates the remote service.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Provider implements brand.ScreenshotProvider against the remote API.
type Provider struct {
	cfg    Config
	client *http.Client
}

// New builds a Provider. A nil client gets a default with the configured
// timeout.
func New(cfg Config, client *http.Client) *Provider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Provider{cfg: cfg, client: client}
}

// Name identifies the provider in attempt records and metrics.
func (p *Provider) Name() string { return "shotapi" }

// Render asks the API to capture the page and returns the hosted image
// URL.
func (p *Provider) Render(ctx context.Context, rawURL string, cfg brand.RenderConfig) (brand.ScreenshotRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(rawURL, cfg), nil)
	if err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("call screenshot api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return brand.ScreenshotRef{}, fmt.Errorf("screenshot api status %d: %s", resp.StatusCode, truncate(body))
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.URL == "" {
		return brand.ScreenshotRef{}, fmt.Errorf("screenshot api returned no url")
	}
	return brand.ScreenshotRef{URL: payload.URL}, nil
}

func (p *Provider) requestURL(rawURL string, cfg brand.RenderConfig) string {
	q := url.Values{}
	q.Set("access_key", p.cfg.APIKey)
	q.Set("url", rawURL)
	q.Set("viewport_width", strconv.Itoa(cfg.Width))
	q.Set("viewport_height", strconv.Itoa(cfg.Height))
	q.Set("format", cfg.Format)
	q.Set("image_quality", strconv.Itoa(cfg.Quality))
	q.Set("full_page", strconv.FormatBool(cfg.FullPage))
	q.Set("block_ads", strconv.FormatBool(cfg.BlockAds))
	q.Set("block_cookie_banners", strconv.FormatBool(cfg.BlockCookieBanners))
	if cfg.WaitCondition != "" {
		q.Set("wait_until", cfg.WaitCondition)
	}
	q.Set("response_type", "json")
	return p.cfg.Endpoint + "?" + q.Encode()
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
