// Package rodshot renders page screenshots with go-rod, as a second
// browser engine independent of chromedp.
package rodshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
)

const hideCookieBannersJS = `() => {
  const selectors = [
    '[id*="cookie"]', '[class*="cookie"]',
    '[id*="consent"]', '[class*="consent"]',
  ];
  for (const sel of selectors) {
    for (const el of document.querySelectorAll(sel)) {
      const style = getComputedStyle(el);
      if (style.position === 'fixed' || style.position === 'sticky') {
        el.style.display = 'none';
      }
    }
  }
}`

// Provider implements brand.ScreenshotProvider on a shared rod browser.
type Provider struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	logger  *zap.Logger
}

// New launches a headless browser and connects to it.
func New(logger *zap.Logger) (*Provider, error) {
	l := launcher.New().Headless(true)
	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod launch: %w", err)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("rod connect: %w", err)
	}
	return &Provider{browser: b, lnch: l, logger: logger}, nil
}

// Name identifies the provider in attempt records and metrics.
func (p *Provider) Name() string { return "rod" }

// Close shuts the browser down.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			p.logger.Warn("rod browser close", zap.Error(err))
		}
	}
	if p.lnch != nil {
		p.lnch.Cleanup()
	}
	return nil
}

// Render captures one screenshot in a fresh page.
func (p *Provider) Render(ctx context.Context, rawURL string, cfg brand.RenderConfig) (brand.ScreenshotRef, error) {
	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("rod page: %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			p.logger.Debug("rod page close", zap.Error(closeErr))
		}
	}()

	page = page.Context(ctx)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Width,
		Height:            cfg.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("rod viewport: %w", err)
	}
	if err := page.Navigate(rawURL); err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("rod navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("rod wait load: %w", err)
	}
	if cfg.BlockCookieBanners {
		if _, err := page.Eval(hideCookieBannersJS); err != nil {
			p.logger.Debug("rod cookie banner script", zap.Error(err))
		}
	}

	data, err := page.Screenshot(cfg.FullPage, captureRequest(cfg))
	if err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("rod screenshot: %w", err)
	}
	return brand.ScreenshotRef{Bytes: data}, nil
}

func captureRequest(cfg brand.RenderConfig) *proto.PageCaptureScreenshot {
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if strings.EqualFold(cfg.Format, "jpeg") || strings.EqualFold(cfg.Format, "jpg") {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		q := cfg.Quality
		if q <= 0 || q > 100 {
			q = 90
		}
		req.Quality = &q
	}
	return req
}
