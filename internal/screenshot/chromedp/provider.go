// Package chromedpshot renders page screenshots with headless Chrome
// via chromedp.
package chromedpshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
)

// Hosts blocked when ad blocking is requested. Keeping trackers out of
// the capture avoids cookie prompts and layout shifts mid-screenshot.
var adHostPatterns = []string{
	"*doubleclick.net*",
	"*googlesyndication.com*",
	"*googletagmanager.com*",
	"*adnxs.com*",
	"*taboola.com*",
	"*outbrain.com*",
}

// Script that hides the common cookie-consent overlays before capture.
const hideCookieBannersJS = `
(() => {
  const selectors = [
    '[id*="cookie"]', '[class*="cookie"]',
    '[id*="consent"]', '[class*="consent"]',
    '[id*="gdpr"]', '[class*="gdpr"]',
  ];
  for (const sel of selectors) {
    for (const el of document.querySelectorAll(sel)) {
      const style = getComputedStyle(el);
      if (style.position === 'fixed' || style.position === 'sticky') {
        el.style.display = 'none';
      }
    }
  }
  return true;
})()`

// Config controls the shared browser process.
type Config struct {
	UserAgent      string
	MaxConcurrency int
}

// Provider implements brand.ScreenshotProvider on a long-lived headless
// Chrome instance; each render runs in its own tab.
type Provider struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	logger          *zap.Logger
	sem             chan struct{}
	userAgent       string
}

// New starts the browser and warms it up.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 2
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &Provider{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		logger:          logger,
		sem:             make(chan struct{}, cfg.MaxConcurrency),
		userAgent:       cfg.UserAgent,
	}, nil
}

// Name identifies the provider in attempt records and metrics.
func (p *Provider) Name() string { return "chromedp" }

// Close tears down the browser and allocator contexts.
func (p *Provider) Close() error {
	if p == nil {
		return nil
	}
	p.browserCancel()
	p.allocatorCancel()
	return nil
}

// Render captures one screenshot of the page.
func (p *Provider) Render(ctx context.Context, rawURL string, cfg brand.RenderConfig) (brand.ScreenshotRef, error) {
	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return brand.ScreenshotRef{}, fmt.Errorf("acquire render slot: %w", ctx.Err())
	}

	tabCtx, cancelTab := chromedp.NewContext(p.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, cfg.Timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var buf []byte
	tasks := chromedp.Tasks{
		network.Enable(),
		emulation.SetDeviceMetricsOverride(int64(cfg.Width), int64(cfg.Height), 1, false),
	}
	if cfg.BlockAds {
		tasks = append(tasks, network.SetBlockedURLs(adHostPatterns))
	}
	tasks = append(tasks,
		chromedp.Navigate(rawURL),
		waitAction(cfg.WaitCondition),
	)
	if cfg.BlockCookieBanners {
		var dismissed bool
		tasks = append(tasks, chromedp.Evaluate(hideCookieBannersJS, &dismissed))
	}
	if cfg.FullPage {
		tasks = append(tasks, chromedp.FullScreenshot(&buf, quality(cfg)))
	} else {
		tasks = append(tasks, chromedp.CaptureScreenshot(&buf))
	}

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return brand.ScreenshotRef{}, fmt.Errorf("chromedp run: %w", err)
	}
	return brand.ScreenshotRef{Bytes: buf}, nil
}

func waitAction(condition string) chromedp.Action {
	switch strings.ToLower(condition) {
	case "networkidle", "idle":
		// Navigate already waits for the load event; give late XHR-driven
		// paints a moment to settle.
		return chromedp.Tasks{
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(1500 * time.Millisecond),
		}
	case "visible":
		return chromedp.WaitVisible("body", chromedp.ByQuery)
	default:
		return chromedp.WaitReady("body", chromedp.ByQuery)
	}
}

func quality(cfg brand.RenderConfig) int {
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		return 90
	}
	return cfg.Quality
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
