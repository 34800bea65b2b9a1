// Package collyfetcher implements brand.DocumentFetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/heuristic"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// MaxStylesheets bounds how many linked stylesheets are pulled in
	// addition to inline <style> blocks.
	MaxStylesheets int
}

// Fetcher retrieves a page and its stylesheet text in a single attempt.
// It never retries; orchestration owns retry policy.
type Fetcher struct {
	cfg           Config
	logger        *zap.Logger
	baseCollector *colly.Collector
	clock         brand.Clock
}

// New builds a Fetcher.
func New(cfg Config, clock brand.Clock, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxStylesheets == 0 {
		cfg.MaxStylesheets = 5
	}
	c := colly.NewCollector(colly.Async(false), colly.IgnoreRobotsTxt())
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, logger: logger, baseCollector: c, clock: clock}
}

// Fetch performs one GET of the page, gathers inline <style> bodies, and
// pulls a bounded number of linked stylesheets. Any page-level failure
// returns a brand.FetchError; stylesheet failures only degrade the
// captured text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (brand.CapturedDocument, error) {
	var (
		html           string
		statusCode     int
		stylesheetURLs []string
		styles         []string
		fetchErr       error
	)

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		html = string(r.Body)
	})
	collector.OnHTML("style", func(e *colly.HTMLElement) {
		styles = append(styles, e.Text)
	})
	collector.OnHTML(`link[rel="stylesheet"]`, func(e *colly.HTMLElement) {
		if href := e.Attr("href"); href != "" {
			stylesheetURLs = append(stylesheetURLs, heuristic.ResolveURL(rawURL, href))
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := f.visit(ctx, collector, rawURL, &fetchErr); err != nil {
		return brand.CapturedDocument{}, &brand.FetchError{URL: rawURL, Err: err}
	}
	if statusCode >= 400 {
		return brand.CapturedDocument{}, &brand.FetchError{
			URL: rawURL,
			Err: fmt.Errorf("status %d", statusCode),
		}
	}

	if len(stylesheetURLs) > f.cfg.MaxStylesheets {
		stylesheetURLs = stylesheetURLs[:f.cfg.MaxStylesheets]
	}
	for _, cssURL := range stylesheetURLs {
		body, err := f.fetchStylesheet(ctx, cssURL)
		if err != nil {
			f.logger.Debug("stylesheet fetch failed",
				zap.String("url", cssURL), zap.Error(err))
			continue
		}
		styles = append(styles, body)
	}

	return brand.CapturedDocument{
		URL:            rawURL,
		HTML:           html,
		StylesheetText: strings.Join(styles, "\n"),
		FetchedAt:      f.clock.Now(),
	}, nil
}

func (f *Fetcher) fetchStylesheet(ctx context.Context, cssURL string) (string, error) {
	var (
		body     string
		fetchErr error
	)
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})
	if err := f.visit(ctx, collector, cssURL, &fetchErr); err != nil {
		return "", err
	}
	return body, nil
}

func (f *Fetcher) visit(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visit: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("response: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
