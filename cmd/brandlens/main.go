// Package main wires together the brandlens service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jam5991/brandlens/internal/api"
	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/clock/system"
	"github.com/jam5991/brandlens/internal/config"
	collyfetcher "github.com/jam5991/brandlens/internal/fetcher/colly"
	"github.com/jam5991/brandlens/internal/fusion"
	"github.com/jam5991/brandlens/internal/id/uuid"
	"github.com/jam5991/brandlens/internal/logging"
	"github.com/jam5991/brandlens/internal/metrics"
	"github.com/jam5991/brandlens/internal/pipeline"
	"github.com/jam5991/brandlens/internal/ratelimit"
	"github.com/jam5991/brandlens/internal/screenshot"
	chromedpshot "github.com/jam5991/brandlens/internal/screenshot/chromedp"
	rodshot "github.com/jam5991/brandlens/internal/screenshot/rod"
	"github.com/jam5991/brandlens/internal/screenshot/shotapi"
	"github.com/jam5991/brandlens/internal/vision"
	"github.com/jam5991/brandlens/internal/vision/gemini"
	"github.com/jam5991/brandlens/internal/vision/llama"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	clock := system.New()
	idGen := uuid.NewGenerator()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.Fetch.UserAgent,
		Timeout:        cfg.FetchTimeout(),
		MaxStylesheets: cfg.Fetch.MaxStylesheets,
	}, clock, logging.Component(logger, "fetcher"))

	entries, closers := buildScreenshotProviders(cfg, logger)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.Warn("provider close failed", zap.Error(err))
			}
		}
	}()

	shotChain := screenshot.NewChain(entries, screenshot.NewValidator(nil), screenshot.Options{
		Render:             cfg.RenderConfig(),
		Backoff:            screenshot.BackoffPolicy{Base: cfg.BackoffBase(), Max: cfg.BackoffMax()},
		InterProviderDelay: cfg.ProviderDelay(),
		ScoreThreshold:     cfg.Screenshot.ScoreThreshold,
	}, clock, logging.Component(logger, "screenshot"))

	visChain := vision.NewChain(
		buildVisionProviders(ctx, cfg, logger),
		cfg.VisionTimeout(),
		clock,
		logging.Component(logger, "vision"),
	)

	extractor := pipeline.New(fetcher, shotChain, visChain, pipeline.Options{
		Weights: fusion.Weights{
			Vision:    cfg.Fusion.VisionWeight,
			Heuristic: cfg.Fusion.HeuristicWeight,
		},
		DominantColorFallback: true,
		Limiter:               ratelimit.New(ratelimit.Config{RPS: cfg.Fetch.RPS, Burst: cfg.Fetch.Burst}),
	}, clock, logging.Component(logger, "pipeline"))

	apiServer := api.NewServer(extractor, idGen, clock, logging.Component(logger, "api"), cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// buildScreenshotProviders constructs every configured capture backend.
// A backend that fails to start is skipped with a warning so the rest of
// the chain still runs.
func buildScreenshotProviders(cfg config.Config, logger *zap.Logger) ([]screenshot.Entry, []func() error) {
	var (
		entries []screenshot.Entry
		closers []func() error
	)
	for _, pc := range cfg.Screenshot.Providers {
		var (
			provider brand.ScreenshotProvider
			err      error
		)
		switch pc.Name {
		case "chromedp":
			var p *chromedpshot.Provider
			p, err = chromedpshot.New(chromedpshot.Config{UserAgent: cfg.Fetch.UserAgent}, logging.Component(logger, "chromedp"))
			if err == nil {
				provider = p
				closers = append(closers, p.Close)
			}
		case "rod":
			var p *rodshot.Provider
			p, err = rodshot.New(logging.Component(logger, "rod"))
			if err == nil {
				provider = p
				closers = append(closers, p.Close)
			}
		case "shotapi":
			provider = shotapi.New(shotapi.Config{Endpoint: pc.Endpoint, APIKey: pc.APIKey}, nil)
		default:
			err = fmt.Errorf("unknown screenshot provider %q", pc.Name)
		}
		if err != nil {
			logger.Warn("screenshot provider init failed",
				zap.String("provider", pc.Name), zap.Error(err))
			continue
		}
		entries = append(entries, screenshot.Entry{Provider: provider, MaxRetries: pc.MaxRetries})
	}
	return entries, closers
}

func buildVisionProviders(ctx context.Context, cfg config.Config, logger *zap.Logger) []brand.VisionProvider {
	var providers []brand.VisionProvider
	for _, pc := range cfg.Vision.Providers {
		switch pc.Name {
		case "gemini":
			p, err := gemini.New(ctx, gemini.Config{APIKey: pc.APIKey, Model: pc.Model})
			if err != nil {
				logger.Warn("vision provider init failed",
					zap.String("provider", pc.Name), zap.Error(err))
				continue
			}
			providers = append(providers, p)
		case "llama":
			providers = append(providers, llama.New(llama.Config{
				Endpoint: pc.Endpoint,
				APIKey:   pc.APIKey,
				Model:    pc.Model,
			}))
		default:
			logger.Warn("unknown vision provider", zap.String("provider", pc.Name))
		}
	}
	return providers
}
