package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
auth:
  enabled: true
  api_key: secret
fetch:
  user_agent: brandlens-test/1.0
  timeout_seconds: 20
  max_stylesheets: 3
screenshot:
  score_threshold: 70
  backoff_initial_ms: 100
  backoff_max_ms: 400
  provider_delay_seconds: 1
  timeout_seconds: 25
  width: 1920
  height: 1080
  format: jpeg
  quality: 90
  full_page: true
  wait_condition: visible
  providers:
    - name: chromedp
      max_retries: 3
    - name: shotapi
      max_retries: 2
      endpoint: https://shots.example/v1
      api_key: shot-key
vision:
  timeout_seconds: 45
  providers:
    - name: gemini
      model: gemini-2.0-flash
      api_key: vision-key
    - name: llama
      endpoint: http://localhost:8081
fusion:
  vision_weight: 0.6
  heuristic_weight: 0.4
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Fatalf("expected auth enabled with secret key")
	}
	if cfg.Fetch.UserAgent != "brandlens-test/1.0" || cfg.Fetch.MaxStylesheets != 3 {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if got := cfg.FetchTimeout(); got != 20*time.Second {
		t.Fatalf("expected 20s fetch timeout, got %v", got)
	}
	if len(cfg.Screenshot.Providers) != 2 {
		t.Fatalf("expected 2 screenshot providers, got %+v", cfg.Screenshot.Providers)
	}
	if p := cfg.Screenshot.Providers[1]; p.Name != "shotapi" || p.MaxRetries != 2 || p.APIKey != "shot-key" {
		t.Fatalf("expected hosted provider config preserved: %+v", p)
	}
	if got := cfg.BackoffBase(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms backoff base, got %v", got)
	}
	if got := cfg.BackoffMax(); got != 400*time.Millisecond {
		t.Fatalf("expected 400ms backoff max, got %v", got)
	}
	if got := cfg.ProviderDelay(); got != time.Second {
		t.Fatalf("expected 1s provider delay, got %v", got)
	}
	if len(cfg.Vision.Providers) != 2 || cfg.Vision.Providers[0].Model != "gemini-2.0-flash" {
		t.Fatalf("expected vision providers preserved: %+v", cfg.Vision.Providers)
	}
	if got := cfg.VisionTimeout(); got != 45*time.Second {
		t.Fatalf("expected 45s vision timeout, got %v", got)
	}
	if cfg.Fusion.VisionWeight != 0.6 || cfg.Fusion.HeuristicWeight != 0.4 {
		t.Fatalf("expected fusion overrides to apply: %+v", cfg.Fusion)
	}

	render := cfg.RenderConfig()
	if render.Width != 1920 || render.Height != 1080 {
		t.Fatalf("expected viewport override, got %+v", render)
	}
	if render.Format != "jpeg" || render.Quality != 90 || !render.FullPage {
		t.Fatalf("expected render overrides, got %+v", render)
	}
	if render.WaitCondition != "visible" || render.Timeout != 25*time.Second {
		t.Fatalf("expected wait overrides, got %+v", render)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Screenshot.ScoreThreshold != 50 {
		t.Fatalf("expected default score threshold 50, got %d", cfg.Screenshot.ScoreThreshold)
	}
	if cfg.Fusion.VisionWeight != 0.7 || cfg.Fusion.HeuristicWeight != 0.3 {
		t.Fatalf("expected default blend 0.7/0.3, got %+v", cfg.Fusion)
	}
	render := cfg.RenderConfig()
	if render.Width != 1280 || render.Height != 800 || render.Format != "png" {
		t.Fatalf("unexpected default render config: %+v", render)
	}
	if !render.BlockAds || !render.BlockCookieBanners {
		t.Fatalf("expected blocking enabled by default: %+v", render)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server: ServerConfig{Port: 8080},
		Fetch:  FetchConfig{TimeoutSeconds: 15},
		Screenshot: ScreenshotConfig{
			ScoreThreshold: 50,
			Format:         "png",
		},
		Fusion: FusionConfig{VisionWeight: 0.7, HeuristicWeight: 0.3},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "auth missing api key",
			cfg: func() Config {
				c := base
				c.Auth.Enabled = true
				return c
			}(),
			want: "auth.api_key",
		},
		{
			name: "invalid fetch timeout",
			cfg: func() Config {
				c := base
				c.Fetch.TimeoutSeconds = 0
				return c
			}(),
			want: "fetch.timeout_seconds",
		},
		{
			name: "threshold out of range",
			cfg: func() Config {
				c := base
				c.Screenshot.ScoreThreshold = 150
				return c
			}(),
			want: "score_threshold",
		},
		{
			name: "unknown format",
			cfg: func() Config {
				c := base
				c.Screenshot.Format = "webp"
				return c
			}(),
			want: "screenshot.format",
		},
		{
			name: "provider missing retries",
			cfg: func() Config {
				c := base
				c.Screenshot.Providers = []ScreenshotProviderConfig{{Name: "chromedp"}}
				return c
			}(),
			want: "max_retries",
		},
		{
			name: "nameless vision provider",
			cfg: func() Config {
				c := base
				c.Vision.Providers = []VisionProviderConfig{{Model: "gemini-2.0-flash"}}
				return c
			}(),
			want: "vision.providers",
		},
		{
			name: "zero fusion weight",
			cfg: func() Config {
				c := base
				c.Fusion.VisionWeight = 0
				return c
			}(),
			want: "fusion weights",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
