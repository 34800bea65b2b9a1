// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jam5991/brandlens/internal/brand"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`
	Vision     VisionConfig     `mapstructure:"vision"`
	Fusion     FusionConfig     `mapstructure:"fusion"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// FetchConfig governs document retrieval. RPS and Burst throttle all
// outbound traffic per target host; zero RPS disables throttling.
type FetchConfig struct {
	UserAgent      string  `mapstructure:"user_agent"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxStylesheets int     `mapstructure:"max_stylesheets"`
	RPS            float64 `mapstructure:"rps"`
	Burst          int     `mapstructure:"burst"`
}

// ScreenshotConfig tunes the capture chain and the render request sent
// to every provider in it.
type ScreenshotConfig struct {
	ScoreThreshold     int                        `mapstructure:"score_threshold"`
	BackoffInitialMs   int                        `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs       int                        `mapstructure:"backoff_max_ms"`
	ProviderDelaySec   int                        `mapstructure:"provider_delay_seconds"`
	TimeoutSeconds     int                        `mapstructure:"timeout_seconds"`
	Width              int                        `mapstructure:"width"`
	Height             int                        `mapstructure:"height"`
	Format             string                     `mapstructure:"format"`
	Quality            int                        `mapstructure:"quality"`
	FullPage           bool                       `mapstructure:"full_page"`
	WaitCondition      string                     `mapstructure:"wait_condition"`
	BlockAds           bool                       `mapstructure:"block_ads"`
	BlockCookieBanners bool                       `mapstructure:"block_cookie_banners"`
	Providers          []ScreenshotProviderConfig `mapstructure:"providers"`
}

// ScreenshotProviderConfig names one capture backend and its retry
// budget. Endpoint and APIKey only apply to hosted backends.
type ScreenshotProviderConfig struct {
	Name       string `mapstructure:"name"`
	MaxRetries int    `mapstructure:"max_retries"`
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
}

// VisionConfig configures the inference chain.
type VisionConfig struct {
	TimeoutSeconds int                    `mapstructure:"timeout_seconds"`
	Providers      []VisionProviderConfig `mapstructure:"providers"`
}

// VisionProviderConfig names one vision backend.
type VisionProviderConfig struct {
	Name     string `mapstructure:"name"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// FusionConfig sets the vision/heuristic blend.
type FusionConfig struct {
	VisionWeight    float64 `mapstructure:"vision_weight"`
	HeuristicWeight float64 `mapstructure:"heuristic_weight"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BRANDLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.user_agent", "brandlens-bot/0.1")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_stylesheets", 5)
	v.SetDefault("fetch.rps", 2)
	v.SetDefault("fetch.burst", 4)
	v.SetDefault("screenshot.score_threshold", 50)
	v.SetDefault("screenshot.backoff_initial_ms", 500)
	v.SetDefault("screenshot.backoff_max_ms", 8000)
	v.SetDefault("screenshot.provider_delay_seconds", 2)
	v.SetDefault("screenshot.timeout_seconds", 30)
	v.SetDefault("screenshot.width", 1280)
	v.SetDefault("screenshot.height", 800)
	v.SetDefault("screenshot.format", "png")
	v.SetDefault("screenshot.quality", 80)
	v.SetDefault("screenshot.full_page", false)
	v.SetDefault("screenshot.wait_condition", "networkidle")
	v.SetDefault("screenshot.block_ads", true)
	v.SetDefault("screenshot.block_cookie_banners", true)
	v.SetDefault("vision.timeout_seconds", 60)
	v.SetDefault("fusion.vision_weight", 0.7)
	v.SetDefault("fusion.heuristic_weight", 0.3)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Screenshot.ScoreThreshold < 0 || c.Screenshot.ScoreThreshold > 100 {
		return fmt.Errorf("screenshot.score_threshold must be in [0,100]")
	}
	if c.Screenshot.Format != "png" && c.Screenshot.Format != "jpeg" {
		return fmt.Errorf("screenshot.format must be png or jpeg")
	}
	for _, p := range c.Screenshot.Providers {
		if p.Name == "" {
			return fmt.Errorf("screenshot.providers entries need a name")
		}
		if p.MaxRetries <= 0 {
			return fmt.Errorf("screenshot provider %q: max_retries must be > 0", p.Name)
		}
	}
	for _, p := range c.Vision.Providers {
		if p.Name == "" {
			return fmt.Errorf("vision.providers entries need a name")
		}
	}
	if c.Fusion.VisionWeight <= 0 || c.Fusion.HeuristicWeight <= 0 {
		return fmt.Errorf("fusion weights must be > 0")
	}
	return nil
}

// FetchTimeout returns the document fetch budget.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// BackoffBase returns the initial retry delay for screenshot attempts.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.Screenshot.BackoffInitialMs) * time.Millisecond
}

// BackoffMax returns the retry delay ceiling.
func (c Config) BackoffMax() time.Duration {
	return time.Duration(c.Screenshot.BackoffMaxMs) * time.Millisecond
}

// ProviderDelay returns the pause between capture providers.
func (c Config) ProviderDelay() time.Duration {
	return time.Duration(c.Screenshot.ProviderDelaySec) * time.Second
}

// VisionTimeout returns the per-inference-call budget.
func (c Config) VisionTimeout() time.Duration {
	return time.Duration(c.Vision.TimeoutSeconds) * time.Second
}

// RenderConfig converts the screenshot section into the render request
// handed to every capture provider.
func (c Config) RenderConfig() brand.RenderConfig {
	return brand.RenderConfig{
		Width:              c.Screenshot.Width,
		Height:             c.Screenshot.Height,
		Format:             c.Screenshot.Format,
		Quality:            c.Screenshot.Quality,
		FullPage:           c.Screenshot.FullPage,
		WaitCondition:      c.Screenshot.WaitCondition,
		BlockAds:           c.Screenshot.BlockAds,
		BlockCookieBanners: c.Screenshot.BlockCookieBanners,
		Timeout:            time.Duration(c.Screenshot.TimeoutSeconds) * time.Second,
	}
}
