// Package gemini implements brand.VisionProvider on Google's Gemini API
// via the genai SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/jam5991/brandlens/internal/brand"
	"github.com/jam5991/brandlens/internal/vision"
)

// Config selects model and credentials.
type Config struct {
	APIKey string
	Model  string
}

// Provider calls Gemini with an inline screenshot and the standard
// extraction instructions.
type Provider struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
}

// New builds a Provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Provider{
		client:     client,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name identifies the provider in attempt records and metrics.
func (p *Provider) Name() string { return "gemini" }

// Infer submits the screenshot and returns the completion text.
func (p *Provider) Infer(ctx context.Context, image brand.ScreenshotRef, instructions string) (string, error) {
	data, mime, err := vision.ImageBytes(ctx, p.httpClient, image)
	if err != nil {
		return "", fmt.Errorf("prepare image: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mime),
			genai.NewPartFromText(instructions),
		}, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}
