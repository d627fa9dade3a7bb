// Package gemini implements the Google Gemini generateContent move provider.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/discochess/arena/internal/provider"
)

// Compile-time check that Provider implements provider.Provider.
var _ provider.Provider = (*Provider)(nil)

const maxOutputTokens = 128

// Provider calls {base}/models/{model}:generateContent through the genai
// SDK. The key travels in the x-goog-api-key header, never in the URL.
type Provider struct {
	client *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// New creates a Gemini provider.
func New(opts ...Option) *Provider {
	p := &Provider{client: http.DefaultClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns "gemini".
func (p *Provider) Kind() string {
	return provider.KindGemini
}

// Invoke requests a single generation.
func (p *Provider) Invoke(ctx context.Context, cfg provider.Config, req provider.Request) (*provider.Response, error) {
	root, version := provider.SplitAPIVersion(cfg.BaseURL)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.client,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    root + "/",
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, cfg.Model, genai.Text(provider.Prompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(provider.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(cfg.Temperature)),
		MaxOutputTokens:   maxOutputTokens,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, provider.NewHTTPError(p.Kind(), apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("calling gemini: %w", err)
	}

	var parts []string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, pt := range resp.Candidates[0].Content.Parts {
			if pt != nil && pt.Text != "" {
				parts = append(parts, pt.Text)
			}
		}
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encoding gemini response: %w", err)
	}
	return &provider.Response{Text: strings.Join(parts, "\n"), Raw: raw}, nil
}
