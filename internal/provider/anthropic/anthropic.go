// Package anthropic implements the Anthropic messages move provider.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/discochess/arena/internal/provider"
)

// Compile-time check that Provider implements provider.Provider.
var _ provider.Provider = (*Provider)(nil)

// APIVersion is the anthropic-version header the SDK sends.
const APIVersion = "2023-06-01"

const maxTokens = 120

// Provider calls {base}/v1/messages through the Anthropic SDK.
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

// New creates an Anthropic provider.
func New(opts ...Option) *Provider {
	p := &Provider{client: http.DefaultClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns "anthropic".
func (p *Provider) Kind() string {
	return provider.KindAnthropic
}

// Invoke sends a single message request. A trailing /v1 on the base URL is
// dropped since the SDK adds it.
func (p *Provider) Invoke(ctx context.Context, cfg provider.Config, req provider.Request) (*provider.Response, error) {
	root, _ := provider.SplitAPIVersion(cfg.BaseURL)
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(root),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(cfg.Temperature),
		System:      []anthropic.TextBlockParam{{Text: provider.SystemInstruction}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(provider.Prompt(req))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, provider.NewHTTPError(p.Kind(), apiErr.StatusCode, apiErr.RawJSON())
		}
		return nil, fmt.Errorf("calling anthropic: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return &provider.Response{Text: strings.Join(parts, "\n"), Raw: json.RawMessage(msg.RawJSON())}, nil
}
