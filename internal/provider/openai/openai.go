// Package openai implements the OpenAI chat completions move provider.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/discochess/arena/internal/provider"
)

// Compile-time check that Provider implements provider.Provider.
var _ provider.Provider = (*Provider)(nil)

// Provider calls {base}/chat/completions through the OpenAI SDK.
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

// New creates an OpenAI provider.
func New(opts ...Option) *Provider {
	p := &Provider{client: http.DefaultClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns "openai".
func (p *Provider) Kind() string {
	return provider.KindOpenAI
}

// Invoke requests a single chat completion. The SDK does not retry: the
// orchestrator owns the retry budget.
func (p *Provider) Invoke(ctx context.Context, cfg provider.Config, req provider.Request) (*provider.Response, error) {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(p.client),
		option.WithMaxRetries(0),
	)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(cfg.Model),
		Temperature: openai.Float(cfg.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(provider.SystemInstruction),
			openai.UserMessage(provider.Prompt(req)),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, provider.NewHTTPError(p.Kind(), apiErr.StatusCode, apiErr.RawJSON())
		}
		return nil, fmt.Errorf("calling openai: %w", err)
	}

	text := ""
	if len(completion.Choices) > 0 {
		text = completion.Choices[0].Message.Content
	}
	return &provider.Response{Text: text, Raw: json.RawMessage(completion.RawJSON())}, nil
}
