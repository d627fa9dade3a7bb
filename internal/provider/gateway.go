package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Gateway dispatches requests to registered providers.
// A Gateway is safe for concurrent use once constructed.
type Gateway struct {
	providers map[string]Provider
}

// NewGateway creates a gateway over the given providers.
func NewGateway(providers ...Provider) *Gateway {
	g := &Gateway{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		g.providers[strings.ToLower(p.Kind())] = p
	}
	return g
}

// Known reports whether kind can be played. mock-random is always known.
func (g *Gateway) Known(kind string) bool {
	kind = strings.ToLower(kind)
	if kind == KindMockRandom {
		return true
	}
	_, ok := g.providers[kind]
	return ok
}

// Invoke performs one attempt for cfg. The attempt is aborted once
// req.TimeLimit elapses, in which case the error wraps ErrTimeout.
func (g *Gateway) Invoke(ctx context.Context, cfg Config, req Request) (*Response, error) {
	kind := strings.ToLower(cfg.Provider)
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredential, kind)
	}
	p, ok := g.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}

	if req.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.TimeLimit)
		defer cancel()
	}

	resp, err := p.Invoke(ctx, cfg, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, req.TimeLimit, kind)
		}
		return nil, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, kind)
	}
	return resp, nil
}
