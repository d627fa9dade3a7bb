// Package provider defines the move-provider gateway: a capability interface
// implemented once per provider kind, and a Gateway that dispatches to the
// configured kind with credential checks and a hard per-attempt timeout.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider kinds known to the arena.
const (
	KindMockRandom = "mock-random"
	KindOpenAI     = "openai"
	KindAnthropic  = "anthropic"
	KindGemini     = "gemini"
)

// SystemInstruction is sent with every network-backed request.
const SystemInstruction = `You are a chess move generator. Output only a JSON object with field move, e.g. {"move":"e2e4"}.`

// Sentinel errors for the provider failure taxonomy.
var (
	// ErrMissingCredential indicates a network-backed side has no credential.
	ErrMissingCredential = errors.New("provider: missing credential")

	// ErrUnsupportedProvider indicates an unknown provider kind.
	ErrUnsupportedProvider = errors.New("provider: unsupported provider")

	// ErrTimeout indicates the per-move time budget expired mid-request.
	ErrTimeout = errors.New("provider: timeout")

	// ErrEmptyResponse indicates a successful response without text content.
	ErrEmptyResponse = errors.New("provider: response has no text content")
)

// HTTPError is returned when a provider answers with a non-success status.
type HTTPError struct {
	Provider string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider: %s error: %d %s", e.Provider, e.Status, e.Body)
}

// Config is one side's provider configuration. It is built once at game
// creation and never modified afterwards.
type Config struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	APIKey      string  `json:"-"`
	BaseURL     string  `json:"baseUrl,omitempty"`
	Temperature float64 `json:"temperature"`
	Name        string  `json:"name"`
}

// Identity returns "provider:model".
func (c Config) Identity() string {
	return c.Provider + ":" + c.Model
}

// Request carries everything a provider needs to pick a move.
type Request struct {
	Color     string // "white" or "black"
	FEN       string
	PGN       string
	LegalUCI  []string
	LegalSAN  []string
	Ply       int
	Opponent  string
	TimeLimit time.Duration
}

// Response is the normalized provider answer.
type Response struct {
	Text string
	Raw  json.RawMessage
}

// Provider is a single provider kind.
type Provider interface {
	// Kind returns the provider kind handled.
	Kind() string

	// Invoke requests a move. The context carries the attempt deadline.
	Invoke(ctx context.Context, cfg Config, req Request) (*Response, error)
}
