package provider

import (
	"fmt"
	"strings"
)

// DefaultTemperature is used when a side does not set one.
const DefaultTemperature = 0.2

// Defaults are environment-level fallbacks for one provider kind.
type Defaults struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Builtin returns the base URLs and models used when nothing is configured.
func Builtin() map[string]Defaults {
	return map[string]Defaults{
		KindOpenAI: {
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		KindAnthropic: {
			BaseURL: "https://api.anthropic.com/v1",
			Model:   "claude-3-5-sonnet-latest",
		},
		KindGemini: {
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Model:   "gemini-1.5-pro",
		},
	}
}

// Side is a side configuration as received from a caller; nil Temperature
// means unset.
type Side struct {
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	APIKey      string   `json:"apiKey"`
	BaseURL     string   `json:"baseUrl"`
	Temperature *float64 `json:"temperature"`
	Name        string   `json:"name"`
}

// Normalize fills unset fields of side from defaults. An empty provider
// selects fallbackKind.
func Normalize(side Side, defaults map[string]Defaults, fallbackKind string) Config {
	kind := strings.ToLower(strings.TrimSpace(side.Provider))
	if kind == "" {
		kind = strings.ToLower(fallbackKind)
	}
	env := defaults[kind]

	cfg := Config{
		Provider:    kind,
		Model:       firstNonEmpty(side.Model, env.Model),
		APIKey:      firstNonEmpty(side.APIKey, env.APIKey),
		BaseURL:     firstNonEmpty(side.BaseURL, env.BaseURL),
		Temperature: DefaultTemperature,
		Name:        side.Name,
	}
	if side.Temperature != nil {
		cfg.Temperature = *side.Temperature
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("%s:%s", kind, firstNonEmpty(cfg.Model, "default"))
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
