package model

// APIType identifies the wire protocol a provider speaks.
type APIType string

const (
	APITypeOpenAI    APIType = "OpenAI" // OpenAI-compatible chat completions
	APITypeAnthropic APIType = "Anthropic"
	APITypeGoogle    APIType = "Google"
)

// Model describes a callable LLM endpoint.
type Model struct {
	ID         string `json:"id"`
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	MaxContext int    `json:"maxContext"`
	MaxOutput  int    `json:"maxOutput"`
}

// ModelProvider describes an API backend.
type ModelProvider struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	APIType APIType `json:"apiType"`
	// Endpoint is the base URL for OpenAI-compatible providers. Unused for
	// SDK-driven providers (Anthropic, Google).
	Endpoint string `json:"endpoint,omitempty"`
}

// ProviderConfig is the per-provider user configuration. A model is
// selectable only if its provider is enabled and its name appears in
// EnabledModels.
type ProviderConfig struct {
	ProviderID    string   `json:"providerId"`
	Enabled       bool     `json:"enabled"`
	APIKey        string   `json:"apiKey,omitempty"`
	EnabledModels []string `json:"enabledModels"`
}

// ModelEnabled reports whether the named model is admitted for selection.
func (c ProviderConfig) ModelEnabled(name string) bool {
	for _, n := range c.EnabledModels {
		if n == name {
			return true
		}
	}
	return false
}

// ModelAndProvider pairs a model with the provider that serves it.
type ModelAndProvider struct {
	Model    Model
	Provider ModelProvider
}
