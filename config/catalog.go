package config

import "membrain/model"

// System provider IDs.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderMoonshot  = "moonshot"
)

// SystemProviders returns the built-in provider catalog. User-defined custom
// providers are appended after these, in insertion order.
func SystemProviders() []model.ModelProvider {
	return []model.ModelProvider{
		{ID: ProviderOpenAI, Name: "OpenAI", APIType: model.APITypeOpenAI, Endpoint: "https://api.openai.com/v1/"},
		{ID: ProviderAnthropic, Name: "Anthropic", APIType: model.APITypeAnthropic},
		{ID: ProviderGoogle, Name: "Google", APIType: model.APITypeGoogle},
		{ID: ProviderMoonshot, Name: "Moonshot", APIType: model.APITypeOpenAI, Endpoint: "https://api.moonshot.cn/v1/"},
	}
}

// SystemModels returns the built-in model catalog.
func SystemModels() []model.Model {
	return []model.Model{
		{ID: "gpt-4o", ProviderID: ProviderOpenAI, Name: "gpt-4o", MaxContext: 128000, MaxOutput: 16384},
		{ID: "gpt-4o-mini", ProviderID: ProviderOpenAI, Name: "gpt-4o-mini", MaxContext: 128000, MaxOutput: 16384},
		{ID: "claude-3-5-sonnet", ProviderID: ProviderAnthropic, Name: "claude-3-5-sonnet-latest", MaxContext: 200000, MaxOutput: 8192},
		{ID: "claude-3-5-haiku", ProviderID: ProviderAnthropic, Name: "claude-3-5-haiku-latest", MaxContext: 200000, MaxOutput: 8192},
		{ID: "gemini-1.5-pro", ProviderID: ProviderGoogle, Name: "gemini-1.5-pro", MaxContext: 2000000, MaxOutput: 8192},
		{ID: "gemini-1.5-flash", ProviderID: ProviderGoogle, Name: "gemini-1.5-flash", MaxContext: 1000000, MaxOutput: 8192},
		{ID: "moonshot-v1-8k", ProviderID: ProviderMoonshot, Name: "moonshot-v1-8k", MaxContext: 8192, MaxOutput: 4096},
		{ID: "moonshot-v1-32k", ProviderID: ProviderMoonshot, Name: "moonshot-v1-32k", MaxContext: 32768, MaxOutput: 4096},
	}
}
