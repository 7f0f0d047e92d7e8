package provider

import (
	"fmt"

	"membrain/model"
)

// CallerFor returns the caller matching the provider's API type.
func CallerFor(p model.ModelProvider) (model.Caller, error) {
	switch p.APIType {
	case model.APITypeOpenAI:
		return NewOpenAICaller(p.Endpoint), nil
	case model.APITypeAnthropic:
		return NewAnthropicCaller(), nil
	case model.APITypeGoogle:
		return NewGoogleCaller(), nil
	default:
		return nil, fmt.Errorf("unknown API type: %s", p.APIType)
	}
}
