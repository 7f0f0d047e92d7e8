package provider

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"membrain/config"
	"membrain/model"
)

// OpenAICaller speaks the OpenAI chat-completions protocol. It also serves
// every OpenAI-compatible endpoint (Moonshot, OpenRouter, self-hosted
// gateways) by pointing the client at the provider's base URL.
type OpenAICaller struct {
	endpoint string
}

// NewOpenAICaller creates a caller for an OpenAI-compatible endpoint.
func NewOpenAICaller(endpoint string) *OpenAICaller {
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/"
	}
	return &OpenAICaller{endpoint: endpoint}
}

// Call implements model.Caller.
func (c *OpenAICaller) Call(ctx context.Context, apiKey string, m model.Model, temperature float64,
	messages []model.Message, taskID string, onContent model.ContentFunc, onFinish model.FinishFunc) {

	client := openai.NewClient(
		option.WithBaseURL(c.endpoint),
		option.WithAPIKey(apiKey),
	)

	openaiMessages := convertToOpenAIMessages(filterMessages(messages))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(m.Name),
		Messages:    openaiMessages,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxOutputBudget(m))),
	}

	stream := client.Chat.Completions.NewStreaming(ctx, params)
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onContent(taskID, chunk.Choices[0].Delta.Content)
		}
	}

	if err := stream.Err(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] OpenAI stream failed for %s: %v", m.Name, err)
		}
		onFinish(taskID, err.Error())
		return
	}
	onFinish(taskID, "")
}

// convertToOpenAIMessages maps conversation turns onto the SDK's union type.
func convertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
