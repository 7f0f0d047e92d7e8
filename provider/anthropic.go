package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"membrain/config"
	"membrain/model"
)

// AnthropicCaller speaks the Anthropic Messages protocol. The system turn
// moves out of the message array into the dedicated system parameter.
type AnthropicCaller struct{}

// NewAnthropicCaller creates a caller for the Anthropic API.
func NewAnthropicCaller() *AnthropicCaller {
	return &AnthropicCaller{}
}

// Call implements model.Caller.
func (c *AnthropicCaller) Call(ctx context.Context, apiKey string, m model.Model, temperature float64,
	messages []model.Message, taskID string, onContent model.ContentFunc, onFinish model.FinishFunc) {

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	systemTexts, rest := splitSystemMessages(filterMessages(messages))
	rest = ensureLeadingUserTurn(rest)

	systemBlocks := make([]anthropic.TextBlockParam, 0, len(systemTexts))
	for _, text := range systemTexts {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: text})
	}
	anthropicMessages := convertToAnthropicMessages(rest)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(m.Name),
		Messages:    anthropicMessages,
		MaxTokens:   int64(maxOutputBudget(m)),
		Temperature: anthropic.Float(temperature),
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	stream := client.Messages.NewStreaming(ctx, params)

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Provider] Anthropic accumulate failed for %s: %v", m.Name, err)
			}
			onFinish(taskID, err.Error())
			return
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				onContent(taskID, deltaVariant.Text)
			}
		}
	}

	if err := stream.Err(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Anthropic stream failed for %s: %v", m.Name, err)
		}
		onFinish(taskID, err.Error())
		return
	}
	onFinish(taskID, "")
}

// convertToAnthropicMessages maps user/assistant turns onto the Anthropic
// message array. System turns are expected to be split out already.
func convertToAnthropicMessages(messages []model.Message) []anthropic.MessageParam {
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == model.RoleAssistant {
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			continue
		}
		anthropicMsgs = append(anthropicMsgs,
			anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}
	return anthropicMsgs
}
