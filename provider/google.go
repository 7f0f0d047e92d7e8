package provider

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"membrain/config"
	"membrain/model"
)

// GoogleCaller speaks the Gemini API. The system turn becomes the chat's
// system instruction, prior turns become chat history, and the final user
// turn is sent as the streamed message.
type GoogleCaller struct{}

// NewGoogleCaller creates a caller for the Gemini API.
func NewGoogleCaller() *GoogleCaller {
	return &GoogleCaller{}
}

// Call implements model.Caller.
func (c *GoogleCaller) Call(ctx context.Context, apiKey string, m model.Model, temperature float64,
	messages []model.Message, taskID string, onContent model.ContentFunc, onFinish model.FinishFunc) {

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		onFinish(taskID, err.Error())
		return
	}

	systemTexts, rest := splitSystemMessages(filterMessages(messages))
	rest = ensureLeadingUserTurn(rest)

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxOutputBudget(m)),
	}
	if len(systemTexts) > 0 {
		genConfig.SystemInstruction = genai.NewContentFromText(
			strings.Join(systemTexts, "\n\n"), genai.RoleUser)
	}

	var history []*genai.Content
	var lastUser string
	for _, msg := range rest {
		if msg.Role == model.RoleAssistant {
			history = append(history, genai.NewContentFromText(msg.Content, genai.RoleModel))
			continue
		}
		history = append(history, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}

	// The final user turn is delivered through SendMessageStream, not history.
	if n := len(history); n > 0 && history[n-1].Role == genai.RoleUser {
		lastUser = history[n-1].Parts[0].Text
		history = history[:n-1]
	}

	chat, err := client.Chats.Create(ctx, m.Name, genConfig, history)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Google chat create failed for %s: %v", m.Name, err)
		}
		onFinish(taskID, err.Error())
		return
	}

	for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: lastUser}) {
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Provider] Google stream failed for %s: %v", m.Name, err)
			}
			onFinish(taskID, err.Error())
			return
		}
		if text := resp.Text(); text != "" {
			onContent(taskID, text)
		}
	}
	onFinish(taskID, "")
}
