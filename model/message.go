package model

import (
	"strings"

	"github.com/gomarkdown/markdown"
)

// Message roles. messages sent to a provider always start with a single
// system message followed by alternating user/assistant turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrorSentinel marks a message whose content is a failed generation.
// Messages carrying it are filtered out before calling a provider so previous
// failures are not echoed back into context.
const ErrorSentinel = "<error>"

// TemperatureUnset is recorded on messages that were not produced by a model.
const TemperatureUnset = -1

// Message represents one turn in a conversation.
type Message struct {
	Role        string  `json:"role"`
	Content     string  `json:"content"`
	Rendered    string  `json:"rendered,omitempty"` // Cached HTML rendering
	Model       string  `json:"model,omitempty"`    // Producing model, empty for user/system turns
	Temperature float64 `json:"temperature"`        // Sampling temperature in effect, TemperatureUnset otherwise
}

// NewSystemMessage creates a system turn.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Temperature: TemperatureUnset}
}

// NewUserMessage creates a user turn.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Temperature: TemperatureUnset}
}

// NewAssistantMessage creates an empty assistant placeholder that is filled
// incrementally while a response streams.
func NewAssistantMessage(modelName string, temperature float64) Message {
	return Message{Role: RoleAssistant, Model: modelName, Temperature: temperature}
}

// IsErrorPlaceholder reports whether the message content is the error sentinel.
func (m Message) IsErrorPlaceholder() bool {
	return strings.TrimSpace(m.Content) == ErrorSentinel
}

// Render returns the cached HTML rendering of the content, computing and
// caching it on first use.
func (m *Message) Render() string {
	if m.Rendered == "" && m.Content != "" {
		m.Rendered = string(markdown.ToHTML([]byte(m.Content), nil, nil))
	}
	return m.Rendered
}
