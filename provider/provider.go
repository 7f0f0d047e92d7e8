// Package provider implements the streaming model.Caller contract for each
// supported backend: OpenAI-compatible chat completions, Anthropic, and
// Google. All backends share the same pre-call message filtering and output
// budget so callers see uniform behavior regardless of wire protocol.
package provider

import (
	"strings"

	"membrain/model"
)

// filterMessages drops messages that carry the error sentinel or no content
// at all. Failed generations must not be echoed back into the context of a
// follow-up call.
func filterMessages(messages []model.Message) []model.Message {
	filtered := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		trimmed := strings.TrimSpace(m.Content)
		if trimmed == "" || trimmed == model.ErrorSentinel {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// maxOutputBudget caps the requested completion size at half of the model's
// declared maximum, leaving headroom for providers that count the request
// against the same window.
func maxOutputBudget(m model.Model) int {
	return m.MaxOutput / 2
}

// splitSystemMessages separates system turns from the conversational
// transcript for backends that carry the system prompt out of band.
func splitSystemMessages(messages []model.Message) (system []string, rest []model.Message) {
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			system = append(system, m.Content)
		} else {
			rest = append(rest, m)
		}
	}
	return system, rest
}

// ensureLeadingUserTurn folds a leading assistant turn into the following
// message as a single user turn. Anthropic and Gemini require transcripts to
// open with a user turn, and sentinel filtering can break that.
func ensureLeadingUserTurn(messages []model.Message) []model.Message {
	if len(messages) < 2 || messages[0].Role != model.RoleAssistant {
		return messages
	}
	merged := model.NewUserMessage(messages[0].Content + "\n\n" + messages[1].Content)
	return append([]model.Message{merged}, messages[2:]...)
}
