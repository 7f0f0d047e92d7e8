package model

import "github.com/google/uuid"

// ChatReferenceType selects which references are injected into a task's
// prompt context.
type ChatReferenceType string

const (
	// RefScopeAll uses the reference store's current list as-is.
	RefScopeAll ChatReferenceType = "all"
	// RefScopePage captures the current page fresh and uses only it.
	RefScopePage ChatReferenceType = "page"
	// RefScopeSelection inlines the current selection into the prompt.
	RefScopeSelection ChatReferenceType = "selection"
)

// ChatTask is an intent to produce one assistant turn. The ID correlates
// asynchronous streaming callbacks with the task that issued them, so stale
// callbacks from a superseded task are ignored.
type ChatTask struct {
	ID            string
	Prompt        string
	ReferenceType ChatReferenceType
}

// NewChatTask creates a task with a generated ID.
func NewChatTask(prompt string, refType ChatReferenceType) *ChatTask {
	return &ChatTask{
		ID:            uuid.New().String(),
		Prompt:        prompt,
		ReferenceType: refType,
	}
}

// Chat status values. Any other non-empty value is a human-readable error.
const (
	ChatStatusEmpty      = ""
	ChatStatusProcessing = "processing"
)

// PromptTemplate is a user-defined reusable prompt bound to a reference scope.
type PromptTemplate struct {
	Name          string            `json:"name"`
	Prompt        string            `json:"prompt"`
	ReferenceType ChatReferenceType `json:"referenceType"`
}
