package assistant

import (
	"context"
	"fmt"

	"membrain/config"
	"membrain/model"
)

// Cancel clears the in-flight task. The provider call's context is cancelled
// and any callback that still arrives with the old task id is dropped.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.task == nil {
		s.mu.Unlock()
		return
	}
	s.task = nil
	s.status = model.ChatStatusEmpty
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.notify()
}

// RedoFromMessage truncates history to the user turn at index i and resubmits
// that turn as a fresh task against the current reference list.
func (s *Session) RedoFromMessage(ctx context.Context, i int) error {
	s.mu.Lock()
	if s.status == model.ChatStatusProcessing {
		s.mu.Unlock()
		return ErrBusy
	}
	if i < 0 || i >= len(s.history) {
		s.mu.Unlock()
		return fmt.Errorf("message index %d out of range", i)
	}
	msg := s.history[i]
	if msg.Role != model.RoleUser {
		s.mu.Unlock()
		return fmt.Errorf("message %d is not a user message", i)
	}
	// Submit re-appends the user turn, so drop it along with everything after.
	s.history = s.history[:i]
	s.persistHistoryLocked()
	s.mu.Unlock()
	s.notify()

	return s.Submit(ctx, model.NewChatTask(msg.Content, model.RefScopeAll))
}

// ClearSession drops the conversation, keeping references.
func (s *Session) ClearSession() {
	s.mu.Lock()
	s.history = nil
	s.answer.Reset()
	s.persistHistoryLocked()
	s.mu.Unlock()
	s.notify()
}

// ClearAll drops the conversation and the reference list.
func (s *Session) ClearAll() {
	s.ClearSession()
	s.refs.Clear()
}

// Summarize asks for a summary of the current reference list.
func (s *Session) Summarize(ctx context.Context) error {
	prompt := config.PromptText(s.uiLanguage, "prompt_summarize")
	return s.Submit(ctx, model.NewChatTask(prompt, model.RefScopeAll))
}

// SummarizePage captures the current page and asks for a summary of it.
func (s *Session) SummarizePage(ctx context.Context) error {
	prompt := config.PromptText(s.uiLanguage, "prompt_summarizePage")
	return s.Submit(ctx, model.NewChatTask(prompt, model.RefScopePage))
}

// SummarizeSelection asks for a summary of the current selection.
func (s *Session) SummarizeSelection(ctx context.Context) error {
	prompt := config.PromptText(s.uiLanguage, "prompt_summarizeSelection")
	return s.Submit(ctx, model.NewChatTask(prompt, model.RefScopeSelection))
}

// SubmitTemplate submits a saved prompt template.
func (s *Session) SubmitTemplate(ctx context.Context, tpl model.PromptTemplate) error {
	refType := tpl.ReferenceType
	if refType == "" {
		refType = model.RefScopeAll
	}
	return s.Submit(ctx, model.NewChatTask(tpl.Prompt, refType))
}
