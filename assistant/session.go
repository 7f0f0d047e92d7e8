// Package assistant implements the chat session orchestrator: a single
// in-flight task state machine that resolves references, builds prompts,
// drives a streaming provider call, and maintains persisted history.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"membrain/config"
	"membrain/model"
	"membrain/provider"
	"membrain/reference"
	"membrain/registry"
	"membrain/storage"
)

// ErrBusy is returned when a task is submitted while another is streaming.
var ErrBusy = errors.New("a chat task is already processing")

// CallerFactory resolves the streaming caller for a provider. Swappable for
// tests.
type CallerFactory func(p model.ModelProvider) (model.Caller, error)

// Session is the conversation state machine. Status is empty when idle,
// "processing" while a provider call streams, and any other non-empty value
// is a human-readable error from the last task.
//
// At most one task is in flight; streaming callbacks are gated on the task id
// so callbacks from a superseded task never mutate state.
type Session struct {
	mu sync.Mutex

	store     storage.Store
	registry  *registry.Registry
	refs      *reference.Store
	callerFor CallerFactory

	uiLanguage   string
	chatLanguage string

	history []model.Message
	status  string
	task    *model.ChatTask
	answer  strings.Builder
	cancel  context.CancelFunc

	listeners    map[int]func()
	nextListener int
}

// NewSession creates a session over its collaborators.
func NewSession(store storage.Store, reg *registry.Registry, refs *reference.Store, uiLanguage, chatLanguage string) *Session {
	return &Session{
		store:        store,
		registry:     reg,
		refs:         refs,
		callerFor:    provider.CallerFor,
		uiLanguage:   uiLanguage,
		chatLanguage: chatLanguage,
		listeners:    make(map[int]func()),
	}
}

// SetCallerFactory overrides how provider callers are resolved.
func (s *Session) SetCallerFactory(f CallerFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callerFor = f
}

// Load hydrates persisted chat history. Idempotent.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var history []model.Message
	if _, err := s.store.Get(storage.ScopeLocal, storage.KeyChatHistory, &history); err != nil {
		return err
	}
	s.history = history
	return nil
}

// History returns a copy of the conversation.
func (s *Session) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.history...)
}

// Status returns the current chat status.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentTask returns the in-flight task, nil when idle.
func (s *Session) CurrentTask() *model.ChatTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task == nil {
		return nil
	}
	task := *s.task
	return &task
}

// Subscribe registers a change listener invoked after every state mutation.
// The returned function unsubscribes. Listeners must not block.
func (s *Session) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Submit accepts a chat task and drives it to a terminal state. Returns
// ErrBusy while another task is streaming. All other failures are terminal
// for the task and surface through Status, not the error return.
func (s *Session) Submit(ctx context.Context, task *model.ChatTask) error {
	s.mu.Lock()
	if s.status == model.ChatStatusProcessing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.task = task
	s.mu.Unlock()

	if strings.TrimSpace(task.Prompt) == "" {
		s.fail(task, "empty prompt")
		return nil
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] task %s scope=%s", task.ID, task.ReferenceType)
	}

	switch task.ReferenceType {
	case model.RefScopePage:
		pageRef := s.refs.AddPageRef(ctx)
		if pageRef == nil {
			s.fail(task, "fail to get content of current page")
			return nil
		}
		prompt := fmt.Sprintf("%s\n\n```%s```\n\n%s",
			config.PromptText(s.uiLanguage, "prompt_pageReference"), pageRef.Title, task.Prompt)
		s.chat(ctx, task, prompt, []model.Reference{*pageRef})

	case model.RefScopeSelection:
		selection := s.refs.CurrentSelection(ctx)
		if selection == "" {
			s.fail(task, "fail to get selection of current page")
			return nil
		}
		prompt := fmt.Sprintf("%s\n\n```%s```\n\n%s",
			config.PromptText(s.uiLanguage, "prompt_selectionReference"), selection, task.Prompt)
		s.chat(ctx, task, prompt, s.refs.List())

	default:
		s.chat(ctx, task, task.Prompt, s.refs.List())
	}
	return nil
}

// fail terminates the given task with an error status, provided it is still
// the current one.
func (s *Session) fail(task *model.ChatTask, status string) {
	s.mu.Lock()
	if s.task == nil || s.task.ID != task.ID {
		s.mu.Unlock()
		return
	}
	s.status = status
	s.task = nil
	s.mu.Unlock()
	s.notify()
}

// chat resolves the model and credential, pushes the user turn plus an empty
// assistant placeholder, and starts the streaming call. Model and key
// resolution failures terminate the task before any history mutation.
func (s *Session) chat(ctx context.Context, task *model.ChatTask, content string, contextRefs []model.Reference) {
	current := s.registry.CurrentModel()
	if current == nil {
		s.fail(task, "model not available")
		return
	}
	apiKey := s.registry.APIKeyFor(current.Provider.ID)
	if apiKey == "" {
		s.fail(task, fmt.Sprintf("api key of %s:%s not found", current.Provider.Name, current.Model.Name))
		return
	}
	caller, err := s.callerFor(current.Provider)
	if err != nil {
		s.fail(task, err.Error())
		return
	}
	temperature := s.registry.Temperature()

	s.mu.Lock()
	if s.task == nil || s.task.ID != task.ID {
		s.mu.Unlock()
		return
	}

	systemMsg := model.NewSystemMessage(s.buildSystemPrompt(contextRefs))
	query := model.NewUserMessage(content)

	messages := make([]model.Message, 0, len(s.history)+2)
	messages = append(messages, systemMsg)
	messages = append(messages, s.history...)
	messages = append(messages, query)

	reply := model.NewAssistantMessage(current.Model.Name, temperature)
	s.history = append(s.history, query, reply)
	s.answer.Reset()
	s.status = model.ChatStatusProcessing
	s.persistHistoryLocked()

	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	s.notify()

	go caller.Call(callCtx, apiKey, current.Model, temperature, messages, task.ID, s.StreamContent, s.StreamFinish)
}

// buildSystemPrompt composes the system instruction, the chat language
// directive, and an enumerated listing of the context references with their
// content delimited by === markers.
func (s *Session) buildSystemPrompt(refs []model.Reference) string {
	var b strings.Builder
	b.WriteString(config.PromptText(s.uiLanguage, "prompt_system"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "You should use following language to communicate with user: `%s`\n", s.chatLanguage)
	if len(refs) > 0 {
		b.WriteString(config.PromptText(s.uiLanguage, "prompt_useReferences"))
		b.WriteString("\n")
		for i, ref := range refs {
			fmt.Fprintf(&b, "%d: type=%s", i+1, ref.Type)
			if ref.Type == model.ReferenceWebpage {
				fmt.Fprintf(&b, ", url=%s, title=%s", ref.URL, ref.Title)
			}
			fmt.Fprintf(&b, "\n===\n%s\n===\n", ref.Content)
		}
	}
	return b.String()
}

// StreamContent is the incremental-text callback handed to the provider
// caller. Chunks carrying a stale task id are dropped.
func (s *Session) StreamContent(taskID, chunk string) {
	s.mu.Lock()
	if s.task == nil || s.task.ID != taskID {
		s.mu.Unlock()
		return
	}
	s.answer.WriteString(chunk)
	if n := len(s.history); n > 0 && s.history[n-1].Role == model.RoleAssistant {
		s.history[n-1].Content = s.answer.String()
		s.history[n-1].Rendered = ""
	}
	s.persistHistoryLocked()
	s.mu.Unlock()
	s.notify()
}

// StreamFinish is the terminal callback handed to the provider caller. On
// failure the partial answer is preserved with an " [ERROR]:" suffix. Either
// way the session returns to idle.
func (s *Session) StreamFinish(taskID, errMsg string) {
	s.mu.Lock()
	if s.task == nil || s.task.ID != taskID {
		s.mu.Unlock()
		return
	}
	if errMsg != "" {
		s.answer.WriteString(" [ERROR]:" + errMsg)
	}
	if n := len(s.history); n > 0 && s.history[n-1].Role == model.RoleAssistant {
		s.history[n-1].Content = s.answer.String()
		s.history[n-1].Rendered = ""
		s.history[n-1].Render()
	}
	s.status = model.ChatStatusEmpty
	s.task = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.persistHistoryLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) persistHistoryLocked() {
	history := s.history
	if history == nil {
		history = []model.Message{}
	}
	if err := s.store.Set(storage.ScopeLocal, storage.KeyChatHistory, history); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Session] failed to persist history: %v", err)
	}
}
