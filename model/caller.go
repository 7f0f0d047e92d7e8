package model

import "context"

// ContentFunc receives incremental response text. taskID identifies the task
// that issued the call so callers can discard chunks from a superseded task.
type ContentFunc func(taskID, chunk string)

// FinishFunc is invoked exactly once per call. errMsg is empty on success and
// a human-readable description when the call failed or terminated abnormally.
type FinishFunc func(taskID, errMsg string)

// Caller is the uniform streaming-call contract over the concrete backends
// (OpenAI-compatible, Anthropic, Google).
//
// messages[0] is the system message; subsequent entries alternate
// user/assistant turns ending in the new user query. Implementations filter
// out messages whose trimmed content equals ErrorSentinel, and limit the
// requested output to half of the model's declared MaxOutput. Implementations
// never retry; retry policy belongs to the caller.
type Caller interface {
	Call(ctx context.Context, apiKey string, m Model, temperature float64,
		messages []Message, taskID string, onContent ContentFunc, onFinish FinishFunc)
}
