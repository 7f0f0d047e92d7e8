package assistant

import (
	"context"

	"membrain/config"
	"membrain/storage"
)

// MenuTask is the pending-task record an external surface (context menu)
// writes into local storage for the session host to pick up.
type MenuTask struct {
	WindowID int    `json:"windowId"`
	Name     string `json:"name"`
}

// Menu task names.
const (
	MenuTaskSummarizePage    = "summarize_page"
	MenuTaskExplainSelection = "explain_selection"
)

// PublishMenuTask records a pending menu task for the host owning windowID.
func PublishMenuTask(store storage.Store, task MenuTask) error {
	return store.Set(storage.ScopeLocal, storage.KeyMenuTask, task)
}

// CheckMenuTask reads and clears the pending menu task record, translating it
// into a chat task when it targets this window. Records for other windows are
// left in place for their owner. Safe to call on startup and on every
// notification; a missing record is a no-op.
func (s *Session) CheckMenuTask(ctx context.Context, windowID int) error {
	var mt MenuTask
	ok, err := s.store.Get(storage.ScopeLocal, storage.KeyMenuTask, &mt)
	if err != nil || !ok {
		return err
	}
	if mt.WindowID != windowID {
		return nil
	}
	if err := s.store.Delete(storage.ScopeLocal, storage.KeyMenuTask); err != nil {
		return err
	}

	switch mt.Name {
	case MenuTaskSummarizePage:
		return s.SummarizePage(ctx)
	case MenuTaskExplainSelection:
		return s.SummarizeSelection(ctx)
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] unknown menu task: %q", mt.Name)
		}
		return nil
	}
}
