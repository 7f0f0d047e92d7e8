// Package reference maintains the ordered list of grounding references for
// the active session and mediates capture from the page collaborator.
package reference

import (
	"context"
	"sync"

	"membrain/config"
	"membrain/model"
	"membrain/storage"
)

// PageSource captures content from the active page. Implementations bridge to
// whatever extraction context is available; capture failures are soft and
// reported as (nil, error) / ("", error).
type PageSource interface {
	// CurrentPage extracts title, URL and readable text of the active page.
	CurrentPage(ctx context.Context) (*model.Reference, error)
	// CurrentSelection extracts the active text selection.
	CurrentSelection(ctx context.Context) (string, error)
}

// Store holds the session's references. Every mutation persists the full list
// before returning, so a crash never loses more than the in-flight operation.
type Store struct {
	mu    sync.Mutex
	kv    storage.Store
	pages PageSource
	refs  []model.Reference
}

// NewStore creates a reference store over the given persistence and page
// capture collaborators.
func NewStore(kv storage.Store, pages PageSource) *Store {
	return &Store{kv: kv, pages: pages}
}

// Load hydrates the in-memory list from persisted storage. Idempotent.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []model.Reference
	if _, err := s.kv.Get(storage.ScopeLocal, storage.KeyReferences, &refs); err != nil {
		return err
	}
	s.refs = refs
	return nil
}

// List returns a copy of the current reference list.
func (s *Store) List() []model.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Reference(nil), s.refs...)
}

// AddPageRef captures the current page and appends it unless a reference with
// the same structural key already exists (duplicate adds are a no-op that
// still returns the fresh capture). Returns nil when the page cannot be read.
func (s *Store) AddPageRef(ctx context.Context) *model.Reference {
	pageRef, err := s.pages.CurrentPage(ctx)
	if err != nil || pageRef == nil {
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[References] page capture failed: %v", err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pageRef.Key()
	for _, r := range s.refs {
		if r.Key() == key {
			// skip adding existing reference
			return pageRef
		}
	}

	s.refs = append(s.refs, *pageRef)
	s.persistLocked()
	return pageRef
}

// AddSelectionRef captures the current selection and appends it as a text
// reference. Selections are never deduped. Returns nil when there is no
// selection or capture fails.
func (s *Store) AddSelectionRef(ctx context.Context) *model.Reference {
	selection, err := s.pages.CurrentSelection(ctx)
	if err != nil || selection == "" {
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[References] selection capture failed: %v", err)
		}
		return nil
	}

	ref := model.NewTextReference(selectionTitle(selection), selection)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = append(s.refs, ref)
	s.persistLocked()
	return &ref
}

// CurrentSelection passes through to the page collaborator without storing
// anything; selection-scoped tasks inline the text into the prompt instead.
func (s *Store) CurrentSelection(ctx context.Context) string {
	selection, err := s.pages.CurrentSelection(ctx)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[References] selection capture failed: %v", err)
		}
		return ""
	}
	return selection
}

// Remove removes exactly the entry with the matching id; unknown ids are a
// no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.refs[:0]
	for _, r := range s.refs {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.refs) {
		return
	}
	s.refs = kept
	s.persistLocked()
}

// Clear empties the list.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = nil
	s.persistLocked()
}

func (s *Store) persistLocked() {
	refs := s.refs
	if refs == nil {
		refs = []model.Reference{}
	}
	if err := s.kv.Set(storage.ScopeLocal, storage.KeyReferences, refs); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[References] failed to persist: %v", err)
	}
}

// selectionTitle derives a short title from selection text.
func selectionTitle(selection string) string {
	const maxTitle = 40
	title := selection
	for i, r := range title {
		if r == '\n' {
			title = title[:i]
			break
		}
	}
	if len(title) > maxTitle {
		title = title[:maxTitle] + "..."
	}
	return title
}
