// Package storage implements the scoped key-value persistence contract the
// assistant core builds on.
//
// Values are JSON snapshots of whole collections: every mutation rewrites the
// full value under its key, so a crash between an in-memory update and its
// write loses at most that one update and never corrupts earlier state.
// Two scopes exist: "local" for device-only data (references, chat history)
// and "sync" for account-level configuration.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Scope selects the storage area a key lives in.
type Scope string

const (
	ScopeLocal Scope = "local"
	ScopeSync  Scope = "sync"
)

// Well-known keys.
const (
	KeyReferences      = "references"
	KeyChatHistory     = "chatHistory"
	KeyMenuTask        = "menuTask"
	KeyProviderConfigs = "providerConfigs"
	KeyCustomModels    = "customModels"
	KeyCustomProviders = "customProviders"
	KeyPromptTemplates = "promptTemplates"
	KeyTemperature     = "temperature"
	KeyCurrentModelID  = "currentModelId"
	KeyUILanguage      = "UILanguage"
	KeyChatLanguage    = "chatLanguage"
)

// Store is the key-value persistence contract. Get decodes the stored value
// into out and reports whether a usable value existed; absent or malformed
// values leave out untouched so callers keep their defaults.
type Store interface {
	Get(scope Scope, key string, out any) (bool, error)
	Set(scope Scope, key string, value any) error
	Delete(scope Scope, key string) error
}

// KVStore is the sqlite-backed Store.
type KVStore struct {
	db *sql.DB
}

// NewKVStore opens (creating if needed) the assistant database in dataDir.
func NewKVStore(dataDir string) (*KVStore, error) {
	dbPath := filepath.Join(dataDir, "assistant.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &KVStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *KVStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get implements Store.Get. A stored value that no longer unmarshals into out
// is treated as absent rather than an error, per the contract that malformed
// values fall back to the caller's default.
func (s *KVStore) Get(scope Scope, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE scope = ? AND key = ?`, string(scope), key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s:%s: %w", scope, key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

// Set implements Store.Set, storing the JSON encoding of value.
func (s *KVStore) Set(scope Scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s:%s: %w", scope, key, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO kv (scope, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value`,
		string(scope), key, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write %s:%s: %w", scope, key, err)
	}
	return nil
}

// Delete implements Store.Delete; deleting an absent key is a no-op.
func (s *KVStore) Delete(scope Scope, key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE scope = ? AND key = ?`, string(scope), key)
	if err != nil {
		return fmt.Errorf("failed to delete %s:%s: %w", scope, key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}
