package storage

import (
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory Store for tests. It keeps the same JSON
// round-trip semantics as KVStore so tests exercise real (de)serialization.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func memKey(scope Scope, key string) string {
	return string(scope) + ":" + key
}

func (s *MemoryStore) Get(scope Scope, key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[memKey(scope, key)]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Set(scope Scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[memKey(scope, key)] = string(raw)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(scope Scope, key string) error {
	s.mu.Lock()
	delete(s.data, memKey(scope, key))
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
