package storage

import "testing"

func testStoreRoundTrip(t *testing.T, store Store) {
	t.Helper()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := store.Set(ScopeLocal, "payload", payload{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	ok, err := store.Get(ScopeLocal, "payload", &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected value to exist")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("got %+v, want {a 2}", got)
	}

	// Same key in the other scope must be independent.
	ok, err = store.Get(ScopeSync, "payload", &got)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("value leaked across scopes")
	}
}

func testStoreAbsentKeepsDefault(t *testing.T, store Store) {
	t.Helper()

	count := 42
	ok, err := store.Get(ScopeSync, "missing", &count)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}
	if count != 42 {
		t.Errorf("default was clobbered: %d", count)
	}
}

func testStoreDelete(t *testing.T, store Store) {
	t.Helper()

	if err := store.Set(ScopeLocal, "gone", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ScopeLocal, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	var s string
	if ok, _ := store.Get(ScopeLocal, "gone", &s); ok {
		t.Error("value survived deletion")
	}

	// Deleting an absent key is a no-op.
	if err := store.Delete(ScopeLocal, "never-existed"); err != nil {
		t.Errorf("deleting absent key failed: %v", err)
	}
}

func TestKVStore(t *testing.T) {
	store, err := NewKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKVStore failed: %v", err)
	}
	defer store.Close()

	t.Run("round trip", func(t *testing.T) { testStoreRoundTrip(t, store) })
	t.Run("absent keeps default", func(t *testing.T) { testStoreAbsentKeepsDefault(t, store) })
	t.Run("delete", func(t *testing.T) { testStoreDelete(t, store) })

	t.Run("overwrite", func(t *testing.T) {
		if err := store.Set(ScopeSync, KeyTemperature, 0.3); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ScopeSync, KeyTemperature, 0.9); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		var temp float64
		if ok, _ := store.Get(ScopeSync, KeyTemperature, &temp); !ok || temp != 0.9 {
			t.Errorf("got (%v, %v), want (0.9, true)", temp, ok)
		}
	})
}

func TestKVStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewKVStore(dir)
	if err != nil {
		t.Fatalf("NewKVStore failed: %v", err)
	}
	if err := store.Set(ScopeLocal, KeyChatHistory, []string{"hello"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewKVStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	var history []string
	ok, err := reopened.Get(ScopeLocal, KeyChatHistory, &history)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || len(history) != 1 || history[0] != "hello" {
		t.Errorf("got (%v, %v), want ([hello], true)", history, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	t.Run("round trip", func(t *testing.T) { testStoreRoundTrip(t, store) })
	t.Run("absent keeps default", func(t *testing.T) { testStoreAbsentKeepsDefault(t, store) })
	t.Run("delete", func(t *testing.T) { testStoreDelete(t, store) })
}
