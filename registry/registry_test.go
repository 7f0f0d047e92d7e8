package registry

import (
	"testing"

	"membrain/config"
	"membrain/model"
	"membrain/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := New(storage.NewMemoryStore(), nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return reg
}

func enableProvider(t *testing.T, reg *Registry, providerID string, modelNames ...string) {
	t.Helper()
	err := reg.SetProviderConfig(model.ProviderConfig{
		ProviderID:    providerID,
		Enabled:       true,
		APIKey:        "sk-test",
		EnabledModels: modelNames,
	})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}
}

func TestEnabledModels(t *testing.T) {
	reg := newTestRegistry(t)

	if got := reg.EnabledModels(); len(got) != 0 {
		t.Fatalf("expected no enabled models initially, got %d", len(got))
	}

	enableProvider(t, reg, config.ProviderOpenAI, "gpt-4o")

	enabled := reg.EnabledModels()
	if len(enabled) != 1 {
		t.Fatalf("got %d enabled models, want 1", len(enabled))
	}
	if enabled[0].Model.Name != "gpt-4o" || enabled[0].Provider.ID != config.ProviderOpenAI {
		t.Errorf("enabled = %s via %s, want gpt-4o via openai",
			enabled[0].Model.Name, enabled[0].Provider.ID)
	}

	// Disabling the provider empties the set.
	err := reg.SetProviderConfig(model.ProviderConfig{
		ProviderID:    config.ProviderOpenAI,
		Enabled:       false,
		EnabledModels: []string{"gpt-4o"},
	})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}
	if got := reg.EnabledModels(); len(got) != 0 {
		t.Errorf("expected empty set after disabling provider, got %d", len(got))
	}
}

func TestCurrentModelAutoRepair(t *testing.T) {
	reg := newTestRegistry(t)

	enableProvider(t, reg, config.ProviderOpenAI, "gpt-4o")
	enableProvider(t, reg, config.ProviderAnthropic, "claude-3-5-sonnet-latest")

	if err := reg.SetCurrentModel("gpt-4o"); err != nil {
		t.Fatalf("SetCurrentModel failed: %v", err)
	}

	// Disabling the selected model's provider must fall back to the next
	// enabled model.
	err := reg.SetProviderConfig(model.ProviderConfig{ProviderID: config.ProviderOpenAI, Enabled: false})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}

	current := reg.CurrentModel()
	if current == nil {
		t.Fatal("expected a fallback selection")
	}
	if current.Model.Name != "claude-3-5-sonnet-latest" {
		t.Errorf("current = %s, want claude-3-5-sonnet-latest", current.Model.Name)
	}

	// Disabling the last provider clears the selection entirely.
	err = reg.SetProviderConfig(model.ProviderConfig{ProviderID: config.ProviderAnthropic, Enabled: false})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}
	if reg.CurrentModel() != nil {
		t.Error("expected nil current model when nothing is enabled")
	}
}

func TestSetCurrentModelRejectsDisabled(t *testing.T) {
	reg := newTestRegistry(t)
	enableProvider(t, reg, config.ProviderOpenAI, "gpt-4o")

	if err := reg.SetCurrentModel("claude-3-5-sonnet"); err == nil {
		t.Error("expected rejection of a model outside the enabled set")
	}
}

func TestCurrentModelSurvivesReload(t *testing.T) {
	store := storage.NewMemoryStore()
	reg := New(store, nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	enableProvider(t, reg, config.ProviderOpenAI, "gpt-4o", "gpt-4o-mini")
	if err := reg.SetCurrentModel("gpt-4o-mini"); err != nil {
		t.Fatalf("SetCurrentModel failed: %v", err)
	}

	reloaded := New(store, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	current := reloaded.CurrentModel()
	if current == nil || current.Model.ID != "gpt-4o-mini" {
		t.Errorf("current after reload = %+v, want gpt-4o-mini", current)
	}
}

func TestCustomProviderCascadeDelete(t *testing.T) {
	reg := newTestRegistry(t)

	custom, err := reg.AddCustomProvider(model.ModelProvider{
		Name:     "LocalAI",
		APIType:  model.APITypeOpenAI,
		Endpoint: "http://localhost:8080/v1/",
	})
	if err != nil {
		t.Fatalf("AddCustomProvider failed: %v", err)
	}
	customModel, err := reg.AddCustomModel(model.Model{
		ProviderID: custom.ID,
		Name:       "local-7b",
		MaxContext: 8192,
		MaxOutput:  4096,
	})
	if err != nil {
		t.Fatalf("AddCustomModel failed: %v", err)
	}
	enableProvider(t, reg, custom.ID, "local-7b")

	enabled := reg.EnabledModels()
	if len(enabled) != 1 || enabled[0].Model.ID != customModel.ID {
		t.Fatalf("expected the custom model enabled, got %+v", enabled)
	}

	if err := reg.RemoveCustomProvider(custom.ID); err != nil {
		t.Fatalf("RemoveCustomProvider failed: %v", err)
	}

	if got := reg.EnabledModels(); len(got) != 0 {
		t.Errorf("expected no enabled models after cascade delete, got %d", len(got))
	}
	for _, m := range reg.AllModels() {
		if m.ProviderID == custom.ID {
			t.Errorf("custom model %s survived provider deletion", m.ID)
		}
	}
	if cfg := reg.ProviderConfig(custom.ID); cfg.Enabled {
		t.Error("provider config survived provider deletion")
	}
}

func TestAPIKeyFallsBackToCredentialStore(t *testing.T) {
	creds := config.NewCredentialStore(config.SecurityPlainText)
	creds.Set(config.ProviderOpenAI, "sk-from-store")

	reg := New(storage.NewMemoryStore(), creds)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// No inline key on the provider config.
	err := reg.SetProviderConfig(model.ProviderConfig{
		ProviderID:    config.ProviderOpenAI,
		Enabled:       true,
		EnabledModels: []string{"gpt-4o"},
	})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}

	if got := reg.APIKeyFor(config.ProviderOpenAI); got != "sk-from-store" {
		t.Errorf("APIKeyFor = %q, want sk-from-store", got)
	}

	// An inline key wins over the credential store.
	err = reg.SetProviderConfig(model.ProviderConfig{
		ProviderID:    config.ProviderOpenAI,
		Enabled:       true,
		APIKey:        "sk-inline",
		EnabledModels: []string{"gpt-4o"},
	})
	if err != nil {
		t.Fatalf("SetProviderConfig failed: %v", err)
	}
	if got := reg.APIKeyFor(config.ProviderOpenAI); got != "sk-inline" {
		t.Errorf("APIKeyFor = %q, want sk-inline", got)
	}
}

func TestTemperaturePersistence(t *testing.T) {
	store := storage.NewMemoryStore()
	reg := New(store, nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := reg.Temperature(); got != config.DefaultTemperature {
		t.Errorf("default temperature = %v, want %v", got, config.DefaultTemperature)
	}

	if err := reg.SetTemperature(0.7); err != nil {
		t.Fatalf("SetTemperature failed: %v", err)
	}

	reloaded := New(store, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Temperature(); got != 0.7 {
		t.Errorf("temperature after reload = %v, want 0.7", got)
	}
}
