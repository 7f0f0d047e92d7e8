package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCredentialStorePlainText(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText)
	if err := store.Load(dir); err != nil {
		t.Fatalf("Load on empty dir failed: %v", err)
	}

	store.Set(ProviderOpenAI, "sk-plain")
	store.Set(ProviderAnthropic, "sk-ant")
	store.Delete(ProviderAnthropic)
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewCredentialStore(SecurityPlainText)
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get(ProviderOpenAI); got != "sk-plain" {
		t.Errorf("Get = %q, want sk-plain", got)
	}
	if got := reloaded.Get(ProviderAnthropic); got != "" {
		t.Errorf("deleted credential survived: %q", got)
	}
}

func TestCredentialStoreEncrypted(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityEncrypted)
	if err := store.Load(dir); err != nil {
		t.Fatalf("Load on empty dir failed: %v", err)
	}
	store.Set(ProviderOpenAI, "sk-secret")
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The key must not appear in the file on disk.
	raw, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatalf("reading credentials file failed: %v", err)
	}
	if strings.Contains(string(raw), "sk-secret") {
		t.Error("encrypted credentials file leaks the API key")
	}

	reloaded := NewCredentialStore(SecurityEncrypted)
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get(ProviderOpenAI); got != "sk-secret" {
		t.Errorf("Get = %q, want sk-secret", got)
	}
}

func TestPromptTextFallback(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{name: "english", lang: "en", key: "prompt_summarizePage", want: "summarize the content in this page"},
		{name: "chinese", lang: "zh", key: "prompt_summarizePage", want: "总结这个页面的内容"},
		{name: "unknown language falls back to english", lang: "fr", key: "prompt_summarizePage", want: "summarize the content in this page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PromptText(tt.lang, tt.key); got != tt.want {
				t.Errorf("PromptText(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}
