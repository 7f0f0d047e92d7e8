package provider

import (
	"testing"

	"membrain/model"
)

func TestFilterMessages(t *testing.T) {
	tests := []struct {
		name string
		in   []model.Message
		want []string
	}{
		{
			name: "drops error sentinel",
			in: []model.Message{
				{Role: model.RoleUser, Content: "question"},
				{Role: model.RoleAssistant, Content: "<error>"},
				{Role: model.RoleUser, Content: "again"},
			},
			want: []string{"question", "again"},
		},
		{
			name: "drops sentinel with surrounding whitespace",
			in: []model.Message{
				{Role: model.RoleAssistant, Content: "  <error>  "},
				{Role: model.RoleUser, Content: "hello"},
			},
			want: []string{"hello"},
		},
		{
			name: "drops empty content",
			in: []model.Message{
				{Role: model.RoleAssistant, Content: ""},
				{Role: model.RoleUser, Content: "hello"},
			},
			want: []string{"hello"},
		},
		{
			name: "keeps clean conversation",
			in: []model.Message{
				{Role: model.RoleSystem, Content: "be helpful"},
				{Role: model.RoleUser, Content: "hi"},
				{Role: model.RoleAssistant, Content: "hello"},
			},
			want: []string{"be helpful", "hi", "hello"},
		},
		{
			name: "keeps content mentioning the sentinel",
			in: []model.Message{
				{Role: model.RoleUser, Content: "what does <error> mean here?"},
			},
			want: []string{"what does <error> mean here?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterMessages(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d messages, want %d", len(got), len(tt.want))
			}
			for i, content := range tt.want {
				if got[i].Content != content {
					t.Errorf("message %d = %q, want %q", i, got[i].Content, content)
				}
			}
		})
	}
}

func TestMaxOutputBudget(t *testing.T) {
	m := model.Model{Name: "gpt-4o", MaxOutput: 16384}
	if got := maxOutputBudget(m); got != 8192 {
		t.Errorf("budget = %d, want 8192", got)
	}
}

func TestCallerFor(t *testing.T) {
	tests := []struct {
		name     string
		provider model.ModelProvider
		wantErr  bool
	}{
		{name: "openai", provider: model.ModelProvider{APIType: model.APITypeOpenAI}},
		{name: "anthropic", provider: model.ModelProvider{APIType: model.APITypeAnthropic}},
		{name: "google", provider: model.ModelProvider{APIType: model.APITypeGoogle}},
		{name: "unknown", provider: model.ModelProvider{APIType: "Cohere"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := CallerFor(tt.provider)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown API type")
				}
				return
			}
			if err != nil {
				t.Fatalf("CallerFor failed: %v", err)
			}
			if caller == nil {
				t.Fatal("expected a caller")
			}
		})
	}
}

func TestSplitSystemMessages(t *testing.T) {
	system, rest := splitSystemMessages([]model.Message{
		{Role: model.RoleSystem, Content: "be helpful"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	})
	if len(system) != 1 || system[0] != "be helpful" {
		t.Errorf("system = %v, want [be helpful]", system)
	}
	if len(rest) != 2 {
		t.Fatalf("got %d conversational messages, want 2", len(rest))
	}
	if rest[0].Role != model.RoleUser || rest[1].Role != model.RoleAssistant {
		t.Errorf("rest roles = [%s, %s], want [user, assistant]", rest[0].Role, rest[1].Role)
	}
}

func TestEnsureLeadingUserTurn(t *testing.T) {
	t.Run("merges leading assistant turn", func(t *testing.T) {
		got := ensureLeadingUserTurn([]model.Message{
			{Role: model.RoleAssistant, Content: "greetings"},
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "hello"},
		})
		if len(got) != 2 {
			t.Fatalf("got %d messages, want 2", len(got))
		}
		if got[0].Role != model.RoleUser || got[0].Content != "greetings\n\nhi" {
			t.Errorf("merged turn = %s %q, want user %q", got[0].Role, got[0].Content, "greetings\n\nhi")
		}
	})

	t.Run("leaves user-first transcript alone", func(t *testing.T) {
		in := []model.Message{
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "hello"},
		}
		got := ensureLeadingUserTurn(in)
		if len(got) != 2 || got[0].Content != "hi" {
			t.Errorf("transcript changed: %+v", got)
		}
	})
}

func TestConvertToAnthropicMessages(t *testing.T) {
	converted := convertToAnthropicMessages([]model.Message{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	})
	if len(converted) != 2 {
		t.Fatalf("got %d messages, want 2", len(converted))
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: "be helpful"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}

	converted := convertToOpenAIMessages(messages)
	if len(converted) != 3 {
		t.Fatalf("got %d messages, want 3", len(converted))
	}
}
