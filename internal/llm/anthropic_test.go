package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-sonnet"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-sonnet-4-5-20250929",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"x":3,"y":4}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write practice questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Refine these."}},
		Schema:    pointSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 80 {
		t.Errorf("total tokens = %d, want 80", resp.Usage.TotalTokens)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
	if body["model"] != "claude-sonnet-4-5-20250929" {
		t.Errorf("request model = %v", body["model"])
	}
}

func TestAnthropicProvider_InvalidContent(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"x":3}`, "end_turn"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, Schema: pointSchema, MaxTokens: 64})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %T (%v), want ErrInvalidResponse", err, err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"x":3,`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, Schema: pointSchema, MaxTokens: 8})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T (%v), want ErrMaxTokensExceeded", err, err)
	}
}

func TestAnthropicProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "nope"},
			})
		})
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, MaxTokens: 16})
		if !tt.check(err) {
			t.Errorf("status %d: unexpected error %T (%v)", tt.status, err, err)
		}
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		input  string
		models map[string]string
		want   string
	}{
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-5", anthropicModels, "claude-opus-4-5"},
		{"gemini-flash", geminiModels, "gemini-2.5-flash"},
		{"gpt-mini", openaiModels, "gpt-4.1-mini"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
