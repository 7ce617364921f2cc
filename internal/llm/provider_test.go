package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

var pointSchema = &Schema{
	Name: "test-point",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
			"y": map[string]any{"type": "integer"},
		},
		"required":             []string{"x", "y"},
		"additionalProperties": false,
	},
}

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: newUsage(10, 5)},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` {
		t.Errorf("content = %s, want {\"a\":1}", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("total tokens = %d, want 15", resp.Usage.TotalTokens)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q, want %q", resp.StopReason, StopEnd)
	}

	resp, err = mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"b":2}` {
		t.Errorf("content = %s, want {\"b\":2}", resp.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %T (%v), want ErrProviderUnavailable", err, err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, _ = mock.Generate(context.Background(), Request{System: "sys"})

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	if got := mock.Calls()[0].System; got != "sys" {
		t.Errorf("system = %q, want sys", got)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(
		MockJSON(map[string]int{"x": 1, "y": 2}),
		MockJSON(map[string]string{"x": "nope"}),
	)
	req := Request{Schema: pointSchema}

	if _, err := mock.Generate(context.Background(), req); err != nil {
		t.Fatalf("valid content rejected: %v", err)
	}
	_, err := mock.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %T (%v), want ErrInvalidResponse", err, err)
	}
}

func TestMockProvider_BlockHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]int{}))
	mock.Block = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Errorf("purpose = %q, want unknown", p)
	}
	ctx = WithPurpose(ctx, PurposeRefine)
	if p := PurposeFrom(ctx); p != PurposeRefine {
		t.Errorf("purpose = %q, want %q", p, PurposeRefine)
	}
}

func TestFinish_TruncatedStructuredOutput(t *testing.T) {
	_, err := finish(Request{Schema: pointSchema}, json.RawMessage(`{"x":1,`), Usage{}, "m", StopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T (%v), want ErrMaxTokensExceeded", err, err)
	}

	resp, err := finish(Request{}, json.RawMessage(`partial text`), Usage{}, "m", StopMaxTokens)
	if err != nil {
		t.Fatalf("free text should pass through: %v", err)
	}
	if resp.StopReason != StopMaxTokens {
		t.Errorf("stop reason = %q, want %q", resp.StopReason, StopMaxTokens)
	}
}
