package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/store"
)

type fakeRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return f.err
}

func TestRecordingProvider_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"x":1,"y":2}`), Usage: newUsage(12, 4)})
	rec := &fakeRecorder{}
	p := WithRecording(mock, ProviderMock, rec, nil)
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		tick = tick.Add(150 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), PurposeRefine)
	_, err := p.Generate(ctx, Request{
		System:   "be terse",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   pointSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	e := rec.events[0]
	if e.Purpose != PurposeRefine || e.Provider != ProviderMock || e.Model != "mock" {
		t.Errorf("event = %+v", e)
	}
	if !e.Success || e.InputTokens != 12 || e.OutputTokens != 4 {
		t.Errorf("event = %+v", e)
	}
	if e.LatencyMs != 150 {
		t.Errorf("latency = %d, want 150", e.LatencyMs)
	}
	for _, want := range []string{"[system]", "be terse", "[user]", "hello", "[schema: test-point]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
	if e.ResponseBody != `{"x":1,"y":2}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestRecordingProvider_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})
	rec := &fakeRecorder{}
	p := WithRecording(mock, ProviderMock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.events) != 1 || rec.events[0].Success {
		t.Fatalf("events = %+v", rec.events)
	}
	if !strings.Contains(rec.events[0].ErrorMessage, "slow down") {
		t.Errorf("error message = %q", rec.events[0].ErrorMessage)
	}
	if rec.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", rec.events[0].Purpose)
	}
}

func TestRecordingProvider_RecorderFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRecording(mock, ProviderMock, &fakeRecorder{err: errors.New("disk full")}, logger.FromCore(core))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failure leaked into request: %v", err)
	}
	if logs.FilterMessage("failed to record LLM request event").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("a", maxBodyBytes+10)
	got := clip(long)
	if !strings.HasSuffix(got, "[truncated]") || len(got) > maxBodyBytes+20 {
		t.Errorf("clip produced %d bytes", len(got))
	}
	if clip("short") != "short" {
		t.Error("short bodies must be kept")
	}
}
