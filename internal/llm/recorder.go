package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/store"
)

// Recorder persists LLM request events. store.EventRepo satisfies it.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// maxBodyBytes caps the request and response text kept per event.
const maxBodyBytes = 64 << 10

// RecordingProvider records every request as an event. Recording failures
// are logged and never fail the request.
type RecordingProvider struct {
	inner    Provider
	provider string
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
}

// WithRecording wraps p so that each call is appended to rec. name is the
// provider label stored with the event.
func WithRecording(p Provider, name string, rec Recorder, log *logger.Logger) *RecordingProvider {
	return &RecordingProvider{inner: p, provider: name, recorder: rec, log: logger.OrNop(log), now: time.Now}
}

func (l *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: clip(renderRequest(req)),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = clip(string(resp.Content))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request context may already be cancelled; the event still counts.
	if recErr := l.recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); recErr != nil {
		l.log.Warn("failed to record LLM request event", "purpose", data.Purpose, "error", recErr)
	}
	l.log.Debug("llm request",
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"success", data.Success,
	)

	return resp, err
}

func (l *RecordingProvider) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest builds a readable transcript of req for the event log.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

func clip(s string) string {
	if len(s) <= maxBodyBytes {
		return s
	}
	return s[:maxBodyBytes] + "\n[truncated]"
}
