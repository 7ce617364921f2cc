// Package llm is a small provider-neutral client for structured JSON
// generation. Providers translate a Request into their native API and return
// content already validated against the request schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set, Content is JSON that conforms to it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text, returned as
	// raw bytes in Response.Content.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	// Name is kebab-case, e.g. "refined-questions". It doubles as the
	// validator cache key, so distinct definitions need distinct names.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons normalised across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a provider's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the request
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// finish validates content against the request schema and assembles the
// Response. A truncated response is reported as ErrMaxTokensExceeded since
// its JSON is almost certainly incomplete.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purposes label requests in the event log.
const (
	PurposeRefine      = "refine"
	PurposeRefineHeavy = "refine-heavy"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label, "unknown" when unset.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
