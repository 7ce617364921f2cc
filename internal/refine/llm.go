package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/drillz/internal/llm"
	"github.com/abhisek/drillz/internal/model"
)

// Token budgets per refine mode.
const (
	DefaultMaxTokens = 4096
	HeavyMaxTokens   = 16384
)

// LLMRefiner implements Refiner with an llm.Provider.
type LLMRefiner struct {
	provider    llm.Provider
	maxTokens   int
	heavyTokens int
	temperature float64
}

// NewLLMRefiner creates an LLMRefiner with default token budgets.
func NewLLMRefiner(provider llm.Provider) *LLMRefiner {
	return &LLMRefiner{
		provider:    provider,
		maxTokens:   DefaultMaxTokens,
		heavyTokens: HeavyMaxTokens,
		temperature: 0.3,
	}
}

type refinedQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

type refineOutput struct {
	Questions []refinedQuestion `json:"questions"`
}

// Refine sends qs to the provider and merges the refined text, choices and
// answers back. Category, formula, tier and weight are never changed.
func (r *LLMRefiner) Refine(ctx context.Context, qs []model.Question, opts Options) ([]model.Question, error) {
	purpose, budget := llm.PurposeRefine, r.maxTokens
	if opts.Heavy {
		purpose, budget = llm.PurposeRefineHeavy, r.heavyTokens
	}
	ctx = llm.WithPurpose(ctx, purpose)

	msg, err := buildUserMessage(qs, opts.Heavy)
	if err != nil {
		return nil, err
	}
	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      RefineSchema,
		MaxTokens:   budget,
		Temperature: r.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM refine failed: %w", err)
	}

	var raw refineOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	out := make([]model.Question, len(raw.Questions))
	for i, rq := range raw.Questions {
		var base model.Question
		if i < len(qs) {
			base = qs[i].Clone()
		}
		base.ID = rq.ID
		if t := strings.TrimSpace(rq.Text); t != "" {
			base.Text = t
		}
		if a := strings.TrimSpace(rq.Answer); a != "" {
			base.Answer = a
		}
		if len(rq.Choices) > 0 {
			base.Choices = rq.Choices
		}
		out[i] = base
	}
	return out, nil
}

const systemPrompt = `You edit multiple-choice practice questions for a military entrance aptitude test.

Rules:
- Keep each question's id and the order of the batch exactly as given.
- Fix unclear wording, grammar and ambiguous phrasing. Do not change what the question tests.
- The answer must be correct. Correct it if it is wrong.
- Provide exactly 4 choices with exactly one correct. The answer must appear verbatim among the choices.
- Distractors should reflect common mistakes, never placeholders like "Option A" or "N/A".
- Use plain ASCII text. No LaTeX, no markdown.`

const heavyAddendum = `
- Rewrite weak questions thoroughly and replace every distractor that is implausible.`

func buildUserMessage(qs []model.Question, heavy bool) (string, error) {
	in := make([]refinedQuestion, len(qs))
	for i, q := range qs {
		in[i] = refinedQuestion{ID: q.ID, Text: q.Text, Choices: q.Choices, Answer: q.Answer}
		if in[i].Choices == nil {
			in[i].Choices = []string{}
		}
	}
	b, err := json.MarshalIndent(refineOutput{Questions: in}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Refine these %d questions.\n", len(qs))
	if heavy {
		sb.WriteString("Mode: heavy")
		sb.WriteString(heavyAddendum)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.Write(b)
	return sb.String(), nil
}

// RefineSchema defines the JSON schema for refine responses.
var RefineSchema = &llm.Schema{
	Name:        "question-refine",
	Description: "A batch of refined multiple-choice questions in input order",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "The question id, unchanged from the input",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The refined question prompt",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options, one of them the answer",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct option, verbatim",
						},
					},
					"required":             []any{"id", "text", "choices", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
