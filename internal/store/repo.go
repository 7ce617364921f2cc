package store

import (
	"context"
	"time"

	"github.com/abhisek/drillz/internal/model"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// ModelRepo persists the learner model as JSON snapshots.
type ModelRepo interface {
	// Load returns the most recent model. Missing or corrupt state yields a
	// structurally valid empty model; only database failures are errors,
	// and even then the returned model is usable.
	Load(ctx context.Context) (*model.UserModel, error)

	// Save stores a new snapshot of m.
	Save(ctx context.Context, m *model.UserModel) error

	// Prune deletes all but the keep most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// AnswerEventData captures one processed attempt.
type AnswerEventData struct {
	SessionID     string
	QuestionID    int
	Category      string
	FormulaID     string
	Tier          string
	Correct       bool
	TimeMs        int
	IsRecall      bool
	MasterySignal string
}

// AnswerEvent is a stored AnswerEventData.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAnswer records a processed attempt.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// QueryAnswers returns answer events in sequence order.
	QueryAnswers(ctx context.Context, category string, opts QueryOpts) ([]AnswerEvent, error)

	// RecentOutcomes returns up to limit most recent outcomes for a
	// category, oldest first.
	RecentOutcomes(ctx context.Context, category string, limit int) ([]bool, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
