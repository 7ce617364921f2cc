package engine

import (
	"context"
	"fmt"

	"github.com/abhisek/drillz/internal/difficulty"
	"github.com/abhisek/drillz/internal/mastery"
	"github.com/abhisek/drillz/internal/model"
	"github.com/abhisek/drillz/internal/store"
)

// Attempt is one answered question.
type Attempt struct {
	QuestionID int
	Correct    bool
	TimeMs     int
	IsRecall   bool
}

// AttemptResult reports what an attempt changed.
type AttemptResult struct {
	QuestionID    int
	Category      string
	FormulaID     string
	CategoryStats model.Stats
	CategoryTier  difficulty.Tier
	Transition    mastery.Transition
	ReviewQueued  bool
	ReviewsClosed int
}

// ProcessAttempt runs an attempt through statistics, the mastery cycle and
// the review queue, then records an answer event. Event failures are logged
// and never returned.
func (e *Engine) ProcessAttempt(ctx context.Context, a Attempt) (*AttemptResult, error) {
	q, ok := e.model.Question(a.QuestionID)
	if !ok {
		return nil, fmt.Errorf("process attempt %d: %w", a.QuestionID, model.ErrUnknownQuestion)
	}

	cat, _ := e.stats.Record(e.model, q, a.Correct, a.TimeMs)

	var tr mastery.Transition
	if q.FormulaID != "" {
		tr = e.mastery.Record(q.FormulaID, a.Correct, a.IsRecall)
	}

	before := len(e.model.ReviewQueue)
	if err := e.scheduler.HandlePostAttempt(e.model, q.ID, a.Correct); err != nil {
		return nil, fmt.Errorf("process attempt %d: %w", q.ID, err)
	}
	after := len(e.model.ReviewQueue)

	e.recent[q.Category] = e.trim(append(e.recent[q.Category], a.Correct))

	res := &AttemptResult{
		QuestionID:    q.ID,
		Category:      q.Category,
		FormulaID:     q.FormulaID,
		CategoryStats: *cat,
		CategoryTier:  e.categoryTier(q.Category),
		Transition:    tr,
		ReviewQueued:  after > before,
	}
	if after < before {
		res.ReviewsClosed = before - after
	}

	e.log.Debug("attempt processed",
		"question_id", q.ID,
		"category", q.Category,
		"correct", a.Correct,
		"signal", tr.Signal,
		"tier", res.CategoryTier,
	)
	e.record(ctx, q, a, tr)
	return res, nil
}

func (e *Engine) record(ctx context.Context, q *model.Question, a Attempt, tr mastery.Transition) {
	if e.events == nil {
		return
	}
	timeMs := a.TimeMs
	if timeMs < 0 {
		timeMs = 0
	}
	err := e.events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID:     e.sessionID,
		QuestionID:    q.ID,
		Category:      q.Category,
		FormulaID:     q.FormulaID,
		Tier:          string(q.Tier),
		Correct:       a.Correct,
		TimeMs:        timeMs,
		IsRecall:      a.IsRecall,
		MasterySignal: string(tr.Signal),
	})
	if err != nil {
		e.log.Warn("failed to record answer event", "question_id", q.ID, "error", err)
	}
}
