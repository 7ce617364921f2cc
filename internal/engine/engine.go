// Package engine wires the tracker, scheduler, selector and estimators
// around one learner model.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/drillz/internal/choices"
	"github.com/abhisek/drillz/internal/difficulty"
	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/mastery"
	"github.com/abhisek/drillz/internal/model"
	"github.com/abhisek/drillz/internal/selector"
	"github.com/abhisek/drillz/internal/spacedrep"
	"github.com/abhisek/drillz/internal/stats"
	"github.com/abhisek/drillz/internal/store"
)

// DefaultRecentWindow is the number of recent outcomes per category used to
// infer the target tier.
const DefaultRecentWindow = 8

// AnswerRecorder persists processed attempts. store.EventRepo satisfies it.
type AnswerRecorder interface {
	AppendAnswer(ctx context.Context, data store.AnswerEventData) error
}

// Options configures an Engine. Zero values pick the package defaults.
type Options struct {
	EWMAAlpha           float64
	LatencyAlpha        float64
	MistakeDelayMinutes int
	MasteryThreshold    int
	RecentWindow        int

	Rand   *rand.Rand
	Now    func() time.Time
	Logger *logger.Logger
	Events AnswerRecorder
}

// Engine drives practice for one learner. It is not safe for concurrent use.
type Engine struct {
	model     *model.UserModel
	stats     *stats.Tracker
	mastery   *mastery.Tracker
	scheduler *spacedrep.Scheduler
	selector  *selector.Selector
	choices   *choices.Generator
	events    AnswerRecorder
	log       *logger.Logger

	sessionID string
	window    int
	recent    map[string][]bool
}

// New creates an Engine over m. A nil model starts empty.
func New(m *model.UserModel, opts Options) *Engine {
	if m == nil {
		m = model.NewUserModel()
	}
	m.Normalize()

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	window := opts.RecentWindow
	if window <= 0 {
		window = DefaultRecentWindow
	}
	log := logger.OrNop(opts.Logger)

	st := stats.NewTracker(opts.EWMAAlpha, opts.LatencyAlpha)
	st.Now = now
	mt := mastery.NewTracker(opts.MasteryThreshold)
	mt.Now = now
	sched := spacedrep.NewScheduler(opts.MistakeDelayMinutes, log)
	sched.Now = now

	e := &Engine{
		model:     m,
		stats:     st,
		mastery:   mt,
		scheduler: sched,
		selector:  selector.New(sched, opts.Rand, log),
		choices:   choices.New(opts.Rand),
		events:    opts.Events,
		window:    window,
		recent:    make(map[string][]bool),
	}
	e.sessionID = uuid.NewString()
	e.log = log.With("session_id", e.sessionID)
	return e
}

// Model returns the learner model the engine mutates.
func (e *Engine) Model() *model.UserModel { return e.model }

// SessionID returns the id stamped on answer events.
func (e *Engine) SessionID() string { return e.sessionID }

// Scheduler exposes the review scheduler for manual reviews.
func (e *Engine) Scheduler() *spacedrep.Scheduler { return e.scheduler }

// Register adds questions to the pool after repairing their choices.
// Registration stops at the first invalid question.
func (e *Engine) Register(qs ...model.Question) error {
	for _, q := range qs {
		fixed := e.choices.EnsureChoicesIncludeAnswer(q, choices.NoAvoid)
		if err := e.model.RegisterQuestion(fixed); err != nil {
			return err
		}
	}
	return nil
}

// StartSession begins a new practice session: mastery cycles reset, stale
// review entries are dropped and idle formulas get decay reviews.
func (e *Engine) StartSession() (decayQueued, pruned int) {
	e.mastery.ResetAll()
	e.recent = make(map[string][]bool)
	pruned = e.scheduler.Prune(e.model)
	decayQueued = e.scheduler.QueueDecayReviews(e.model)
	e.log.Info("session started", "decay_reviews", decayQueued, "pruned", pruned)
	return decayQueued, pruned
}

// SeedRecent primes the outcome window for a category, oldest first.
func (e *Engine) SeedRecent(category string, outcomes []bool) {
	e.recent[category] = e.trim(append([]bool(nil), outcomes...))
}

// Recent returns a copy of the outcome window for a category.
func (e *Engine) Recent(category string) []bool {
	return append([]bool(nil), e.recent[category]...)
}

// Next selects the next question. A request without a Recent window uses
// the engine's window for the category.
func (e *Engine) Next(req selector.Request) (selector.Pick, error) {
	if req.Recent == nil {
		req.Recent = e.recent[req.Category]
	}
	return e.selector.Select(e.model, req)
}

// Present returns the question for a pick with its choices repaired so the
// answer avoids avoidIndex. Pass choices.NoAvoid for no constraint.
func (e *Engine) Present(questionID, avoidIndex int) (model.Question, error) {
	q, ok := e.model.Question(questionID)
	if !ok {
		return model.Question{}, fmt.Errorf("present %d: %w", questionID, model.ErrUnknownQuestion)
	}
	return e.choices.EnsureChoicesIncludeAnswer(*q, avoidIndex), nil
}

// NeedsRecall reports whether the question's formula awaits a recall check.
func (e *Engine) NeedsRecall(questionID int) bool {
	q, ok := e.model.Question(questionID)
	if !ok || q.FormulaID == "" {
		return false
	}
	return e.mastery.NeedsRecall(q.FormulaID)
}

// Mastered lists formulas mastered this session.
func (e *Engine) Mastered() []string { return e.mastery.Mastered() }

// Reset clears statistics, reviews and mastery cycles. The pool is kept.
func (e *Engine) Reset() {
	e.model.ResetStats()
	e.model.ResetReviews()
	e.mastery.ResetAll()
	e.recent = make(map[string][]bool)
}

func (e *Engine) trim(outcomes []bool) []bool {
	if len(outcomes) > e.window {
		outcomes = outcomes[len(outcomes)-e.window:]
	}
	return outcomes
}

// categoryTier classifies a category's record for reporting.
func (e *Engine) categoryTier(category string) difficulty.Tier {
	return e.model.StatsByCategory[category].Tier()
}
