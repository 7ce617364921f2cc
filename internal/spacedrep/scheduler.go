package spacedrep

import (
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/model"
)

// Scheduler maintains the review queue of a model. Scheduling is purely a
// data annotation: "due" is evaluated lazily against Now.
type Scheduler struct {
	// MistakeDelay is the delay in minutes applied after a wrong answer.
	MistakeDelay int

	// DecayAfter is the idle period after which a formula gets a decay review.
	DecayAfter time.Duration

	Now    func() time.Time
	Logger *logger.Logger
}

// NewScheduler creates a Scheduler. A non-positive delay falls back to
// DefaultMistakeDelayMinutes.
func NewScheduler(mistakeDelay int, log *logger.Logger) *Scheduler {
	if mistakeDelay <= 0 {
		mistakeDelay = DefaultMistakeDelayMinutes
	}
	return &Scheduler{
		MistakeDelay: mistakeDelay,
		DecayAfter:   DefaultDecayAfter,
		Now:          time.Now,
		Logger:       logger.OrNop(log),
	}
}

// Schedule appends a review entry due delayMinutes from now. Negative delays
// are allowed and make the entry immediately due.
func (s *Scheduler) Schedule(m *model.UserModel, questionID int, delayMinutes, priority int, reason model.ReviewReason) error {
	if _, ok := m.Question(questionID); !ok {
		return fmt.Errorf("schedule review for %d: %w", questionID, model.ErrUnknownQuestion)
	}
	m.ReviewSeq++
	m.ReviewQueue = append(m.ReviewQueue, model.ReviewItem{
		QuestionID: questionID,
		DueAt:      s.now().UnixMilli() + int64(delayMinutes)*60000,
		Priority:   priority,
		Reason:     reason,
		Seq:        m.ReviewSeq,
	})
	return nil
}

// HandlePostAttempt updates the queue after an attempt on questionID. A wrong
// answer schedules a mistake review after MistakeDelay minutes; a correct
// answer resolves any entries for the question that were already due.
func (s *Scheduler) HandlePostAttempt(m *model.UserModel, questionID int, correct bool) error {
	if correct {
		if n := s.Resolve(m, questionID); n > 0 {
			s.Logger.Debug("review resolved", "question_id", questionID, "entries", n)
		}
		return nil
	}
	return s.Schedule(m, questionID, s.MistakeDelay, PriorityMistake, model.ReasonMistake)
}

// Due returns the due entries, optionally restricted to a category (empty
// category matches all), ordered by DueAt then insertion order. Entries
// referencing questions missing from the pool are logged and skipped.
func (s *Scheduler) Due(m *model.UserModel, category string) []model.ReviewItem {
	now := s.now()
	var due []model.ReviewItem
	for _, item := range m.ReviewQueue {
		if !item.IsDue(now) {
			continue
		}
		q, ok := m.Question(item.QuestionID)
		if !ok {
			s.logStale(item)
			continue
		}
		if category != "" && q.Category != category {
			continue
		}
		due = append(due, item)
	}
	sortItems(due)
	return due
}

// NextDue returns the first due entry for the category that is not excluded.
func (s *Scheduler) NextDue(m *model.UserModel, category string, exclude map[int]bool) (model.ReviewItem, bool) {
	for _, item := range s.Due(m, category) {
		if exclude[item.QuestionID] {
			continue
		}
		return item, true
	}
	return model.ReviewItem{}, false
}

// Pending returns every entry that is not yet due, ordered by DueAt.
func (s *Scheduler) Pending(m *model.UserModel) []model.ReviewItem {
	now := s.now()
	var out []model.ReviewItem
	for _, item := range m.ReviewQueue {
		if !item.IsDue(now) {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out
}

// Resolve removes the due entries for questionID and returns how many were
// removed. Entries not yet due are kept.
func (s *Scheduler) Resolve(m *model.UserModel, questionID int) int {
	now := s.now()
	kept := m.ReviewQueue[:0]
	removed := 0
	for _, item := range m.ReviewQueue {
		if item.QuestionID == questionID && item.IsDue(now) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.ReviewQueue = kept
	return removed
}

// Prune drops entries whose question is missing from the pool.
func (s *Scheduler) Prune(m *model.UserModel) int {
	kept := m.ReviewQueue[:0]
	removed := 0
	for _, item := range m.ReviewQueue {
		if _, ok := m.Question(item.QuestionID); !ok {
			s.logStale(item)
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.ReviewQueue = kept
	return removed
}

// QueueDecayReviews scans formula statistics and queues an immediately due
// decay review for every practised formula idle longer than DecayAfter that
// has no outstanding entry. Returns the number of entries queued.
func (s *Scheduler) QueueDecayReviews(m *model.UserModel) int {
	if s.DecayAfter <= 0 {
		return 0
	}
	now := s.now()

	queued := make(map[string]bool)
	for _, item := range m.ReviewQueue {
		if q, ok := m.Question(item.QuestionID); ok {
			queued[q.FormulaID] = true
		}
	}

	// Lowest question id per formula, for determinism.
	first := make(map[string]int)
	for id, q := range m.QuestionPool {
		if q.FormulaID == "" {
			continue
		}
		if cur, ok := first[q.FormulaID]; !ok || id < cur {
			first[q.FormulaID] = id
		}
	}

	formulas := make([]string, 0, len(m.StatsByFormula))
	for f := range m.StatsByFormula {
		formulas = append(formulas, f)
	}
	sort.Strings(formulas)

	n := 0
	for _, f := range formulas {
		st := m.StatsByFormula[f]
		if st == nil || st.Attempts == 0 || queued[f] {
			continue
		}
		if now.Sub(st.LastAttemptAt) < s.DecayAfter {
			continue
		}
		id, ok := first[f]
		if !ok {
			continue
		}
		if err := s.Schedule(m, id, 0, PriorityDecay, model.ReasonDecay); err == nil {
			n++
		}
	}
	return n
}

func (s *Scheduler) logStale(item model.ReviewItem) {
	err := &model.InvalidStateError{QuestionID: item.QuestionID, Reason: "review entry references a question missing from the pool"}
	s.Logger.Warn("skipping stale review entry",
		"question_id", item.QuestionID,
		"reason", string(item.Reason),
		"error", err.Error(),
	)
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func sortItems(items []model.ReviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DueAt != items[j].DueAt {
			return items[i].DueAt < items[j].DueAt
		}
		return items[i].Seq < items[j].Seq
	})
}
