package engine

import (
	"slices"
	"time"

	"github.com/abhisek/drillz/internal/difficulty"
	"github.com/abhisek/drillz/internal/estimate"
	"github.com/abhisek/drillz/internal/model"
)

// CategoryView is one dashboard row.
type CategoryView struct {
	Category   string
	Tier       difficulty.Tier
	Attempts   int
	Accuracy   float64
	AvgTimeMs  float64
	Streak     int
	Questions  int
	Confidence int
	Suggested  int
}

// Dashboard is a read-only summary of the learner's readiness.
type Dashboard struct {
	PredictedScore int
	Categories     []CategoryView
	PendingReviews int
	DueReviews     int
	Mastered       []string
}

// Dashboard summarises the model at now. It does not mutate anything.
// Known categories come first in display order, followed by any others
// sorted by name.
func (e *Engine) Dashboard(now time.Time) Dashboard {
	report := estimate.Summarize(e.model, now)

	cats := model.Categories()
	var extra []string
	for c := range e.model.StatsByCategory {
		if !slices.Contains(cats, c) {
			extra = append(extra, c)
		}
	}
	for _, q := range e.model.QuestionPool {
		if !slices.Contains(cats, q.Category) && !slices.Contains(extra, q.Category) {
			extra = append(extra, q.Category)
		}
	}
	slices.Sort(extra)
	cats = append(cats, extra...)

	d := Dashboard{PredictedScore: report.PredictedScore, Mastered: e.mastery.Mastered()}
	for _, c := range cats {
		s := e.model.StatsByCategory[c]
		n := len(e.model.QuestionsByCategory(c))
		if s == nil && n == 0 {
			continue
		}
		conf := estimate.CategoryConfidence(s, now)
		row := CategoryView{
			Category:   c,
			Tier:       s.Tier(),
			Accuracy:   s.Accuracy(),
			Questions:  n,
			Confidence: conf,
			Suggested:  estimate.QuestionsPerTopic(conf),
		}
		if s != nil {
			row.Attempts = s.Attempts
			row.AvgTimeMs = s.AvgTimeMs
			row.Streak = s.Streak
		}
		d.Categories = append(d.Categories, row)
	}

	for _, item := range e.model.ReviewQueue {
		d.PendingReviews++
		if item.IsDue(now) {
			d.DueReviews++
		}
	}
	return d
}
