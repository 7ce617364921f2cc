// Package selector picks the next practice item for a category.
//
// Due reviews always pre-empt fresh selection. Fresh picks target the tier
// implied by recent outcomes and relax outward through adjacent tiers, then
// past id exclusions, so a category with any registered question always
// yields one.
package selector

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/drillz/internal/difficulty"
	"github.com/abhisek/drillz/internal/logger"
	"github.com/abhisek/drillz/internal/model"
)

// Source describes how a pick was found.
type Source string

const (
	SourceReview   Source = "review"   // a due review entry
	SourceFresh    Source = "fresh"    // sampled at the target tier
	SourceRelaxed  Source = "relaxed"  // sampled at an adjacent tier
	SourceFallback Source = "fallback" // sampled with exclusions ignored
)

// ReviewSource yields due review entries. *spacedrep.Scheduler satisfies it.
type ReviewSource interface {
	NextDue(m *model.UserModel, category string, exclude map[int]bool) (model.ReviewItem, bool)
}

// Request parameterises a selection.
type Request struct {
	Category string

	// Recent is the outcome window used to infer the target tier. An empty
	// window targets easy.
	Recent []bool

	// TierOverride, when set, replaces the inferred tier.
	TierOverride *difficulty.Tier

	// MinTier raises the target tier to at least this tier.
	MinTier *difficulty.Tier

	Exclude map[int]bool
}

// Pick is the outcome of a selection.
type Pick struct {
	QuestionID int
	Source     Source
	Target     difficulty.Tier
	Tier       difficulty.Tier
	Review     *model.ReviewItem
}

// Selector chooses questions from a model's pool.
type Selector struct {
	Reviews ReviewSource
	Rand    *rand.Rand
	Logger  *logger.Logger
}

// New creates a Selector. A nil rng uses the runtime's global source.
func New(reviews ReviewSource, rng *rand.Rand, log *logger.Logger) *Selector {
	return &Selector{Reviews: reviews, Rand: rng, Logger: logger.OrNop(log)}
}

// TargetTier computes the tier a fresh pick should aim for.
func TargetTier(req Request) difficulty.Tier {
	var target difficulty.Tier
	if req.TierOverride != nil && req.TierOverride.Valid() {
		target = *req.TierOverride
	} else {
		target = difficulty.ClassifyOutcomes(req.Recent)
	}
	if req.MinTier != nil && req.MinTier.Valid() {
		target = difficulty.Max(target, *req.MinTier)
	}
	return target
}

// Select returns the next question for req.Category. It fails only with
// model.ErrNoQuestionsAvailable when the category has no questions.
func (s *Selector) Select(m *model.UserModel, req Request) (Pick, error) {
	pool := m.QuestionsByCategory(req.Category)
	if len(pool) == 0 {
		return Pick{}, fmt.Errorf("select %q: %w", req.Category, model.ErrNoQuestionsAvailable)
	}

	target := TargetTier(req)

	if s.Reviews != nil {
		if item, ok := s.Reviews.NextDue(m, req.Category, req.Exclude); ok {
			q, _ := m.Question(item.QuestionID)
			return Pick{
				QuestionID: item.QuestionID,
				Source:     SourceReview,
				Target:     target,
				Tier:       q.Tier,
				Review:     &item,
			}, nil
		}
	}

	for i, tier := range difficulty.Outward(target) {
		if q := s.sample(m, candidates(pool, tier, req.Exclude)); q != nil {
			src := SourceFresh
			if i > 0 {
				src = SourceRelaxed
			}
			return Pick{QuestionID: q.ID, Source: src, Target: target, Tier: q.Tier}, nil
		}
	}

	for _, tier := range difficulty.Outward(target) {
		if q := s.sample(m, candidates(pool, tier, nil)); q != nil {
			s.Logger.Debug("all candidates excluded, ignoring exclusions",
				"category", req.Category,
				"excluded", len(req.Exclude),
			)
			return Pick{QuestionID: q.ID, Source: SourceFallback, Target: target, Tier: q.Tier}, nil
		}
	}

	// Unreachable while every pool entry carries a valid tier.
	q := pool[0]
	return Pick{QuestionID: q.ID, Source: SourceFallback, Target: target, Tier: q.Tier}, nil
}

func candidates(pool []*model.Question, tier difficulty.Tier, exclude map[int]bool) []*model.Question {
	var out []*model.Question
	for _, q := range pool {
		if q.Tier != tier || exclude[q.ID] {
			continue
		}
		out = append(out, q)
	}
	return out
}

// sample draws one question weighted by the model's question weights.
func (s *Selector) sample(m *model.UserModel, qs []*model.Question) *model.Question {
	switch len(qs) {
	case 0:
		return nil
	case 1:
		return qs[0]
	}

	total := 0.0
	for _, q := range qs {
		total += m.Weight(q.ID)
	}
	r := s.draw() * total
	for _, q := range qs {
		r -= m.Weight(q.ID)
		if r < 0 {
			return q
		}
	}
	return qs[len(qs)-1]
}

func (s *Selector) draw() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}
