package model

import (
	"fmt"
	"sort"

	"github.com/abhisek/drillz/internal/difficulty"
)

// UserModel is the root aggregate for one learner. The host application owns
// it and is responsible for loading and saving it; the engine only mutates it
// in place. It is not safe for concurrent use.
type UserModel struct {
	QuestionPool    map[int]*Question `json:"question_pool"`
	StatsByCategory map[string]*Stats `json:"stats_by_category"`
	StatsByFormula  map[string]*Stats `json:"stats_by_formula"`

	// QuestionWeights biases sampling among same-tier candidates.
	// Absent entries weigh 1.
	QuestionWeights map[int]float64 `json:"question_weights"`

	ReviewQueue []ReviewItem `json:"review_queue"`

	// ReviewSeq is the last insertion sequence handed out to ReviewQueue.
	ReviewSeq int64 `json:"review_seq"`
}

// NewUserModel returns an empty, structurally valid model.
func NewUserModel() *UserModel {
	m := &UserModel{}
	m.Normalize()
	return m
}

// Normalize replaces nil substructures with empty ones. Called after loading
// persisted state, which may predate a field.
func (m *UserModel) Normalize() {
	if m.QuestionPool == nil {
		m.QuestionPool = make(map[int]*Question)
	}
	if m.StatsByCategory == nil {
		m.StatsByCategory = make(map[string]*Stats)
	}
	if m.StatsByFormula == nil {
		m.StatsByFormula = make(map[string]*Stats)
	}
	if m.QuestionWeights == nil {
		m.QuestionWeights = make(map[int]float64)
	}
	if m.ReviewQueue == nil {
		m.ReviewQueue = []ReviewItem{}
	}
	for id, q := range m.QuestionPool {
		if q == nil {
			delete(m.QuestionPool, id)
			continue
		}
		if !q.Tier.Valid() {
			q.Tier = difficulty.TierEasy
		}
	}
}

// RegisterQuestion adds q to the pool. A missing tier defaults to easy and a
// non-positive difficulty weight to 1. Re-registering an existing id only
// updates its tier.
func (m *UserModel) RegisterQuestion(q Question) error {
	if q.Category == "" {
		return fmt.Errorf("register question %d: category is required", q.ID)
	}
	tier := q.Tier
	if tier == "" {
		tier = difficulty.TierEasy
	}
	if !tier.Valid() {
		return fmt.Errorf("register question %d: unknown tier %q", q.ID, q.Tier)
	}

	if existing, ok := m.QuestionPool[q.ID]; ok {
		existing.Tier = tier
		return nil
	}

	stored := q.Clone()
	stored.Tier = tier
	if stored.DifficultyWeight <= 0 {
		stored.DifficultyWeight = 1
	}
	m.QuestionPool[q.ID] = &stored
	return nil
}

// SetTier changes the tier of a registered question.
func (m *UserModel) SetTier(id int, tier difficulty.Tier) error {
	q, ok := m.QuestionPool[id]
	if !ok {
		return fmt.Errorf("set tier for %d: %w", id, ErrUnknownQuestion)
	}
	if !tier.Valid() {
		return fmt.Errorf("set tier for %d: unknown tier %q", id, tier)
	}
	q.Tier = tier
	return nil
}

// Question returns the pool entry for id.
func (m *UserModel) Question(id int) (*Question, bool) {
	q, ok := m.QuestionPool[id]
	return q, ok
}

// QuestionsByCategory returns the pool entries for a category, ordered by id
// so that seeded sampling is reproducible.
func (m *UserModel) QuestionsByCategory(category string) []*Question {
	var out []*Question
	for _, q := range m.QuestionPool {
		if q.Category == category {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Weight returns the sampling weight for id, 1 when unset.
func (m *UserModel) Weight(id int) float64 {
	if w, ok := m.QuestionWeights[id]; ok && w > 0 {
		return w
	}
	return 1
}

// CategoryStats returns the stats record for a category, creating a zeroed
// record on first use.
func (m *UserModel) CategoryStats(category string) *Stats {
	return lazyStats(m.StatsByCategory, category)
}

// FormulaStats returns the stats record for a formula, creating a zeroed
// record on first use.
func (m *UserModel) FormulaStats(formulaID string) *Stats {
	return lazyStats(m.StatsByFormula, formulaID)
}

func lazyStats(byKey map[string]*Stats, key string) *Stats {
	if s, ok := byKey[key]; ok && s != nil {
		return s
	}
	s := &Stats{}
	byKey[key] = s
	return s
}

// FormulaWeights returns the difficulty weight of every formula that has been
// attempted, using the mean weight of its registered questions.
func (m *UserModel) FormulaWeights() []float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, q := range m.QuestionPool {
		if s, ok := m.StatsByFormula[q.FormulaID]; !ok || s == nil || s.Attempts == 0 {
			continue
		}
		sums[q.FormulaID] += q.DifficultyWeight
		counts[q.FormulaID]++
	}
	ids := make([]string, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		out = append(out, sums[id]/float64(counts[id]))
	}
	return out
}

// ResetStats clears all category and formula statistics.
func (m *UserModel) ResetStats() {
	m.StatsByCategory = make(map[string]*Stats)
	m.StatsByFormula = make(map[string]*Stats)
}

// ResetReviews empties the review queue.
func (m *UserModel) ResetReviews() {
	m.ReviewQueue = []ReviewItem{}
	m.ReviewSeq = 0
}

// ResetPool removes every registered question and its weight.
func (m *UserModel) ResetPool() {
	m.QuestionPool = make(map[int]*Question)
	m.QuestionWeights = make(map[int]float64)
}
