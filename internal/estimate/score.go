package estimate

import (
	"math"
	"time"

	"github.com/abhisek/drillz/internal/model"
)

// CategoryWeights weights each category's accuracy in the predicted score.
// Categories not listed use DefaultCategoryWeight.
var CategoryWeights = map[string]float64{
	model.CategoryAR:    1.2,
	model.CategoryMK:    1.2,
	model.CategoryMixed: 1.0,
}

// DefaultCategoryWeight applies to WK, PC and any other category.
const DefaultCategoryWeight = 0.9

// MaxScore is the upper bound of the predicted score.
const MaxScore = 99

// CategoryWeight returns the weight for a category code.
func CategoryWeight(category string) float64 {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return DefaultCategoryWeight
}

// WeightedAccuracy averages per-category accuracy by CategoryWeight.
// An empty map yields 0.
func WeightedAccuracy(byCategory map[string]*model.Stats) float64 {
	var sum, weights float64
	for cat, s := range byCategory {
		w := CategoryWeight(cat)
		sum += w * s.Accuracy()
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// DifficultyAdjustment averages formula difficulty weights, defaulting to 1
// when there are none.
func DifficultyAdjustment(formulaWeights []float64) float64 {
	if len(formulaWeights) == 0 {
		return 1
	}
	sum := 0.0
	for _, w := range formulaWeights {
		sum += w
	}
	return sum / float64(len(formulaWeights))
}

// PredictScore estimates an AFQT-style composite in [0, 99]:
// logistic((weightedAccuracy*2 - 1) * difficultyAdjustment) scaled by 99.
func PredictScore(byCategory map[string]*model.Stats, formulaWeights []float64) int {
	x := (WeightedAccuracy(byCategory)*2 - 1) * DifficultyAdjustment(formulaWeights)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = -1
	}
	p := 1 / (1 + math.Exp(-x))
	return int(clamp(math.Round(p*MaxScore), 0, MaxScore))
}

// Report summarises readiness across categories.
type Report struct {
	PredictedScore int            `json:"predicted_score"`
	Confidence     map[string]int `json:"confidence"`
	Suggested      map[string]int `json:"suggested_questions"`
}

// Summarize builds a Report from a user model at the given instant.
func Summarize(m *model.UserModel, now time.Time) Report {
	r := Report{
		Confidence: make(map[string]int, len(m.StatsByCategory)),
		Suggested:  make(map[string]int, len(m.StatsByCategory)),
	}
	for cat, s := range m.StatsByCategory {
		c := CategoryConfidence(s, now)
		r.Confidence[cat] = c
		r.Suggested[cat] = QuestionsPerTopic(c)
	}
	r.PredictedScore = PredictScore(m.StatsByCategory, m.FormulaWeights())
	return r
}
