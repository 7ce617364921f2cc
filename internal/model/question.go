package model

import "github.com/abhisek/drillz/internal/difficulty"

// Category codes for the AFQT-style subtests.
const (
	CategoryAR    = "AR"    // Arithmetic Reasoning
	CategoryMK    = "MK"    // Mathematics Knowledge
	CategoryWK    = "WK"    // Word Knowledge
	CategoryPC    = "PC"    // Paragraph Comprehension
	CategoryMixed = "MIXED" // Mixed review drills
)

// Categories returns the known category codes in display order.
func Categories() []string {
	return []string{CategoryAR, CategoryMK, CategoryWK, CategoryPC, CategoryMixed}
}

// Question describes a single practice item in the pool.
type Question struct {
	ID       int      `json:"id" yaml:"id"`
	Text     string   `json:"text" yaml:"text"`
	Choices  []string `json:"choices" yaml:"choices"`
	Answer   string   `json:"answer" yaml:"answer"`
	Category string   `json:"category" yaml:"category"`

	// FormulaID identifies the concept the question exercises. It is finer
	// grained than Category and keys StatsByFormula and mastery cycles.
	FormulaID string `json:"formula_id" yaml:"formula_id"`

	Tier difficulty.Tier `json:"tier" yaml:"tier"`

	// DifficultyWeight scales predicted scores for accuracy earned on
	// harder material. Registration defaults it to 1.
	DifficultyWeight float64 `json:"difficulty_weight" yaml:"difficulty_weight"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	out := q
	if q.Choices != nil {
		out.Choices = append([]string(nil), q.Choices...)
	}
	return out
}
