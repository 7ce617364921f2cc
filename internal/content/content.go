// Package content loads the question bank shipped with the binary or
// supplied by the user.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/drillz/internal/model"
)

// SupportedMajor is the bank format major version this build reads.
const SupportedMajor = "v1"

//go:embed bank.yaml
var embedded []byte

// Bank is a versioned list of questions.
type Bank struct {
	Version   string           `yaml:"version"`
	Questions []model.Question `yaml:"questions"`
}

// Load parses the embedded bank.
func Load() (*Bank, error) {
	return Parse(embedded)
}

// LoadFile parses a bank from disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a bank.
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Marshal encodes the bank as YAML.
func (b *Bank) Marshal() ([]byte, error) {
	return yaml.Marshal(b)
}

// Snapshot returns a deep copy of the bank's questions.
func (b *Bank) Snapshot() []model.Question {
	out := make([]model.Question, len(b.Questions))
	for i, q := range b.Questions {
		out[i] = q.Clone()
	}
	return out
}

// ByCategory groups question counts per category.
func (b *Bank) ByCategory() map[string]int {
	out := make(map[string]int)
	for _, q := range b.Questions {
		out[q.Category]++
	}
	return out
}

// Replace swaps in updated questions by id. Unknown ids are ignored.
func (b *Bank) Replace(qs []model.Question) int {
	idx := make(map[int]int, len(b.Questions))
	for i, q := range b.Questions {
		idx[q.ID] = i
	}
	n := 0
	for _, q := range qs {
		if i, ok := idx[q.ID]; ok {
			b.Questions[i] = q.Clone()
			n++
		}
	}
	return n
}

// ValidationError describes one invalid bank entry.
type ValidationError struct {
	QuestionID int
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == 0 {
		return "bank: " + e.Message
	}
	return fmt.Sprintf("bank question %d: %s", e.QuestionID, e.Message)
}

// Validate checks the version and every question. All problems are joined
// into one error.
func (b *Bank) Validate() error {
	var errs []error
	switch {
	case !semver.IsValid(b.Version):
		errs = append(errs, &ValidationError{Message: fmt.Sprintf("invalid version %q", b.Version)})
	case semver.Major(b.Version) != SupportedMajor:
		errs = append(errs, &ValidationError{Message: fmt.Sprintf("unsupported version %s, want %s.x", b.Version, SupportedMajor)})
	}

	seen := make(map[int]bool, len(b.Questions))
	for _, q := range b.Questions {
		if q.ID <= 0 {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: "id must be positive"})
			continue
		}
		if seen[q.ID] {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: "duplicate id"})
		}
		seen[q.ID] = true

		if !slices.Contains(model.Categories(), q.Category) {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: fmt.Sprintf("unknown category %q", q.Category)})
		}
		if q.Tier != "" && !q.Tier.Valid() {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: fmt.Sprintf("unknown tier %q", q.Tier)})
		}
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: "text is empty"})
		}
		// Choices are repaired at registration, but an answer cannot be.
		if strings.TrimSpace(q.Answer) == "" {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: "answer is empty"})
		}
		if q.DifficultyWeight < 0 {
			errs = append(errs, &ValidationError{QuestionID: q.ID, Message: "difficulty weight is negative"})
		}
	}
	return errors.Join(errs...)
}
