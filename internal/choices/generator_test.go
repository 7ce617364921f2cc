package choices

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/drillz/internal/model"
)

func newGen() *Generator {
	return New(rand.New(rand.NewPCG(7, 7)))
}

func assertWellFormed(t *testing.T, q model.Question) {
	t.Helper()
	require.GreaterOrEqual(t, len(q.Choices), MinChoices)
	assert.Contains(t, q.Choices, q.Answer)
	seen := map[string]bool{}
	for _, c := range q.Choices {
		key := strings.ToLower(c)
		assert.False(t, seen[key], "duplicate choice %q", c)
		seen[key] = true
		if c != q.Answer {
			assert.False(t, IsPlaceholder(c), "placeholder choice %q", c)
		}
	}
}

func TestEnsureChoices_EmptyOrgan(t *testing.T) {
	q := model.Question{Answer: "Heart", Category: model.CategoryPC}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	organs := groupOf("Heart")
	for _, c := range got.Choices {
		assert.Contains(t, organs, c)
	}
	assert.Empty(t, q.Choices, "input must not be modified")
}

func TestEnsureChoices_RemovesPlaceholders(t *testing.T) {
	q := model.Question{
		Answer:   "Mars",
		Choices:  []string{"Option A", "", "N/A", "???", "Venus", "choice 3", "TBD"},
		Category: model.CategoryPC,
	}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	assert.Contains(t, got.Choices, "Venus")
	for _, c := range got.Choices {
		assert.Contains(t, groupOf("Mars"), c)
	}
}

func TestEnsureChoices_KeepsCompleteList(t *testing.T) {
	q := model.Question{Answer: "623", Choices: []string{"612", "623", "633", "652"}}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)
	assert.Equal(t, q.Choices, got.Choices)
}

func TestEnsureChoices_Dedupes(t *testing.T) {
	q := model.Question{Answer: "Blue", Choices: []string{"red", "Red", "blue", "RED"}}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	assert.Contains(t, got.Choices, "Blue")
	assert.NotContains(t, got.Choices, "blue")
}

func TestEnsureChoices_NumericNeighbours(t *testing.T) {
	q := model.Question{Answer: "12", Category: model.CategoryAR}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	for _, c := range got.Choices {
		assert.Regexp(t, `^-?\d+$`, c)
	}
}

func TestEnsureChoices_DecimalKeepsPrecision(t *testing.T) {
	q := model.Question{Answer: "2.50", Category: model.CategoryMK}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	for _, c := range got.Choices {
		assert.Regexp(t, `^-?\d+\.\d{2}$`, c)
	}
}

func TestEnsureChoices_WordKnowledgeFillers(t *testing.T) {
	q := model.Question{Answer: "Benevolent", Category: model.CategoryWK}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	for _, c := range got.Choices {
		if c != "Benevolent" {
			assert.Contains(t, categoryWords[model.CategoryWK], c)
		}
	}
}

func TestEnsureChoices_AvoidIndex(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		g := New(rand.New(rand.NewPCG(seed, seed)))
		for avoid := 0; avoid < MinChoices; avoid++ {
			got := g.EnsureChoicesIncludeAnswer(model.Question{Answer: "Heart"}, avoid)
			assertWellFormed(t, got)
			assert.NotEqual(t, "Heart", got.Choices[avoid])
		}
	}

	q := model.Question{Answer: "a", Choices: []string{"a", "b", "c", "d"}}
	got := newGen().EnsureChoicesIncludeAnswer(q, 0)
	assert.NotEqual(t, "a", got.Choices[0])
	assert.Contains(t, got.Choices, "a")
}

func TestEnsureChoices_PlaceholderLikeAnswerKept(t *testing.T) {
	q := model.Question{Answer: "None", Choices: []string{"All of the above"}}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)
	require.GreaterOrEqual(t, len(got.Choices), MinChoices)
	assert.Contains(t, got.Choices, "None")
}

func TestEnsureChoices_BlankAnswerPadded(t *testing.T) {
	for _, answer := range []string{"", "   "} {
		q := model.Question{Answer: answer, Choices: []string{"x", "N/A"}, Category: model.CategoryAR}
		got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

		require.GreaterOrEqual(t, len(got.Choices), MinChoices, "answer %q", answer)
		assert.Contains(t, got.Choices, "x")
		for _, c := range got.Choices {
			assert.False(t, IsPlaceholder(c), "placeholder choice %q", c)
		}
	}

	got := newGen().EnsureChoicesIncludeAnswer(model.Question{Category: "GS"}, NoAvoid)
	assert.Len(t, got.Choices, MinChoices)
}

func TestEnsureChoices_Quantities(t *testing.T) {
	tests := []struct {
		answer   string
		category string
		pattern  string
	}{
		{"$60", model.CategoryAR, `^\$\d+$`},
		{"$180", model.CategoryAR, `^\$\d+$`},
		{"4% decrease", model.CategoryAR, `^\d+% (decrease|increase)$`},
		{"3 hours", model.CategoryAR, `^\d+ hours$`},
		{"12.5 feet", model.CategoryMK, `^\d+\.\d feet$`},
		{"1,200", model.CategoryAR, `^\d{1,3}(,\d{3})*$`},
		{"x = 7", model.CategoryMK, `^x = \d+$`},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got := newGen().EnsureChoicesIncludeAnswer(model.Question{Answer: tt.answer, Category: tt.category}, NoAvoid)
			assertWellFormed(t, got)
			for _, c := range got.Choices {
				assert.Regexp(t, tt.pattern, c)
				assert.NotContains(t, genericWords, c)
			}
		})
	}
}

func TestEnsureChoices_DirectionFlipFirst(t *testing.T) {
	got := newGen().EnsureChoicesIncludeAnswer(model.Question{Answer: "4% decrease", Choices: []string{"4% decrease"}}, NoAvoid)
	assert.Equal(t, []string{"4% decrease", "4% increase", "5% decrease", "3% decrease"}, got.Choices)
}

func TestEnsureChoices_NoNegativeNeighbours(t *testing.T) {
	got := newGen().EnsureChoicesIncludeAnswer(model.Question{Answer: "1", Choices: []string{"1"}}, NoAvoid)
	assert.Equal(t, []string{"1", "2", "0", "3"}, got.Choices)
}

func TestEnsureChoices_MathWordAnswer(t *testing.T) {
	q := model.Question{Answer: "Parallel", Category: model.CategoryMK}
	got := newGen().EnsureChoicesIncludeAnswer(q, NoAvoid)

	assertWellFormed(t, got)
	for _, c := range got.Choices {
		if c != "Parallel" {
			assert.Contains(t, categoryWords[model.CategoryMK], c)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	tests := map[string]string{
		"1200":      "1,200",
		"999":       "999",
		"1234567.5": "1,234,567.5",
		"-12000":    "-12,000",
	}
	for in, want := range tests {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	for _, s := range []string{"", " ", "N/A", "na", "option b", "Choice 2", "???", "placeholder", "TBD", "--"} {
		assert.True(t, IsPlaceholder(s), s)
	}
	for _, s := range []string{"Heart", "12", "-3", "Option pricing", "None of these"} {
		assert.False(t, IsPlaceholder(s), s)
	}
}
