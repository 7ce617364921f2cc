// Package choices repairs multiple-choice option lists so the correct answer
// is always present among at least MinChoices distinct, non-placeholder
// options.
package choices

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/abhisek/drillz/internal/model"
)

// MinChoices is the smallest option list a repaired question carries.
const MinChoices = 4

// NoAvoid disables the avoid-index constraint.
const NoAvoid = -1

// Generator repairs choice lists. The zero value uses the global random
// source.
type Generator struct {
	Rand *rand.Rand
}

// New creates a Generator.
func New(rng *rand.Rand) *Generator {
	return &Generator{Rand: rng}
}

// EnsureChoicesIncludeAnswer returns a copy of q whose choices include
// q.Answer verbatim, contain no placeholders or duplicates and number at
// least MinChoices. When avoidIndex is in range the answer is never placed
// there. A blank answer still gets a padded, placeholder-free list. The
// input is not modified.
func (g *Generator) EnsureChoicesIncludeAnswer(q model.Question, avoidIndex int) model.Question {
	out := q.Clone()
	answer := strings.TrimSpace(q.Answer)

	seen := make(map[string]bool)
	var cleaned []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if IsPlaceholder(c) || seen[key] {
			return
		}
		seen[key] = true
		cleaned = append(cleaned, c)
	}
	// The answer is kept even if it reads like a placeholder ("None").
	addAnswer := func() {
		seen[strings.ToLower(answer)] = true
		cleaned = append(cleaned, answer)
	}

	hasAnswer := false
	for _, c := range q.Choices {
		if answer != "" && strings.EqualFold(strings.TrimSpace(c), answer) {
			// Keep the answer's exact spelling.
			if !hasAnswer {
				addAnswer()
				hasAnswer = true
			}
			continue
		}
		add(c)
	}
	inserted := answer != "" && !hasAnswer
	if inserted {
		addAnswer()
	}

	if len(cleaned) < MinChoices {
		for _, f := range g.fillers(answer, q.Category) {
			if len(cleaned) >= MinChoices {
				break
			}
			add(f)
		}
	}
	// Last resort for exotic answers: numbered variants never collide.
	base := answer
	if base == "" {
		base = genericWords[0]
	}
	for i := 1; len(cleaned) < MinChoices; i++ {
		add(base + " (" + strconv.Itoa(i+1) + ")")
	}

	if answer != "" {
		g.place(cleaned, answer, avoidIndex, inserted)
	}
	out.Choices = cleaned
	return out
}

// place positions the answer. Lists that needed the answer inserted are
// shuffled so it does not always sit first; then the answer is moved off
// avoidIndex by swapping with a neighbour.
func (g *Generator) place(choices []string, answer string, avoidIndex int, shuffle bool) {
	if shuffle {
		g.shuffle(choices)
	}
	if avoidIndex < 0 || avoidIndex >= len(choices) || choices[avoidIndex] != answer {
		return
	}
	other := (avoidIndex + 1 + g.intN(len(choices)-1)) % len(choices)
	choices[avoidIndex], choices[other] = choices[other], choices[avoidIndex]
}

// fillers returns candidate distractors related to the answer, in
// preference order. Quantities get nearby values in the same format, then
// entity siblings, then the category's word list.
func (g *Generator) fillers(answer, category string) []string {
	if answer != "" {
		if qty, ok := parseQuantity(answer); ok {
			return qty.fillers()
		}
		if group := groupOf(answer); group != nil {
			return g.shuffled(group)
		}
	}
	if words, ok := categoryWords[category]; ok {
		return append(g.shuffled(words), genericWords...)
	}
	return g.shuffled(genericWords)
}

func (g *Generator) shuffled(in []string) []string {
	out := append([]string(nil), in...)
	g.shuffle(out)
	return out
}

func (g *Generator) shuffle(s []string) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if g.Rand != nil {
		g.Rand.Shuffle(len(s), swap)
		return
	}
	rand.Shuffle(len(s), swap)
}

func (g *Generator) intN(n int) int {
	if n <= 0 {
		return 0
	}
	if g.Rand != nil {
		return g.Rand.IntN(n)
	}
	return rand.IntN(n)
}
