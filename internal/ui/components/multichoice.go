package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillz/internal/ui/theme"
)

// ChoiceLabel returns the letter shown for choice i (A, B, ...).
func ChoiceLabel(i int) string {
	if i < 0 || i >= 26 {
		return fmt.Sprintf("%d", i+1)
	}
	return string(rune('A' + i))
}

// MultiChoice is a multiple-choice selector. Options are picked with the
// arrow keys and enter, or directly by letter or number.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates an unanswered multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	if idx, ok := labelIndex(key, len(m.Options)); ok {
		m.Selected = idx
		m.submit()
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		if len(m.Options) > 0 {
			m.submit()
		}
	}
	return m, nil
}

func (m *MultiChoice) submit() {
	m.Submitted = true
	m.ChosenIndex = m.Selected
}

// labelIndex maps a pressed letter ("b") or digit ("2") to an option index.
func labelIndex(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	idx := -1
	switch {
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// View renders the question and its options. Once submitted, the correct
// option and a wrong pick are marked.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s) %s", prefix, ChoiceLabel(i), opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			line = theme.Correct.Render(line + "  ✓")
		case m.Submitted && i == m.ChosenIndex:
			line = theme.Incorrect.Render(line + "  ✗")
		case m.Submitted:
			line = theme.Subtitle.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Body.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect returns true if the learner chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
