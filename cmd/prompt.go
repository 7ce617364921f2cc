package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drillz/internal/ui/components"
	"github.com/abhisek/drillz/internal/ui/theme"
)

// answerer asks one multiple-choice question. It returns the component in
// its final state and false when the learner quit.
type answerer interface {
	Ask(ctx context.Context, header string, mc components.MultiChoice) (components.MultiChoice, bool, error)
}

// teaAnswerer runs a short-lived Bubble Tea program per question.
type teaAnswerer struct {
	in  io.Reader
	out io.Writer
}

func (a teaAnswerer) Ask(ctx context.Context, header string, mc components.MultiChoice) (components.MultiChoice, bool, error) {
	final, err := runProgram(ctx, questionModel{header: header, choice: mc}, a.in, a.out)
	if err != nil {
		return mc, false, fmt.Errorf("run question prompt: %w", err)
	}
	qm, ok := final.(questionModel)
	if !ok {
		return mc, false, fmt.Errorf("run question prompt: unexpected model %T", final)
	}
	choice, answered := qm.outcome()
	return choice, answered, nil
}

func runProgram(ctx context.Context, m tea.Model, in io.Reader, out io.Writer) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	return p.Run()
}

// questionModel wraps a MultiChoice with a header and quit keys.
type questionModel struct {
	header string
	choice components.MultiChoice
	quit   bool
}

func (m questionModel) Init() tea.Cmd {
	return nil
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "ctrl+c", "esc", "q":
			m.quit = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.choice, cmd = m.choice.Update(msg)
	if m.choice.Submitted {
		return m, tea.Quit
	}
	return m, cmd
}

func (m questionModel) View() tea.View {
	return tea.NewView(m.render())
}

// render is empty once done; the caller prints the revealed result.
func (m questionModel) render() string {
	if m.quit || m.choice.Submitted {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header)
	b.WriteString("\n")
	b.WriteString(m.choice.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("↑/↓ and enter, or press a letter. esc to quit."))
	return b.String()
}

func (m questionModel) outcome() (components.MultiChoice, bool) {
	return m.choice, m.choice.Submitted && !m.quit
}

// confirmWord must be typed to confirm a destructive command.
const confirmWord = "reset"

// confirmModel asks the learner to type confirmWord.
type confirmModel struct {
	prompt    string
	input     components.TextInput
	confirmed bool
	done      bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{
		prompt: prompt,
		input:  components.NewTextInput(confirmWord, len(confirmWord)+8),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return m.input.Init()
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "ctrl+c", "esc":
			m.done = true
			return m, tea.Quit
		case "enter":
			m.confirmed = strings.EqualFold(strings.TrimSpace(m.input.Value()), confirmWord)
			m.input.Submit(m.confirmed)
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() tea.View {
	return tea.NewView(m.prompt + "\n" + m.input.View() + "\n")
}

// confirm runs confirmModel and reports whether the learner confirmed.
func confirm(ctx context.Context, prompt string, in io.Reader, out io.Writer) (bool, error) {
	final, err := runProgram(ctx, newConfirmModel(prompt), in, out)
	if err != nil {
		return false, fmt.Errorf("run confirmation prompt: %w", err)
	}
	cm, ok := final.(confirmModel)
	return ok && cm.confirmed, nil
}
