package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMultiChoice_ArrowsAndEnter(t *testing.T) {
	mc := NewMultiChoice("Pick one", []string{"alpha", "beta", "gamma", "delta"}, 2)

	mc, _ = mc.Update(specialKey(tea.KeyDown))
	mc, _ = mc.Update(specialKey(tea.KeyDown))
	mc, _ = mc.Update(specialKey(tea.KeyDown))
	mc, _ = mc.Update(specialKey(tea.KeyDown))
	if mc.Selected != 3 {
		t.Errorf("Selected = %d, want 3 (clamped)", mc.Selected)
	}
	mc, _ = mc.Update(specialKey(tea.KeyUp))
	mc, _ = mc.Update(specialKey(tea.KeyEnter))

	if !mc.Submitted || mc.ChosenIndex != 2 {
		t.Errorf("Submitted = %v, ChosenIndex = %d, want true, 2", mc.Submitted, mc.ChosenIndex)
	}
	if !mc.IsCorrect() {
		t.Error("expected correct answer")
	}

	// Input after submission is ignored.
	mc, _ = mc.Update(keyPress('a'))
	if mc.ChosenIndex != 2 {
		t.Errorf("ChosenIndex = %d after submit, want 2", mc.ChosenIndex)
	}
}

func TestMultiChoice_LetterAndDigitKeys(t *testing.T) {
	tests := []struct {
		key       rune
		submitted bool
		want      int
	}{
		{'a', true, 0},
		{'D', true, 3},
		{'2', true, 1},
		{'e', false, -1},
		{'5', false, -1},
		{'0', false, -1},
	}
	for _, tt := range tests {
		mc := NewMultiChoice("Pick one", []string{"w", "x", "y", "z"}, 0)
		mc, _ = mc.Update(keyPress(tt.key))
		if mc.Submitted != tt.submitted || mc.ChosenIndex != tt.want {
			t.Errorf("key %q: Submitted = %v, ChosenIndex = %d, want %v, %d", tt.key, mc.Submitted, mc.ChosenIndex, tt.submitted, tt.want)
		}
	}
}

func TestMultiChoice_VimKeys(t *testing.T) {
	mc := NewMultiChoice("Pick one", []string{"w", "x", "y", "z"}, 0)
	mc, _ = mc.Update(keyPress('j'))
	mc, _ = mc.Update(keyPress('j'))
	mc, _ = mc.Update(keyPress('k'))
	if mc.Selected != 1 || mc.Submitted {
		t.Errorf("Selected = %d, Submitted = %v, want 1, false", mc.Selected, mc.Submitted)
	}
}

func TestMultiChoice_EmptyOptionsNeverSubmit(t *testing.T) {
	mc := NewMultiChoice("Nothing", nil, 0)
	mc, _ = mc.Update(specialKey(tea.KeyEnter))
	if mc.Submitted {
		t.Error("submitted with no options")
	}
}

func TestChoiceLabel(t *testing.T) {
	if got := ChoiceLabel(0); got != "A" {
		t.Errorf("ChoiceLabel(0) = %q, want A", got)
	}
	if got := ChoiceLabel(3); got != "D" {
		t.Errorf("ChoiceLabel(3) = %q, want D", got)
	}
}

func TestMultiChoiceView(t *testing.T) {
	mc := NewMultiChoice("Pick one", []string{"alpha", "beta", "gamma", "delta"}, 2)
	view := mc.View()
	for _, want := range []string{"Pick one", "A) alpha", "D) delta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "✓") {
		t.Error("unrevealed view shows the answer")
	}

	if !strings.Contains(view, "▸ A) alpha") {
		t.Errorf("view does not mark the selection: %q", view)
	}

	mc, _ = mc.Update(keyPress('a'))
	view = mc.View()
	if !strings.Contains(view, "C) gamma  ✓") || !strings.Contains(view, "A) alpha  ✗") {
		t.Errorf("revealed view = %q", view)
	}
}

func TestProgressBarCells(t *testing.T) {
	tests := []struct {
		percent    float64
		wantFilled int
		wantEmpty  int
	}{
		{0, 0, 20},
		{0.5, 10, 10},
		{1, 20, 0},
		{1.7, 20, 0},
		{-0.2, 0, 20},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.percent, false, 20)
		filled, empty := p.Cells()
		if filled != tt.wantFilled || empty != tt.wantEmpty {
			t.Errorf("Cells(%v) = (%d, %d), want (%d, %d)", tt.percent, filled, empty, tt.wantFilled, tt.wantEmpty)
		}
	}
}

func TestTextInput_TypeAndSubmit(t *testing.T) {
	ti := NewTextInput("type here", 10)
	for _, r := range "reset" {
		ti, _ = ti.Update(keyPress(r))
	}
	if got := ti.Value(); got != "reset" {
		t.Fatalf("Value() = %q, want reset", got)
	}

	ti.Submit(true)
	if !ti.Submitted() {
		t.Error("expected submitted")
	}
	ti, _ = ti.Update(keyPress('x'))
	if got := ti.Value(); got != "reset" {
		t.Errorf("Value() = %q after submit, want reset", got)
	}
	if !strings.Contains(ti.View(), "✓") {
		t.Errorf("View() = %q, want a check mark", ti.View())
	}
}
