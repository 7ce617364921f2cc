package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value in [0, 1].
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Cells returns the filled and empty cell counts for the bar area.
func (p ProgressBar) Cells() (filled, empty int) {
	labelWidth := 0
	if p.Label != "" {
		labelWidth = lipgloss.Width(p.Label) + 2
	}
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled = int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	return filled, barWidth - filled
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label) + "  ")
	}

	filled, empty := p.Cells()
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", empty)))

	if p.ShowPercent {
		pct := max(0, min(p.Percent, 1))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(pct*100))))
	}
	return b.String()
}
