package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drillz/internal/difficulty"
)

// Color palette: muted field tones with bright status colors.
var (
	Primary   = lipgloss.Color("#4D7C0F") // Olive
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextDim).
		Underline(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Review = lipgloss.NewStyle().
		Foreground(Accent).
		Italic(true)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

var tierColors = map[difficulty.Tier]string{
	difficulty.TierEasy:     "#94A3B8",
	difficulty.TierMedium:   "#0EA5E9",
	difficulty.TierHard:     "#22C55E",
	difficulty.TierVeryHard: "#F59E0B",
	difficulty.TierMaster:   "#A855F7",
}

// Tier returns the badge style for a difficulty tier.
func Tier(t difficulty.Tier) lipgloss.Style {
	c, ok := tierColors[t]
	if !ok {
		c = tierColors[difficulty.TierEasy]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
}
