// Package ui holds the terminal presentation layer: palettes, lipgloss
// styles and the markdown renderer. The active theme is process-wide and is
// switched through Presenter.Apply.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// light
	LightForeground = lipgloss.Color("#1f2933")
	LightPrimary    = lipgloss.Color("#3b4cca")
	LightAccent     = lipgloss.Color("#0f9d58")
	LightMuted      = lipgloss.Color("#7b8794")
	LightBorder     = lipgloss.Color("#cbd2d9")

	// dark
	DarkForeground = lipgloss.Color("#e4e7eb")
	DarkPrimary    = lipgloss.Color("#8c9eff")
	DarkAccent     = lipgloss.Color("#69f0ae")
	DarkMuted      = lipgloss.Color("#9aa5b1")
	DarkBorder     = lipgloss.Color("#3e4c59")

	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#ffb300")
)

// Palette is one color scheme.
type Palette struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

func LightPalette() Palette {
	return Palette{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

func DarkPalette() Palette {
	return Palette{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// Styles are the styled building blocks the views render with.
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Prompt   lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Badge   lipgloss.Style
	Card    lipgloss.Style
	Divider lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(p.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Prompt: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Badge: lipgloss.NewStyle().
			Foreground(p.Accent).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(p.Border),
	}
}
