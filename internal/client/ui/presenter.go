package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/promptmanager/internal/client/models"
)

const defaultWordWrap = 80

// Presenter owns the active styles and markdown renderer. It implements
// the theme store's Applier.
type Presenter struct {
	mu       sync.RWMutex
	theme    models.Theme
	styles   Styles
	renderer *glamour.TermRenderer
	wrap     int
}

func NewPresenter(wrap int) *Presenter {
	if wrap <= 0 {
		wrap = defaultWordWrap
	}
	// Light styles until the theme store applies. The process-wide flag is
	// left alone so terminal detection still works.
	p := &Presenter{wrap: wrap, theme: models.ThemeLight}
	p.styles, p.renderer = p.build(models.ThemeLight)
	return p
}

func (p *Presenter) build(t models.Theme) (Styles, *glamour.TermRenderer) {
	palette, mdStyle := LightPalette(), "light"
	if t.IsDark() {
		palette, mdStyle = DarkPalette(), "dark"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(mdStyle),
		glamour.WithWordWrap(p.wrap),
	)
	if err != nil {
		// plain-text previews until the next Apply
		renderer = nil
	}
	return NewStyles(palette), renderer
}

// Apply switches the process-wide dark-background flag, the style set and
// the markdown style to t.
func (p *Presenter) Apply(t models.Theme) {
	styles, renderer := p.build(t)

	p.mu.Lock()
	defer p.mu.Unlock()

	lipgloss.SetHasDarkBackground(t.IsDark())
	p.theme = t
	p.styles = styles
	p.renderer = renderer
}

func (p *Presenter) Theme() models.Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *Presenter) Styles() Styles {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.styles
}

// Markdown renders src for the terminal. On renderer failure src is
// returned unchanged.
func (p *Presenter) Markdown(src string) string {
	p.mu.RLock()
	r := p.renderer
	p.mu.RUnlock()

	if r == nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// TerminalEnvironment reports the terminal's background as the theme
// preference.
type TerminalEnvironment struct {
	dark bool
}

// DetectTerminalEnvironment queries the terminal background once. It must
// run before the first Apply: after SetHasDarkBackground lipgloss returns
// the pinned value instead of asking the terminal.
func DetectTerminalEnvironment() TerminalEnvironment {
	return TerminalEnvironment{dark: lipgloss.HasDarkBackground()}
}

func (e TerminalEnvironment) PrefersDark() bool {
	return e.dark
}
