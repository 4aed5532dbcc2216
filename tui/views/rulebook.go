package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/tui/keys"
	"github.com/tonhe/fireline/tui/styles"
)

// RulebookView is a modal overlay showing the operator reference entry for
// one subsystem. Left and right step through the entries in order.
type RulebookView struct {
	theme   styles.Theme
	sty     *styles.Styles
	entries []diag.RuleEntry
	cursor  int
	visible bool
	width   int
	height  int
}

// NewRulebookView creates a new RulebookView with the given theme. The
// pressure and cloud entries quote th, the site's configured limits.
func NewRulebookView(theme styles.Theme, th diag.Thresholds) RulebookView {
	return RulebookView{
		theme:   theme,
		sty:     styles.NewStyles(theme),
		entries: diag.RulesFor(th),
	}
}

// SetTheme swaps the palette.
func (v *RulebookView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// Open shows the overlay at the entry for id.
func (v *RulebookView) Open(id diag.SubsystemID) error {
	for i, e := range v.entries {
		if e.ID == id {
			v.cursor = i
			v.visible = true
			return nil
		}
	}
	_, err := diag.Lookup(id)
	return err
}

// Close hides the overlay.
func (v *RulebookView) Close() {
	v.visible = false
}

// IsVisible returns whether the overlay is currently shown.
func (v RulebookView) IsVisible() bool {
	return v.visible
}

// Current returns the entry being shown.
func (v RulebookView) Current() diag.RuleEntry {
	return v.entries[v.cursor]
}

// SetSize updates the available dimensions for the overlay.
func (v *RulebookView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages. Esc or r closes the overlay.
func (v RulebookView) Update(msg tea.Msg) (RulebookView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(v.entries)
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape), key.Matches(msg, keys.DefaultKeyMap.Rules):
			v.visible = false
		case key.Matches(msg, keys.DefaultKeyMap.Left), key.Matches(msg, keys.DefaultKeyMap.Up):
			v.cursor = (v.cursor - 1 + n) % n
		case key.Matches(msg, keys.DefaultKeyMap.Right), key.Matches(msg, keys.DefaultKeyMap.Down),
			key.Matches(msg, keys.DefaultKeyMap.Tab):
			v.cursor = (v.cursor + 1) % n
		}
	}
	return v, nil
}

// View renders the overlay as a centered modal box.
func (v RulebookView) View() string {
	width := modalWidth(v.width, 48, 76)
	innerWidth := width - 6
	e := v.Current()

	sectionStyle := lipgloss.NewStyle().Foreground(v.theme.Base0E).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(v.theme.Base05).Width(innerWidth)
	dimStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)

	var lines []string
	lines = append(lines, textStyle.Italic(true).Render(e.Intent), "")
	lines = append(lines, v.conditions("Green", v.sty.StatusOK, e.Green, innerWidth)...)
	lines = append(lines, v.conditions("Yellow", v.sty.StatusWarn, e.Yellow, innerWidth)...)
	lines = append(lines, v.conditions("Red", v.sty.StatusErr, e.Red, innerWidth)...)

	lines = append(lines, sectionStyle.Render("Recommended actions"))
	for i, a := range e.RecommendedActions {
		lines = append(lines, textStyle.Render(fmt.Sprintf("  %d. %s", i+1, a)))
	}
	lines = append(lines, "")
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%s %d/%d  %s:prev/next  %s:close",
		e.Title, v.cursor+1, len(v.entries), keyStyle.Render("←/→"), keyStyle.Render("esc"))))

	return renderModal(v.theme, v.sty, "Rulebook: "+e.Title, strings.Join(lines, "\n"), innerWidth, v.width, v.height)
}

// conditions renders one colored condition list, or nothing when empty.
func (v RulebookView) conditions(heading string, style lipgloss.Style, items []string, width int) []string {
	if len(items) == 0 {
		return nil
	}
	out := []string{style.Bold(true).Render(heading)}
	for _, it := range items {
		out = append(out, lipgloss.NewStyle().Foreground(v.theme.Base05).Width(width).Render("  • "+it))
	}
	return append(out, "")
}
