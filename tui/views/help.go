package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/tui/styles"
)

// HelpView renders a modal overlay showing all keyboard shortcuts.
type HelpView struct {
	theme   styles.Theme
	sty     *styles.Styles
	width   int
	height  int
	visible bool
}

// NewHelpView creates a new HelpView with the given theme.
func NewHelpView(theme styles.Theme) HelpView {
	return HelpView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette.
func (v *HelpView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// Toggle flips the help overlay visibility.
func (v *HelpView) Toggle() {
	v.visible = !v.visible
}

// IsVisible returns whether the help overlay is currently shown.
func (v HelpView) IsVisible() bool {
	return v.visible
}

// SetSize updates the available dimensions for the overlay.
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the help overlay as a centered modal box.
func (v HelpView) View() string {
	innerWidth := modalWidth(v.width, 38, 56) - 6

	sectionStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0E).
		Bold(true)
	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	dimStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04)

	bindingLine := func(keys, desc string) string {
		return fmt.Sprintf("  %s  %s",
			keyStyle.Render(padRight(keys, 16)),
			descStyle.Render(desc),
		)
	}

	var lines []string

	lines = append(lines, sectionStyle.Render("Global"))
	lines = append(lines, bindingLine("Ctrl+C", "Quit"))
	lines = append(lines, bindingLine("?", "Toggle this help"))
	lines = append(lines, bindingLine("t", "Next theme"))
	lines = append(lines, bindingLine("R / Ctrl+R", "Re-run diagnostics now"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Report"))
	lines = append(lines, bindingLine("q", "Quit"))
	lines = append(lines, bindingLine("Up / Down", "Navigate subsystems"))
	lines = append(lines, bindingLine("Enter", "Subsystem detail"))
	lines = append(lines, bindingLine("r", "Rulebook entry"))
	lines = append(lines, bindingLine("c", "Controller switcher"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Subsystem Detail"))
	lines = append(lines, bindingLine("Left / Right", "Select remediation"))
	lines = append(lines, bindingLine("Enter", "Run remediation"))
	lines = append(lines, bindingLine("Esc", "Back to report"))
	lines = append(lines, "")

	lines = append(lines, sectionStyle.Render("Rulebook"))
	lines = append(lines, bindingLine("Left / Right", "Previous / next entry"))
	lines = append(lines, bindingLine("Esc", "Close"))
	lines = append(lines, "")

	lines = append(lines, dimStyle.Render("[?] close"))

	return renderModal(v.theme, v.sty, "Keyboard Shortcuts", strings.Join(lines, "\n"), innerWidth, v.width, v.height)
}
