package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/tui/styles"
)

// modalWidth picks an overlay width for the terminal, between lo and hi.
func modalWidth(termWidth, lo, hi int) int {
	w := lo
	if termWidth > 60 {
		w = termWidth / 2
		if w > hi {
			w = hi
		}
	}
	if w < lo {
		w = lo
	}
	return w
}

// renderModal draws content in a rounded box with the title embedded in
// the top border and centers it in a width x height area.
func renderModal(theme styles.Theme, sty *styles.Styles, title, content string, innerWidth, width, height int) string {
	noTopBorder := sty.ModalBorder.BorderTop(false)
	body := noTopBorder.Width(innerWidth).Render(content)

	borderFg := lipgloss.NewStyle().Foreground(theme.Base0D).Background(theme.Base00)
	titleText := " " + title + " "
	titleRendered := sty.ModalTitle.Render(titleText)

	fullWidth := lipgloss.Width(body)
	rightDashes := fullWidth - 2 - 1 - lipgloss.Width(titleText)
	if rightDashes < 0 {
		rightDashes = 0
	}
	top := borderFg.Render("╭─") + titleRendered + borderFg.Render(strings.Repeat("─", rightDashes)+"╮")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, top+"\n"+body)
}
