package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/tui/styles"
)

// RenderHeader renders the top header bar with app name, controller name,
// live/stopped status, watched controller count and version.
func RenderHeader(theme styles.Theme, controller string, isLive bool, activeCount, width int, ver string) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("fireline")

	displayName := controller
	if displayName == "" {
		displayName = "(no controller)"
	}
	center := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render(displayName)

	status := "STOPPED"
	statusColor := theme.Base08
	if isLive {
		status = "LIVE"
		statusColor = theme.Base0B
	}
	right := lipgloss.NewStyle().
		Foreground(statusColor).
		Background(theme.Base01).
		Render(status)

	noun := "controllers"
	if activeCount == 1 {
		noun = "controller"
	}
	watched := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render(fmt.Sprintf("%d %s", activeCount, noun))

	versionSeg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render("v" + ver)

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s  |  %s ", left, center, right, watched, versionSeg)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
