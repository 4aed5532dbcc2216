package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/tui/keys"
	"github.com/tonhe/fireline/tui/styles"
)

// SwitcherAction describes what the app should do after a switcher key press.
type SwitcherAction int

const (
	// ActionNone means no action needed.
	ActionNone SwitcherAction = iota
	// ActionClose means the user wants to dismiss the switcher.
	ActionClose
	// ActionSwitch means the user selected a controller to switch to.
	ActionSwitch
	// ActionStop means the user wants to stop watching the selected controller.
	ActionStop
)

// SwitcherView is a modal overlay that lists watched controllers and lets
// the user switch between them.
type SwitcherView struct {
	theme  styles.Theme
	sty    *styles.Styles
	items  []engine.EngineInfo
	cursor int
	width  int
	height int
}

// NewSwitcherView creates a new SwitcherView with the given theme.
func NewSwitcherView(theme styles.Theme) SwitcherView {
	return SwitcherView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette.
func (v *SwitcherView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// Refresh reloads the controller list from the manager.
func (v *SwitcherView) Refresh(mgr *engine.Manager) {
	v.items = mgr.ListEngines()

	if v.cursor >= len(v.items) {
		v.cursor = len(v.items) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetSize updates the available dimensions for the overlay.
func (v *SwitcherView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SelectedItem returns the currently highlighted controller, or nil if the
// list is empty.
func (v *SwitcherView) SelectedItem() *engine.EngineInfo {
	if len(v.items) == 0 {
		return nil
	}
	return &v.items[v.cursor]
}

// Update handles key messages for the switcher overlay.
func (v SwitcherView) Update(msg tea.Msg) (SwitcherView, tea.Cmd, SwitcherAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape), key.Matches(msg, keys.DefaultKeyMap.Controllers):
			return v, nil, ActionClose

		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}

		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}

		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if len(v.items) > 0 {
				return v, nil, ActionSwitch
			}

		case msg.String() == "x":
			if len(v.items) > 0 && v.items[v.cursor].State == engine.EngineRunning {
				return v, nil, ActionStop
			}
		}
	}
	return v, nil, ActionNone
}

// View renders the switcher as a centered modal box.
func (v SwitcherView) View() string {
	innerWidth := modalWidth(v.width, 36, 64) - 6

	var lines []string
	if len(v.items) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
		lines = append(lines, dimStyle.Render("No controllers are being watched."))
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("Start fireline with --snapshot PATH."))
	} else {
		for i, item := range v.items {
			lines = append(lines, v.renderItem(item, i == v.cursor, innerWidth))
		}
	}

	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	helpKeyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	help := fmt.Sprintf(
		"%s:switch  %s:stop  %s:close",
		helpKeyStyle.Render("enter"),
		helpKeyStyle.Render("x"),
		helpKeyStyle.Render("esc"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		helpStyle.Render(help),
	)
	return renderModal(v.theme, v.sty, "Controllers", content, innerWidth, v.width, v.height)
}

// renderItem renders a single controller line with its latest label.
func (v SwitcherView) renderItem(item engine.EngineInfo, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	cursorStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)

	nameStyle := lipgloss.NewStyle().Foreground(v.theme.Base05)
	if selected {
		nameStyle = nameStyle.Foreground(v.theme.Base06).Bold(true)
	}

	var status, statusPlain string
	switch item.State {
	case engine.EngineRunning:
		statusPlain = fmt.Sprintf("* %s (%d)", labelText(item.Label), item.PollCount)
		status = v.sty.ForStatus(labelStatus(item.Label)).Render("* "+labelText(item.Label)) +
			lipgloss.NewStyle().Foreground(v.theme.Base04).Render(fmt.Sprintf(" (%d)", item.PollCount))
	default:
		statusPlain = "o " + item.State.String()
		status = lipgloss.NewStyle().Foreground(v.theme.Base03).Render(statusPlain)
	}

	padLen := width - len(cursor) - lipgloss.Width(item.Name) - lipgloss.Width(statusPlain)
	if padLen < 2 {
		padLen = 2
	}
	return cursorStyle.Render(cursor) + nameStyle.Render(item.Name) + strings.Repeat(" ", padLen) + status
}

func labelText(l diag.OverallLabel) string {
	if l == "" {
		return "pending"
	}
	return string(l)
}

func labelStatus(l diag.OverallLabel) diag.Status {
	switch l {
	case diag.LabelNeedsAttention:
		return diag.StatusError
	case diag.LabelGood:
		return diag.StatusWarning
	case diag.LabelExcellent:
		return diag.StatusSuccess
	}
	return diag.StatusWarning
}
