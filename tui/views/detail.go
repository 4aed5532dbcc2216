package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/tui/components"
	"github.com/tonhe/fireline/tui/keys"
	"github.com/tonhe/fireline/tui/styles"
)

// DetailAction describes what the app should do after a detail key press.
type DetailAction int

const (
	// DetailNone means no action needed.
	DetailNone DetailAction = iota
	// DetailBack means the user wants to return to the report.
	DetailBack
	// DetailDispatch means the user triggered the selected remediation action.
	DetailDispatch
)

// DetailView shows one subsystem verdict: its measurements at the top,
// the remediation actions when the verdict needs attention, and a chart of
// the subsystem's health over the retained history.
type DetailView struct {
	theme   styles.Theme
	sty     *styles.Styles
	verdict *diag.Verdict
	history []engine.Report
	cursor  int
	width   int
	height  int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette.
func (v *DetailView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetVerdict updates the view with the latest verdict and report history.
// The action cursor resets when the subsystem changes.
func (v *DetailView) SetVerdict(vd diag.Verdict, history []engine.Report) {
	if v.verdict == nil || v.verdict.Subsystem != vd.Subsystem {
		v.cursor = 0
	}
	v.verdict = &vd
	v.history = history
	if n := len(v.actions()); v.cursor >= n {
		v.cursor = 0
	}
}

// Subsystem returns the subsystem currently shown.
func (v DetailView) Subsystem() (diag.SubsystemID, bool) {
	if v.verdict == nil {
		return "", false
	}
	return v.verdict.Subsystem, true
}

// SelectedAction returns the highlighted remediation action.
func (v DetailView) SelectedAction() (diag.Action, bool) {
	acts := v.actions()
	if v.cursor < 0 || v.cursor >= len(acts) {
		return diag.Action{}, false
	}
	return acts[v.cursor], true
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v DetailView) actions() []diag.Action {
	if v.verdict == nil || v.verdict.Remediation == nil {
		return nil
	}
	return v.verdict.Remediation.Actions
}

// Update handles key messages for the detail view.
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, DetailAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(v.actions())
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, DetailBack
		case key.Matches(msg, keys.DefaultKeyMap.Left), key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Right), key.Matches(msg, keys.DefaultKeyMap.Down),
			key.Matches(msg, keys.DefaultKeyMap.Tab):
			if v.cursor < n-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if n > 0 {
				return v, nil, DetailDispatch
			}
		}
	}
	return v, nil, DetailNone
}

// View renders the detail view.
func (v DetailView) View() string {
	if v.verdict == nil {
		msg := lipgloss.NewStyle().
			Foreground(v.theme.Base04).
			Align(lipgloss.Center).
			Render("No subsystem selected")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}

	info := v.renderInfoPanel()
	remediation := v.renderRemediation()

	used := lipgloss.Height(info) + 2
	if remediation != "" {
		used += lipgloss.Height(remediation) + 1
	}
	chartHeight := v.height - used
	if chartHeight < 6 {
		chartHeight = 6
	}
	chartWidth := v.width - 2
	if chartWidth < 20 {
		chartWidth = 20
	}
	chart := components.RenderChart(v.statusScores(), chartWidth, chartHeight, v.verdict.Title()+" health")
	chart = v.sty.SparklineStyle.Render(chart)

	parts := []string{info, ""}
	if remediation != "" {
		parts = append(parts, remediation, "")
	}
	parts = append(parts, chart, v.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderInfoPanel renders the verdict headline and its measurements.
func (v DetailView) renderInfoPanel() string {
	vd := v.verdict
	labelStyle := v.sty.DetailLabel.Width(18)
	valueStyle := v.sty.DetailValue
	statusStyle := v.sty.ForStatus(vd.Status).Bold(true)

	rows := []string{
		"",
		fmt.Sprintf("  %s %s  %s",
			statusStyle.Render(styles.StatusIcon(vd.Status)),
			v.sty.SectionHeader.Render(vd.Title()),
			statusStyle.Render(vd.SummaryPrimary)),
	}
	if vd.SummarySecondary != "" {
		rows = append(rows, "    "+v.sty.TableCellDim.Render(vd.SummarySecondary))
	}
	rows = append(rows, "")
	for _, d := range vd.Details {
		rows = append(rows, fmt.Sprintf("  %s%s", labelStyle.Render(d.Label+":"), valueStyle.Render(d.Value)))
	}
	return strings.Join(rows, "\n")
}

// renderRemediation renders the remediation title and action buttons.
func (v DetailView) renderRemediation() string {
	acts := v.actions()
	if len(acts) == 0 {
		return ""
	}
	buttons := make([]string, len(acts))
	for i, a := range acts {
		style := v.sty.Action
		if i == v.cursor {
			style = v.sty.ActionSel
		}
		buttons[i] = style.Render("[ " + a.Label + " ]")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"  "+v.sty.SectionHeader.Render(v.verdict.Remediation.Title),
		"  "+strings.Join(buttons, "  "),
	)
}

// renderHelp renders a help line at the bottom of the detail view.
func (v DetailView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	if len(v.actions()) == 0 {
		return helpStyle.Render(fmt.Sprintf("  %s rulebook  %s back",
			keyStyle.Render("[r]"), keyStyle.Render("[esc]")))
	}
	return helpStyle.Render(fmt.Sprintf("  %s select  %s run action  %s rulebook  %s back",
		keyStyle.Render("[←/→]"), keyStyle.Render("[enter]"), keyStyle.Render("[r]"), keyStyle.Render("[esc]")))
}

// statusScores maps this subsystem's status in each retained report to a
// 0-100 score. Failed runs are skipped.
func (v DetailView) statusScores() []float64 {
	var out []float64
	for _, rep := range v.history {
		if !rep.OK() {
			continue
		}
		for _, vd := range rep.Verdicts {
			if vd.Subsystem == v.verdict.Subsystem {
				out = append(out, statusScore(vd.Status))
				break
			}
		}
	}
	return out
}

func statusScore(s diag.Status) float64 {
	switch s {
	case diag.StatusSuccess:
		return components.ScoreMax
	case diag.StatusWarning:
		return components.ScoreMax / 2
	default:
		return 0
	}
}
