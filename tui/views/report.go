package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/tui/components"
	"github.com/tonhe/fireline/tui/keys"
	"github.com/tonhe/fireline/tui/styles"
)

// Column width constants (minimum widths).
const (
	colIcon      = 3
	colSubsystem = 19
	colStatus    = 9
	colSummary   = 22
	colSignal    = 11
	colNoteMin   = 12
	trendWidth   = 24
)

// summaryHeight is the number of lines above the verdict table.
const summaryHeight = 3

// ReportView is the main screen: the overall summary for the active
// controller followed by one row per subsystem verdict.
type ReportView struct {
	theme    styles.Theme
	sty      *styles.Styles
	snapshot *engine.ControllerSnapshot
	cursor   int
	width    int
	height   int
}

// NewReportView creates a new ReportView with the given theme.
func NewReportView(theme styles.Theme) ReportView {
	return ReportView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette without losing the cursor.
func (v *ReportView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// Update handles key messages for cursor navigation.
func (v ReportView) Update(msg tea.Msg) (ReportView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.verdicts())-1 {
				v.cursor++
			}
		}
	}
	return v, nil
}

// SetSnapshot updates the report data and clamps the cursor if needed.
func (v *ReportView) SetSnapshot(snap *engine.ControllerSnapshot) {
	v.snapshot = snap
	if n := len(v.verdicts()); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	}
}

// SetSize updates the available dimensions for the view.
func (v *ReportView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the verdict under the cursor.
func (v ReportView) Selected() (diag.Verdict, bool) {
	vs := v.verdicts()
	if v.cursor < 0 || v.cursor >= len(vs) {
		return diag.Verdict{}, false
	}
	return vs[v.cursor], true
}

// Latest returns the most recent report, if any.
func (v ReportView) Latest() *engine.Report {
	if v.snapshot == nil {
		return nil
	}
	return v.snapshot.Latest
}

func (v ReportView) verdicts() []diag.Verdict {
	if rep := v.Latest(); rep != nil {
		return rep.Verdicts
	}
	return nil
}

// View renders the report view.
func (v ReportView) View() string {
	rep := v.Latest()
	switch {
	case rep == nil:
		return v.renderEmpty("Waiting for the first diagnostics run...")
	case rep.Err != nil:
		return v.renderEmpty("Diagnostics failed: " + rep.Err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.renderSummary(rep), v.renderTable(rep.Verdicts))
}

// renderSummary renders the overall label, counts, trend and top issues.
func (v ReportView) renderSummary(rep *engine.Report) string {
	sum := rep.Summary
	label := v.sty.ForStatus(sum.Status).Bold(true).Render(strings.ToUpper(string(sum.Label)))
	dim := v.sty.TableCellDim

	counts := fmt.Sprintf("%s  %s  %s",
		v.sty.StatusErr.Render(fmt.Sprintf("%d errors", sum.Errors)),
		v.sty.StatusWarn.Render(fmt.Sprintf("%d warnings", sum.Warnings)),
		v.sty.StatusOK.Render(fmt.Sprintf("%d passed", sum.Passed)),
	)
	trend := v.sty.SparklineStyle.Render(components.Sparkline(v.snapshot.Scores(), trendWidth))
	score := dim.Render("health " + components.FormatScore(rep.HealthScore()))

	line1 := fmt.Sprintf(" %s %s   %s   %s %s", dim.Render("Overall:"), label, counts, trend, score)
	line2 := fmt.Sprintf(" %s %s", dim.Render("Top issues:"), v.sty.TableRow.Render(strings.Join(sum.TopIssues, "  ·  ")))
	return lipgloss.JoinVertical(lipgloss.Left, line1, line2, "")
}

// columnWidths calculates responsive column widths based on terminal width.
// The note column gets all remaining space.
func (v ReportView) columnWidths() (icon, subsystem, status, summary, signal, note int) {
	icon, subsystem, status, summary, signal = colIcon, colSubsystem, colStatus, colSummary, colSignal
	note = v.width - (icon + subsystem + status + summary + signal)
	if note < colNoteMin {
		note = colNoteMin
	}
	return
}

// renderTable renders the header row and one row per verdict.
func (v ReportView) renderTable(verdicts []diag.Verdict) string {
	wIcon, wSub, wStatus, wSum, wSig, wNote := v.columnWidths()

	h := v.sty.TableHeader
	lines := []string{
		h.Render(padRight("", wIcon)) +
			h.Render(padRight("Subsystem", wSub)) +
			h.Render(padRight("Status", wStatus)) +
			h.Render(padRight("Summary", wSum)) +
			h.Render(padRight("Signal", wSig)) +
			h.Render(padRight("Notes", wNote)),
	}
	for i, vd := range verdicts {
		lines = append(lines, v.renderRow(vd, i == v.cursor, wIcon, wSub, wStatus, wSum, wSig, wNote))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders a single verdict row.
func (v ReportView) renderRow(vd diag.Verdict, selected bool, wIcon, wSub, wStatus, wSum, wSig, wNote int) string {
	rowStyle := v.sty.TableRow
	statusStyle := v.sty.ForStatus(vd.Status)
	dimStyle := v.sty.TableCellDim
	if selected {
		rowStyle = v.sty.TableRowSel
		statusStyle = statusStyle.Background(v.theme.Base02)
		dimStyle = dimStyle.Background(v.theme.Base02)
	}

	return statusStyle.Render(padRight(" "+styles.StatusIcon(vd.Status), wIcon)) +
		rowStyle.Render(padRight(truncate(vd.Title(), wSub-1), wSub)) +
		statusStyle.Render(padRight(string(vd.Status), wStatus)) +
		rowStyle.Render(padRight(truncate(vd.SummaryPrimary, wSum-1), wSum)) +
		v.sty.SparklineStyle.Inherit(rowStyle).Render(padRight(signalOf(vd), wSig)) +
		dimStyle.Render(padRight(truncate(vd.SummarySecondary, wNote-1), wNote))
}

// signalOf returns the signal glyph detail for radio subsystems, or "".
func signalOf(vd diag.Verdict) string {
	if vd.Subsystem != diag.WiFi && vd.Subsystem != diag.Cellular {
		return ""
	}
	for _, d := range vd.Details {
		if d.Label == "Signal" {
			return d.Value
		}
	}
	return ""
}

// renderEmpty renders a centered message when there is nothing to show.
func (v ReportView) renderEmpty(text string) string {
	msgStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center)

	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	msg := lipgloss.JoinVertical(lipgloss.Center,
		"",
		msgStyle.Render(text),
		"",
		msgStyle.Render(fmt.Sprintf(
			"Press %s to re-run or %s to pick another controller",
			keyStyle.Render("[R]"),
			keyStyle.Render("[c]"),
		)),
		"",
	)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}

// padRight pads s with spaces on the right to the given width in runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// truncate shortens s to maxLen runes, adding an ellipsis if needed.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
