package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/fireline/internal/diag"
)

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Layout
	AppContainer lipgloss.Style

	// Header / Footer
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderStatus lipgloss.Style
	Footer       lipgloss.Style
	FooterKey    lipgloss.Style
	FooterDesc   lipgloss.Style

	// Table
	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableRowSel  lipgloss.Style
	TableCellDim lipgloss.Style

	// Verdict status colors
	StatusOK   lipgloss.Style
	StatusWarn lipgloss.Style
	StatusErr  lipgloss.Style

	// Sparkline
	SparklineStyle lipgloss.Style

	// Section headings
	SectionHeader lipgloss.Style

	// Modal / overlay
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style

	// Detail pane
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
	ActionSel   lipgloss.Style
	Action      lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	return &Styles{
		AppContainer: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base00),

		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		HeaderStatus: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(theme.Base04),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		TableRow: lipgloss.NewStyle().
			Foreground(theme.Base05),
		TableRowSel: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base02),
		TableCellDim: lipgloss.NewStyle().
			Foreground(theme.Base03),

		StatusOK: lipgloss.NewStyle().
			Foreground(theme.Base0B),
		StatusWarn: lipgloss.NewStyle().
			Foreground(theme.Base0A),
		StatusErr: lipgloss.NewStyle().
			Foreground(theme.Base08).
			Bold(true),

		SparklineStyle: lipgloss.NewStyle().
			Foreground(theme.Base0C),

		SectionHeader: lipgloss.NewStyle().
			Foreground(theme.Base0E).
			Bold(true),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			BorderBackground(theme.Base00).
			Background(theme.Base00).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),

		DetailLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		DetailValue: lipgloss.NewStyle().
			Foreground(theme.Base05),
		ActionSel: lipgloss.NewStyle().
			Foreground(theme.Base00).
			Background(theme.Base0D).
			Bold(true).
			Padding(0, 1),
		Action: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Background(theme.Base01).
			Padding(0, 1),
	}
}

// ForStatus returns the color style for a verdict status.
func (s *Styles) ForStatus(status diag.Status) lipgloss.Style {
	switch status {
	case diag.StatusSuccess:
		return s.StatusOK
	case diag.StatusWarning:
		return s.StatusWarn
	default:
		return s.StatusErr
	}
}

// StatusIcon returns the single-glyph marker for a verdict status.
func StatusIcon(status diag.Status) string {
	switch status {
	case diag.StatusSuccess:
		return "✓"
	case diag.StatusWarning:
		return "!"
	default:
		return "✗"
	}
}
