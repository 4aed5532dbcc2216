package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tonhe/fireline/internal/config"
	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/internal/logging"
	"github.com/tonhe/fireline/tui/components"
	"github.com/tonhe/fireline/tui/keys"
	"github.com/tonhe/fireline/tui/styles"
	"github.com/tonhe/fireline/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateReport AppState = iota
	StateDetail
	StateSwitcher
)

// NetworkSetupMessage is shown when the operator picks the network setup
// remediation; the setup flow itself lives in the provisioning app.
const NetworkSetupMessage = "Continue in the provisioning app: Network Setup > Wi-Fi"

// TickMsg triggers a periodic UI refresh to pick up new poll data.
type TickMsg struct{}

// RefreshDoneMsg carries the result of an operator-triggered re-run.
type RefreshDoneMsg struct {
	Controller string
	Report     engine.Report
	Err        error
}

// Options configures the root model.
type Options struct {
	Config     *config.Config
	Manager    *engine.Manager
	Controller string
	// ConfigPath, when set, receives the theme chosen with the theme key.
	ConfigPath string
	Logger     *zap.Logger
	Version    string
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state      AppState
	theme      styles.Theme
	themeSlug  string
	config     *config.Config
	configPath string
	manager    *engine.Manager
	log        *zap.Logger
	version    string

	report   views.ReportView
	detail   views.DetailView
	switcher views.SwitcherView
	help     views.HelpView
	rulebook views.RulebookView

	width   int
	height  int
	active  string
	message string
}

// NewAppModel creates a new AppModel from opts.
func NewAppModel(opts Options) AppModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	slug := cfg.Theme
	theme, ok := styles.Lookup(slug)
	if !ok {
		slug, theme = styles.DefaultSlug, styles.DefaultTheme
	}
	m := AppModel{
		state:      StateReport,
		theme:      theme,
		themeSlug:  slug,
		config:     cfg,
		configPath: opts.ConfigPath,
		manager:    opts.Manager,
		log:        log,
		version:    opts.Version,
		report:     views.NewReportView(theme),
		detail:     views.NewDetailView(theme),
		switcher:   views.NewSwitcherView(theme),
		help:       views.NewHelpView(theme),
		rulebook:   views.NewRulebookView(theme, cfg.DiagThresholds()),
		active:     opts.Controller,
	}
	m.sync()
	return m
}

// Init returns the initial command to start the tick loop.
func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// refreshCmd re-runs diagnostics for name off the UI goroutine.
func refreshCmd(mgr *engine.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		rep, err := mgr.Refresh(name)
		return RefreshDoneMsg{Controller: name, Report: rep, Err: err}
	}
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Body height = total - 1 (header) - 2 (status bar lines)
		bodyHeight := msg.Height - 3
		m.report.SetSize(msg.Width, bodyHeight)
		m.detail.SetSize(msg.Width, bodyHeight)
		m.switcher.SetSize(msg.Width, bodyHeight)
		m.help.SetSize(msg.Width, bodyHeight)
		m.rulebook.SetSize(msg.Width, bodyHeight)
		return m, nil

	case TickMsg:
		m.sync()
		return m, tickCmd()

	case RefreshDoneMsg:
		switch {
		case msg.Err != nil:
			m.message = "re-run failed: " + msg.Err.Error()
		case msg.Report.Err != nil:
			m.message = "diagnostics failed: " + msg.Report.Err.Error()
		default:
			m.message = fmt.Sprintf("re-run: %s", msg.Report.Summary.Label)
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.manager.StopAll()
		return m, tea.Quit
	}

	if m.help.IsVisible() {
		if key.Matches(msg, keys.DefaultKeyMap.Help) || key.Matches(msg, keys.DefaultKeyMap.Escape) {
			m.help.Toggle()
		}
		return m, nil
	}
	if m.rulebook.IsVisible() {
		var cmd tea.Cmd
		m.rulebook, cmd = m.rulebook.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, keys.DefaultKeyMap.Refresh):
		if m.active == "" {
			return m, nil
		}
		m.message = "re-running diagnostics..."
		return m, refreshCmd(m.manager, m.active)
	case key.Matches(msg, keys.DefaultKeyMap.Theme):
		m.cycleTheme()
		return m, nil
	}

	switch m.state {
	case StateReport:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Quit):
			m.manager.StopAll()
			return m, tea.Quit
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if vd, ok := m.report.Selected(); ok {
				m.detail.SetVerdict(vd, m.history())
				m.state = StateDetail
			}
			return m, nil
		case key.Matches(msg, keys.DefaultKeyMap.Rules):
			if vd, ok := m.report.Selected(); ok {
				m.openRule(vd.Subsystem)
			} else {
				m.openRule(diag.Subsystems()[0])
			}
			return m, nil
		case key.Matches(msg, keys.DefaultKeyMap.Controllers):
			m.switcher.Refresh(m.manager)
			m.state = StateSwitcher
			return m, nil
		}
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return m, cmd

	case StateDetail:
		if key.Matches(msg, keys.DefaultKeyMap.Rules) {
			if id, ok := m.detail.Subsystem(); ok {
				m.openRule(id)
			}
			return m, nil
		}
		var (
			cmd    tea.Cmd
			action views.DetailAction
		)
		m.detail, cmd, action = m.detail.Update(msg)
		switch action {
		case views.DetailBack:
			m.state = StateReport
		case views.DetailDispatch:
			if a, ok := m.detail.SelectedAction(); ok {
				m.dispatch(a)
			}
		}
		return m, cmd

	case StateSwitcher:
		var (
			cmd    tea.Cmd
			action views.SwitcherAction
		)
		m.switcher, cmd, action = m.switcher.Update(msg)
		switch action {
		case views.ActionClose:
			m.state = StateReport
		case views.ActionSwitch:
			if item := m.switcher.SelectedItem(); item != nil {
				m.active = item.Name
				m.state = StateReport
				m.message = "watching " + item.Name
				m.sync()
			}
		case views.ActionStop:
			if item := m.switcher.SelectedItem(); item != nil {
				if err := m.manager.Stop(item.Name); err != nil {
					m.message = err.Error()
				}
				m.switcher.Refresh(m.manager)
			}
		}
		return m, cmd
	}
	return m, nil
}

// dispatch performs a remediation action chosen in the detail view.
func (m *AppModel) dispatch(a diag.Action) {
	m.log.Info("remediation action",
		zap.String("controller", m.active),
		zap.String("action", string(a.Kind)),
	)
	switch a.Kind {
	case diag.ActionNetworkSetup:
		m.message = NetworkSetupMessage
	case diag.ActionOpenRule:
		if id, ok := m.detail.Subsystem(); ok {
			m.openRule(id)
		}
	default:
		m.message = fmt.Sprintf("unsupported action %q", a.Kind)
	}
}

func (m *AppModel) openRule(id diag.SubsystemID) {
	if err := m.rulebook.Open(id); err != nil {
		m.message = err.Error()
	}
}

// cycleTheme advances to the next theme and persists the choice when a
// config path is set.
func (m *AppModel) cycleTheme() {
	m.themeSlug = styles.Next(m.themeSlug)
	t, _ := styles.Lookup(m.themeSlug)
	m.theme = t
	m.report.SetTheme(t)
	m.detail.SetTheme(t)
	m.switcher.SetTheme(t)
	m.help.SetTheme(t)
	m.rulebook.SetTheme(t)
	m.message = "theme: " + t.Name

	m.config.Theme = m.themeSlug
	if m.configPath != "" {
		if err := config.SaveConfig(m.config, m.configPath); err != nil {
			m.log.Warn("save theme", zap.Error(err))
		}
	}
}

// sync pulls the active controller's snapshot into the views.
func (m *AppModel) sync() {
	if m.active == "" || m.manager == nil {
		return
	}
	snap, err := m.manager.GetSnapshot(m.active)
	if err != nil {
		return
	}
	m.report.SetSnapshot(snap)
	if m.state != StateDetail || snap.Latest == nil {
		return
	}
	id, ok := m.detail.Subsystem()
	if !ok {
		return
	}
	for _, vd := range snap.Latest.Verdicts {
		if vd.Subsystem == id {
			m.detail.SetVerdict(vd, snap.History)
			return
		}
	}
}

func (m AppModel) history() []engine.Report {
	if m.active == "" {
		return nil
	}
	snap, err := m.manager.GetSnapshot(m.active)
	if err != nil {
		return nil
	}
	return snap.History
}

// State returns the current screen.
func (m AppModel) State() AppState {
	return m.state
}

// Message returns the transient status bar message.
func (m AppModel) Message() string {
	return m.message
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	engines := m.manager.ListEngines()
	live := false
	for _, e := range engines {
		if e.Name == m.active && e.State == engine.EngineRunning {
			live = true
		}
	}
	header := components.RenderHeader(m.theme, m.active, live, len(engines), m.width, m.version)

	var body string
	switch {
	case m.help.IsVisible():
		body = m.help.View()
	case m.rulebook.IsVisible():
		body = m.rulebook.View()
	case m.state == StateSwitcher:
		body = m.switcher.View()
	case m.state == StateDetail:
		body = m.detail.View()
	default:
		body = m.report.View()
	}

	var lastPoll time.Time
	passed, total := 0, 0
	if rep := m.report.Latest(); rep != nil {
		lastPoll = rep.Time
		if rep.OK() {
			passed = rep.Summary.Passed
			total = len(rep.Verdicts)
		}
	}
	statusBar := components.RenderStatusBar(m.theme, m.config.PollInterval, lastPoll, passed, total, m.message, m.width)

	// Fill body to the available height between header and status bar
	bodyHeight := m.height - 1 - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
