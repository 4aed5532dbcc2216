package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/internal/probe"
	"github.com/tonhe/fireline/tui/styles"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// sampleSnapshot evaluates the sample install into a one-report snapshot.
func sampleSnapshot(t *testing.T) *engine.ControllerSnapshot {
	t.Helper()
	ev, err := diag.NewEvaluator(diag.DefaultThresholds())
	require.NoError(t, err)
	set := probe.Sample("north-ridge")
	verdicts, err := ev.EvaluateAll(set)
	require.NoError(t, err)
	sum, err := diag.Aggregate(verdicts)
	require.NoError(t, err)
	rep := engine.Report{Controller: set.Controller, Snapshot: set, Verdicts: verdicts, Summary: sum}
	return &engine.ControllerSnapshot{Name: set.Controller, Latest: &rep, History: []engine.Report{rep}, PollCount: 1}
}

func TestReportViewNavigation(t *testing.T) {
	v := NewReportView(styles.DefaultTheme)
	v.SetSize(120, 30)

	_, ok := v.Selected()
	assert.False(t, ok, "no snapshot yet")
	assert.Contains(t, v.View(), "Waiting")

	v.SetSnapshot(sampleSnapshot(t))
	vd, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, diag.Ethernet, vd.Subsystem)

	v, _ = v.Update(keyUp)
	vd, _ = v.Selected()
	assert.Equal(t, diag.Ethernet, vd.Subsystem, "cursor stops at the top")

	for i := 0; i < 20; i++ {
		v, _ = v.Update(keyDown)
	}
	vd, _ = v.Selected()
	assert.Equal(t, diag.Firmware, vd.Subsystem, "cursor stops at the bottom")

	out := v.View()
	assert.Contains(t, out, "GOOD (WITH ADVISORIES)")
	for _, id := range diag.Subsystems() {
		assert.Contains(t, out, id.Title())
	}
}

func TestReportViewFailedRun(t *testing.T) {
	v := NewReportView(styles.DefaultTheme)
	v.SetSize(80, 20)
	rep := engine.Report{Err: assert.AnError}
	v.SetSnapshot(&engine.ControllerSnapshot{Latest: &rep})
	assert.Contains(t, v.View(), "Diagnostics failed")
	_, ok := v.Selected()
	assert.False(t, ok)
}

func TestDetailViewDispatch(t *testing.T) {
	snap := sampleSnapshot(t)
	wifi := snap.Latest.Verdicts[1]
	require.Equal(t, diag.WiFi, wifi.Subsystem)
	require.NotNil(t, wifi.Remediation)

	v := NewDetailView(styles.DefaultTheme)
	v.SetSize(100, 40)
	v.SetVerdict(wifi, snap.History)

	a, ok := v.SelectedAction()
	require.True(t, ok)
	assert.Equal(t, diag.ActionNetworkSetup, a.Kind, "primary action first")

	v, _, act := v.Update(keyRight)
	assert.Equal(t, DetailNone, act)
	a, _ = v.SelectedAction()
	assert.Equal(t, diag.ActionOpenRule, a.Kind)

	v, _, _ = v.Update(keyRight)
	a, _ = v.SelectedAction()
	assert.Equal(t, diag.ActionOpenRule, a.Kind, "cursor stops at the last action")

	v, _, _ = v.Update(keyLeft)
	_, _, act = v.Update(keyEnter)
	assert.Equal(t, DetailDispatch, act)

	_, _, act = v.Update(keyEsc)
	assert.Equal(t, DetailBack, act)

	out := v.View()
	assert.Contains(t, out, "Configure Wi-Fi")
	assert.Contains(t, out, "Wi-Fi health")
}

func TestDetailViewNoRemediation(t *testing.T) {
	snap := sampleSnapshot(t)
	eth := snap.Latest.Verdicts[0]
	require.Equal(t, diag.StatusSuccess, eth.Status)

	v := NewDetailView(styles.DefaultTheme)
	v.SetVerdict(eth, snap.History)
	_, ok := v.SelectedAction()
	assert.False(t, ok)
	_, _, act := v.Update(keyEnter)
	assert.Equal(t, DetailNone, act)

	id, ok := v.Subsystem()
	require.True(t, ok)
	assert.Equal(t, diag.Ethernet, id)
}

func TestDetailStatusScores(t *testing.T) {
	snap := sampleSnapshot(t)
	failed := engine.Report{Err: assert.AnError}
	history := []engine.Report{snap.History[0], failed, snap.History[0]}

	v := NewDetailView(styles.DefaultTheme)
	v.SetVerdict(snap.Latest.Verdicts[1], history)
	assert.Equal(t, []float64{50, 50}, v.statusScores())
}

func TestRulebookView(t *testing.T) {
	v := NewRulebookView(styles.DefaultTheme, diag.DefaultThresholds())
	v.SetSize(100, 40)
	assert.False(t, v.IsVisible())

	require.NoError(t, v.Open(diag.Firmware))
	assert.True(t, v.IsVisible())
	assert.Equal(t, diag.Firmware, v.Current().ID)

	v, _ = v.Update(keyRight)
	assert.Equal(t, diag.Ethernet, v.Current().ID, "wraps to the first entry")
	v, _ = v.Update(keyLeft)
	assert.Equal(t, diag.Firmware, v.Current().ID)

	out := v.View()
	assert.Contains(t, out, "Rulebook: Firmware")
	assert.Contains(t, out, "Recommended actions")

	v, _ = v.Update(keyEsc)
	assert.False(t, v.IsVisible())

	err := v.Open(diag.SubsystemID("sprinkler"))
	assert.ErrorIs(t, err, diag.ErrRuleNotFound)
	assert.False(t, v.IsVisible())
}

func TestRulebookViewQuotesConfiguredThresholds(t *testing.T) {
	th := diag.DefaultThresholds()
	th.CloudPingMillis = 400
	th.Manifold = diag.PressureBand{ExpectedLow: 55, ExpectedHigh: 95, MarginalFloor: 30}

	v := NewRulebookView(styles.DefaultTheme, th)
	v.SetSize(120, 60)

	require.NoError(t, v.Open(diag.Cloud))
	assert.Contains(t, v.View(), "400 ms")
	assert.NotContains(t, v.View(), "250 ms")

	require.NoError(t, v.Open(diag.ManifoldPressure))
	e := v.Current()
	assert.Contains(t, e.Green[0], "55-95 PSI")
	assert.Contains(t, e.Yellow[0], "30 PSI")
}

func TestHelpViewToggle(t *testing.T) {
	v := NewHelpView(styles.DefaultTheme)
	v.SetSize(100, 40)
	v.Toggle()
	assert.True(t, v.IsVisible())
	assert.Contains(t, v.View(), "Keyboard Shortcuts")
	v.Toggle()
	assert.False(t, v.IsVisible())
}

func TestSwitcherView(t *testing.T) {
	v := NewSwitcherView(styles.DefaultTheme)
	v.SetSize(100, 30)
	v.Refresh(engine.NewManager())
	assert.Nil(t, v.SelectedItem())
	assert.Contains(t, v.View(), "No controllers")

	_, _, act := v.Update(keyEnter)
	assert.Equal(t, ActionNone, act)
	_, _, act = v.Update(keyEsc)
	assert.Equal(t, ActionClose, act)
}

func TestPadAndTruncate(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "▰▰▱", padRight("▰▰▱▱▱", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 6))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.True(t, strings.HasPrefix(signalOf(diag.Verdict{Subsystem: diag.WiFi, Details: []diag.Detail{{Label: "Signal", Value: "▰▱ 40%"}}}), "▰"))
	assert.Empty(t, signalOf(diag.Verdict{Subsystem: diag.Power}))
}
