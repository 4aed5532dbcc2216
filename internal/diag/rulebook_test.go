package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulebookComplete(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, len(Subsystems()))
	for i, id := range Subsystems() {
		r, err := Lookup(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, r.ID)
		assert.Equal(t, id, rules[i].ID, "Rules() order")
		assert.Equal(t, id.Title(), r.Title)
		assert.NotEmpty(t, r.Intent, id)
		assert.NotEmpty(t, r.Green, id)
		assert.NotEmpty(t, r.Yellow, id)
		assert.NotEmpty(t, r.RecommendedActions, id)
		if id != Satellite {
			assert.NotEmpty(t, r.Red, id)
		}
	}
}

func TestSatelliteRuleHasNoRed(t *testing.T) {
	r, err := Lookup(Satellite)
	require.NoError(t, err)
	assert.Empty(t, r.Red)
}

func TestLookupUnknown(t *testing.T) {
	for _, id := range []SubsystemID{"", "sprinkler", "Ethernet", "wi-fi"} {
		_, err := Lookup(id)
		assert.True(t, errors.Is(err, ErrRuleNotFound), "Lookup(%q) = %v", id, err)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	r, err := Lookup(Power)
	require.NoError(t, err)
	r.Green[0] = "tampered"
	r.RecommendedActions = nil

	again, err := Lookup(Power)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", again.Green[0])
	assert.NotEmpty(t, again.RecommendedActions)

	rules := Rules()
	rules[0].Yellow[0] = "tampered"
	assert.NotEqual(t, "tampered", Rules()[0].Yellow[0])
}

type band string

const (
	green  band = "green"
	yellow band = "yellow"
	red    band = "red"
)

var bandStatus = map[band]Status{green: StatusSuccess, yellow: StatusWarning, red: StatusError}

func (r RuleEntry) conditions(b band) []string {
	switch b {
	case green:
		return r.Green
	case yellow:
		return r.Yellow
	default:
		return r.Red
	}
}

func ethernetUp() *EthernetSnapshot {
	return &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online, RXErrors: Int(0), TXErrors: Int(0)}
}

func pressure(psi float64) PressureReading {
	return PressureReading{PSI: Float(psi)}
}

// bandCases holds representative snapshots for every condition band the
// rulebook documents, evaluated under DefaultThresholds.
var bandCases = []struct {
	id   SubsystemID
	band band
	name string
	snap Snapshot
}{
	{Ethernet, green, "clean link", ethernetUp()},
	{Ethernet, yellow, "rx errors", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online, RXErrors: Int(4), TXErrors: Int(0)}},
	{Ethernet, yellow, "rx drops", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online, RXErrors: Int(0), TXErrors: Int(0), RXDropped: Int(2)}},
	{Ethernet, yellow, "half duplex", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online, RXErrors: Int(0), TXErrors: Int(0), Duplex: DuplexHalf}},
	{Ethernet, yellow, "slow speed", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online, RXErrors: Int(0), TXErrors: Int(0), Speed: "10Mb/s"}},
	{Ethernet, yellow, "counters missing", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Online}},
	{Ethernet, red, "no link", &EthernetSnapshot{LinkDetected: Bool(false), Internet: Online}},
	{Ethernet, red, "no internet", &EthernetSnapshot{LinkDetected: Bool(true), Internet: Offline, RXErrors: Int(0), TXErrors: Int(0)}},

	{WiFi, green, "provisioned", &WiFiSnapshot{Provisioned: Bool(true), Internet: Online}},
	{WiFi, green, "associated", &WiFiSnapshot{Powered: Bool(true), Connected: Bool(true), Internet: Online}},
	{WiFi, yellow, "disabled", &WiFiSnapshot{Powered: Bool(false), Provisioned: Bool(false)}},
	{WiFi, yellow, "provisioned offline", &WiFiSnapshot{Provisioned: Bool(true), Internet: Offline}},
	{WiFi, yellow, "associated offline", &WiFiSnapshot{Powered: Bool(true), Connected: Bool(true), Internet: Offline}},
	{WiFi, yellow, "radio unknown", &WiFiSnapshot{}},
	{WiFi, red, "not associated", &WiFiSnapshot{Powered: Bool(true), Connected: Bool(false)}},

	{Cellular, green, "at limits", &CellularSnapshot{Internet: Online, SignalPercent: Int(CellularMinSignalPercent), PacketLoss: Float(CellularMaxPacketLoss)}},
	{Cellular, yellow, "weak signal", &CellularSnapshot{Internet: Online, SignalPercent: Int(CellularMinSignalPercent - 1), PacketLoss: Float(0)}},
	{Cellular, yellow, "packet loss", &CellularSnapshot{Internet: Online, SignalPercent: Int(80), PacketLoss: Float(CellularMaxPacketLoss + 0.1)}},
	{Cellular, red, "offline", &CellularSnapshot{Internet: Offline, ModemState: ModemOffline, SignalPercent: Int(80), PacketLoss: Float(0)}},

	{Satellite, green, "ready", &SatelliteSnapshot{Enabled: Bool(true), State: SatelliteReady}},
	{Satellite, yellow, "offline", &SatelliteSnapshot{Enabled: Bool(true), State: SatelliteOffline}},
	{Satellite, yellow, "not configured", &SatelliteSnapshot{Enabled: Bool(true), State: SatelliteNotConfigured}},
	{Satellite, yellow, "disabled", &SatelliteSnapshot{Enabled: Bool(false)}},

	{Power, green, "nominal low edge", &PowerSnapshot{Volts: Float(PowerNominalMinVolts)}},
	{Power, green, "nominal high edge", &PowerSnapshot{Volts: Float(PowerNominalMaxVolts)}},
	{Power, yellow, "marginal low", &PowerSnapshot{Volts: Float(PowerMarginalMinVolts)}},
	{Power, yellow, "marginal high", &PowerSnapshot{Volts: Float(PowerMarginalMaxVolts)}},
	{Power, red, "undervoltage", &PowerSnapshot{Volts: Float(PowerMarginalMinVolts - 0.1)}},
	{Power, red, "overvoltage", &PowerSnapshot{Volts: Float(PowerMarginalMaxVolts + 0.1)}},
	{Power, red, "not reported", &PowerSnapshot{}},

	{ManifoldPressure, green, "expected low", &ManifoldPressureSnapshot{pressure(DefaultManifoldLowPSI)}},
	{ManifoldPressure, green, "expected high", &ManifoldPressureSnapshot{pressure(DefaultManifoldHighPSI)}},
	{ManifoldPressure, yellow, "marginal floor", &ManifoldPressureSnapshot{pressure(DefaultMarginalFloorPSI)}},
	{ManifoldPressure, yellow, "just below expected", &ManifoldPressureSnapshot{pressure(DefaultManifoldLowPSI - 0.1)}},
	{ManifoldPressure, red, "below floor", &ManifoldPressureSnapshot{pressure(DefaultMarginalFloorPSI - 0.1)}},
	{ManifoldPressure, red, "overpressure", &ManifoldPressureSnapshot{pressure(DefaultManifoldHighPSI + 0.1)}},
	{ManifoldPressure, red, "not reported", &ManifoldPressureSnapshot{}},

	{SourcePressure, green, "in range", &SourcePressureSnapshot{pressure(DefaultSourceHighPSI)}},
	{SourcePressure, yellow, "marginal", &SourcePressureSnapshot{pressure(DefaultSourceLowPSI - 1)}},
	{SourcePressure, red, "below floor", &SourcePressureSnapshot{pressure(DefaultMarginalFloorPSI - 1)}},
	{SourcePressure, red, "overpressure", &SourcePressureSnapshot{pressure(DefaultSourceHighPSI + 1)}},
	{SourcePressure, red, "not reported", &SourcePressureSnapshot{}},

	{Cloud, green, "at threshold", &CloudSnapshot{Reachable: Bool(true), PingMillis: Float(DefaultCloudPingMillis)}},
	{Cloud, yellow, "slow", &CloudSnapshot{Reachable: Bool(true), PingMillis: Float(DefaultCloudPingMillis + 1)}},
	{Cloud, yellow, "ping not reported", &CloudSnapshot{Reachable: Bool(true)}},
	{Cloud, red, "unreachable", &CloudSnapshot{Reachable: Bool(false)}},
	{Cloud, red, "reachability not reported", &CloudSnapshot{}},

	{Firmware, green, "current", &FirmwareSnapshot{Version: "4.2.0", Supported: Bool(true), UpdateAvailable: Bool(false)}},
	{Firmware, yellow, "update available", &FirmwareSnapshot{Version: "4.1.0", Supported: Bool(true), UpdateAvailable: Bool(true)}},
	{Firmware, red, "unsupported", &FirmwareSnapshot{Version: "2.0.0", Supported: Bool(false)}},
}

func TestRulebookBandsMatchEvaluator(t *testing.T) {
	e := newTestEvaluator(t)
	for _, tc := range bandCases {
		t.Run(string(tc.id)+"/"+string(tc.band)+"/"+tc.name, func(t *testing.T) {
			r, err := Lookup(tc.id)
			require.NoError(t, err)
			require.NotEmpty(t, r.conditions(tc.band), "case targets a band the rulebook does not document")

			v, err := e.Evaluate(tc.id, tc.snap)
			require.NoError(t, err)
			assert.Equal(t, bandStatus[tc.band], v.Status, "%s: %s", v.SummaryPrimary, v.SummarySecondary)
		})
	}
}

func TestRulebookBandsCovered(t *testing.T) {
	covered := map[SubsystemID]map[band]bool{}
	for _, tc := range bandCases {
		if covered[tc.id] == nil {
			covered[tc.id] = map[band]bool{}
		}
		covered[tc.id][tc.band] = true
	}
	for _, r := range Rules() {
		for _, b := range []band{green, yellow, red} {
			if len(r.conditions(b)) == 0 {
				continue
			}
			assert.True(t, covered[r.ID][b], "%s %s band has no evaluator case", r.ID, b)
		}
	}
	assert.Len(t, covered, len(Subsystems()))
}

func TestRulebookQuotesThresholds(t *testing.T) {
	power, err := Lookup(Power)
	require.NoError(t, err)
	assert.Contains(t, power.Green[0], "12.0 V")
	assert.Contains(t, power.Green[0], "15.0 V")
	assert.Contains(t, strings.Join(power.Red, " "), "11.0 V")
	assert.Contains(t, strings.Join(power.Red, " "), "16.0 V")

	cell, err := Lookup(Cellular)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(cell.Green, " "), "40%")
	assert.Contains(t, strings.Join(cell.Green, " "), "2%")

	cloud, err := Lookup(Cloud)
	require.NoError(t, err)
	assert.Contains(t, cloud.Green[0], "250 ms")

	manifold, err := Lookup(ManifoldPressure)
	require.NoError(t, err)
	assert.Contains(t, manifold.Green[0], "40-80 PSI")

	source, err := Lookup(SourcePressure)
	require.NoError(t, err)
	assert.Contains(t, source.Green[0], "40-120 PSI")
}

func TestRulesForThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.CloudPingMillis = 500
	th.Source = PressureBand{ExpectedLow: 60, ExpectedHigh: 140, MarginalFloor: 35}
	e, err := NewEvaluator(th)
	require.NoError(t, err)

	rules := e.Rules()
	require.Len(t, rules, len(Subsystems()))
	for i, id := range Subsystems() {
		assert.Equal(t, id, rules[i].ID)
	}

	cloud, err := LookupFor(Cloud, th)
	require.NoError(t, err)
	assert.Contains(t, cloud.Green[0], "500 ms")
	assert.Contains(t, cloud.Yellow[0], "500 ms")

	source, err := LookupFor(SourcePressure, th)
	require.NoError(t, err)
	assert.Contains(t, source.Green[0], "60-140 PSI")
	assert.Contains(t, source.Yellow[0], "35 PSI")
	assert.Equal(t, source, rules[6])

	v, err := e.Evaluate(Cloud, &CloudSnapshot{Reachable: Bool(true), PingMillis: Float(400)})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, v.Status, "400 ms sits inside the quoted 500 ms limit")

	def, err := Lookup(Cloud)
	require.NoError(t, err)
	assert.Contains(t, def.Green[0], "250 ms", "default entries are unaffected")

	_, err = LookupFor("sprinkler", th)
	assert.True(t, errors.Is(err, ErrRuleNotFound))
}
