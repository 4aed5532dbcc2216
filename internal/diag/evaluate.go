package diag

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Fixed classification thresholds. These are part of the commissioning
// contract and are not deployment configurable.
const (
	PowerNominalMinVolts  = 12.0
	PowerNominalMaxVolts  = 15.0
	PowerMarginalMinVolts = 11.0
	PowerMarginalMaxVolts = 16.0

	CellularMinSignalPercent = 40
	CellularMaxPacketLoss    = 2.0

	EthernetMinSpeedMbps = 100
)

// Deployment defaults for the configurable thresholds.
const (
	DefaultCloudPingMillis  = 250.0
	DefaultMarginalFloorPSI = 20.0
	DefaultManifoldLowPSI   = 40.0
	DefaultManifoldHighPSI  = 80.0
	DefaultSourceLowPSI     = 40.0
	DefaultSourceHighPSI    = 120.0
)

// PressureBand is the deployment range for one pressure gauge. Readings in
// [MarginalFloor, ExpectedLow) are marginal.
type PressureBand struct {
	ExpectedLow   float64
	ExpectedHigh  float64
	MarginalFloor float64
}

// Thresholds are the deployment-specific evaluation limits.
type Thresholds struct {
	CloudPingMillis float64
	Manifold        PressureBand
	Source          PressureBand
}

// DefaultThresholds returns the stock deployment limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CloudPingMillis: DefaultCloudPingMillis,
		Manifold: PressureBand{
			ExpectedLow:   DefaultManifoldLowPSI,
			ExpectedHigh:  DefaultManifoldHighPSI,
			MarginalFloor: DefaultMarginalFloorPSI,
		},
		Source: PressureBand{
			ExpectedLow:   DefaultSourceLowPSI,
			ExpectedHigh:  DefaultSourceHighPSI,
			MarginalFloor: DefaultMarginalFloorPSI,
		},
	}
}

// Validate checks the thresholds for internal consistency.
func (t Thresholds) Validate() error {
	if !(t.CloudPingMillis > 0) {
		return fmt.Errorf("cloud ping threshold must be positive, got %v", t.CloudPingMillis)
	}
	if err := t.Manifold.validate("manifold"); err != nil {
		return err
	}
	return t.Source.validate("source")
}

func (b PressureBand) validate(name string) error {
	if b.ExpectedLow > b.ExpectedHigh {
		return fmt.Errorf("%s pressure: expected low %v above expected high %v", name, b.ExpectedLow, b.ExpectedHigh)
	}
	if b.MarginalFloor > b.ExpectedLow {
		return fmt.Errorf("%s pressure: marginal floor %v above expected low %v", name, b.MarginalFloor, b.ExpectedLow)
	}
	return nil
}

// Evaluator classifies subsystem snapshots. It holds only immutable
// thresholds and is safe for concurrent use.
type Evaluator struct {
	th Thresholds
}

// NewEvaluator creates an Evaluator after validating the thresholds.
func NewEvaluator(th Thresholds) (*Evaluator, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{th: th}, nil
}

// Thresholds returns the limits the evaluator was built with.
func (e *Evaluator) Thresholds() Thresholds {
	return e.th
}

// Evaluate classifies one subsystem snapshot. It fails only on caller
// errors: an id outside the fixed set, a nil snapshot, a snapshot of the
// wrong kind, or values that cannot be measurements.
func (e *Evaluator) Evaluate(id SubsystemID, snap Snapshot) (Verdict, error) {
	if !id.Valid() {
		return Verdict{}, unknownSubsystem(id)
	}
	if snap == nil {
		return Verdict{}, invalidSnapshot(id, "nil snapshot")
	}
	if got := snap.Subsystem(); got != id {
		return Verdict{}, invalidSnapshot(id, "got %s snapshot", got)
	}

	switch s := snap.(type) {
	case *EthernetSnapshot:
		if s == nil {
			break
		}
		if err := s.validate(); err != nil {
			return Verdict{}, err
		}
		return evalEthernet(s), nil
	case *WiFiSnapshot:
		if s == nil {
			break
		}
		if err := s.validate(); err != nil {
			return Verdict{}, err
		}
		return evalWiFi(s), nil
	case *CellularSnapshot:
		if s == nil {
			break
		}
		if err := s.validate(); err != nil {
			return Verdict{}, err
		}
		return evalCellular(s), nil
	case *SatelliteSnapshot:
		if s == nil {
			break
		}
		if err := s.validate(); err != nil {
			return Verdict{}, err
		}
		return evalSatellite(s), nil
	case *PowerSnapshot:
		if s == nil {
			break
		}
		return evalPower(s), nil
	case *ManifoldPressureSnapshot:
		if s == nil {
			break
		}
		return evalPressure(id, s.PressureReading, e.th.Manifold)
	case *SourcePressureSnapshot:
		if s == nil {
			break
		}
		return evalPressure(id, s.PressureReading, e.th.Source)
	case *CloudSnapshot:
		if s == nil {
			break
		}
		if measured(s.PingMillis) && *s.PingMillis < 0 {
			return Verdict{}, invalidSnapshot(id, "negative ping %v", *s.PingMillis)
		}
		return evalCloud(s, e.th.CloudPingMillis), nil
	case *FirmwareSnapshot:
		if s == nil {
			break
		}
		return evalFirmware(s), nil
	default:
		return Verdict{}, invalidSnapshot(id, "unsupported snapshot type %T", snap)
	}
	return Verdict{}, invalidSnapshot(id, "nil snapshot")
}

// EvaluateAll evaluates every subsystem in declaration order and always
// returns exactly nine verdicts on success.
func (e *Evaluator) EvaluateAll(set *SnapshotSet) ([]Verdict, error) {
	if set == nil {
		set = &SnapshotSet{}
	}
	verdicts := make([]Verdict, 0, len(subsystems))
	for _, id := range subsystems {
		snap, err := set.Get(id)
		if err != nil {
			return nil, err
		}
		v, err := e.Evaluate(id, snap)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// ---------- validation ----------

func checkCount(id SubsystemID, name string, n *int) error {
	if n != nil && *n < 0 {
		return invalidSnapshot(id, "negative %s %d", name, *n)
	}
	return nil
}

func checkPercent(id SubsystemID, name string, p *float64) error {
	if p != nil && (math.IsNaN(*p) || *p < 0 || *p > 100) {
		return invalidSnapshot(id, "%s %v outside 0-100", name, *p)
	}
	return nil
}

func checkLatency(id SubsystemID, ms *float64) error {
	if ms != nil && *ms < 0 {
		return invalidSnapshot(id, "negative latency %v", *ms)
	}
	return nil
}

func (s *EthernetSnapshot) validate() error {
	if !s.Internet.valid() {
		return invalidSnapshot(Ethernet, "internet state %q", s.Internet)
	}
	switch s.Duplex {
	case "", DuplexFull, DuplexHalf:
	default:
		return invalidSnapshot(Ethernet, "duplex %q", s.Duplex)
	}
	if err := checkCount(Ethernet, "rx errors", s.RXErrors); err != nil {
		return err
	}
	if err := checkCount(Ethernet, "tx errors", s.TXErrors); err != nil {
		return err
	}
	return checkCount(Ethernet, "rx dropped", s.RXDropped)
}

func (s *WiFiSnapshot) validate() error {
	if !s.Internet.valid() {
		return invalidSnapshot(WiFi, "internet state %q", s.Internet)
	}
	if err := checkPercent(WiFi, "packet loss", s.PacketLoss); err != nil {
		return err
	}
	return checkLatency(WiFi, s.AvgLatencyMillis)
}

func (s *CellularSnapshot) validate() error {
	if !s.Internet.valid() {
		return invalidSnapshot(Cellular, "internet state %q", s.Internet)
	}
	switch s.ModemState {
	case "", ModemReady, ModemIdle, ModemOffline:
	default:
		return invalidSnapshot(Cellular, "modem state %q", s.ModemState)
	}
	if err := checkPercent(Cellular, "packet loss", s.PacketLoss); err != nil {
		return err
	}
	return checkLatency(Cellular, s.AvgLatencyMillis)
}

func (s *SatelliteSnapshot) validate() error {
	switch s.State {
	case "", SatelliteReady, SatelliteOffline, SatelliteNotConfigured:
		return nil
	}
	return invalidSnapshot(Satellite, "state %q", s.State)
}

// ---------- formatting ----------

const unknown = "Unknown"

func yesNo(b *bool, yes, no string) string {
	if b == nil {
		return unknown
	}
	if *b {
		return yes
	}
	return no
}

func fmtInt(n *int) string {
	if n == nil {
		return unknown
	}
	return strconv.Itoa(*n)
}

func fmtFloat(f *float64, format string) string {
	if !measured(f) {
		return unknown
	}
	return fmt.Sprintf(format, *f)
}

// measured reports whether f holds a finite reading.
func measured(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func signalDetail(p *int) string {
	if p == nil {
		return SignalBars(nil) + " " + unknown
	}
	return fmt.Sprintf("%s %d%%", SignalBars(percent(p)), *p)
}

// ---------- ethernet ----------

var speedRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([mg])b(?:/s|ps)?$`)

// parseSpeedMbps parses ethtool style speeds such as "1000Mb/s" or "1Gbps".
func parseSpeedMbps(s string) (float64, bool) {
	m := speedRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "g" {
		v *= 1000
	}
	return v, true
}

func evalEthernet(s *EthernetSnapshot) Verdict {
	v := Verdict{Subsystem: Ethernet}
	v.detail("Link", yesNo(s.LinkDetected, "Yes", "No"))
	v.detail("Internet", s.Internet.String())
	v.detail("IPv4", yesNo(s.IPv4, "Assigned", "None"))
	v.detail("Speed", orUnknown(s.Speed))
	v.detail("Duplex", orUnknown(string(s.Duplex)))
	v.detail("Autonegotiation", yesNo(s.Autonegotiation, "On", "Off"))
	v.detail("RX errors", fmtInt(s.RXErrors))
	v.detail("TX errors", fmtInt(s.TXErrors))
	v.detail("RX dropped", fmtInt(s.RXDropped))

	if !isTrue(s.LinkDetected) {
		secondary := "No carrier on the wired port"
		if s.LinkDetected == nil {
			secondary = "Link state not reported"
		}
		v.set(StatusError, "Offline", secondary)
		return v
	}
	if s.Internet != Online {
		v.set(StatusError, "No Internet", "Link up but internet is "+strings.ToLower(s.Internet.String()))
		return v
	}

	var issues []string
	switch {
	case s.RXErrors == nil || s.TXErrors == nil:
		issues = append(issues, "error counters unavailable")
	case *s.RXErrors > 0 || *s.TXErrors > 0:
		issues = append(issues, fmt.Sprintf("%d RX / %d TX errors", *s.RXErrors, *s.TXErrors))
	}
	if s.RXDropped != nil && *s.RXDropped > 0 {
		issues = append(issues, fmt.Sprintf("%d RX drops", *s.RXDropped))
	}
	if s.Duplex == DuplexHalf {
		issues = append(issues, "half duplex")
	}
	if mbps, ok := parseSpeedMbps(s.Speed); ok && mbps < EthernetMinSpeedMbps {
		issues = append(issues, "negotiated at "+s.Speed)
	}

	if len(issues) > 0 {
		v.set(StatusWarning, "Degraded", strings.Join(issues, ", "))
		return v
	}
	secondary := "Link up, internet reachable"
	if s.Speed != "" {
		secondary = "Link up at " + s.Speed
	}
	v.set(StatusSuccess, "Connected", secondary)
	return v
}

// ---------- wireless ----------

func wifiRemediation() *Remediation {
	return &Remediation{
		Title: "Recommended next steps",
		Actions: []Action{
			{Label: "Configure Wi-Fi", Kind: ActionNetworkSetup},
			{Label: "Review Wi-Fi rule", Kind: ActionOpenRule},
		},
	}
}

func evalWiFi(s *WiFiSnapshot) Verdict {
	v := Verdict{Subsystem: WiFi}
	ssid := unknown
	if s.SSID != nil && *s.SSID != "" {
		ssid = *s.SSID
	}
	channel := unknown
	if ch, ok := WiFiChannel(s.FrequencyMHz); ok {
		channel = fmt.Sprintf("%d (%s)", ch, WiFiBand(s.FrequencyMHz))
	}
	v.detail("Radio", yesNo(s.Powered, "On", "Off"))
	v.detail("Connection", yesNo(s.Connected, "Connected", "Disconnected"))
	v.detail("SSID", ssid)
	v.detail("Signal", signalDetail(s.SignalPercent))
	v.detail("Channel", channel)
	v.detail("Internet", s.Internet.String())
	v.detail("Packet loss", fmtFloat(s.PacketLoss, "%.1f%%"))
	v.detail("Latency", fmtFloat(s.AvgLatencyMillis, "%.0f ms"))
	v.detail("Provisioning", yesNo(s.Provisioned, "Secure pairing", "Manual"))

	online := s.Internet == Online
	switch {
	case isTrue(s.Provisioned) && online:
		v.set(StatusSuccess, "Connected", "Provisioned via secure pairing")
	case isTrue(s.Provisioned):
		v.set(StatusWarning, "No Internet", "Provisioned but internet is "+strings.ToLower(s.Internet.String()))
	case s.Powered == nil:
		v.set(StatusWarning, unknown, "Wi-Fi radio state not reported")
	case !*s.Powered:
		v.set(StatusWarning, "Disabled", "Wi-Fi is off; wireless is optional")
	case !isTrue(s.Connected):
		v.set(StatusError, "Disconnected", "Radio is on but not associated with a network")
	case !online:
		v.set(StatusWarning, "No Internet", "Connected to "+ssid+" but internet is "+strings.ToLower(s.Internet.String()))
	default:
		v.set(StatusSuccess, "Connected", "Connected to "+ssid)
	}

	if v.Status != StatusSuccess {
		v.Remediation = wifiRemediation()
	}
	return v
}

// ---------- cellular ----------

func evalCellular(s *CellularSnapshot) Verdict {
	v := Verdict{Subsystem: Cellular}
	provider := s.ProviderName
	if provider == "" {
		provider = s.ProviderID
	}
	v.detail("Internet", s.Internet.String())
	v.detail("Modem", orUnknown(string(s.ModemState)))
	v.detail("Provider", orUnknown(provider))
	v.detail("Signal", signalDetail(s.SignalPercent))
	v.detail("Packet loss", fmtFloat(s.PacketLoss, "%.1f%%"))
	v.detail("Latency", fmtFloat(s.AvgLatencyMillis, "%.0f ms"))

	if s.Internet != Online {
		secondary := "No internet over cellular"
		switch s.ModemState {
		case ModemOffline:
			secondary = "Modem is offline"
		case ModemIdle:
			secondary = "Modem idle, no data session"
		}
		v.set(StatusError, "Offline", secondary)
		return v
	}

	weak := s.SignalPercent == nil || *s.SignalPercent < CellularMinSignalPercent
	lossy := s.PacketLoss == nil || *s.PacketLoss > CellularMaxPacketLoss
	var issues []string
	switch {
	case s.SignalPercent == nil:
		issues = append(issues, "signal strength not reported")
	case weak:
		issues = append(issues, fmt.Sprintf("signal %d%% below %d%%", *s.SignalPercent, CellularMinSignalPercent))
	}
	switch {
	case s.PacketLoss == nil:
		issues = append(issues, "packet loss not reported")
	case lossy:
		issues = append(issues, fmt.Sprintf("%.1f%% packet loss", *s.PacketLoss))
	}

	switch {
	case weak && s.SignalPercent != nil:
		v.set(StatusWarning, "Weak Signal", strings.Join(issues, ", "))
	case lossy && s.PacketLoss != nil:
		v.set(StatusWarning, "Packet Loss", strings.Join(issues, ", "))
	case len(issues) > 0:
		v.set(StatusWarning, "Degraded", strings.Join(issues, ", "))
	default:
		secondary := "Data session established"
		if provider != "" {
			secondary = "Connected via " + provider
		}
		v.set(StatusSuccess, "Connected", secondary)
	}
	return v
}

// ---------- satellite ----------

// evalSatellite never yields StatusError: satellite backhaul is advisory
// and must not block commissioning.
func evalSatellite(s *SatelliteSnapshot) Verdict {
	v := Verdict{Subsystem: Satellite}
	v.detail("Enabled", yesNo(s.Enabled, "Yes", "No"))
	v.detail("State", orUnknown(string(s.State)))

	switch {
	case s.Enabled == nil:
		v.set(StatusWarning, unknown, "Satellite modem state not reported")
	case !*s.Enabled:
		v.set(StatusWarning, "Disabled", "Satellite backhaul is not enabled")
	case s.State == SatelliteReady:
		v.set(StatusSuccess, "Ready", "Satellite link ready")
	case s.State == SatelliteOffline:
		v.set(StatusWarning, "Offline", "Satellite modem enabled but offline")
	case s.State == SatelliteNotConfigured:
		v.set(StatusWarning, "Not Configured", "Satellite modem enabled but not configured")
	default:
		v.set(StatusWarning, unknown, "Satellite connectivity not reported")
	}
	return v
}

// ---------- power ----------

// ClassifyVoltage applies the supply voltage bands. Boundaries are closed on
// the safe side: 12.0 V is success, 11.0 V and 16.0 V are warnings.
func ClassifyVoltage(volts float64) Status {
	switch {
	case math.IsNaN(volts) || math.IsInf(volts, 0):
		return StatusError
	case volts >= PowerNominalMinVolts && volts <= PowerNominalMaxVolts:
		return StatusSuccess
	case volts >= PowerMarginalMinVolts && volts <= PowerMarginalMaxVolts:
		return StatusWarning
	default:
		return StatusError
	}
}

func evalPower(s *PowerSnapshot) Verdict {
	v := Verdict{Subsystem: Power}
	v.detail("Supply voltage", fmtFloat(s.Volts, "%.2f V"))
	v.detail("Nominal range", fmt.Sprintf("%.1f-%.1f V", PowerNominalMinVolts, PowerNominalMaxVolts))

	if !measured(s.Volts) {
		v.set(StatusError, "No Reading", "Supply voltage not reported")
		return v
	}
	volts := *s.Volts
	secondary := fmt.Sprintf("%.1f V supply", volts)
	low := volts < PowerNominalMinVolts
	switch ClassifyVoltage(volts) {
	case StatusSuccess:
		v.set(StatusSuccess, "Nominal", secondary)
	case StatusWarning:
		if low {
			v.set(StatusWarning, "Low Voltage", secondary)
		} else {
			v.set(StatusWarning, "High Voltage", secondary)
		}
	default:
		if low {
			v.set(StatusError, "Undervoltage", secondary)
		} else {
			v.set(StatusError, "Overvoltage", secondary)
		}
	}
	return v
}

// ---------- pressure ----------

// ClassifyPressure applies a pressure band to a reading. The expected range
// is inclusive; the marginal band is [MarginalFloor, ExpectedLow).
func ClassifyPressure(psi float64, band PressureBand) Status {
	switch {
	case math.IsNaN(psi):
		return StatusError
	case psi >= band.ExpectedLow && psi <= band.ExpectedHigh:
		return StatusSuccess
	case psi >= band.MarginalFloor && psi < band.ExpectedLow:
		return StatusWarning
	default:
		return StatusError
	}
}

func evalPressure(id SubsystemID, r PressureReading, band PressureBand) (Verdict, error) {
	if r.ExpectedLow != nil {
		band.ExpectedLow = *r.ExpectedLow
	}
	if r.ExpectedHigh != nil {
		band.ExpectedHigh = *r.ExpectedHigh
	}
	if band.ExpectedLow > band.ExpectedHigh {
		return Verdict{}, invalidSnapshot(id, "expected range [%v, %v] is inverted", band.ExpectedLow, band.ExpectedHigh)
	}

	v := Verdict{Subsystem: id}
	v.detail("Reading", fmtFloat(r.PSI, "%.1f PSI"))
	v.detail("Expected range", fmt.Sprintf("%.0f-%.0f PSI", band.ExpectedLow, band.ExpectedHigh))
	v.detail("Marginal floor", fmt.Sprintf("%.0f PSI", band.MarginalFloor))

	if r.PSI == nil || math.IsNaN(*r.PSI) {
		v.set(StatusError, "No Reading", "Pressure sensor not reported")
		return v, nil
	}
	psi := *r.PSI
	secondary := fmt.Sprintf("%.1f PSI", psi)
	switch ClassifyPressure(psi, band) {
	case StatusSuccess:
		v.set(StatusSuccess, "Within Range", secondary)
	case StatusWarning:
		v.set(StatusWarning, "Low Pressure", secondary+", below expected range")
	default:
		if psi > band.ExpectedHigh {
			v.set(StatusError, "Overpressure", secondary+", above expected range")
		} else {
			v.set(StatusError, "Critically Low", secondary+", below marginal floor")
		}
	}
	return v, nil
}

// ---------- cloud ----------

func evalCloud(s *CloudSnapshot, maxPing float64) Verdict {
	v := Verdict{Subsystem: Cloud}
	v.detail("Reachable", yesNo(s.Reachable, "Yes", "No"))
	v.detail("Ping", fmtFloat(s.PingMillis, "%.0f ms"))
	v.detail("Ping threshold", fmt.Sprintf("%.0f ms", maxPing))

	switch {
	case s.Reachable == nil:
		v.set(StatusError, unknown, "Cloud reachability not reported")
	case !*s.Reachable:
		v.set(StatusError, "Unreachable", "Cloud service could not be reached")
	case !measured(s.PingMillis):
		v.set(StatusWarning, "Latency Unknown", "Reachable, round-trip time not reported")
	case *s.PingMillis > maxPing:
		v.set(StatusWarning, "High Latency", fmt.Sprintf("%.0f ms round trip exceeds %.0f ms", *s.PingMillis, maxPing))
	default:
		v.set(StatusSuccess, "Connected", fmt.Sprintf("%.0f ms round trip", *s.PingMillis))
	}
	return v
}

// ---------- firmware ----------

func evalFirmware(s *FirmwareSnapshot) Verdict {
	v := Verdict{Subsystem: Firmware}
	v.detail("Version", orUnknown(s.Version))
	v.detail("Supported", yesNo(s.Supported, "Yes", "No"))
	v.detail("Update available", yesNo(s.UpdateAvailable, "Yes", "No"))

	version := orUnknown(s.Version)
	switch {
	case s.Supported == nil:
		v.set(StatusError, unknown, "Firmware support status not reported")
	case !*s.Supported:
		v.set(StatusError, "Unsupported", "Version "+version+" is no longer supported")
	case s.UpdateAvailable == nil:
		v.set(StatusWarning, "Update Status Unknown", "Version "+version+", update check not reported")
	case *s.UpdateAvailable:
		v.set(StatusWarning, "Update Available", "Version "+version+" has a newer release")
	default:
		v.set(StatusSuccess, "Up to Date", "Version "+version)
	}
	return v
}
