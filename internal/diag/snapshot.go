package diag

import "time"

// Reachability is the result of an internet reachability probe.
// The zero value is treated as unknown.
type Reachability string

const (
	Online              Reachability = "online"
	Offline             Reachability = "offline"
	ReachabilityUnknown Reachability = "unknown"
)

func (r Reachability) valid() bool {
	switch r {
	case "", Online, Offline, ReachabilityUnknown:
		return true
	}
	return false
}

// String renders the reachability for display.
func (r Reachability) String() string {
	switch r {
	case Online:
		return "Online"
	case Offline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Duplex is the negotiated Ethernet duplex mode.
type Duplex string

const (
	DuplexFull Duplex = "full"
	DuplexHalf Duplex = "half"
)

// ModemState is the cellular modem registration state.
type ModemState string

const (
	ModemReady   ModemState = "ready"
	ModemIdle    ModemState = "idle"
	ModemOffline ModemState = "offline"
)

// SatelliteState is the satellite modem connectivity state.
type SatelliteState string

const (
	SatelliteReady         SatelliteState = "ready"
	SatelliteOffline       SatelliteState = "offline"
	SatelliteNotConfigured SatelliteState = "not-configured"
)

// Snapshot is a raw measurement record for exactly one subsystem.
// Pointer fields are optional: nil means the value was not measured.
type Snapshot interface {
	Subsystem() SubsystemID
}

// EthernetSnapshot holds wired interface measurements.
type EthernetSnapshot struct {
	LinkDetected    *bool        `toml:"link_detected" json:"link_detected,omitempty"`
	Duplex          Duplex       `toml:"duplex" json:"duplex,omitempty"`
	Internet        Reachability `toml:"internet" json:"internet,omitempty"`
	IPv4            *bool        `toml:"ipv4" json:"ipv4,omitempty"`
	RXErrors        *int         `toml:"rx_errors" json:"rx_errors,omitempty"`
	TXErrors        *int         `toml:"tx_errors" json:"tx_errors,omitempty"`
	RXDropped       *int         `toml:"rx_dropped" json:"rx_dropped,omitempty"`
	Speed           string       `toml:"speed" json:"speed,omitempty"`
	Autonegotiation *bool        `toml:"autonegotiation" json:"autonegotiation,omitempty"`
}

// Subsystem implements Snapshot.
func (*EthernetSnapshot) Subsystem() SubsystemID { return Ethernet }

// WiFiSnapshot holds wireless interface measurements.
type WiFiSnapshot struct {
	Powered          *bool        `toml:"powered" json:"powered,omitempty"`
	Connected        *bool        `toml:"connected" json:"connected,omitempty"`
	Provisioned      *bool        `toml:"provisioned" json:"provisioned,omitempty"`
	SSID             *string      `toml:"ssid" json:"ssid,omitempty"`
	SignalPercent    *int         `toml:"signal_percent" json:"signal_percent,omitempty"`
	Internet         Reachability `toml:"internet" json:"internet,omitempty"`
	PacketLoss       *float64     `toml:"packet_loss" json:"packet_loss,omitempty"`
	FrequencyMHz     *int         `toml:"frequency_mhz" json:"frequency_mhz,omitempty"`
	AvgLatencyMillis *float64     `toml:"avg_latency_ms" json:"avg_latency_ms,omitempty"`
}

// Subsystem implements Snapshot.
func (*WiFiSnapshot) Subsystem() SubsystemID { return WiFi }

// CellularSnapshot holds cellular modem measurements.
type CellularSnapshot struct {
	Internet         Reachability `toml:"internet" json:"internet,omitempty"`
	ModemState       ModemState   `toml:"modem_state" json:"modem_state,omitempty"`
	ProviderID       string       `toml:"provider_id" json:"provider_id,omitempty"`
	ProviderName     string       `toml:"provider_name" json:"provider_name,omitempty"`
	SignalPercent    *int         `toml:"signal_percent" json:"signal_percent,omitempty"`
	PacketLoss       *float64     `toml:"packet_loss" json:"packet_loss,omitempty"`
	AvgLatencyMillis *float64     `toml:"avg_latency_ms" json:"avg_latency_ms,omitempty"`
}

// Subsystem implements Snapshot.
func (*CellularSnapshot) Subsystem() SubsystemID { return Cellular }

// SatelliteSnapshot holds satellite modem state.
type SatelliteSnapshot struct {
	Enabled *bool          `toml:"enabled" json:"enabled,omitempty"`
	State   SatelliteState `toml:"state" json:"state,omitempty"`
}

// Subsystem implements Snapshot.
func (*SatelliteSnapshot) Subsystem() SubsystemID { return Satellite }

// PowerSnapshot holds the supply voltage reading.
type PowerSnapshot struct {
	Volts *float64 `toml:"volts" json:"volts,omitempty"`
}

// Subsystem implements Snapshot.
func (*PowerSnapshot) Subsystem() SubsystemID { return Power }

// PressureReading is a gauge reading with an optional expected range.
// A missing range falls back to the deployment thresholds.
type PressureReading struct {
	PSI          *float64 `toml:"psi" json:"psi,omitempty"`
	ExpectedLow  *float64 `toml:"expected_low" json:"expected_low,omitempty"`
	ExpectedHigh *float64 `toml:"expected_high" json:"expected_high,omitempty"`
}

// ManifoldPressureSnapshot is the manifold gauge reading.
type ManifoldPressureSnapshot struct {
	PressureReading
}

// Subsystem implements Snapshot.
func (*ManifoldPressureSnapshot) Subsystem() SubsystemID { return ManifoldPressure }

// SourcePressureSnapshot is the water source gauge reading.
type SourcePressureSnapshot struct {
	PressureReading
}

// Subsystem implements Snapshot.
func (*SourcePressureSnapshot) Subsystem() SubsystemID { return SourcePressure }

// CloudSnapshot holds cloud service reachability.
type CloudSnapshot struct {
	Reachable  *bool    `toml:"reachable" json:"reachable,omitempty"`
	PingMillis *float64 `toml:"ping_ms" json:"ping_ms,omitempty"`
}

// Subsystem implements Snapshot.
func (*CloudSnapshot) Subsystem() SubsystemID { return Cloud }

// FirmwareSnapshot holds the installed firmware status.
type FirmwareSnapshot struct {
	Version         string `toml:"version" json:"version,omitempty"`
	Supported       *bool  `toml:"supported" json:"supported,omitempty"`
	UpdateAvailable *bool  `toml:"update_available" json:"update_available,omitempty"`
}

// Subsystem implements Snapshot.
func (*FirmwareSnapshot) Subsystem() SubsystemID { return Firmware }

// SnapshotSet is one diagnostics run's measurements across all subsystems.
// Any subsystem left nil is evaluated as entirely unmeasured.
type SnapshotSet struct {
	Controller       string                    `toml:"controller" json:"controller,omitempty"`
	CollectedAt      time.Time                 `toml:"collected_at" json:"collected_at"`
	Ethernet         *EthernetSnapshot         `toml:"ethernet" json:"ethernet,omitempty"`
	WiFi             *WiFiSnapshot             `toml:"wifi" json:"wifi,omitempty"`
	Cellular         *CellularSnapshot         `toml:"cellular" json:"cellular,omitempty"`
	Satellite        *SatelliteSnapshot        `toml:"satellite" json:"satellite,omitempty"`
	Power            *PowerSnapshot            `toml:"power" json:"power,omitempty"`
	ManifoldPressure *ManifoldPressureSnapshot `toml:"manifold_pressure" json:"manifold_pressure,omitempty"`
	SourcePressure   *SourcePressureSnapshot   `toml:"source_pressure" json:"source_pressure,omitempty"`
	Cloud            *CloudSnapshot            `toml:"cloud" json:"cloud,omitempty"`
	Firmware         *FirmwareSnapshot         `toml:"firmware" json:"firmware,omitempty"`
}

// Get returns the snapshot for id, substituting an empty (all unknown)
// snapshot when the subsystem was not collected.
func (s *SnapshotSet) Get(id SubsystemID) (Snapshot, error) {
	switch id {
	case Ethernet:
		if s.Ethernet != nil {
			return s.Ethernet, nil
		}
		return &EthernetSnapshot{}, nil
	case WiFi:
		if s.WiFi != nil {
			return s.WiFi, nil
		}
		return &WiFiSnapshot{}, nil
	case Cellular:
		if s.Cellular != nil {
			return s.Cellular, nil
		}
		return &CellularSnapshot{}, nil
	case Satellite:
		if s.Satellite != nil {
			return s.Satellite, nil
		}
		return &SatelliteSnapshot{}, nil
	case Power:
		if s.Power != nil {
			return s.Power, nil
		}
		return &PowerSnapshot{}, nil
	case ManifoldPressure:
		if s.ManifoldPressure != nil {
			return s.ManifoldPressure, nil
		}
		return &ManifoldPressureSnapshot{}, nil
	case SourcePressure:
		if s.SourcePressure != nil {
			return s.SourcePressure, nil
		}
		return &SourcePressureSnapshot{}, nil
	case Cloud:
		if s.Cloud != nil {
			return s.Cloud, nil
		}
		return &CloudSnapshot{}, nil
	case Firmware:
		if s.Firmware != nil {
			return s.Firmware, nil
		}
		return &FirmwareSnapshot{}, nil
	}
	return nil, unknownSubsystem(id)
}

// Bool, Int, Float and String return pointers to their argument. They keep
// snapshot literals in callers and tests short.
func Bool(v bool) *bool { return &v }
func Int(v int) *int { return &v }
func Float(v float64) *float64 { return &v }
func String(v string) *string { return &v }
