package diag

import "strings"

// SubsystemID identifies one of the nine diagnosed controller subsystems.
type SubsystemID string

const (
	Ethernet         SubsystemID = "ethernet"
	WiFi             SubsystemID = "wifi"
	Cellular         SubsystemID = "cellular"
	Satellite        SubsystemID = "satellite"
	Power            SubsystemID = "power"
	ManifoldPressure SubsystemID = "manifold_pressure"
	SourcePressure   SubsystemID = "source_pressure"
	Cloud            SubsystemID = "cloud"
	Firmware         SubsystemID = "firmware"
)

// subsystems is the closed id set in declaration order. Aggregation and
// rendering always follow this order.
var subsystems = []SubsystemID{
	Ethernet,
	WiFi,
	Cellular,
	Satellite,
	Power,
	ManifoldPressure,
	SourcePressure,
	Cloud,
	Firmware,
}

var titles = map[SubsystemID]string{
	Ethernet:         "Ethernet",
	WiFi:             "Wi-Fi",
	Cellular:         "Cellular",
	Satellite:        "Satellite",
	Power:            "Power",
	ManifoldPressure: "Manifold Pressure",
	SourcePressure:   "Source Pressure",
	Cloud:            "Cloud",
	Firmware:         "Firmware",
}

// Subsystems returns all subsystem ids in declaration order.
func Subsystems() []SubsystemID {
	out := make([]SubsystemID, len(subsystems))
	copy(out, subsystems)
	return out
}

// Valid reports whether id belongs to the fixed subsystem set.
func (id SubsystemID) Valid() bool {
	_, ok := titles[id]
	return ok
}

// Title returns the operator-facing name, or the raw id if unknown.
func (id SubsystemID) Title() string {
	if t, ok := titles[id]; ok {
		return t
	}
	return string(id)
}

// index returns the declaration position of id, or -1.
func (id SubsystemID) index() int {
	for i, s := range subsystems {
		if s == id {
			return i
		}
	}
	return -1
}

// ParseSubsystem converts a user-supplied string into a SubsystemID.
// Hyphens are accepted in place of underscores.
func ParseSubsystem(s string) (SubsystemID, error) {
	id := SubsystemID(normalizeID(s))
	if !id.Valid() {
		return "", unknownSubsystem(s)
	}
	return id, nil
}

func normalizeID(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
