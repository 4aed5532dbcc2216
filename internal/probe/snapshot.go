// Package probe loads raw controller measurements into diag snapshot sets.
package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tonhe/fireline/internal/diag"
)

// Ext is the snapshot file extension.
const Ext = ".toml"

// ErrUnknownKeys is returned when a snapshot file carries keys that map to no
// measurement, which is almost always a typo that would silently read as
// "unknown".
var ErrUnknownKeys = errors.New("unknown snapshot keys")

// LoadSnapshot reads a TOML snapshot file at path. Missing sections stay nil
// and evaluate as unmeasured. The controller name defaults to the file's base
// name and the collection time to the file's modification time.
func LoadSnapshot(path string) (*diag.SnapshotSet, error) {
	var set diag.SnapshotSet
	md, err := toml.DecodeFile(path, &set)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load snapshot %s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if set.Controller == "" {
		set.Controller = Name(path)
	}
	if set.CollectedAt.IsZero() {
		if fi, err := os.Stat(path); err == nil {
			set.CollectedAt = fi.ModTime()
		} else {
			set.CollectedAt = time.Now()
		}
	}
	return &set, nil
}

// SaveSnapshot writes set to a TOML file at path.
func SaveSnapshot(set *diag.SnapshotSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(set)
}

// ListSnapshots returns the paths of all snapshot files in dir, sorted by
// name.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

// Name returns the controller name implied by a snapshot path.
func Name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Sample returns a fully populated snapshot set for a typical wired install
// with Wi-Fi left off. `fireline sample` writes it as a starting point.
func Sample(controller string) *diag.SnapshotSet {
	return &diag.SnapshotSet{
		Controller:  controller,
		CollectedAt: time.Now().UTC().Truncate(time.Second),
		Ethernet: &diag.EthernetSnapshot{
			LinkDetected:    diag.Bool(true),
			Duplex:          diag.DuplexFull,
			Internet:        diag.Online,
			IPv4:            diag.Bool(true),
			RXErrors:        diag.Int(0),
			TXErrors:        diag.Int(0),
			RXDropped:       diag.Int(0),
			Speed:           "1000Mb/s",
			Autonegotiation: diag.Bool(true),
		},
		WiFi: &diag.WiFiSnapshot{
			Powered:       diag.Bool(false),
			Connected:     diag.Bool(false),
			Provisioned:   diag.Bool(false),
			SignalPercent: diag.Int(0),
			Internet:      diag.Offline,
		},
		Cellular: &diag.CellularSnapshot{
			Internet:         diag.Online,
			ModemState:       diag.ModemReady,
			ProviderName:     "Carrier",
			SignalPercent:    diag.Int(72),
			PacketLoss:       diag.Float(0),
			AvgLatencyMillis: diag.Float(85),
		},
		Satellite: &diag.SatelliteSnapshot{
			Enabled: diag.Bool(true),
			State:   diag.SatelliteReady,
		},
		Power:            &diag.PowerSnapshot{Volts: diag.Float(13.4)},
		ManifoldPressure: &diag.ManifoldPressureSnapshot{PressureReading: diag.PressureReading{PSI: diag.Float(62)}},
		SourcePressure:   &diag.SourcePressureSnapshot{PressureReading: diag.PressureReading{PSI: diag.Float(75)}},
		Cloud:            &diag.CloudSnapshot{Reachable: diag.Bool(true), PingMillis: diag.Float(48)},
		Firmware: &diag.FirmwareSnapshot{
			Version:         "4.2.0",
			Supported:       diag.Bool(true),
			UpdateAvailable: diag.Bool(false),
		},
	}
}
