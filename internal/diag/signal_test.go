package diag

import (
	"math"
	"strings"
	"testing"
)

func TestSignalBars(t *testing.T) {
	full := strings.Repeat("▰", SignalSegments)
	empty := strings.Repeat("▱", SignalSegments)

	tests := []struct {
		name string
		pct  *float64
		want string
	}{
		{"full", Float(100), full},
		{"zero", Float(0), empty},
		{"nil", nil, empty},
		{"nan", Float(math.NaN()), empty},
		{"inf", Float(math.Inf(1)), empty},
		{"half", Float(50), "▰▰▰▱▱"},
		{"low", Float(9), "▱▱▱▱▱"},
		{"band edge", Float(10), "▰▱▱▱▱"},
		{"seventy", Float(70), "▰▰▰▰▱"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignalBars(tt.pct); got != tt.want {
				t.Errorf("SignalBars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignalBarsClamps(t *testing.T) {
	if got, want := SignalBars(Float(-5)), SignalBars(Float(0)); got != want {
		t.Errorf("SignalBars(-5) = %q, want %q", got, want)
	}
	if got, want := SignalBars(Float(150)), SignalBars(Float(100)); got != want {
		t.Errorf("SignalBars(150) = %q, want %q", got, want)
	}
}

func TestSignalBarCountMonotonic(t *testing.T) {
	prev := 0
	for p := -10.0; p <= 110; p += 0.5 {
		n := SignalBarCount(Float(p))
		if n < prev {
			t.Fatalf("SignalBarCount(%v) = %d, dropped below %d", p, n, prev)
		}
		if n < 0 || n > SignalSegments {
			t.Fatalf("SignalBarCount(%v) = %d out of range", p, n)
		}
		prev = n
	}
}

func TestWiFiChannel(t *testing.T) {
	tests := []struct {
		freq   *int
		want   int
		wantOK bool
		band   string
	}{
		{Int(2412), 1, true, "2.4 GHz"},
		{Int(2437), 6, true, "2.4 GHz"},
		{Int(2462), 11, true, "2.4 GHz"},
		{Int(2484), 15, true, "2.4 GHz"},
		{Int(5180), 36, true, "5 GHz"},
		{Int(5745), 149, true, "5 GHz"},
		{Int(3000), 0, false, ""},
		{Int(2400), 0, false, ""},
		{Int(5950), 0, false, ""},
		{nil, 0, false, ""},
	}
	for _, tt := range tests {
		got, ok := WiFiChannel(tt.freq)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("WiFiChannel(%v) = %d, %v, want %d, %v", fmtInt(tt.freq), got, ok, tt.want, tt.wantOK)
		}
		if band := WiFiBand(tt.freq); band != tt.band {
			t.Errorf("WiFiBand(%v) = %q, want %q", fmtInt(tt.freq), band, tt.band)
		}
	}
}
