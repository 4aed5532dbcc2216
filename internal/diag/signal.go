package diag

import (
	"math"
	"strings"
)

// SignalSegments is the number of segments in a signal-bars glyph.
const SignalSegments = 5

const (
	segmentFilled = '▰'
	segmentEmpty  = '▱'
)

// SignalBarCount maps a 0-100 percentage to the number of filled segments.
// nil and non-finite input map to zero; other values are clamped to [0,100]
// and rounded to the nearest of five equal bands.
func SignalBarCount(pct *float64) int {
	if pct == nil || math.IsNaN(*pct) || math.IsInf(*pct, 0) {
		return 0
	}
	v := math.Max(0, math.Min(100, *pct))
	return int(math.Round(v / (100.0 / SignalSegments)))
}

// SignalBars renders a percentage as a five segment filled/empty glyph.
func SignalBars(pct *float64) string {
	n := SignalBarCount(pct)
	return strings.Repeat(string(segmentFilled), n) +
		strings.Repeat(string(segmentEmpty), SignalSegments-n)
}

// percent converts an optional integer percentage for SignalBars.
func percent(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

// Wi-Fi band edges in MHz, inclusive.
const (
	band24Low  = 2412
	band24High = 2484
	band5Low   = 5000
	band5High  = 5900
)

// WiFiChannel derives the channel number from a frequency in MHz. The
// second result is false for nil input or frequencies outside the 2.4 GHz
// and 5 GHz bands; there is no channel zero.
func WiFiChannel(freqMHz *int) (int, bool) {
	if freqMHz == nil {
		return 0, false
	}
	f := *freqMHz
	switch {
	case f >= band24Low && f <= band24High:
		return int(math.Round(float64(f-2407) / 5)), true
	case f >= band5Low && f <= band5High:
		return int(math.Round(float64(f-5000) / 5)), true
	}
	return 0, false
}

// WiFiBand names the band for a frequency, or "" when it has no channel.
func WiFiBand(freqMHz *int) string {
	if _, ok := WiFiChannel(freqMHz); !ok {
		return ""
	}
	if *freqMHz <= band24High {
		return "2.4 GHz"
	}
	return "5 GHz"
}
