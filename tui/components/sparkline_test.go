package components

import (
	"math"
	"testing"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		width  int
		want   string
	}{
		{"empty", nil, 4, "    "},
		{"zero width", []float64{50}, 0, ""},
		{"pads left", []float64{100}, 3, "  █"},
		{"steady keeps height", []float64{100, 100, 100}, 3, "███"},
		{"fixed scale", []float64{0, 50, 100}, 3, "▁▅█"},
		{"trims oldest", []float64{0, 0, 0, 0, 100}, 2, "▁█"},
		{"clamps", []float64{-20, 140, math.NaN()}, 3, "▁█▁"},
	}
	for _, tt := range tests {
		if got := Sparkline(tt.scores, tt.width); got != tt.want {
			t.Errorf("%s: Sparkline(%v, %d) = %q, want %q", tt.name, tt.scores, tt.width, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0, "0"},
		{94.44, "94"},
		{100, "100"},
	}
	for _, tt := range tests {
		got := FormatScore(tt.score)
		if got != tt.expected {
			t.Errorf("FormatScore(%f) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}
