package components

import (
	"fmt"
	"math"
	"strings"
)

// Sparkline renders the last width health scores, right aligned. Scores
// use the fixed 0-100 scale so a steady result keeps its height; even a
// zero score draws the lowest block so failed runs stay visible.
func Sparkline(scores []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(scores) > width {
		scores = scores[len(scores)-width:]
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(scores)))
	for _, s := range scores {
		sb.WriteRune(chartBlocks[sparkLevel(s)])
	}
	return sb.String()
}

// sparkLevel maps a score to chartBlocks indexes 1 through 8.
func sparkLevel(score float64) int {
	if math.IsNaN(score) {
		return 1
	}
	v := math.Max(0, math.Min(ScoreMax, score))
	return 1 + int(math.Round(v/ScoreMax*7))
}

// FormatScore renders a 0-100 health score.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.0f", score)
}
