package components

import (
	"fmt"
	"math"
	"strings"
)

// chartBlocks are block characters from empty to full. Index 0 is a space,
// index 8 a full block.
var chartBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ScoreMax is the top of the health score scale.
const ScoreMax = 100.0

// RenderChart renders health scores as a block chart on a fixed 0-100
// scale, oldest sample on the left. width and height include the Y-axis
// labels and the title row.
func RenderChart(data []float64, width, height int, title string) string {
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}

	labelWidth := 6 // e.g. " 100 |"
	chartWidth := width - labelWidth
	chartHeight := height - 1

	lines := []string{centerText(title, width)}

	if len(data) > chartWidth {
		data = data[len(data)-chartWidth:]
	}
	padding := strings.Repeat(" ", chartWidth-len(data))

	for row := chartHeight - 1; row >= 0; row-- {
		cellBottom := ScoreMax * float64(row) / float64(chartHeight)
		cellTop := ScoreMax * float64(row+1) / float64(chartHeight)

		label := strings.Repeat(" ", labelWidth-1) + "|"
		if row == chartHeight-1 || row == 0 {
			label = fmt.Sprintf("%4s |", FormatScore(cellTop))
		}

		var sb strings.Builder
		sb.WriteString(label)
		sb.WriteString(padding)
		for _, v := range data {
			v = math.Max(0, math.Min(ScoreMax, v))
			switch {
			case v <= cellBottom:
				sb.WriteRune(chartBlocks[0])
			case v >= cellTop:
				sb.WriteRune(chartBlocks[8])
			default:
				idx := int(math.Round((v - cellBottom) / (cellTop - cellBottom) * 8))
				sb.WriteRune(chartBlocks[idx])
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// centerText centers s within the given width, padding with spaces.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(s)-pad)
}
