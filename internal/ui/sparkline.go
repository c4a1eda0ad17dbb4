package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// Blocks maps the most recent width values onto block characters, scaled
// between the window's min and max. A flat window uses the middle level.
func Blocks(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	// Use only the most recent 'width' data points
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		level := numLevels / 2
		if valueRange > 0 {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String()
}

// RenderSparkline draws data in a fixed colour.
func RenderSparkline(data []float64, width int, color lipgloss.Color) string {
	blocks := Blocks(data, width)
	if blocks == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(color).Render(blocks)
}

// RenderPercentSparkline colours a percentage series by its latest value:
//   - 0-60%: green
//   - 60-80%: amber
//   - 80-100%: red
func RenderPercentSparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	return RenderSparkline(data, width, thresholdColor(data[len(data)-1]))
}

func thresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return ColorError
	case percent >= 60:
		return ColorStarting
	default:
		return ColorReady
	}
}
