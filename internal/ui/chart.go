package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
)

// Block elements for sub-character vertical resolution (1/8 to 8/8).
var blockChars = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// AreaChart describes one price series to plot.
type AreaChart struct {
	Data []float64
	// Overlay is drawn as dots over the area; NaN points are skipped.
	Overlay []float64
	// Baseline splits the fill color: above uses Above, below uses Below.
	Baseline float64
	Width    int
	Height   int
	Above    lipgloss.Color
	Below    lipgloss.Color
	Line     lipgloss.Color
}

// Render draws a filled area chart using Unicode block elements.
func (c AreaChart) Render() string {
	if len(c.Data) == 0 || c.Width <= 0 || c.Height <= 0 {
		return ""
	}

	cols := downsample(c.Data, c.Width)
	var over []float64
	if len(c.Overlay) == len(c.Data) {
		over = downsample(c.Overlay, c.Width)
	}

	minVal, maxVal := floats.Min(cols), floats.Max(cols)
	for _, v := range over {
		if math.IsNaN(v) {
			continue
		}
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	totalLevels := c.Height * 8
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
	}
	level := func(v float64) int {
		s := int((v-minVal)/valRange*float64(totalLevels-1)) + 1
		if s > totalLevels {
			s = totalLevels
		}
		return s
	}

	scaled := make([]int, len(cols))
	for i, v := range cols {
		scaled[i] = level(v)
	}
	overRow := make([]int, len(cols))
	for i := range overRow {
		overRow[i] = -1
		if i < len(over) && !math.IsNaN(over[i]) {
			overRow[i] = c.Height - 1 - (level(over[i])-1)/8
		}
	}

	dot := lipgloss.NewStyle().Foreground(c.Line)
	rows := make([]string, c.Height)
	for row := 0; row < c.Height; row++ {
		rowBottom := (c.Height - 1 - row) * 8

		var sb strings.Builder
		for col := 0; col < len(scaled); col++ {
			if overRow[col] == row {
				sb.WriteString(dot.Render("•"))
				continue
			}
			fill := scaled[col] - rowBottom
			if fill <= 0 {
				sb.WriteRune(' ')
				continue
			}
			if fill > 8 {
				fill = 8
			}

			color := c.Above
			if cols[col] < c.Baseline {
				color = c.Below
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(blockChars[fill])))
		}
		rows[row] = sb.String()
	}

	return strings.Join(rows, "\n")
}

// MarkerRow places a marker under every column that contains a marked index.
func MarkerRow(total int, marked []int, width int, color lipgloss.Color) string {
	if total == 0 || width <= 0 || len(marked) == 0 {
		return ""
	}
	n := total
	if n > width {
		n = width
	}
	row := []rune(strings.Repeat(" ", n))
	for _, idx := range marked {
		if idx < 0 || idx >= total {
			continue
		}
		col := idx
		if total > width {
			col = int(float64(idx) * float64(width) / float64(total))
		}
		if col >= n {
			col = n - 1
		}
		row[col] = '▲'
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(row))
}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// RenderBars draws horizontal bars scaled to the largest value.
func RenderBars(bars []Bar, width int, color lipgloss.Color) string {
	if len(bars) == 0 {
		return ""
	}

	labelWidth := 0
	values := make([]float64, len(bars))
	for i, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		values[i] = b.Value
	}
	maxVal := floats.Max(values)

	barWidth := width - labelWidth - 10
	if barWidth < 1 {
		barWidth = 1
	}

	label := lipgloss.NewStyle().Width(labelWidth)
	fill := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, len(bars))
	for i, b := range bars {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(b.Value / maxVal * float64(barWidth)))
		}
		lines[i] = fmt.Sprintf("%s %s %s", label.Render(b.Label), fill.Render(strings.Repeat("█", n)), formatCount(b.Value))
	}
	return strings.Join(lines, "\n")
}

func formatCount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// downsample reduces data to n points by averaging buckets. NaN points are
// ignored; a bucket of only NaN stays NaN.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, n)
	bucketSize := float64(len(data)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		sum, count := 0.0, 0
		for j := start; j < end; j++ {
			if math.IsNaN(data[j]) {
				continue
			}
			sum += data[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}
