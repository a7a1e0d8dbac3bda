package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaChart_Empty(t *testing.T) {
	assert.Equal(t, "", AreaChart{Width: 10, Height: 4}.Render())
	assert.Equal(t, "", AreaChart{Data: []float64{1}, Height: 4}.Render())
}

func TestAreaChart_Dimensions(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	out := AreaChart{Data: data, Width: 6, Height: 3, Above: "#00ff00", Below: "#ff0000", Line: "#0000ff"}.Render()

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 6, lipgloss.Width(l))
	}
	assert.Equal(t, "█", ansi.Strip(lines[2])[len(ansi.Strip(lines[2]))-len("█"):])
}

func TestAreaChart_OverlayDots(t *testing.T) {
	data := []float64{1, 1, 1, 1}
	overlay := []float64{math.NaN(), 10, 10, 10}
	out := ansi.Strip(AreaChart{Data: data, Overlay: overlay, Width: 4, Height: 2}.Render())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, strings.Count(lines[0], "•"))
	assert.NotContains(t, lines[1], "•")
}

func TestMarkerRow(t *testing.T) {
	assert.Equal(t, "", MarkerRow(0, []int{1}, 10, "#fff"))
	assert.Equal(t, " ▲  ", ansi.Strip(MarkerRow(4, []int{1}, 10, "#fff")))
	assert.Equal(t, "▲   ▲", ansi.Strip(MarkerRow(10, []int{0, 9, 42}, 5, "#fff")))
}

func TestRenderBars(t *testing.T) {
	out := ansi.Strip(RenderBars([]Bar{{Label: "Tech", Value: 4}, {Label: "Energy", Value: 2}}, 24, "#fff"))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Tech   ████████ 4", lines[0])
	assert.Equal(t, "Energy ████ 2", lines[1])
}

func TestDownsample(t *testing.T) {
	assert.Equal(t, []float64{1.5, 3.5}, downsample([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, downsample([]float64{1, 2}, 5))

	out := downsample([]float64{math.NaN(), math.NaN(), 3, 5}, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 4.0, out[1])
}
