// Package theme holds the terminal color palette and shared styles.
package theme

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/format"
)

// Theme is the semantic color palette for the whole dashboard.
type Theme struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Gain    lipgloss.Color
	Loss    lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

// Default is a dark palette with emerald gains and red losses.
var Default = Theme{
	Base:    lipgloss.Color("#18181B"),
	Surface: lipgloss.Color("#232329"),
	Overlay: lipgloss.Color("#2E2E36"),
	Border:  lipgloss.Color("#3F3F46"),
	Muted:   lipgloss.Color("#8B8B96"),
	Text:    lipgloss.Color("#E4E4E7"),
	Subtext: lipgloss.Color("#B4B4BD"),
	Primary: lipgloss.Color("#10B981"),
	Accent:  lipgloss.Color("#38BDF8"),
	Gain:    lipgloss.Color("#10B981"),
	Loss:    lipgloss.Color("#EF4444"),
	Warning: lipgloss.Color("#F59E0B"),
	Info:    lipgloss.Color("#06B6D4"),
}

// ToneColor maps a value's tone to its color.
func (t Theme) ToneColor(tone format.Tone) lipgloss.Color {
	switch tone {
	case format.Positive:
		return t.Gain
	case format.Negative:
		return t.Loss
	default:
		return t.Muted
	}
}

// Percent renders a signed percentage in its tone color.
func (t Theme) Percent(v float64) string {
	return lipgloss.NewStyle().Foreground(t.ToneColor(format.PercentTone(v))).Render(format.Percent(v))
}

func (t Theme) MutedText(s string) string {
	return lipgloss.NewStyle().Foreground(t.Muted).Render(s)
}

func (t Theme) ErrorText(s string) string {
	return lipgloss.NewStyle().Foreground(t.Loss).Render(s)
}

func (t Theme) SuccessText(s string) string {
	return lipgloss.NewStyle().Foreground(t.Gain).Render(s)
}

func (t Theme) Title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text).Render(s)
}

// Card frames content with a rounded border and a small heading.
func (t Theme) Card(title, body string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width - 2)
	}
	heading := lipgloss.NewStyle().Foreground(t.Subtext).Bold(true).Render(title)
	return style.Render(heading + "\n" + body)
}

// Badge renders a short inline label.
func (t Theme) Badge(s string, fg, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1).Render(s)
}

// GradientText applies a horizontal color gradient across each line of text.
func GradientText(text string, from, to lipgloss.Color) string {
	fr, fg, fb := hexToRGB(string(from))
	tr, tg, tb := hexToRGB(string(to))

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		runes := []rune(line)
		n := len(runes)
		if n == 0 {
			result = append(result, "")
			continue
		}

		var sb strings.Builder
		for i, r := range runes {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			cr := uint8(math.Round(float64(fr) + t*float64(int(tr)-int(fr))))
			cg := uint8(math.Round(float64(fg) + t*float64(int(tg)-int(fg))))
			cb := uint8(math.Round(float64(fb) + t*float64(int(tb)-int(fb))))

			color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb))
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
		}
		result = append(result, sb.String())
	}
	return strings.Join(result, "\n")
}

func hexToRGB(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
