package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/surgedash/internal/format"
)

func TestToneColor(t *testing.T) {
	assert.Equal(t, Default.Gain, Default.ToneColor(format.Positive))
	assert.Equal(t, Default.Loss, Default.ToneColor(format.Negative))
	assert.Equal(t, Default.Muted, Default.ToneColor(format.Neutral))
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#10B981")
	assert.Equal(t, []uint8{0x10, 0xB9, 0x81}, []uint8{r, g, b})

	r, g, b = hexToRGB("bad")
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
}

func TestGradientText_KeepsLines(t *testing.T) {
	out := GradientText("ab\n\ncd", Default.Primary, Default.Accent)
	assert.Len(t, strings.Split(out, "\n"), 3)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "d")
}
