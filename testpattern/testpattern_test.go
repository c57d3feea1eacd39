package testpattern

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmpim/mopix"
)

func TestLinearGradientEndpoints(t *testing.T) {
	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	img := LinearGradient(256, 8, black, white, false)
	require.Equal(t, 256, img.Bounds().Dx())

	assert.Equal(t, black, img.RGBAAt(0, 0))
	last := img.RGBAAt(255, 0)
	assert.Greater(t, int(last.R), 250)

	vertical := LinearGradient(8, 256, black, white, true)
	assert.Equal(t, black, vertical.RGBAAt(0, 0))
	assert.Greater(t, int(vertical.RGBAAt(0, 255).R), 250)
}

func TestHueSweepStartsRed(t *testing.T) {
	img := HueSweep(360, 4, 1, 1)
	c := img.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0), c.B)

	// A third of the way through the sweep is pure green.
	c = img.RGBAAt(120, 0)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.G)
}

func TestSaturationRampStartsGray(t *testing.T) {
	img := SaturationRamp(128, 4, 0, 1)
	c := img.RGBAAt(0, 0)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)

	// Far end approaches full red saturation.
	c = img.RGBAAt(127, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Less(t, int(c.G), 10)
}

func TestValueRampStartsBlack(t *testing.T) {
	img := ValueRamp(128, 4, 0, 1)
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
	assert.Greater(t, int(img.RGBAAt(127, 0).R), 245)
}

func TestCheckerboardAlternates(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	img := Checkerboard(8, 8, 2, red, blue)
	assert.Equal(t, red, img.RGBAAt(0, 0))
	assert.Equal(t, red, img.RGBAAt(1, 1))
	assert.Equal(t, blue, img.RGBAAt(2, 0))
	assert.Equal(t, blue, img.RGBAAt(0, 2))
	assert.Equal(t, red, img.RGBAAt(2, 2))
}

func TestPaletteChartContainsEveryEntry(t *testing.T) {
	palette := mopix.DefaultPalette()
	img := PaletteChart(palette, 20, 4)

	seen := make(map[color.RGBA]bool)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			seen[img.RGBAAt(x, y)] = true
		}
	}

	for _, entry := range palette {
		assert.True(t, seen[color.RGBA{R: entry.R, G: entry.G, B: entry.B, A: 255}],
			"entry %q missing from chart", entry.Name)
	}
}
