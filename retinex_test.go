package mopix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformGrid(t *testing.T, width, height int, r, g, b float64) *Grid {
	t.Helper()
	grid, err := NewGrid(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(x, y, r, g, b)
		}
	}
	return grid
}

func TestNormalizeIlluminationRejectsBadScales(t *testing.T) {
	g := uniformGrid(t, 2, 2, 100, 100, 100)

	_, err := NormalizeIllumination(g, nil)
	assert.Error(t, err)

	_, err = NormalizeIllumination(g, []float64{})
	assert.Error(t, err)

	_, err = NormalizeIllumination(g, []float64{15, 0})
	assert.Error(t, err)

	_, err = NormalizeIllumination(g, []float64{-3})
	assert.Error(t, err)
}

func TestNormalizeIlluminationUniformInputIsMidGray(t *testing.T) {
	// A constant image has no reflectance range per channel, so every
	// channel falls back to mid-gray regardless of the scale list.
	for _, scales := range [][]float64{{5}, {15, 80}, {15, 80, 250}} {
		g := uniformGrid(t, 4, 3, 37, 200, 0)

		out, err := NormalizeIllumination(g, scales)
		require.NoError(t, err)

		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				r, gr, b := out.At(x, y)
				assert.Equal(t, [3]float64{128, 128, 128}, [3]float64{r, gr, b},
					"scales %v pixel (%d, %d)", scales, x, y)
			}
		}
	}
}

func TestNormalizeIlluminationStretchesTwoToneToFullRange(t *testing.T) {
	g, err := NewGrid(2, 1)
	require.NoError(t, err)
	g.Set(0, 0, 50, 50, 50)
	g.Set(1, 0, 200, 200, 200)

	out, err := NormalizeIllumination(g, []float64{5})
	require.NoError(t, err)

	// Per-channel rescale maps the observed extremes onto 0 and 255, and
	// the log-ratio preserves the dark/bright ordering.
	r0, _, _ := out.At(0, 0)
	r1, _, _ := out.At(1, 0)
	assert.Equal(t, float64(0), r0)
	assert.Equal(t, float64(255), r1)
}

func TestNormalizeIlluminationDoesNotMutateInput(t *testing.T) {
	g := uniformGrid(t, 3, 3, 10, 20, 30)
	before := g.Clone()

	_, err := NormalizeIllumination(g, []float64{15})
	require.NoError(t, err)
	assert.True(t, g.Equal(before))
}

func TestNormalizeIlluminationOutputStaysInRange(t *testing.T) {
	g, err := NewGrid(8, 8)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			g.Set(x, y, float64((x*37+y*11)%256), float64((x*91)%256), float64((y*63)%256))
		}
	}

	out, err := NormalizeIllumination(g, []float64{2, 10})
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, gr, b := out.At(x, y)
			for _, v := range []float64{r, gr, b} {
				assert.GreaterOrEqual(t, v, float64(0))
				assert.LessOrEqual(t, v, float64(255))
				assert.Equal(t, v, float64(int(v)), "values are rounded to whole intensities")
			}
		}
	}
}
