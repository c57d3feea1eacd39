package mopix

import (
	"errors"
	"fmt"
	"image/color"
)

// Perceptual channel weights for palette distance. Human vision is most
// sensitive to green differences, so mismatches there cost the most.
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// ErrEmptyPalette is returned when a pipeline stage is given no colors to
// quantize against.
var ErrEmptyPalette = errors.New("mopix: palette must not be empty")

// Entry is a single named device color.
type Entry struct {
	Name string
	R    uint8
	G    uint8
	B    uint8
}

// RGBA implements color.Color.
func (e Entry) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: e.R, G: e.G, B: e.B, A: 255}.RGBA()
}

// Hex returns the entry as an uppercase #RRGGBB string.
func (e Entry) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", e.R, e.G, e.B)
}

// Palette is the ordered set of colors the output device can physically
// reproduce. Order is load-bearing: it defines the indices recorded in the
// output raster, so callers must treat a palette as immutable once used.
type Palette []Entry

// Validate reports whether the palette can be quantized against.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	return nil
}

// Resolve returns the index of the entry nearest to the given channel triple
// under the weighted Euclidean metric. Inputs may lie outside [0, 255];
// diffused error routinely overshoots. Distance ties resolve to the lowest
// index regardless of palette ordering.
func (p Palette) Resolve(r, g, b float64) int {
	best := 0
	bestDist := p.distance(0, r, g, b)
	for i := 1; i < len(p); i++ {
		if d := p.distance(i, r, g, b); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// distance is the squared weighted distance from a probe color to entry i.
// The square root is monotonic, so it is skipped for comparison.
func (p Palette) distance(i int, r, g, b float64) float64 {
	dr := r - float64(p[i].R)
	dg := g - float64(p[i].G)
	db := b - float64(p[i].B)
	return weightR*dr*dr + weightG*dg*dg + weightB*db*db
}

// Colors returns the palette as a color.Palette for use with the standard
// image packages.
func (p Palette) Colors() color.Palette {
	out := make(color.Palette, len(p))
	for i, e := range p {
		out[i] = color.RGBA{R: e.R, G: e.G, B: e.B, A: 255}
	}
	return out
}

// DefaultPalette is the color set reachable with the reference MOPA marking
// parameters on stainless. Callers with calibrated parameter sets should
// supply their own.
func DefaultPalette() Palette {
	return Palette{
		{Name: "Black", R: 0, G: 0, B: 0},
		{Name: "White", R: 180, G: 180, B: 180},
		{Name: "Gray", R: 128, G: 128, B: 128},
		{Name: "Purple", R: 128, G: 0, B: 128},
		{Name: "Blue", R: 0, G: 0, B: 255},
		{Name: "Green", R: 0, G: 224, B: 0},
		{Name: "Yellow", R: 208, G: 208, B: 0},
		{Name: "Orange", R: 255, G: 128, B: 0},
		{Name: "Red", R: 255, G: 0, B: 0},
		{Name: "Brown", R: 139, G: 69, B: 19},
	}
}
