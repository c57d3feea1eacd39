package mopix

import (
	"fmt"
)

// Raster is a palette-indexed image: one palette index per source pixel.
// Every cell always holds a valid index into the palette it was produced
// against.
type Raster struct {
	Width  int
	Height int

	idx []int
}

func newRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		idx:    make([]int, width*height),
	}
}

// At returns the palette index at (x, y).
func (r *Raster) At(x, y int) int {
	return r.idx[y*r.Width+x]
}

func (r *Raster) set(x, y, index int) {
	r.idx[y*r.Width+x] = index
}

// tap is a single error-diffusion target, offset relative to the pixel being
// quantized. Offsets must only reach forward in the scan: dy > 0, or dy == 0
// and dx > 0.
type tap struct {
	dx     int
	dy     int
	weight float64
}

// Kernel describes how a pixel's quantization error spreads into pixels the
// scan has not yet visited. The zero Kernel diffuses nothing.
type Kernel struct {
	name string
	taps []tap
}

var (
	// FloydSteinberg diffuses the entire error across four forward
	// neighbors. Best color-mixing range, visibly noisier.
	FloydSteinberg = Kernel{
		name: "floyd-steinberg",
		taps: []tap{
			{1, 0, 7.0 / 16},
			{-1, 1, 3.0 / 16},
			{0, 1, 5.0 / 16},
			{1, 1, 1.0 / 16},
		},
	}

	// Atkinson diffuses only 6/8 of the error, discarding the rest. The
	// loss biases each region toward its own quantized color, which reads
	// as sharper output at the cost of mixing range.
	Atkinson = Kernel{
		name: "atkinson",
		taps: []tap{
			{1, 0, 1.0 / 8},
			{2, 0, 1.0 / 8},
			{-1, 1, 1.0 / 8},
			{0, 1, 1.0 / 8},
			{1, 1, 1.0 / 8},
			{0, 2, 1.0 / 8},
		},
	}

	// None quantizes every pixel independently with no diffusion. This is
	// the non-dithered baseline; it shares the same scan and resolver as
	// the diffusing kernels rather than being a separate code path.
	None = Kernel{name: "none"}
)

// KernelByName maps a configuration selector to its kernel.
func KernelByName(name string) (Kernel, error) {
	switch name {
	case FloydSteinberg.name:
		return FloydSteinberg, nil
	case Atkinson.name:
		return Atkinson, nil
	case None.name:
		return None, nil
	}
	return Kernel{}, fmt.Errorf(`mopix: unknown dither kernel %q (want "floyd-steinberg", "atkinson" or "none")`, name)
}

func (k Kernel) String() string {
	return k.name
}

// DiffusedFraction returns the fraction of quantization error the kernel
// carries forward; the remainder is discarded.
func (k Kernel) DiffusedFraction() float64 {
	total := 0.0
	for _, t := range k.taps {
		total += t.weight
	}
	return total
}

// Dither quantizes the grid against the palette, diffusing each pixel's
// quantization error into unvisited neighbors per the kernel. It returns the
// palette-indexed raster alongside the realized color grid.
//
// The scan is strict row-major, top-to-bottom then left-to-right, and every
// kernel tap points strictly forward in that order; the pair is what makes
// error diffusion converge, so the scan lives here and is not a caller
// concern. Diffusion targets falling outside the grid are skipped, which
// loses a sliver of error along the bottom and right edges.
//
// The input grid is never written to; diffusion happens in a private working
// copy.
func Dither(g *Grid, palette Palette, kernel Kernel) (*Raster, *Grid, error) {
	if err := g.checkBacking(); err != nil {
		return nil, nil, err
	}
	if err := palette.Validate(); err != nil {
		return nil, nil, err
	}

	working := g.Clone()
	raster := newRaster(g.Width, g.Height)
	quantized, err := NewGrid(g.Width, g.Height)
	if err != nil {
		return nil, nil, err
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			oldR, oldG, oldB := working.At(x, y)

			index := palette.Resolve(oldR, oldG, oldB)
			entry := palette[index]

			raster.set(x, y, index)
			quantized.Set(x, y, float64(entry.R), float64(entry.G), float64(entry.B))

			errR := oldR - float64(entry.R)
			errG := oldG - float64(entry.G)
			errB := oldB - float64(entry.B)

			for _, t := range kernel.taps {
				tx, ty := x+t.dx, y+t.dy
				if tx < 0 || tx >= g.Width || ty >= g.Height {
					continue
				}
				working.Add(tx, ty, errR*t.weight, errG*t.weight, errB*t.weight)
			}
		}
	}

	return raster, quantized, nil
}
