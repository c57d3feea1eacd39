package mopix

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Grid is a dense row-major RGB pixel grid. Channel values are float64 so
// that intermediate stages can carry unclamped values; error diffusion
// legitimately pushes channels outside [0, 255].
type Grid struct {
	Width  int
	Height int

	// pix holds 3 channel values per pixel, row-major.
	pix []float64
}

// NewGrid returns a zeroed grid of the given dimensions.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mopix: NewGrid: invalid dimensions %dx%d", width, height)
	}

	return &Grid{
		Width:  width,
		Height: height,
		pix:    make([]float64, width*height*3),
	}, nil
}

// GridFromImage decodes an image into a grid with channel values in [0, 255].
func GridFromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	g, err := NewGrid(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			g.Set(x-bounds.Min.X, y-bounds.Min.Y,
				float64(r>>8), float64(gr>>8), float64(b>>8))
		}
	}

	return g, nil
}

// At returns the channel triple at (x, y).
func (g *Grid) At(x, y int) (r, gr, b float64) {
	i := (y*g.Width + x) * 3
	return g.pix[i], g.pix[i+1], g.pix[i+2]
}

// Set stores the channel triple at (x, y).
func (g *Grid) Set(x, y int, r, gr, b float64) {
	i := (y*g.Width + x) * 3
	g.pix[i] = r
	g.pix[i+1] = gr
	g.pix[i+2] = b
}

// Add accumulates a channel triple into (x, y).
func (g *Grid) Add(x, y int, r, gr, b float64) {
	i := (y*g.Width + x) * 3
	g.pix[i] += r
	g.pix[i+1] += gr
	g.pix[i+2] += b
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	dup := &Grid{
		Width:  g.Width,
		Height: g.Height,
		pix:    make([]float64, len(g.pix)),
	}
	copy(dup.pix, g.pix)
	return dup
}

// Equal reports whether two grids have identical dimensions and values.
func (g *Grid) Equal(other *Grid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// checkBacking verifies that the declared dimensions agree with the backing
// storage. A mismatch is an integration bug, not a recoverable condition.
func (g *Grid) checkBacking() error {
	if g.Width <= 0 || g.Height <= 0 || len(g.pix) != g.Width*g.Height*3 {
		return fmt.Errorf("mopix: grid dimensions %dx%d disagree with backing storage of %d values",
			g.Width, g.Height, len(g.pix))
	}
	return nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ToImage renders the grid into an 8-bit RGBA image, clamping and rounding
// each channel. Only the final stage should do this; rounding intermediates
// discards the signal that error diffusion depends on.
func (g *Grid) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			r, gr, b := g.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(clamp255(r))),
				G: uint8(math.Round(clamp255(gr))),
				B: uint8(math.Round(clamp255(b))),
				A: 255,
			})
		}
	}
	return img
}

// eachRowBlock splits the grid's rows into contiguous blocks and runs fn for
// each block on its own goroutine. fn must only write rows in [y0, y1).
func (g *Grid) eachRowBlock(fn func(y0, y1 int) error) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > g.Height {
		workers = g.Height
	}

	var group errgroup.Group
	rowsPer := (g.Height + workers - 1) / workers
	for y0 := 0; y0 < g.Height; y0 += rowsPer {
		y0, y1 := y0, y0+rowsPer
		if y1 > g.Height {
			y1 = g.Height
		}
		group.Go(func() error {
			return fn(y0, y1)
		})
	}

	return group.Wait()
}
