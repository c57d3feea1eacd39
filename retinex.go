package mopix

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
)

// NormalizeIllumination applies multi-scale Retinex to the grid: for each
// scale a Gaussian blur estimates the illumination field, and the log ratio
// of pixel to illumination recovers reflectance. The log-reflectance is
// averaged across scales and rescaled per channel to [0, 255], which
// equalizes uneven lighting and lifts local contrast before quantization.
//
// Channel values are expected in [0, 255]. The result is a new grid; the
// input is not modified.
func NormalizeIllumination(g *Grid, scales []float64) (*Grid, error) {
	if err := g.checkBacking(); err != nil {
		return nil, err
	}
	if len(scales) == 0 {
		return nil, errors.New("mopix: NormalizeIllumination: at least one scale is required")
	}
	for _, s := range scales {
		if s <= 0 {
			return nil, fmt.Errorf("mopix: NormalizeIllumination: scale %v must be positive", s)
		}
	}

	src := g.toRGBA64()
	acc := make([]float64, len(g.pix))

	for _, sigma := range scales {
		blurred := image.NewRGBA64(src.Bounds())
		gift.GaussianBlur(float32(sigma)).Draw(blurred, src, &gift.Options{
			Parallelization: true,
		})

		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				px := blurred.RGBA64At(x, y)
				i := (y*g.Width + x) * 3

				// The +1 offsets keep log10 defined at black. The
				// illumination estimate gets a second +1 because the
				// blur runs over the already offset signal.
				acc[i] += math.Log10(g.pix[i]+1) - math.Log10(float64(px.R)/257+2)
				acc[i+1] += math.Log10(g.pix[i+1]+1) - math.Log10(float64(px.G)/257+2)
				acc[i+2] += math.Log10(g.pix[i+2]+1) - math.Log10(float64(px.B)/257+2)
			}
		}
	}

	n := float64(len(scales))
	out, err := NewGrid(g.Width, g.Height)
	if err != nil {
		return nil, err
	}

	// Rescale each channel's observed reflectance range to [0, 255]. A
	// constant channel has no range to stretch; it becomes mid-gray.
	for c := 0; c < 3; c++ {
		min, max := math.Inf(1), math.Inf(-1)
		for i := c; i < len(acc); i += 3 {
			v := acc[i] / n
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		for i := c; i < len(acc); i += 3 {
			if max > min {
				v := 255 * (acc[i]/n - min) / (max - min)
				out.pix[i] = math.Round(clamp255(v))
			} else {
				out.pix[i] = 128
			}
		}
	}

	return out, nil
}

// toRGBA64 stages the grid into a 16-bit image for filtering. Values are
// clamped to [0, 255] first; the staging image cannot carry overshoot.
func (g *Grid) toRGBA64() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			r, gr, b := g.At(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(math.Round(clamp255(r) * 257)),
				G: uint16(math.Round(clamp255(gr) * 257)),
				B: uint16(math.Round(clamp255(b) * 257)),
				A: 65535,
			})
		}
	}
	return img
}
