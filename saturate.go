package mopix

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// EnhanceSaturation boosts per-pixel chroma while preserving hue. The boost
// is value-adaptive: midtones receive the full strength while shadows and
// highlights are tapered, so boosting never crushes detail at the ends of
// the tonal range by clipping saturation there.
//
// A strength of exactly 1.0 is the identity and returns an untouched copy.
// The result is a new grid; the input is not modified.
func EnhanceSaturation(g *Grid, strength float64) (*Grid, error) {
	if err := g.checkBacking(); err != nil {
		return nil, err
	}
	if strength <= 0 {
		return nil, fmt.Errorf("mopix: EnhanceSaturation: strength %v must be positive", strength)
	}
	if strength == 1 {
		return g.Clone(), nil
	}

	out, err := NewGrid(g.Width, g.Height)
	if err != nil {
		return nil, err
	}

	// Purely pointwise, so rows can be sharded freely.
	err = g.eachRowBlock(func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < g.Width; x++ {
				r, gr, b := g.At(x, y)
				c := colorful.Color{
					R: clamp255(r) / 255,
					G: clamp255(gr) / 255,
					B: clamp255(b) / 255,
				}

				h, s, v := c.Hsv()
				adaptive := strength * (1 - math.Abs(v-0.5)*0.5)
				s *= adaptive
				if s > 1 {
					s = 1
				}

				boosted := colorful.Hsv(h, s, v)
				out.Set(x, y,
					clamp255(boosted.R*255),
					clamp255(boosted.G*255),
					clamp255(boosted.B*255))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
