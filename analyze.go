package mopix

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ColorUsage is how often one palette entry appears in a quantized result.
type ColorUsage struct {
	Index    int
	Name     string
	Count    int
	Fraction float64
}

// Report summarizes one quantization run: which device colors the output
// actually uses, and how far the realized colors sit from the pre-dither
// source under the resolver's perceptual metric.
type Report struct {
	Width  int
	Height int

	Usage []ColorUsage

	// MeanError and StdDevError describe the per-pixel weighted distance
	// between the ditherer's input and the realized palette colors. Note
	// this is pointwise residual, not perceived error; dithering trades
	// pointwise residual for spatial accuracy on purpose.
	MeanError   float64
	StdDevError float64
}

// Analyze builds a report from a ditherer input grid and its quantized
// output.
func Analyze(input, quantized *Grid, raster *Raster, palette Palette) *Report {
	report := &Report{
		Width:  raster.Width,
		Height: raster.Height,
		Usage:  make([]ColorUsage, len(palette)),
	}

	for i, entry := range palette {
		report.Usage[i] = ColorUsage{Index: i, Name: entry.Name}
	}

	total := raster.Width * raster.Height
	residuals := make([]float64, 0, total)

	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			report.Usage[raster.At(x, y)].Count++

			r, g, b := input.At(x, y)
			qr, qg, qb := quantized.At(x, y)
			dr, dg, db := r-qr, g-qg, b-qb
			residuals = append(residuals,
				math.Sqrt(weightR*dr*dr+weightG*dg*dg+weightB*db*db))
		}
	}

	for i := range report.Usage {
		report.Usage[i].Fraction = float64(report.Usage[i].Count) / float64(total)
	}

	report.MeanError, report.StdDevError = stat.MeanStdDev(residuals, nil)

	return report
}

// Summary renders the report as a human-readable block for the CLI.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d pixels, residual error %.2f ± %.2f\n",
		r.Width, r.Height, r.MeanError, r.StdDevError)
	for _, u := range r.Usage {
		fmt.Fprintf(&b, "  %2d %-8s %8d (%5.1f%%)\n",
			u.Index, u.Name, u.Count, u.Fraction*100)
	}
	return b.String()
}
