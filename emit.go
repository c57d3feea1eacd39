package mopix

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
)

// Stroke width for the square outlines, in millimeters. The stroke is drawn
// in the fill color; it exists to close hairline gaps between adjacent
// squares in renderers that antialias edges.
const svgStrokeWidthMM = 0.01

// WriteSVG renders the raster as engraving geometry: one filled square per
// pixel, squareMM millimeters on a side, colored with the pixel's palette
// entry. The palette must be the one the raster was quantized against.
func WriteSVG(w io.Writer, raster *Raster, palette Palette, squareMM float64) error {
	if err := palette.Validate(); err != nil {
		return err
	}
	if squareMM <= 0 {
		return fmt.Errorf("mopix: WriteSVG: square size %vmm must be positive", squareMM)
	}

	widthMM := float64(raster.Width) * squareMM
	heightMM := float64(raster.Height) * squareMM

	wr := bufio.NewWriter(w)

	fmt.Fprintf(wr,
		`<svg width="%[1]vmm" height="%[2]vmm" viewBox="0 0 %[1]v %[2]v" xmlns="http://www.w3.org/2000/svg">`+"\n",
		widthMM, heightMM)

	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			index := raster.At(x, y)
			if index >= len(palette) {
				return fmt.Errorf("mopix: WriteSVG: raster index %d at (%d, %d) outside palette of %d entries",
					index, x, y, len(palette))
			}
			hex := palette[index].Hex()

			fmt.Fprintf(wr,
				`<rect x="%.4f" y="%.4f" width="%.4f" height="%.4f" fill="%s" stroke="%s" stroke-width="%.4f" />`+"\n",
				float64(x)*squareMM, float64(y)*squareMM,
				squareMM, squareMM, hex, hex, svgStrokeWidthMM)
		}
	}

	if _, err := wr.WriteString("</svg>\n"); err != nil {
		return err
	}

	return wr.Flush()
}

// WritePreview encodes the quantized color grid as a PNG, for checking
// results on screen before committing material to the laser.
func WritePreview(w io.Writer, quantized *Grid) error {
	if err := quantized.checkBacking(); err != nil {
		return err
	}
	return png.Encode(w, quantized.ToImage())
}
