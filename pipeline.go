package mopix

import (
	"errors"
	"fmt"
	"image"
)

// Options configures one pipeline invocation. Every stage toggles
// independently; the ditherer always runs, since it is what produces the
// palette-indexed output.
type Options struct {
	// ApplyIlluminationNormalization runs multi-scale Retinex before
	// quantization to flatten uneven lighting.
	ApplyIlluminationNormalization bool

	// IlluminationScales are the Gaussian sigmas used for the Retinex
	// illumination estimates. Small scales preserve detail, large scales
	// correct broad lighting; mixing both is the usual choice.
	IlluminationScales []float64

	// ApplySaturationEnhancement boosts chroma before quantization so
	// palette hues separate more cleanly.
	ApplySaturationEnhancement bool

	// SaturationStrength is the boost factor; 1.0 is the identity.
	SaturationStrength float64

	// DitherKernel selects the error-diffusion kernel:
	// "floyd-steinberg", "atkinson" or "none".
	DitherKernel string
}

// DefaultOptions returns the settings used for reference engravings.
func DefaultOptions() Options {
	return Options{
		ApplyIlluminationNormalization: true,
		IlluminationScales:             []float64{15, 80, 250},
		ApplySaturationEnhancement:     true,
		SaturationStrength:             1.5,
		DitherKernel:                   FloydSteinberg.String(),
	}
}

// validate checks the whole configuration up front so a bad option can never
// surface halfway through an image.
func (o *Options) validate() (Kernel, error) {
	if o.ApplyIlluminationNormalization {
		if len(o.IlluminationScales) == 0 {
			return Kernel{}, errors.New("mopix: Options: at least one illumination scale is required")
		}
		for _, s := range o.IlluminationScales {
			if s <= 0 {
				return Kernel{}, fmt.Errorf("mopix: Options: illumination scale %v must be positive", s)
			}
		}
	}

	if o.ApplySaturationEnhancement && o.SaturationStrength <= 0 {
		return Kernel{}, fmt.Errorf("mopix: Options: saturation strength %v must be positive", o.SaturationStrength)
	}

	return KernelByName(o.DitherKernel)
}

// Result is the outcome of one pipeline invocation.
type Result struct {
	// Raster maps every source pixel to an index into Palette.
	Raster *Raster

	// Quantized is the realized color grid, palette entries broadcast per
	// pixel. Renderers want literal colors; everything else wants Raster.
	Quantized *Grid

	// Palette is the exact palette the indices refer to.
	Palette Palette

	// Report summarizes palette usage and residual error.
	Report *Report
}

// Convert runs the full pipeline over a decoded image: illumination
// normalization, saturation enhancement, then error-diffusion quantization
// against the palette. Both enhancement stages are optional; see Options.
//
// Convert is a pure function of its arguments. It holds no state between
// calls and never mutates the input image or palette.
func Convert(img image.Image, palette Palette, opts Options) (*Result, error) {
	g, err := GridFromImage(img)
	if err != nil {
		return nil, err
	}
	return ConvertGrid(g, palette, opts)
}

// ConvertGrid is Convert for callers that already hold a pixel grid. The
// input grid is not modified.
func ConvertGrid(g *Grid, palette Palette, opts Options) (*Result, error) {
	kernel, err := opts.validate()
	if err != nil {
		return nil, err
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	if err := g.checkBacking(); err != nil {
		return nil, err
	}

	if opts.ApplyIlluminationNormalization {
		g, err = NormalizeIllumination(g, opts.IlluminationScales)
		if err != nil {
			return nil, err
		}
	}

	if opts.ApplySaturationEnhancement {
		g, err = EnhanceSaturation(g, opts.SaturationStrength)
		if err != nil {
			return nil, err
		}
	}

	raster, quantized, err := Dither(g, palette, kernel)
	if err != nil {
		return nil, err
	}

	return &Result{
		Raster:    raster,
		Quantized: quantized,
		Palette:   palette,
		Report:    Analyze(g, quantized, raster, palette),
	}, nil
}
