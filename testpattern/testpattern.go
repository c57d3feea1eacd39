// Package testpattern produces synthetic calibration images: gradients, hue
// sweeps and patch charts with known structure, used to judge how well a
// palette and dither configuration hold up before engraving real
// photographs.
package testpattern

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tmpim/mopix"
)

// LinearGradient blends linearly between two colors, left to right, or top
// to bottom when vertical is set.
func LinearGradient(width, height int, start, end color.RGBA, vertical bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := float64(x) / float64(width)
			if vertical {
				t = float64(y) / float64(height)
			}
			img.SetRGBA(x, y, lerpRGBA(start, end, t))
		}
	}
	return img
}

// HueSweep sweeps hue 0–360 degrees across the width at constant saturation
// and value.
func HueSweep(width, height int, saturation, value float64) *image.RGBA {
	return hsvColumns(width, height, func(t float64) (h, s, v float64) {
		return t * 360, saturation, value
	})
}

// SaturationRamp runs from gray to fully saturated at a fixed hue (degrees).
func SaturationRamp(width, height int, hue, value float64) *image.RGBA {
	return hsvColumns(width, height, func(t float64) (h, s, v float64) {
		return hue, t, value
	})
}

// ValueRamp runs from black to full brightness at a fixed hue and
// saturation.
func ValueRamp(width, height int, hue, saturation float64) *image.RGBA {
	return hsvColumns(width, height, func(t float64) (h, s, v float64) {
		return hue, saturation, t
	})
}

// RadialGradient blends from a center color out to an edge color.
func RadialGradient(width, height int, center, edge color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(cx, cy)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			if t > 1 {
				t = 1
			}
			img.SetRGBA(x, y, lerpRGBA(center, edge, t))
		}
	}
	return img
}

// Checkerboard alternates two colors in cells of the given size. Cells
// smaller than the device can resolve individually show whether dithering
// averages them believably.
func Checkerboard(width, height, cell int, a, b color.RGBA) *image.RGBA {
	if cell < 1 {
		cell = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

// PaletteChart lays the palette out as a grid of solid patches on a dark
// background. Engraving it verifies each device color against its nominal
// value.
func PaletteChart(palette mopix.Palette, patchSize, margin int) *image.RGBA {
	cols := 5
	if len(palette) < cols {
		cols = len(palette)
	}
	rows := (len(palette) + cols - 1) / cols

	width := cols*patchSize + (cols+1)*margin
	height := rows*patchSize + (rows+1)*margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	for i, entry := range palette {
		x0 := margin + (i%cols)*(patchSize+margin)
		y0 := margin + (i/cols)*(patchSize+margin)
		fill := color.RGBA{R: entry.R, G: entry.G, B: entry.B, A: 255}
		for y := y0; y < y0+patchSize; y++ {
			for x := x0; x < x0+patchSize; x++ {
				img.SetRGBA(x, y, fill)
			}
		}
	}

	return img
}

func hsvColumns(width, height int, at func(t float64) (h, s, v float64)) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		h, s, v := at(float64(x) / float64(width))
		c := colorful.Hsv(h, s, v)
		r, g, b := c.Clamped().RGB255()
		col := color.RGBA{R: r, G: g, B: b, A: 255}
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, col)
		}
	}
	return img
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R)*(1-t) + float64(b.R)*t),
		G: uint8(float64(a.G)*(1-t) + float64(b.G)*t),
		B: uint8(float64(a.B)*(1-t) + float64(b.B)*t),
		A: 255,
	}
}
