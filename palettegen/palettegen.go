// Package palettegen derives candidate device palettes from sample
// photographs. It is calibration tooling: when a new set of laser marking
// parameters is being dialed in, it suggests which colors are worth
// calibrating for a given class of input imagery. The conversion pipeline
// itself always quantizes against a fixed, caller-supplied palette.
package palettegen

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/ericpauley/go-quantize/quantize"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/tmpim/mopix"
)

// Method selects the palette derivation algorithm.
type Method int

const (
	// MethodMedianCut recursively splits the color space along its widest
	// axis. Fast, deterministic, tends to preserve outlier colors.
	MethodMedianCut Method = iota

	// MethodKMeans clusters sampled pixels in Lab space. Slower, usually
	// the most balanced palettes.
	MethodKMeans

	// MethodDominant ranks colors by weighted prominence and greedily
	// keeps the most mutually distinct ones.
	MethodDominant
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	default:
		return "mediancut"
	}
}

// MethodByName maps a CLI selector to its method.
func MethodByName(name string) (Method, error) {
	switch name {
	case "mediancut":
		return MethodMedianCut, nil
	case "kmeans":
		return MethodKMeans, nil
	case "dominant":
		return MethodDominant, nil
	}
	return 0, fmt.Errorf(`palettegen: unknown method %q (want "mediancut", "kmeans" or "dominant")`, name)
}

// Derive proposes a k-color palette for the image using the given method.
// Entries are named by position and sorted darkest first, matching the
// convention that entry 0 is the background color.
func Derive(img image.Image, k int, method Method) (mopix.Palette, error) {
	if k <= 0 || k > 16 {
		return nil, fmt.Errorf("palettegen: palette size %d must be in [1, 16]", k)
	}

	var (
		cols []color.RGBA
		err  error
	)

	switch method {
	case MethodMedianCut:
		cols = medianCut(img, k)
	case MethodKMeans:
		cols, err = kMeans(img, k)
	case MethodDominant:
		cols = dominant(img, k)
	default:
		return nil, fmt.Errorf("palettegen: unknown method %d", method)
	}
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("palettegen: %s produced no colors", method)
	}

	sortByBrightness(cols)

	palette := make(mopix.Palette, len(cols))
	for i, c := range cols {
		palette[i] = mopix.Entry{
			Name: fmt.Sprintf("color-%d", i),
			R:    c.R,
			G:    c.G,
			B:    c.B,
		}
	}

	return palette, nil
}

func medianCut(img image.Image, k int) []color.RGBA {
	q := quantize.MedianCutQuantizer{}
	var out []color.RGBA
	for _, c := range q.Quantize(make(color.Palette, 0, k), img) {
		r, g, b, _ := c.RGBA()
		out = append(out, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
	}
	return out
}

// maxSamples bounds the k-means observation count; clustering cost grows
// with pixel count but palette quality stops improving long before that.
const maxSamples = 8192

func kMeans(img image.Image, k int) ([]color.RGBA, error) {
	obs := sampleLab(img)
	if len(obs) == 0 {
		return nil, fmt.Errorf("palettegen: image has no pixels to sample")
	}
	if k > len(obs) {
		k = len(obs)
	}

	km := kmeans.New()
	cs, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("palettegen: kmeans: %w", err)
	}

	out := make([]color.RGBA, 0, len(cs))
	for _, c := range cs {
		center := c.Center
		col := colorful.Lab(center[0], center[1], center[2]).Clamped()
		r, g, b := col.RGB255()
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out, nil
}

func sampleLab(img image.Image) clusters.Observations {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total <= 0 {
		return nil
	}

	step := 1
	for total/(step*step) > maxSamples {
		step++
	}

	var obs clusters.Observations
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, _ := colorful.MakeColor(img.At(x, y))
			l, a, b := c.Lab()
			obs = append(obs, clusters.Coordinates{l, a, b})
		}
	}
	return obs
}

// minLabDistance is the Lab distance under which two dominant-color
// candidates are considered the same engraving color.
const minLabDistance = 0.08

func dominant(img image.Image, k int) []color.RGBA {
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Weight > candidates[j].Weight
	})

	var kept []colorful.Color
	var out []color.RGBA
	for _, cand := range candidates {
		if len(out) == k {
			break
		}
		col, _ := colorful.MakeColor(cand.RGBA)
		col = col.Clamped()

		distinct := true
		for _, prev := range kept {
			if col.DistanceLab(prev) < minLabDistance {
				distinct = false
				break
			}
		}
		if !distinct {
			continue
		}

		kept = append(kept, col)
		r, g, b := col.RGB255()
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return out
}

// sortByBrightness orders colors darkest to brightest by linear-RGB
// luminance.
func sortByBrightness(cols []color.RGBA) {
	slices.SortStableFunc(cols, func(a, b color.RGBA) int {
		if la, lb := luminance(a), luminance(b); la < lb {
			return -1
		} else if la > lb {
			return 1
		}
		return 0
	})
}

func luminance(c color.RGBA) float64 {
	col, _ := colorful.MakeColor(c)
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
