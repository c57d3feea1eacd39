/*
Package mopix converts raster photographs into a small fixed palette of
engravable colors, producing one palette-indexed square per source pixel for
a MOPA laser to fill.

The device can only mark a handful of colors, so the pipeline is perceptual
gamut compression: multi-scale Retinex flattens illumination, a value-adaptive
boost widens chroma separation, and error-diffusion dithering synthesizes the
colors the palette cannot hit directly by mixing neighbors spatially.
Everything is a pure function of (image, palette, options); the package keeps
no state between invocations.
*/
package mopix
