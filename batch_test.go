package mopix

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestConvertAllPreservesJobOrder(t *testing.T) {
	opts := Options{DitherKernel: "none"}
	palette := Palette{
		{Name: "black", R: 0, G: 0, B: 0},
		{Name: "red", R: 255, G: 0, B: 0},
	}

	jobs := []Job{
		{Name: "red", Image: solidImage(3, 3, color.RGBA{R: 255, A: 255}), Options: opts},
		{Name: "black", Image: solidImage(3, 3, color.RGBA{A: 255}), Options: opts},
		{Name: "red2", Image: solidImage(2, 2, color.RGBA{R: 250, A: 255}), Options: opts},
	}

	results, err := ConvertAll(context.Background(), jobs, palette, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "red", results[0].Name)
	assert.Equal(t, "black", results[1].Name)
	assert.Equal(t, "red2", results[2].Name)

	assert.Equal(t, 1, results[0].Result.Raster.At(0, 0))
	assert.Equal(t, 0, results[1].Result.Raster.At(0, 0))
	assert.Equal(t, 1, results[2].Result.Raster.At(0, 0))
}

func TestConvertAllValidatesBeforeWork(t *testing.T) {
	jobs := []Job{
		{Name: "ok", Image: solidImage(2, 2, color.RGBA{A: 255}), Options: Options{DitherKernel: "none"}},
		{Name: "bad", Image: solidImage(2, 2, color.RGBA{A: 255}), Options: Options{DitherKernel: "sierra"}},
	}

	_, err := ConvertAll(context.Background(), jobs, DefaultPalette(), 2)
	assert.Error(t, err)

	_, err = ConvertAll(context.Background(), jobs[:1], Palette{}, 2)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestConvertAllDefaultWorkerCount(t *testing.T) {
	jobs := []Job{
		{Name: "one", Image: solidImage(2, 2, color.RGBA{A: 255}), Options: Options{DitherKernel: "none"}},
	}

	results, err := ConvertAll(context.Background(), jobs, DefaultPalette(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestConvertAllEmptyJobs(t *testing.T) {
	results, err := ConvertAll(context.Background(), nil, DefaultPalette(), 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestConvertAllHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 64)
	for i := range jobs {
		jobs[i] = Job{Name: "n", Image: solidImage(8, 8, color.RGBA{A: 255}), Options: Options{DitherKernel: "none"}}
	}

	// The pump may have fed some workers before observing cancellation,
	// but the call as a whole must fail with the context error.
	_, err := ConvertAll(ctx, jobs, DefaultPalette(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}
