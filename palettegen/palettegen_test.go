package palettegen

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoToneImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x < 16 {
				img.SetRGBA(x, y, color.RGBA{R: 250, G: 10, B: 10, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 10, G: 10, B: 40, A: 255})
			}
		}
	}
	return img
}

func TestMethodByName(t *testing.T) {
	for name, want := range map[string]Method{
		"mediancut": MethodMedianCut,
		"kmeans":    MethodKMeans,
		"dominant":  MethodDominant,
	} {
		got, err := MethodByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := MethodByName("octree")
	assert.Error(t, err)
}

func TestDeriveRejectsBadSize(t *testing.T) {
	img := twoToneImage()
	for _, k := range []int{0, -1, 17} {
		_, err := Derive(img, k, MethodMedianCut)
		assert.Error(t, err, "k=%d", k)
	}
}

func TestDeriveMedianCut(t *testing.T) {
	palette, err := Derive(twoToneImage(), 2, MethodMedianCut)
	require.NoError(t, err)
	require.NotEmpty(t, palette)
	assert.LessOrEqual(t, len(palette), 2)
	assert.NoError(t, palette.Validate())
}

func TestDeriveKMeansSeparatesClusters(t *testing.T) {
	palette, err := Derive(twoToneImage(), 2, MethodKMeans)
	require.NoError(t, err)
	require.Len(t, palette, 2)

	// Darkest-first ordering: the near-black blue half must come before
	// the bright red half.
	first := int(palette[0].R) + int(palette[0].G) + int(palette[0].B)
	second := int(palette[1].R) + int(palette[1].G) + int(palette[1].B)
	assert.Less(t, first, second)
}

func TestDeriveDominant(t *testing.T) {
	palette, err := Derive(twoToneImage(), 2, MethodDominant)
	require.NoError(t, err)
	require.NotEmpty(t, palette)
	assert.LessOrEqual(t, len(palette), 2)
}

func TestDeriveNamesEntriesByPosition(t *testing.T) {
	palette, err := Derive(twoToneImage(), 2, MethodMedianCut)
	require.NoError(t, err)
	for i, entry := range palette {
		assert.Equal(t, i, int(entry.Name[len(entry.Name)-1]-'0'))
	}
}
