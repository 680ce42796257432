package posterize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(width, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0x80, A: 0xff})
		}
	}
	return m
}

func TestCountColors(t *testing.T) {
	assert.Equal(t, 100, CountColors(gradient(10, 10)))
	assert.Equal(t, 1, CountColors(image.NewNRGBA(image.Rect(0, 0, 4, 4))))
}

func TestReduceQuantizes(t *testing.T) {
	m := gradient(10, 10)

	pm, err := Reduce(m, 8)
	require.NoError(t, err)
	assert.Equal(t, m.Bounds(), pm.Bounds())
	assert.LessOrEqual(t, len(pm.Palette), 8)
	assert.LessOrEqual(t, CountColors(pm), 8)
}

func TestReduceKeepsExactColors(t *testing.T) {
	colors := []color.NRGBA{
		{R: 0xff, A: 0xff},
		{G: 0xff, A: 0xff},
		{B: 0xff, A: 0xff},
	}
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for x, c := range colors {
		m.SetNRGBA(x, 0, c)
		m.SetNRGBA(x, 1, c)
	}

	pm, err := Reduce(m, 4)
	require.NoError(t, err)
	assert.Len(t, pm.Palette, 3)
	for x, c := range colors {
		assert.Equal(t, color.NRGBAModel.Convert(c), color.NRGBAModel.Convert(pm.At(x, 1)))
	}
}

func TestReduceInvalid(t *testing.T) {
	m := gradient(2, 2)
	for _, n := range []int{-1, 0, 1, 257} {
		_, err := Reduce(m, n)
		assert.Error(t, err)
	}
}
