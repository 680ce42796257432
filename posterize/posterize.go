/*
Package posterize reduces the number of distinct colors in an image.

Images with no more distinct colors than requested keep their exact colors,
anything else is quantized using the median cut algorithm.
*/
package posterize

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

const (
	// MinColors is the smallest palette Reduce will produce
	MinColors = 2
	// MaxColors is the largest palette Reduce will produce
	MaxColors = 256
)

var errColors = errors.New("posterize: number of colors must be between 2 and 256")

func countColors(m image.Image, r image.Rectangle) map[color.Color]int {
	colors := make(map[color.Color]int)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			colors[color.NRGBAModel.Convert(m.At(x, y))]++
		}
	}
	return colors
}

func uniqueColors(m image.Image, r image.Rectangle) color.Palette {
	h := countColors(m, r)
	p := make(color.Palette, 0, len(h))
	for c := range h {
		p = append(p, c)
	}
	return p
}

// CountColors returns the number of distinct colors in m
func CountColors(m image.Image) int {
	return len(countColors(m, m.Bounds()))
}

// Reduce returns a copy of m using no more than n colors
func Reduce(m image.Image, n int) (*image.Paletted, error) {
	if n < MinColors || n > MaxColors {
		return nil, errColors
	}

	b := m.Bounds()

	p := uniqueColors(m, b)
	if len(p) > n {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm, nil
}
