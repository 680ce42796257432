package tga

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

// NRGBA converts the pixel data into an image with the usual top-left
// origin. 15, 16, 24 and 32-bit pixels are supported.
func (m *Image) NRGBA() (*image.NRGBA, error) {
	bpp := m.BytesPerPixel()
	alpha := m.header.Image.AlphaDepth() > 0

	var at func(p []byte) color.NRGBA
	switch m.header.Image.BitsPerPixel {
	case 15, 16:
		at = func(p []byte) color.NRGBA {
			v := binary.LittleEndian.Uint16(p)
			c := color.NRGBA{expand5(v >> 10), expand5(v >> 5), expand5(v), 0xff}
			if alpha && v&0x8000 == 0 {
				c.A = 0
			}
			return c
		}
	case 24:
		at = func(p []byte) color.NRGBA {
			return color.NRGBA{p[2], p[1], p[0], 0xff}
		}
	case 32:
		at = func(p []byte) color.NRGBA {
			c := color.NRGBA{p[2], p[1], p[0], p[3]}
			if !alpha {
				c.A = 0xff
			}
			return c
		}
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, m.header.Image.BitsPerPixel)
	}

	width, height := m.Width(), m.Height()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		y := height - 1 - row
		for col := 0; col < width; col++ {
			o := m.offset(row, col)
			dst.SetNRGBA(col, y, at(m.pix[o:o+bpp]))
		}
	}
	return dst, nil
}

// FromImage returns a 32-bit true-color Image holding a copy of src
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()

	m, err := New(b.Dx(), b.Dy(), color.NRGBA{})
	if err != nil {
		return nil, err
	}

	tmp := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(tmp, tmp.Bounds(), src, b.Min, draw.Src)

	height := b.Dy()
	for y := 0; y < height; y++ {
		row := height - 1 - y
		for x := 0; x < b.Dx(); x++ {
			copy(m.pix[m.offset(row, x):], BGRA(tmp.NRGBAAt(x, y)))
		}
	}
	return m, nil
}
