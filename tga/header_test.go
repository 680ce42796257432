package tga

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeaderBytes = []byte{
	0x03,             // id length
	0x00,             // color map type
	0x0a,             // image type
	0x00, 0x00,       // first entry index
	0x00, 0x00,       // color map length
	0x00,             // color map depth
	0x10, 0x00,       // x origin
	0x20, 0x01,       // y origin
	0x40, 0x01,       // width
	0xf0, 0x00,       // height
	0x20,             // bits per pixel
	0x28,             // descriptor
}

func TestHeaderUnmarshalBinary(t *testing.T) {
	var h Header
	require.NoError(t, h.UnmarshalBinary(testHeaderBytes))

	assert.Equal(t, uint8(3), h.IDLength)
	assert.Equal(t, uint8(TypeRLETrueColor), h.ImageType)
	assert.Equal(t, uint16(0x10), h.Image.XOrigin)
	assert.Equal(t, uint16(0x120), h.Image.YOrigin)
	assert.Equal(t, uint16(320), h.Image.Width)
	assert.Equal(t, uint16(240), h.Image.Height)
	assert.Equal(t, uint8(32), h.Image.BitsPerPixel)
	assert.Equal(t, 8, h.Image.AlphaDepth())
	assert.Equal(t, 4, h.BytesPerPixel())
	assert.Equal(t, 320*240*4, h.ImageSize())

	assert.True(t, h.HasImage())
	assert.True(t, h.IsRLE())
	assert.True(t, h.IsTrueColor())
	assert.False(t, h.IsGrayscale())
	assert.False(t, h.IsColorMapped())
}

func TestHeaderMarshalBinary(t *testing.T) {
	var h Header
	require.NoError(t, h.UnmarshalBinary(testHeaderBytes))

	b, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, testHeaderBytes, b)
}

func TestHeaderColorMap(t *testing.T) {
	h := Header{
		ColorMapType: 1,
		ImageType:    TypeColorMapped,
		ColorMap:     ColorMapSpec{Length: 256, BitsPerPixel: 15},
		Image:        ImageSpec{Width: 1, Height: 1, BitsPerPixel: 8},
	}
	b, err := h.MarshalBinary()
	require.NoError(t, err)

	var dup Header
	require.NoError(t, dup.UnmarshalBinary(b))
	assert.Equal(t, h, dup)
	assert.Equal(t, 2, dup.ColorMap.EntrySize())
	assert.Equal(t, 512, dup.ColorMapSize())
	assert.True(t, dup.IsColorMapped())
}

func TestHeaderMalformed(t *testing.T) {
	valid := Header{
		ImageType: TypeTrueColor,
		Image:     ImageSpec{Width: 2, Height: 2, BitsPerPixel: 24},
	}

	tables := map[string]func(h *Header){
		"color map length without color map": func(h *Header) { h.ColorMap.Length = 1 },
		"color map index without color map":  func(h *Header) { h.ColorMap.FirstEntryIndex = 1 },
		"color map depth without color map":  func(h *Header) { h.ColorMap.BitsPerPixel = 24 },
		"color map type":                     func(h *Header) { h.ColorMapType = 2 },
		"image type":                         func(h *Header) { h.ImageType = 32 },
		"zero width":                         func(h *Header) { h.Image.Width = 0 },
		"zero height":                        func(h *Header) { h.Image.Height = 0 },
		"zero depth":                         func(h *Header) { h.Image.BitsPerPixel = 0 },
		"color-mapped without color map":     func(h *Header) { h.ImageType = TypeRLEColorMapped },
	}

	for name, mutate := range tables {
		t.Run(name, func(t *testing.T) {
			h := valid
			mutate(&h)
			b, err := h.MarshalBinary()
			require.NoError(t, err)

			var dup Header
			assert.ErrorIs(t, dup.UnmarshalBinary(b), ErrMalformedHeader)
			assert.Equal(t, Header{}, dup)
		})
	}
}

func TestHeaderShort(t *testing.T) {
	var h Header
	assert.ErrorIs(t, h.UnmarshalBinary(testHeaderBytes[:10]), ErrTruncatedData)

	_, err := readHeader(bytes.NewReader(testHeaderBytes[:10]))
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestDecodeZeroWidth(t *testing.T) {
	h := Header{
		ImageType: TypeTrueColor,
		Image:     ImageSpec{Width: 0, Height: 2, BitsPerPixel: 32},
	}
	b, _ := h.MarshalBinary()
	b = append(b, make([]byte, 64)...)

	m, err := Decode(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrMalformedHeader)
	assert.Nil(t, m)
}
