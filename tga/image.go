package tga

import (
	"fmt"
	"image/color"
)

// Image is a decoded TGA image. Row 0 of the pixel data is always the
// bottom-most scanline and column 0 the left-most column.
//
// An Image must not be used from more than one goroutine at a time.
type Image struct {
	header    Header
	footer    Footer
	extension *ExtensionArea

	id       []byte
	colorMap []byte
	pix      []byte

	warnings []string
}

// New returns a 32-bit true-color image of the given size with every pixel
// set to c
func New(width, height int, c color.NRGBA) (*Image, error) {
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d image", ErrMalformedHeader, width, height)
	}

	m := &Image{
		header: Header{
			ImageType: TypeTrueColor,
			Image: ImageSpec{
				Width:        uint16(width),
				Height:       uint16(height),
				BitsPerPixel: 32,
				Descriptor:   8,
			},
		},
		footer:    newFooter(),
		extension: &ExtensionArea{Size: extensionSize},
	}

	m.pix = make([]byte, m.header.ImageSize())
	p := BGRA(c)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			copy(m.pix[m.offset(row, col):], p)
		}
	}

	return m, nil
}

// BGRA returns the on-disk encoding of c for a 32-bit image
func BGRA(c color.NRGBA) []byte {
	return []byte{c.B, c.G, c.R, c.A}
}

// Header returns a copy of the image header
func (m *Image) Header() Header {
	return m.header
}

// Footer returns a copy of the image footer
func (m *Image) Footer() Footer {
	return m.footer
}

// Extension returns a copy of the extension area if there is one
func (m *Image) Extension() (ExtensionArea, bool) {
	if m.extension == nil {
		return ExtensionArea{}, false
	}
	return *m.extension, true
}

// Warnings returns the diagnostics collected while decoding, such as
// optional regions that were skipped
func (m *Image) Warnings() []string {
	return append([]string(nil), m.warnings...)
}

// ImageID returns a copy of the image identification field
func (m *Image) ImageID() []byte {
	return append([]byte(nil), m.id...)
}

// SetImageID replaces the image identification field
func (m *Image) SetImageID(b []byte) error {
	if len(b) > maxIDLength {
		return fmt.Errorf("%w: image id is %d bytes", ErrMalformedHeader, len(b))
	}
	m.id = append([]byte(nil), b...)
	m.header.IDLength = uint8(len(b))
	return nil
}

// ColorMap returns a copy of the raw color map
func (m *Image) ColorMap() []byte {
	return append([]byte(nil), m.colorMap...)
}

// PixelData returns a copy of the raw pixel data
func (m *Image) PixelData() []byte {
	return append([]byte(nil), m.pix...)
}

// BytesPerPixel returns the number of bytes used by each pixel
func (m *Image) BytesPerPixel() int {
	return m.header.BytesPerPixel()
}

// WidthInBytes returns the length of a row of pixels
func (m *Image) WidthInBytes() int {
	return m.Width() * m.BytesPerPixel()
}

// Width returns the number of columns
func (m *Image) Width() int {
	return int(m.header.Image.Width)
}

// Height returns the number of rows
func (m *Image) Height() int {
	return int(m.header.Image.Height)
}

func (m *Image) offset(row, col int) int {
	return row*m.WidthInBytes() + col*m.BytesPerPixel()
}

func (m *Image) inBounds(row, col int) bool {
	return row >= 0 && row < m.Height() && col >= 0 && col < m.Width()
}

// Pixel returns a copy of the bytes of the pixel at row and col
func (m *Image) Pixel(row, col int) ([]byte, error) {
	if !m.inBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d) in %dx%d image", ErrOutOfBounds, row, col, m.Width(), m.Height())
	}
	o := m.offset(row, col)
	return append([]byte(nil), m.pix[o:o+m.BytesPerPixel()]...), nil
}

// SetPixel overwrites the pixel at row and col. p must be exactly
// BytesPerPixel bytes long.
func (m *Image) SetPixel(row, col int, p []byte) error {
	if !m.inBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d image", ErrOutOfBounds, row, col, m.Width(), m.Height())
	}
	if len(p) != m.BytesPerPixel() {
		return fmt.Errorf("%w: %d bytes, expected %d", ErrInvalidPixel, len(p), m.BytesPerPixel())
	}
	copy(m.pix[m.offset(row, col):], p)
	return nil
}

// checkGeometry panics if the buffers no longer agree with the header
func (m *Image) checkGeometry() {
	if len(m.id) != int(m.header.IDLength) ||
		len(m.colorMap) != m.header.ColorMapSize() ||
		len(m.pix) != m.header.ImageSize() {
		panic(fmt.Sprintf("tga: buffers (%d, %d, %d) do not match header (%d, %d, %d)",
			len(m.id), len(m.colorMap), len(m.pix),
			m.header.IDLength, m.header.ColorMapSize(), m.header.ImageSize()))
	}
}
