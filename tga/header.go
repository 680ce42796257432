package tga

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ColorMapSpec describes the optional color map
type ColorMapSpec struct {
	FirstEntryIndex uint16
	Length          uint16
	BitsPerPixel    uint8
}

// EntrySize returns the number of bytes used by each color map entry
func (s ColorMapSpec) EntrySize() int {
	return bytesPerPixel(s.BitsPerPixel)
}

// ImageSpec describes the geometry and pixel depth of the image
type ImageSpec struct {
	XOrigin      uint16
	YOrigin      uint16
	Width        uint16
	Height       uint16
	BitsPerPixel uint8
	Descriptor   uint8
}

// AlphaDepth returns the number of attribute bits per pixel
func (s ImageSpec) AlphaDepth() int {
	return int(s.Descriptor & alphaMask)
}

// Header is the fixed 18 byte TGA header. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	ColorMap     ColorMapSpec
	Image        ImageSpec
}

// HasImage reports whether the file contains any image data
func (h Header) HasImage() bool {
	return h.ImageType != TypeNone
}

// IsRLE reports whether the pixel data is run-length encoded
func (h Header) IsRLE() bool {
	return h.ImageType&rleBit != 0
}

// IsTrueColor reports whether pixels are stored as direct color values
func (h Header) IsTrueColor() bool {
	return h.ImageType == TypeTrueColor || h.ImageType == TypeRLETrueColor
}

// IsGrayscale reports whether pixels are stored as intensity values
func (h Header) IsGrayscale() bool {
	return h.ImageType == TypeGrayscale || h.ImageType == TypeRLEGrayscale
}

// IsColorMapped reports whether pixels are indices into the color map
func (h Header) IsColorMapped() bool {
	return h.ImageType == TypeColorMapped || h.ImageType == TypeRLEColorMapped
}

// BytesPerPixel returns the number of bytes used to store each pixel
func (h Header) BytesPerPixel() int {
	return bytesPerPixel(h.Image.BitsPerPixel)
}

// ImageSize returns the length of the decoded pixel data in bytes
func (h Header) ImageSize() int {
	return int(h.Image.Width) * int(h.Image.Height) * h.BytesPerPixel()
}

// ColorMapSize returns the length of the color map in bytes
func (h Header) ColorMapSize() int {
	return int(h.ColorMap.Length) * h.ColorMap.EntrySize()
}

func (h Header) validate() error {
	switch h.ColorMapType {
	case 0:
		if h.ColorMap != (ColorMapSpec{}) {
			return fmt.Errorf("%w: color map specification without a color map", ErrMalformedHeader)
		}
	case 1:
	default:
		return fmt.Errorf("%w: color map type %d", ErrMalformedHeader, h.ColorMapType)
	}

	switch h.ImageType {
	case TypeNone, TypeTrueColor, TypeGrayscale, TypeRLETrueColor, TypeRLEGrayscale:
	case TypeColorMapped, TypeRLEColorMapped:
		if h.ColorMapType == 0 || h.ColorMap.Length == 0 {
			return fmt.Errorf("%w: color-mapped image without a color map", ErrMalformedHeader)
		}
	default:
		return fmt.Errorf("%w: image type %d", ErrMalformedHeader, h.ImageType)
	}

	if h.Image.Width == 0 || h.Image.Height == 0 {
		return fmt.Errorf("%w: %dx%d image", ErrMalformedHeader, h.Image.Width, h.Image.Height)
	}
	if h.Image.BitsPerPixel == 0 {
		return fmt.Errorf("%w: zero bits per pixel", ErrMalformedHeader)
	}

	return nil
}

// MarshalBinary encodes the header into its 18 byte form
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, headerSize)

	b[0] = h.IDLength
	b[1] = h.ColorMapType
	b[2] = h.ImageType

	binary.LittleEndian.PutUint16(b[3:], h.ColorMap.FirstEntryIndex)
	binary.LittleEndian.PutUint16(b[5:], h.ColorMap.Length)
	b[7] = h.ColorMap.BitsPerPixel

	binary.LittleEndian.PutUint16(b[8:], h.Image.XOrigin)
	binary.LittleEndian.PutUint16(b[10:], h.Image.YOrigin)
	binary.LittleEndian.PutUint16(b[12:], h.Image.Width)
	binary.LittleEndian.PutUint16(b[14:], h.Image.Height)
	b[16] = h.Image.BitsPerPixel
	b[17] = h.Image.Descriptor

	return b, nil
}

// UnmarshalBinary decodes and validates the header from its 18 byte form
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return fmt.Errorf("%w: header is %d bytes", ErrTruncatedData, len(b))
	}

	dup := Header{
		IDLength:     b[0],
		ColorMapType: b[1],
		ImageType:    b[2],
		ColorMap: ColorMapSpec{
			FirstEntryIndex: binary.LittleEndian.Uint16(b[3:]),
			Length:          binary.LittleEndian.Uint16(b[5:]),
			BitsPerPixel:    b[7],
		},
		Image: ImageSpec{
			XOrigin:      binary.LittleEndian.Uint16(b[8:]),
			YOrigin:      binary.LittleEndian.Uint16(b[10:]),
			Width:        binary.LittleEndian.Uint16(b[12:]),
			Height:       binary.LittleEndian.Uint16(b[14:]),
			BitsPerPixel: b[16],
			Descriptor:   b[17],
		},
	}

	if err := dup.validate(); err != nil {
		return err
	}

	*h = dup
	return nil
}

func readHeader(r io.Reader) (Header, error) {
	var tmp [headerSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Header{}, fmt.Errorf("%w: header", ErrTruncatedData)
		}
		return Header{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var h Header
	if err := h.UnmarshalBinary(tmp[:]); err != nil {
		return Header{}, err
	}
	return h, nil
}
