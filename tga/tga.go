/*
Package tga implements a Truevision TGA decoder and encoder.

A file starts with an 18 byte header, followed by an optional image
identification field of up to 255 bytes, an optional color map and the
pixel data which is either stored raw or as run-length encoded packets. TGA
2.0 files additionally carry an extension area of 495 bytes and end with a
26 byte footer whose signature is "TRUEVISION-XFILE." followed by a NUL.
All multi-byte fields are little-endian.

Only true-color images are decoded. Pixels are kept in memory exactly as
stored on disk (B, G, R, A for 32-bit images) but always with the origin
in the bottom-left corner, and images are always written back
uncompressed.
*/
package tga

import "errors"

const (
	headerSize    = 18
	footerSize    = 26
	extensionSize = 495

	// Some writers omit the trailing attributes type byte
	shortExtensionSize = extensionSize - 1

	maxIDLength = 255

	// Signature marks a TGA 2.0 file when found at the end of the footer
	Signature = "TRUEVISION-XFILE.\x00"

	// DefaultAuthor is written to the extension area when no author is
	// configured
	DefaultAuthor = "targa"
)

// Image types
const (
	TypeNone           = 0
	TypeColorMapped    = 1
	TypeTrueColor      = 2
	TypeGrayscale      = 3
	TypeRLEColorMapped = 9
	TypeRLETrueColor   = 10
	TypeRLEGrayscale   = 11

	rleBit = 0x08
)

// Image descriptor bits
const (
	alphaMask      = 0x0f
	originRight    = 0x10
	originTop      = 0x20
	originMask     = originRight | originTop
	descriptorKeep = ^byte(originMask)
)

var (
	// ErrIO is returned when reading or writing the underlying file fails
	ErrIO = errors.New("tga: i/o error")
	// ErrMalformedHeader is returned when the header is inconsistent
	ErrMalformedHeader = errors.New("tga: malformed header")
	// ErrUnsupportedFormat is returned for color-mapped, grayscale and
	// empty images
	ErrUnsupportedFormat = errors.New("tga: unsupported format")
	// ErrTruncatedData is returned when a region is shorter than declared
	ErrTruncatedData = errors.New("tga: truncated data")
	// ErrCorruptStream is returned when an RLE packet overruns the image
	ErrCorruptStream = errors.New("tga: corrupt rle stream")
	// ErrInvalidExtensionArea is returned when the extension area size is
	// wrong
	ErrInvalidExtensionArea = errors.New("tga: invalid extension area")
	// ErrOutOfBounds is returned by the pixel accessors
	ErrOutOfBounds = errors.New("tga: pixel out of bounds")
	// ErrInvalidPixel is returned when a pixel has the wrong number of bytes
	ErrInvalidPixel = errors.New("tga: invalid pixel")
)

func bytesPerPixel(bits uint8) int {
	return (int(bits) + 7) >> 3
}
