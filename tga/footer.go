package tga

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Footer is the 26 byte trailer found at the end of TGA 2.0 files. It
// implements the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler
// interfaces.
type Footer struct {
	ExtensionOffset uint32
	DeveloperOffset uint32
	Signature       [18]byte
}

func newFooter() Footer {
	var f Footer
	copy(f.Signature[:], Signature)
	return f
}

// IsNewFormat reports whether the footer carries the TGA 2.0 signature
func (f Footer) IsNewFormat() bool {
	return bytes.Equal(f.Signature[:], []byte(Signature))
}

// MarshalBinary encodes the footer into its 26 byte form. The developer
// directory offset is always written as zero as developer directories are
// never preserved.
func (f Footer) MarshalBinary() ([]byte, error) {
	b := make([]byte, footerSize)
	binary.LittleEndian.PutUint32(b[0:], f.ExtensionOffset)
	binary.LittleEndian.PutUint32(b[4:], 0)
	copy(b[8:], f.Signature[:])
	return b, nil
}

// UnmarshalBinary decodes the footer from its 26 byte form
func (f *Footer) UnmarshalBinary(b []byte) error {
	if len(b) < footerSize {
		return fmt.Errorf("%w: footer is %d bytes", ErrTruncatedData, len(b))
	}
	f.ExtensionOffset = binary.LittleEndian.Uint32(b[0:])
	f.DeveloperOffset = binary.LittleEndian.Uint32(b[4:])
	copy(f.Signature[:], b[8:footerSize])
	return nil
}

func (d *decoder) readFooter() (Footer, error) {
	size, err := d.r.Seek(0, io.SeekEnd)
	if err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if size < footerSize {
		return Footer{}, fmt.Errorf("%w: %d bytes is too short for a footer", ErrIO, size)
	}

	if _, err := d.r.Seek(-footerSize, io.SeekEnd); err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var tmp [footerSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return Footer{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var f Footer
	if err := f.UnmarshalBinary(tmp[:]); err != nil {
		return Footer{}, err
	}

	if !f.IsNewFormat() {
		// Without the signature the last 26 bytes are just pixel data
		return Footer{}, nil
	}

	if f.DeveloperOffset != 0 {
		d.warnf("developer directory present at offset %d, not parsed", f.DeveloperOffset)
	}

	return f, nil
}
