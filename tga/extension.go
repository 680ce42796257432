package tga

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	nameSize         = 41
	commentLines     = 4
	commentLineSize  = 81
	commentSize      = commentLines * commentLineSize
	maxNameLength    = nameSize - 1
	maxCommentLength = commentLineSize - 1
)

// Timestamp is the date and time the image was saved
type Timestamp struct {
	Month, Day, Year     uint16
	Hour, Minute, Second uint16
}

// JobTime is the elapsed time spent on the job the image belongs to
type JobTime struct {
	Hours, Minutes, Seconds uint16
}

// SoftwareVersion is the version of the software that created the image,
// for example 4.17b is stored as 417 and 'b'
type SoftwareVersion struct {
	Number uint16
	Letter byte
}

// Ratio is a numerator and denominator pair
type Ratio struct {
	Numerator, Denominator uint16
}

// ExtensionArea is the TGA 2.0 extension area. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type ExtensionArea struct {
	Size                  uint16
	AuthorName            string
	AuthorComment         [commentLines]string
	DateTime              Timestamp
	JobName               string
	JobTime               JobTime
	SoftwareID            string
	SoftwareVersion       SoftwareVersion
	KeyColor              uint32
	PixelAspectRatio      Ratio
	Gamma                 Ratio
	ColorCorrectionOffset uint32
	PostageStampOffset    uint32
	ScanLineOffset        uint32
	AttributesType        uint8
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// putString copies s into b, truncating it so there is always room for the
// terminating NUL
func putString(b []byte, s string, max int) {
	if len(s) > max {
		s = s[:max]
	}
	copy(b, s)
}

// refresh prepares the extension area for writing
func (e *ExtensionArea) refresh(author string) {
	if len(author) > maxNameLength {
		author = author[:maxNameLength]
	}
	e.Size = extensionSize
	e.AuthorName = author
}

// MarshalBinary encodes the extension area into its 495 byte form, or 494
// bytes without the attributes type if Size says so
func (e ExtensionArea) MarshalBinary() ([]byte, error) {
	b := make([]byte, extensionSize)
	le := binary.LittleEndian

	le.PutUint16(b[0:], e.Size)
	putString(b[2:43], e.AuthorName, maxNameLength)
	for i, line := range e.AuthorComment {
		o := 43 + i*commentLineSize
		putString(b[o:o+commentLineSize], line, maxCommentLength)
	}

	for i, v := range []uint16{
		e.DateTime.Month, e.DateTime.Day, e.DateTime.Year,
		e.DateTime.Hour, e.DateTime.Minute, e.DateTime.Second,
	} {
		le.PutUint16(b[367+i*2:], v)
	}

	putString(b[379:420], e.JobName, maxNameLength)
	le.PutUint16(b[420:], e.JobTime.Hours)
	le.PutUint16(b[422:], e.JobTime.Minutes)
	le.PutUint16(b[424:], e.JobTime.Seconds)

	putString(b[426:467], e.SoftwareID, maxNameLength)
	le.PutUint16(b[467:], e.SoftwareVersion.Number)
	b[469] = e.SoftwareVersion.Letter

	le.PutUint32(b[470:], e.KeyColor)
	le.PutUint16(b[474:], e.PixelAspectRatio.Numerator)
	le.PutUint16(b[476:], e.PixelAspectRatio.Denominator)
	le.PutUint16(b[478:], e.Gamma.Numerator)
	le.PutUint16(b[480:], e.Gamma.Denominator)
	le.PutUint32(b[482:], e.ColorCorrectionOffset)
	le.PutUint32(b[486:], e.PostageStampOffset)
	le.PutUint32(b[490:], e.ScanLineOffset)
	if e.Size == shortExtensionSize {
		return b[:shortExtensionSize], nil
	}
	b[494] = e.AttributesType

	return b, nil
}

// UnmarshalBinary decodes the extension area from its 495 or 494 byte form.
// AttributesType is zero in the shorter form.
func (e *ExtensionArea) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("%w: extension area is %d bytes", ErrTruncatedData, len(b))
	}
	le := binary.LittleEndian

	size := le.Uint16(b[0:])
	if size != extensionSize && size != shortExtensionSize {
		return fmt.Errorf("%w: size is %d, expected %d or %d", ErrInvalidExtensionArea, size, extensionSize, shortExtensionSize)
	}
	if len(b) < int(size) {
		return fmt.Errorf("%w: extension area is %d bytes, expected %d", ErrTruncatedData, len(b), size)
	}

	dup := ExtensionArea{
		Size:       size,
		AuthorName: cString(b[2:43]),
		DateTime: Timestamp{
			Month:  le.Uint16(b[367:]),
			Day:    le.Uint16(b[369:]),
			Year:   le.Uint16(b[371:]),
			Hour:   le.Uint16(b[373:]),
			Minute: le.Uint16(b[375:]),
			Second: le.Uint16(b[377:]),
		},
		JobName: cString(b[379:420]),
		JobTime: JobTime{
			Hours:   le.Uint16(b[420:]),
			Minutes: le.Uint16(b[422:]),
			Seconds: le.Uint16(b[424:]),
		},
		SoftwareID: cString(b[426:467]),
		SoftwareVersion: SoftwareVersion{
			Number: le.Uint16(b[467:]),
			Letter: b[469],
		},
		KeyColor:              le.Uint32(b[470:]),
		PixelAspectRatio:      Ratio{le.Uint16(b[474:]), le.Uint16(b[476:])},
		Gamma:                 Ratio{le.Uint16(b[478:]), le.Uint16(b[480:])},
		ColorCorrectionOffset: le.Uint32(b[482:]),
		PostageStampOffset:    le.Uint32(b[486:]),
		ScanLineOffset:        le.Uint32(b[490:]),
	}
	if size == extensionSize {
		dup.AttributesType = b[494]
	}
	for i := range dup.AuthorComment {
		o := 43 + i*commentLineSize
		dup.AuthorComment[i] = cString(b[o : o+commentLineSize])
	}

	*e = dup
	return nil
}

func extensionError(err error, offset uint32) error {
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return fmt.Errorf("%w: extension area at offset %d", ErrTruncatedData, offset)
	}
	return fmt.Errorf("%w: %v", ErrIO, err)
}

func (d *decoder) readExtensionArea(offset uint32) (*ExtensionArea, error) {
	if _, err := d.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	// Read the shorter form first, the size field says if there is more
	var tmp [extensionSize]byte
	n := shortExtensionSize
	if err := readFull(d.r, tmp[:n]); err != nil {
		return nil, extensionError(err, offset)
	}
	if binary.LittleEndian.Uint16(tmp[0:]) == extensionSize {
		if err := readFull(d.r, tmp[n:]); err != nil {
			return nil, extensionError(err, offset)
		}
		n = extensionSize
	}

	e := new(ExtensionArea)
	if err := e.UnmarshalBinary(tmp[:n]); err != nil {
		return nil, err
	}

	if e.ColorCorrectionOffset != 0 {
		d.warnf("color correction table present at offset %d, not parsed", e.ColorCorrectionOffset)
	}
	if e.PostageStampOffset != 0 {
		d.warnf("postage stamp present at offset %d, not parsed", e.PostageStampOffset)
	}
	if e.ScanLineOffset != 0 {
		d.warnf("scan line table present at offset %d, not parsed", e.ScanLineOffset)
	}

	return e, nil
}
