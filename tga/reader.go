package tga

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	data []byte
	r    *bytes.Reader

	warnings []string
}

func (d *decoder) warnf(format string, args ...interface{}) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func (d *decoder) readRegion(n int, name string) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if err := readFull(d.r, b); err != nil {
		return nil, fmt.Errorf("%w: %s, expected %d bytes", ErrTruncatedData, name, n)
	}
	return b, nil
}

func (d *decoder) decodePixels(h Header) ([]byte, error) {
	offset := int(d.r.Size()) - d.r.Len()
	src := d.data[offset:]

	if !h.IsRLE() {
		pix, err := copyRaw(src, h.ImageSize())
		if err != nil {
			return nil, err
		}
		_, err = d.r.Seek(int64(len(pix)), io.SeekCurrent)
		return pix, err
	}

	pix, n, err := decodeRLE(src, h.BytesPerPixel(), h.ImageSize())
	if err != nil {
		return nil, err
	}
	_, err = d.r.Seek(int64(n), io.SeekCurrent)
	return pix, err
}

func (d *decoder) decode(r io.Reader) (*Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	d.data = data
	d.r = bytes.NewReader(data)

	h, err := readHeader(d.r)
	if err != nil {
		return nil, err
	}

	switch {
	case !h.HasImage():
		return nil, fmt.Errorf("%w: no image data", ErrUnsupportedFormat)
	case h.IsColorMapped():
		return nil, fmt.Errorf("%w: color-mapped image", ErrUnsupportedFormat)
	case h.IsGrayscale():
		return nil, fmt.Errorf("%w: grayscale image", ErrUnsupportedFormat)
	}

	m := new(Image)

	if m.id, err = d.readRegion(int(h.IDLength), "image id"); err != nil {
		return nil, err
	}
	if m.colorMap, err = d.readRegion(h.ColorMapSize(), "color map"); err != nil {
		return nil, err
	}
	if m.pix, err = d.decodePixels(h); err != nil {
		return nil, err
	}

	// Always uncompressed from here on
	h.ImageType &^= rleBit
	normalize(&h, m.pix)
	m.header = h

	if m.footer, err = d.readFooter(); err != nil {
		return nil, err
	}
	if m.footer.IsNewFormat() && m.footer.ExtensionOffset != 0 {
		if m.extension, err = d.readExtensionArea(m.footer.ExtensionOffset); err != nil {
			return nil, err
		}
	}

	m.warnings = d.warnings

	return m, nil
}

// Decode reads a TGA image from r. The entire stream is read into memory
// before decoding starts.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	return d.decode(r)
}

// Load reads the TGA image stored in the named file
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}
