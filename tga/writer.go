package tga

import (
	"bufio"
	"encoding"
	"fmt"
	"io"
	"math"
	"os"
)

// Options are the encoding parameters
type Options struct {
	// Author is written to the extension area. DefaultAuthor is used when
	// empty.
	Author string
}

func (o *Options) author() string {
	if o == nil || o.Author == "" {
		return DefaultAuthor
	}
	return o.Author
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil || len(b) == 0 {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = fmt.Errorf("%w: %v", ErrIO, err)
	}
}

func (e *encoder) marshal(m encoding.BinaryMarshaler) {
	if e.err != nil {
		return
	}
	b, err := m.MarshalBinary()
	if err != nil {
		e.err = err
		return
	}
	e.write(b)
}

// prepared holds the records written alongside the buffers of an Image
type prepared struct {
	header    Header
	extension ExtensionArea
	footer    Footer
}

// prepare builds the refreshed header, extension area and footer without
// touching m
func (m *Image) prepare(o *Options) (*prepared, error) {
	m.checkGeometry()

	p := &prepared{header: m.header}
	p.header.ImageType &^= rleBit
	p.header.Image.Descriptor &= descriptorKeep

	offset := uint64(headerSize) + uint64(len(m.id)) + uint64(len(m.colorMap)) + uint64(len(m.pix))
	if offset > math.MaxUint32 {
		return nil, fmt.Errorf("%w: image too large for an extension area", ErrMalformedHeader)
	}

	if m.extension != nil {
		p.extension = *m.extension
	}
	p.extension.refresh(o.author())

	p.footer = newFooter()
	p.footer.ExtensionOffset = uint32(offset)

	return p, nil
}

func (m *Image) encode(w io.Writer, o *Options) (*prepared, error) {
	p, err := m.prepare(o)
	if err != nil {
		return nil, err
	}

	e := encoder{w: w}
	e.marshal(p.header)
	e.write(m.id)
	e.write(m.colorMap)
	e.write(m.pix)
	e.marshal(p.extension)
	e.marshal(p.footer)

	if e.err != nil {
		return nil, e.err
	}
	return p, nil
}

func (m *Image) commit(p *prepared) {
	m.header = p.header
	m.extension = &p.extension
	m.footer = p.footer
}

// Encode writes the Image m to w, uncompressed and in TGA 2.0 format. Once
// everything has been written the header, extension area and footer of m
// are replaced with the ones written. On error m is left unchanged.
func Encode(w io.Writer, m *Image, o *Options) error {
	p, err := m.encode(w, o)
	if err != nil {
		return err
	}
	m.commit(p)
	return nil
}

// Save writes the Image m to the named file, creating or truncating it
func (m *Image) Save(path string, o *Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	b := bufio.NewWriter(f)
	p, err := m.encode(b, o)
	if err != nil {
		return err
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	m.commit(p)
	return nil
}
