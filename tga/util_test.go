package tga

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

type testFile struct {
	header    Header
	id        []byte
	colorMap  []byte
	pix       []byte
	extension *ExtensionArea
	footer    *Footer
}

// bytes assembles the file, pointing the footer at the extension area if
// there is one
func (f testFile) bytes(t *testing.T) []byte {
	t.Helper()

	b := new(bytes.Buffer)
	h, err := f.header.MarshalBinary()
	require.NoError(t, err)
	b.Write(h)
	b.Write(f.id)
	b.Write(f.colorMap)
	b.Write(f.pix)

	if f.footer == nil {
		return b.Bytes()
	}

	footer := *f.footer
	if f.extension != nil {
		footer.ExtensionOffset = uint32(b.Len())
		e, err := f.extension.MarshalBinary()
		require.NoError(t, err)
		b.Write(e)
	}

	// Footer.MarshalBinary always zeroes the developer offset
	tmp, err := footer.MarshalBinary()
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(tmp[4:], footer.DeveloperOffset)
	b.Write(tmp)

	return b.Bytes()
}

func trueColorHeader(width, height uint16, bits uint8) Header {
	return Header{
		ImageType: TypeTrueColor,
		Image: ImageSpec{
			Width:        width,
			Height:       height,
			BitsPerPixel: bits,
		},
	}
}

// sequence returns n bytes counting up from 1
func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

// encodeRLE splits pix into alternating run and raw packets of count
// pixels each
func encodeRLE(pix []byte, bpp, count int) []byte {
	var out []byte
	run := true
	for i := 0; i < len(pix); {
		n := count
		if remaining := (len(pix) - i) / bpp; remaining < n {
			n = remaining
		}
		if run {
			out = append(out, packetRun|byte(n-1))
			out = append(out, pix[i:i+bpp]...)
		} else {
			out = append(out, byte(n-1))
			out = append(out, pix[i:i+n*bpp]...)
		}
		i += n * bpp
		run = !run
	}
	return out
}

// expandRLE is the pixel data that encodeRLE decodes to
func expandRLE(pix []byte, bpp, count int) []byte {
	var out []byte
	run := true
	for i := 0; i < len(pix); {
		n := count
		if remaining := (len(pix) - i) / bpp; remaining < n {
			n = remaining
		}
		if run {
			for j := 0; j < n; j++ {
				out = append(out, pix[i:i+bpp]...)
			}
		} else {
			out = append(out, pix[i:i+n*bpp]...)
		}
		i += n * bpp
		run = !run
	}
	return out
}
