package tga

import "fmt"

const (
	packetRun   = 0x80
	packetCount = 0x7f
)

// copyRaw returns the first n bytes of src, or ErrTruncatedData if src is
// shorter than that
func copyRaw(src []byte, n int) ([]byte, error) {
	if len(src) < n {
		return nil, fmt.Errorf("%w: %d bytes of pixel data, expected %d", ErrTruncatedData, len(src), n)
	}
	dst := make([]byte, n)
	copy(dst, src)
	return dst, nil
}

// decodeRLE expands the packets in src until exactly n bytes have been
// produced. It returns the decoded bytes along with the number of bytes of
// src that were consumed.
func decodeRLE(src []byte, bpp, n int) ([]byte, int, error) {
	// A run packet is the densest encoding, 1+bpp bytes for 128 pixels
	if limit := (len(src)/(1+bpp) + 1) * (packetCount + 1) * bpp; n > limit {
		return nil, 0, fmt.Errorf("%w: %d bytes of rle data cannot expand to %d bytes", ErrTruncatedData, len(src), n)
	}

	dst := make([]byte, n)
	i, o := 0, 0

	for o < n {
		if i >= len(src) {
			return nil, i, fmt.Errorf("%w: rle stream ended after %d of %d bytes", ErrTruncatedData, o, n)
		}
		c := src[i]
		i++

		count := int(c&packetCount) + 1
		if o+count*bpp > n {
			return nil, i, fmt.Errorf("%w: packet of %d pixels at offset %d overruns %d bytes", ErrCorruptStream, count, i-1, n)
		}

		if c&packetRun != 0 {
			if len(src)-i < bpp {
				return nil, i, fmt.Errorf("%w: run packet at offset %d", ErrTruncatedData, i-1)
			}
			pixel := src[i : i+bpp]
			i += bpp
			for j := 0; j < count; j++ {
				o += copy(dst[o:], pixel)
			}
		} else {
			if len(src)-i < count*bpp {
				return nil, i, fmt.Errorf("%w: raw packet at offset %d", ErrTruncatedData, i-1)
			}
			o += copy(dst[o:], src[i:i+count*bpp])
			i += count * bpp
		}
	}

	return dst, i, nil
}
