package tga

// flipVertical reverses the order of the rows in b, each of which is
// stride bytes wide
func flipVertical(b []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := b[top*stride : top*stride+stride]
		u := b[bottom*stride : bottom*stride+stride]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// flipHorizontal reverses the order of the pixels within every row of b,
// moving each pixel as a whole
func flipHorizontal(b []byte, width, height, bpp int) {
	stride := width * bpp
	for left, right := 0, width-1; left < right; left, right = left+1, right-1 {
		for y := 0; y < height; y++ {
			l := y*stride + left*bpp
			r := y*stride + right*bpp
			for k := 0; k < bpp; k++ {
				b[l+k], b[r+k] = b[r+k], b[l+k]
			}
		}
	}
}

// normalize flips the pixel data so that the origin is in the bottom-left
// corner and clears the origin bits in the header
func normalize(h *Header, b []byte) {
	bpp := h.BytesPerPixel()
	width, height := int(h.Image.Width), int(h.Image.Height)

	if h.Image.Descriptor&originTop != 0 {
		flipVertical(b, width*bpp, height)
	}
	if h.Image.Descriptor&originRight != 0 {
		flipHorizontal(b, width, height, bpp)
	}

	h.Image.Descriptor &= descriptorKeep
}
