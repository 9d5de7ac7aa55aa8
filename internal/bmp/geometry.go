package bmp

// Geometry holds the values derived from width, height and bit depth. None
// of it is stored on disk; recompute it whenever any of the three change.
type Geometry struct {
	BitWidth     int  // unpadded row width in bits
	BitLength    int  // unpadded image length in bits
	PaddedWidth  int  // row width in bytes, rounded up to a multiple of 4
	PaddedLength int  // PaddedWidth * height
	PadBits      int  // padding bits at the end of each row
	Padded       bool // rows carry padding
	NoPalette    bool // pixel data does not index a colour table
}

// ComputeGeometry derives the row layout of a width x height image at bpp
// bits per pixel. Negative dimensions (flipped images) count by magnitude.
func ComputeGeometry(width, height, bpp int) Geometry {
	width, height = abs(width), abs(height)

	bitWidth := width * bpp
	g := Geometry{
		BitWidth:    bitWidth,
		BitLength:   bitWidth * height,
		PaddedWidth: PaddedRowBytes(width, bpp),
		PadBits:     (32 - bitWidth%32) % 32,
		NoPalette:   true,
	}
	g.PaddedLength = g.PaddedWidth * height
	g.Padded = g.PadBits != 0
	return g
}

// PaddedRowBytes is the on-disk length of one row: width*bpp bits rounded
// up to the next multiple of 32, in bytes.
func PaddedRowBytes(width, bpp int) int {
	return (abs(width)*bpp + 31) / 32 * 4
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
