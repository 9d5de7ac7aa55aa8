package bmp

import (
	"fmt"
	"runtime"
	"sync"
)

// Images smaller than this are converted on the calling goroutine.
const parallelPixels = 1 << 16

// Unpack converts raw padded pixel rows of the given bit depth into the
// canonical form: width*height 32-bit RGBA pixels with no row padding.
//
// A non-nil palette selects the indexed reading for any bit depth. Without
// one, 24-bit pixels gain an opaque alpha, and 16 and 8 bit pixels are read
// as packed RGBA channels. 32-bit data is returned as is.
func Unpack(raw []byte, geo Geometry, width, height, bpp int, palette Palette) ([]byte, error) {
	width, height = abs(width), abs(height)
	if len(raw) < geo.PaddedLength {
		return nil, fmt.Errorf("%w: %d bytes of pixel data, rows need %d", ErrConflictingHeaderInformation, len(raw), geo.PaddedLength)
	}

	if bpp == 32 && palette == nil {
		return raw, nil
	}

	dst := make([]byte, width*height*4)
	n := stripes(width, height)
	pw := geo.PaddedWidth

	switch {
	case palette != nil:
		misses := make([]int, n)
		forRows(height, n, func(s, y0, y1 int) {
			misses[s] = expandFromPalette(dst, raw, pw, width, bpp, palette, y0, y1)
		})
		var total int
		for _, m := range misses {
			total += m
		}
		if total > 0 {
			return dst, fmt.Errorf("%w: %d pixels index past the %d entry colour table", ErrConflictingHeaderInformation, total, len(palette))
		}
	case bpp == 24:
		forRows(height, n, func(_, y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := raw[y*pw:]
				for x := range width {
					putPixel(dst, y*width+x, Pixel{R: row[x*3], G: row[x*3+1], B: row[x*3+2], A: 255})
				}
			}
		})
	case bpp == 16:
		forRows(height, n, func(_, y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := raw[y*pw:]
				for x := range width {
					putPixel(dst, y*width+x, unpackRGBA4444(row[x*2], row[x*2+1]))
				}
			}
		})
	case bpp == 8:
		forRows(height, n, func(_, y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := raw[y*pw:]
				for x := range width {
					putPixel(dst, y*width+x, unpackRGBA2222(row[x]))
				}
			}
		})
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel has no direct colour reading", ErrExpectedColourPaletteNotPresent, bpp)
	}
	return dst, nil
}

// expandFromPalette looks up rows [y0, y1) of an indexed image. Each row
// starts at its padded boundary; the bit cursor runs across byte boundaries
// within the row. It returns the number of pixels whose index had no
// palette entry; those come out as zero.
func expandFromPalette(dst, raw []byte, pw, width, bpp int, palette Palette, y0, y1 int) (misses int) {
	for y := y0; y < y1; y++ {
		row := raw[y*pw : (y+1)*pw]
		for x := range width {
			idx := readBits(row, x*bpp, bpp)
			if uint64(idx) >= uint64(len(palette)) {
				misses++
				continue
			}
			putPixel(dst, y*width+x, palette[idx])
		}
	}
	return misses
}

// readBits returns n bits of b starting at bit offset off, most significant
// bit first. The first bit read ends up highest in the result.
func readBits(b []byte, off, n int) uint32 {
	var v uint32
	for i := off; i < off+n; i++ {
		v = v<<1 | uint32(b[i>>3]>>(7-i&7)&1)
	}
	return v
}

// unpackRGBA4444 expands a 16-bit pixel. Byte 0 holds R in its high nibble
// and G in its low nibble, byte 1 holds B then A. 15*17 = 255.
func unpackRGBA4444(b0, b1 byte) Pixel {
	return Pixel{
		R: (b0 >> 4) * 17,
		G: (b0 & 0x0f) * 17,
		B: (b1 >> 4) * 17,
		A: (b1 & 0x0f) * 17,
	}
}

// unpackRGBA2222 expands an 8-bit pixel laid out as RRGGBBAA from the most
// significant bit down. 3*85 = 255.
func unpackRGBA2222(b byte) Pixel {
	return Pixel{
		R: (b >> 6) * 85,
		G: (b >> 4 & 3) * 85,
		B: (b >> 2 & 3) * 85,
		A: (b & 3) * 85,
	}
}

func putPixel(dst []byte, i int, p Pixel) {
	d := dst[i*4 : i*4+4]
	d[0], d[1], d[2], d[3] = p.R, p.G, p.B, p.A
}

// stripes picks how many row ranges to convert concurrently.
func stripes(width, height int) int {
	if width*height < parallelPixels {
		return 1
	}
	return max(1, min(runtime.GOMAXPROCS(0), height))
}

// forRows calls fn over [0, height) split into n contiguous stripes. Rows
// never depend on each other, so stripes only share read-only input.
func forRows(height, n int, fn func(stripe, y0, y1 int)) {
	if n <= 1 {
		fn(0, 0, height)
		return
	}

	var wg sync.WaitGroup
	per := (height + n - 1) / n
	for s := range n {
		y0, y1 := s*per, min((s+1)*per, height)
		if y0 >= y1 {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(s, y0, y1)
		}()
	}
	wg.Wait()
}
