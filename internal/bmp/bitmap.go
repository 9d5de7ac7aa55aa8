// bmp package implements a bitmap codec that decodes every header variant
// and bit depth into one canonical 32-bit RGBA layout.
package bmp

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/anas-shakeel/bmapcodec/internal/utils"
)

// Pixel is one canonical pixel. Channels keep the order they are stored in.
type Pixel struct {
	R, G, B, A byte
}

var (
	Black = Pixel{0, 0, 0, 255}
	White = Pixel{255, 255, 255, 255}
)

// BitmapImage is a decoded bitmap. After Decode the bit depth is always 32
// and Data holds Len() pixels, Width() per row, in stored row order (bottom
// row first unless TopDown reports otherwise).
type BitmapImage struct {
	Filename string
	BFHeader BitmapFileHeader
	BIHeader ImageHeader
	Variant  HeaderVariant
	Geometry Geometry
	Palette  Palette // colour table the pixels were expanded from, if any
	Data     []byte  // raw pixel buffer

	// Errors lists the problems a permissive decode carried on past.
	Errors []error
}

// Returns the pixels in bytes as R, G, B, A
func (p Pixel) Bytes() []byte {
	return []byte{p.R, p.G, p.B, p.A}
}

// Creates and returns a blank bitmap image (32 bit uncompressed)
func CreateBitmap(width, height int) (*BitmapImage, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	b := &BitmapImage{
		BFHeader: BitmapFileHeader{Type: signature},
		BIHeader: ImageHeader{BitmapInfoHeader: BitmapInfoHeader{
			Size:     infoHeaderLen,
			Width:    int32(width),
			Height:   int32(height),
			Planes:   1,
			BitCount: 32,
		}},
		Variant:  VariantInfo,
		Geometry: Geometry{NoPalette: true},
		Data:     make([]byte, width*height*4),
	}
	b.UpdateMeta()
	return b, nil
}

func (b *BitmapImage) Width() int  { return abs(int(b.BIHeader.Width)) }
func (b *BitmapImage) Height() int { return abs(int(b.BIHeader.Height)) }

// Number of pixels in the image
func (b *BitmapImage) Len() int { return b.Width() * b.Height() }

// TopDown reports whether the first stored row is the top of the image.
func (b *BitmapImage) TopDown() bool { return b.BIHeader.Height < 0 }

// Stride is the byte length of one canonical row.
func (b *BitmapImage) Stride() int { return b.Width() * 4 }

// Offset maps a (row, col) position to its index in Data.
func (b *BitmapImage) Offset(row, col int) int {
	return row*b.Stride() + col*4
}

// Row returns the canonical bytes of one stored row.
func (b *BitmapImage) Row(row int) []byte {
	off := b.Offset(row, 0)
	return b.Data[off : off+b.Stride()]
}

func (b *BitmapImage) At(row, col int) Pixel {
	p := b.Data[b.Offset(row, col):]
	return Pixel{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (b *BitmapImage) Set(row, col int, p Pixel) {
	putPixel(b.Data, row*b.Width()+col, p)
}

// Image returns an image.NRGBA that shares Data. Rows are in stored order
// and channels in stored order.
func (b *BitmapImage) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Data[:b.Len()*4],
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width(), b.Height()),
	}
}

// Returns a Copy of the bitmap image. Nothing is shared with the original.
func (b *BitmapImage) Copy() *BitmapImage {
	newBitmap := *b
	newBitmap.BIHeader.Opaque = bytes.Clone(b.BIHeader.Opaque)
	if b.BIHeader.OS22X != nil {
		ext := *b.BIHeader.OS22X
		newBitmap.BIHeader.OS22X = &ext
	}
	if b.BIHeader.V4 != nil {
		ext := *b.BIHeader.V4
		newBitmap.BIHeader.V4 = &ext
	}
	if b.BIHeader.V5 != nil {
		ext := *b.BIHeader.V5
		newBitmap.BIHeader.V5 = &ext
	}
	if b.Palette != nil {
		newBitmap.Palette = append(Palette(nil), b.Palette...)
	}
	newBitmap.Data = bytes.Clone(b.Data)
	newBitmap.Errors = append([]error(nil), b.Errors...)
	return &newBitmap
}

// ReplaceData swaps in a new canonical pixel buffer of the given size and
// brings the headers up to date. The vertical orientation is kept.
func (b *BitmapImage) ReplaceData(width, height int, data []byte) error {
	if len(data) != width*height*4 {
		return fmt.Errorf("pixel buffer is %d bytes, %dx%d needs %d", len(data), width, height, width*height*4)
	}
	if b.BIHeader.BitCount != 32 {
		return fmt.Errorf("cannot replace %d-bit pixel data with canonical pixels", b.BIHeader.BitCount)
	}
	if b.TopDown() {
		height = -height
	}
	b.BIHeader.Width = int32(width)
	b.BIHeader.Height = int32(height)
	b.Data = data
	b.UpdateMeta()
	return nil
}

// Updates the bitmap metadata (based on dimensions and bit depth)
func (b *BitmapImage) UpdateMeta() {
	b.recalculate()

	offset := uint32(fileHeaderLen) + b.BIHeader.Size
	if !b.Geometry.NoPalette {
		offset += uint32(len(b.Palette) * 4)
	} else {
		b.BIHeader.ColorsUsed = 0
		b.BIHeader.ColorsImportant = 0
	}

	b.BFHeader.OffBits = offset
	b.BFHeader.Size = offset + uint32(b.Geometry.PaddedLength) // Size of the bitmap file
	b.BIHeader.SizeImage = uint32(b.Geometry.PaddedLength)
}

// recalculate recomputes the derived geometry, keeping the palette flag.
func (b *BitmapImage) recalculate() {
	noPalette := b.Geometry.NoPalette
	b.Geometry = ComputeGeometry(int(b.BIHeader.Width), int(b.BIHeader.Height), int(b.BIHeader.BitCount))
	b.Geometry.NoPalette = noPalette
}

// Checker replaces the pixels with a black and white checkerboard.
func (b *BitmapImage) Checker() {
	width := b.Width()
	c := 0
	for i := range b.Len() {
		if i%width == 0 && width%2 == 0 {
			c = 1 - c
		}
		if (i+c)%2 == 0 {
			putPixel(b.Data, i, White)
		} else {
			putPixel(b.Data, i, Black)
		}
	}
}

// Returns an image containing a single channel of the source image.
// channel can one of (`red`, `green`, and `blue`)
func (b *BitmapImage) GetChannel(channel string) (*BitmapImage, error) {
	newBitmap := b.Copy()

	// Turn the channels to zero except requested one!
	for row := range b.Height() {
		for col := range b.Width() {
			p := newBitmap.At(row, col)
			switch channel {
			case "red":
				p.G, p.B = 0, 0
			case "green":
				p.R, p.B = 0, 0
			case "blue":
				p.R, p.G = 0, 0
			default:
				return nil, errors.New("invalid color channel: only red, green, and blue are supported")
			}
			newBitmap.Set(row, col, p)
		}
	}

	return newBitmap, nil
}

// Print the bitmap in terminal, top row first. Use for small images only
func (b *BitmapImage) PrintBitmap(w io.Writer) {
	height := b.Height()
	for i := range height {
		row := height - i - 1
		if b.TopDown() {
			row = i
		}
		for col := range b.Width() {
			p := b.At(row, col)
			fmt.Fprint(w, utils.ColoredBlock("  ", int(p.R), int(p.G), int(p.B)))
		}
		fmt.Fprint(w, "\n")
	}
}

// Print the Metadata bitmap in terminal. (in human-readable format)
func (b *BitmapImage) PrintMetadata(w io.Writer) {
	fmt.Fprintf(w, "Filename: \t%v\n", b.Filename)
	fmt.Fprintf(w, "Filesize: \t%v bytes\n", b.BFHeader.Size)
	fmt.Fprintf(w, "Header: \t%v (%v bytes)\n", b.Variant, b.BIHeader.Size)
	fmt.Fprintf(w, "Width: \t\t%v px\n", b.Width())
	fmt.Fprintf(w, "Height: \t%v px\n", b.Height())
	fmt.Fprintf(w, "TopDown: \t%v\n", b.TopDown())
	fmt.Fprintf(w, "BitCount: \t%vbits\n", b.BIHeader.BitCount)
	fmt.Fprintf(w, "Palette: \t%v colours\n", len(b.Palette))
	fmt.Fprintf(w, "PixelOffset: \t%v bytes\n", b.BFHeader.OffBits)
	fmt.Fprintf(w, "PixelCount: \t%v pixels\n", b.Len())
	fmt.Fprintf(w, "Stride: \t%v bytes\n", b.Geometry.PaddedWidth)
	fmt.Fprintf(w, "Padding: \t%v bits\n", b.Geometry.PadBits)
	for _, err := range b.Errors {
		fmt.Fprintf(w, "Warning: \t%v\n", err)
	}
}
