// BMP-specific structs and types
package bmp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const fileHeaderLen = 14

// Image header lengths. The length field is the only thing that tells the
// variants apart.
const (
	coreHeaderLen  = 12
	infoHeaderLen  = 40
	os22xHeaderLen = 64
	v4HeaderLen    = 108
	v5HeaderLen    = 124
)

// Compression methods
const (
	biRGB            = 0
	biRLE8           = 1
	biRLE4           = 2
	biBitFields      = 3
	biJPEG           = 4
	biPNG            = 5
	biAlphaBitFields = 6
)

var signature = [2]byte{0x42, 0x4d} // "BM"

// HeaderVariant identifies which image header schema a file uses.
type HeaderVariant int

const (
	VariantUnknown HeaderVariant = iota
	VariantV5                    // BITMAPV5HEADER
	VariantV4                    // BITMAPV4HEADER
	VariantInfo                  // BITMAPINFOHEADER
	VariantCore                  // BITMAPCOREHEADER
	VariantOS22X                 // OS22XBITMAPHEADER
)

func (v HeaderVariant) String() string {
	switch v {
	case VariantV5:
		return "BITMAPV5HEADER"
	case VariantV4:
		return "BITMAPV4HEADER"
	case VariantInfo:
		return "BITMAPINFOHEADER"
	case VariantCore:
		return "BITMAPCOREHEADER"
	case VariantOS22X:
		return "OS22XBITMAPHEADER"
	}
	return "UNKNOWN"
}

func variantForLength(length uint32) HeaderVariant {
	switch length {
	case coreHeaderLen:
		return VariantCore
	case infoHeaderLen:
		return VariantInfo
	case os22xHeaderLen:
		return VariantOS22X
	case v4HeaderLen:
		return VariantV4
	case v5HeaderLen:
		return VariantV5
	}
	return VariantUnknown
}

// The BitmapFileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader

type BitmapFileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; must be zero.
	Reserved2 uint16  // Reserved; must be zero.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

// The BitmapCoreHeader is the smallest image header (12 bytes). Width and
// height are 16 bits wide here.
type BitmapCoreHeader struct {
	Size     uint32
	Width    uint16
	Height   uint16
	Planes   uint16
	BitCount uint16
}

// The BitmapInfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap].

type BitmapInfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels. Negative means top-down.
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the image (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

// OS22XExtension holds the OS/2 2.x fields that follow the info header in
// a 64 byte header.
type OS22XExtension struct {
	Units         uint16 // Resolution units (0 is pixels per metre)
	Padding       uint16
	Direction     uint16 // Fill direction (0 is bottom-left origin)
	Halftoning    uint16
	HalftoneA     uint32
	HalftoneB     uint32
	ColorEncoding uint32
	Identifier    uint32
}

type CIEXYZ struct {
	X, Y, Z uint32
}

type CIEXYZTriple struct {
	Red, Green, Blue CIEXYZ
}

// V4Extension holds the BITMAPV4HEADER fields past the info header. The
// masks, colour space and gamma values are carried for round-tripping only.
type V4Extension struct {
	RedMask    uint32
	GreenMask  uint32
	BlueMask   uint32
	AlphaMask  uint32
	ColorSpace uint32
	Endpoints  CIEXYZTriple
	GammaRed   uint32 // 16.16 fixed point
	GammaGreen uint32
	GammaBlue  uint32
}

// V5Extension holds the BITMAPV5HEADER fields past the V4 fields.
type V5Extension struct {
	Intent      uint32
	ProfileData uint32
	ProfileSize uint32
	Reserved    uint32
}

// ImageHeader is the resolved image header of any variant. The extension
// pointers are set only for the variants that carry them; Opaque keeps the
// declared bytes of an unknown variant that could not be mapped to fields.
type ImageHeader struct {
	BitmapInfoHeader
	OS22X  *OS22XExtension
	V4     *V4Extension
	V5     *V5Extension
	Opaque []byte
}

// Variant reports the header schema selected by the length field.
func (h *ImageHeader) Variant() HeaderVariant {
	return variantForLength(h.Size)
}

// decodeImageHeader maps the declared header bytes onto an ImageHeader.
// raw may be shorter than length when the stream was truncated; missing
// fields read as zero.
func decodeImageHeader(raw []byte, length uint32) ImageHeader {
	variant := variantForLength(length)

	if variant == VariantCore {
		var core BitmapCoreHeader
		binary.Read(bytes.NewReader(zeroExtend(raw, coreHeaderLen)), binary.LittleEndian, &core)
		return ImageHeader{BitmapInfoHeader: BitmapInfoHeader{
			Size:     length,
			Width:    int32(core.Width),
			Height:   int32(core.Height),
			Planes:   core.Planes,
			BitCount: core.BitCount,
		}}
	}

	var h ImageHeader
	r := bytes.NewReader(zeroExtend(raw, v5HeaderLen))
	binary.Read(r, binary.LittleEndian, &h.BitmapInfoHeader)
	h.Size = length

	switch variant {
	case VariantOS22X:
		h.OS22X = new(OS22XExtension)
		binary.Read(r, binary.LittleEndian, h.OS22X)
	case VariantV4:
		h.V4 = new(V4Extension)
		binary.Read(r, binary.LittleEndian, h.V4)
	case VariantV5:
		h.V4 = new(V4Extension)
		h.V5 = new(V5Extension)
		binary.Read(r, binary.LittleEndian, h.V4)
		binary.Read(r, binary.LittleEndian, h.V5)
	case VariantUnknown:
		if len(raw) > infoHeaderLen {
			h.Opaque = bytes.Clone(raw[infoHeaderLen:])
		}
	}
	return h
}

// MarshalBinary serializes the header at exactly its recorded length.
func (h *ImageHeader) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	if h.Size == coreHeaderLen {
		core := BitmapCoreHeader{
			Size:     h.Size,
			Width:    uint16(h.Width),
			Height:   uint16(h.Height),
			Planes:   h.Planes,
			BitCount: h.BitCount,
		}
		if err := binary.Write(&buf, binary.LittleEndian, core); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if err := binary.Write(&buf, binary.LittleEndian, h.BitmapInfoHeader); err != nil {
		return nil, err
	}
	if h.OS22X != nil {
		if err := binary.Write(&buf, binary.LittleEndian, h.OS22X); err != nil {
			return nil, err
		}
	}
	if h.V4 != nil {
		if err := binary.Write(&buf, binary.LittleEndian, h.V4); err != nil {
			return nil, err
		}
	}
	if h.V5 != nil {
		if err := binary.Write(&buf, binary.LittleEndian, h.V5); err != nil {
			return nil, err
		}
	}
	buf.Write(h.Opaque)

	// An unknown header is only written back as far as its bytes were kept.
	if h.Variant() == VariantUnknown && int64(h.Size) > int64(buf.Len()) {
		return nil, fmt.Errorf("%w: header declares %d bytes, %d kept", ErrUnknownHeaderFormat, h.Size, buf.Len())
	}
	return zeroExtend(buf.Bytes(), int(h.Size))[:h.Size], nil
}

// zeroExtend returns b padded with zeros up to n bytes.
func zeroExtend(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
