package bmp

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// fixture describes a bitmap file to build in memory.
type fixture struct {
	headerLen   uint32
	width       int32
	height      int32
	bpp         uint16
	colours     uint32 // declared colour count
	compression uint32
	palette     Palette // written straight after the header
	pixels      []byte  // padded rows
}

func (f fixture) header() ImageHeader {
	ih := ImageHeader{BitmapInfoHeader: BitmapInfoHeader{
		Size:        f.headerLen,
		Width:       f.width,
		Height:      f.height,
		Planes:      1,
		BitCount:    f.bpp,
		Compression: f.compression,
		ColorsUsed:  f.colours,
		XPixelsPerM: 2835,
		YPixelsPerM: 2835,
	}}

	v4 := func() *V4Extension {
		return &V4Extension{
			RedMask:    0x00ff0000,
			GreenMask:  0x0000ff00,
			BlueMask:   0x000000ff,
			AlphaMask:  0xff000000,
			ColorSpace: 0x73524742,
			Endpoints:  CIEXYZTriple{Red: CIEXYZ{1, 2, 3}, Blue: CIEXYZ{7, 8, 9}},
			GammaRed:   0x00010000,
		}
	}

	switch variantForLength(f.headerLen) {
	case VariantOS22X:
		ih.OS22X = &OS22XExtension{Halftoning: 1, HalftoneA: 7, Identifier: 0xdeadbeef}
	case VariantV4:
		ih.V4 = v4()
	case VariantV5:
		ih.V4 = v4()
		ih.V5 = &V5Extension{Intent: 4, ProfileSize: 0}
	case VariantUnknown:
		if f.headerLen > infoHeaderLen {
			ih.Opaque = bytes.Repeat([]byte{0xab}, int(f.headerLen-infoHeaderLen))
		}
	}
	return ih
}

func (f fixture) bytes(t *testing.T) []byte {
	t.Helper()

	ih := f.header()
	hdr, err := ih.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(hdr) != int(f.headerLen) {
		t.Fatalf("header is %d bytes, want %d", len(hdr), f.headerLen)
	}

	offset := fileHeaderLen + len(hdr) + len(f.palette)*4
	fh := BitmapFileHeader{
		Type:    signature,
		Size:    uint32(offset + len(f.pixels)),
		OffBits: uint32(offset),
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, fh)
	buf.Write(hdr)
	for _, p := range f.palette {
		buf.Write(p.Bytes())
	}
	buf.Write(f.pixels)
	return buf.Bytes()
}

// sequence returns n bytes counting up from start.
func sequence(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func pixelsOf(t *testing.T, b *BitmapImage) []Pixel {
	t.Helper()
	if got, want := len(b.Data), b.Len()*4; got != want {
		t.Fatalf("canonical buffer is %d bytes, want %d", got, want)
	}
	out := make([]Pixel, 0, b.Len())
	for row := range b.Height() {
		for col := range b.Width() {
			out = append(out, b.At(row, col))
		}
	}
	return out
}
