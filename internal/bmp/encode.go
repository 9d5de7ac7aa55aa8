package bmp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes b in its on-disk layout: file header, image header at its
// recorded length, colour table when the pixels still index one, then the
// padded pixel rows. Headers are written as they are; call UpdateMeta
// first after changing the image.
func Encode(w io.Writer, b *BitmapImage) error {
	geo := ComputeGeometry(int(b.BIHeader.Width), int(b.BIHeader.Height), int(b.BIHeader.BitCount))
	if len(b.Data) < geo.PaddedLength {
		return fmt.Errorf("pixel buffer is %d bytes, %d-bit rows need %d", len(b.Data), b.BIHeader.BitCount, geo.PaddedLength)
	}

	header, err := b.BIHeader.MarshalBinary()
	if err != nil {
		return err
	}

	// Create a buffer (to reduce syscalls)
	bw := bufio.NewWriter(w)

	// Write File Header
	if err := binary.Write(bw, binary.LittleEndian, b.BFHeader); err != nil {
		return err
	}
	// Write Image Header
	if _, err := bw.Write(header); err != nil {
		return err
	}
	// Write Colour Table
	if !b.Geometry.NoPalette {
		for _, p := range b.Palette {
			if _, err := bw.Write(p.Bytes()); err != nil {
				return err
			}
		}
	}
	// Write the pixels
	if _, err := bw.Write(b.Data[:geo.PaddedLength]); err != nil {
		return err
	}

	return bw.Flush()
}
