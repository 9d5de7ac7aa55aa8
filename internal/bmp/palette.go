package bmp

import "fmt"

// Palette is the colour table of an indexed bitmap. Entries are stored as
// R, G, B, A on disk.
type Palette []Pixel

// ResolvePalette loads the colour table that follows the image header when
// the report reads the pixel data as indexes. A colour count of zero has
// already been widened to 2^bpp by Validate.
//
// Entries that no pixel can address are not loaded. A table running past
// the end of data is cut short and reported as
// ErrConflictingHeaderInformation.
func ResolvePalette(data []byte, ih ImageHeader, report ValidationReport) (Palette, error) {
	if !report.Indexed {
		return nil, nil
	}

	n := uint64(report.NumColours)
	if addressable := uint64(1) << ih.BitCount; n > addressable {
		n = addressable
	}

	start := int64(fileHeaderLen) + int64(ih.Size)
	var err error
	if avail := max(int64(len(data))-start, 0) / 4; n > uint64(avail) {
		err = fmt.Errorf("%w: colour table of %d entries, only %d present", ErrConflictingHeaderInformation, n, avail)
		n = uint64(avail)
	}

	palette := make(Palette, n)
	for i := range palette {
		e := data[start+int64(i)*4:]
		palette[i] = Pixel{R: e[0], G: e[1], B: e[2], A: e[3]}
	}
	return palette, err
}
