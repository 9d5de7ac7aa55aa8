package bmp

import "fmt"

// ValidationReport is the outcome of cross-checking the headers against
// each other and against the length of the byte stream.
type ValidationReport struct {
	Errors []error

	Geometry       Geometry // derived from the stored bit depth
	NumColours     uint32   // colour count with the 2^bpp default applied
	PaletteBytes   int      // on-disk palette length when present
	PalettePresent bool     // a colour table sits between header and pixels
	Indexed        bool     // pixel data is read as palette indexes
	ExpectedLength int64
}

// Validate checks palette size, palette presence and file length. Every
// problem is collected; whether any of them is fatal is up to the caller.
func Validate(fh BitmapFileHeader, ih ImageHeader, fileLength int64) ValidationReport {
	var r ValidationReport
	bpp := int(ih.BitCount)

	switch ih.Compression {
	case biRGB, biBitFields, biAlphaBitFields:
	default:
		r.Errors = append(r.Errors, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compressionName(ih.Compression)))
	}
	if bpp < 1 || bpp > 32 {
		r.Errors = append(r.Errors, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedBitDepth, bpp))
		return r
	}

	// More colours than one pixel can address points at a corrupt file.
	if bpp < 32 && uint64(ih.ColorsUsed) > 1<<bpp {
		r.Errors = append(r.Errors, fmt.Errorf("%w: %d colours at %d bits per pixel", ErrInvalidPaletteSize, ih.ColorsUsed, bpp))
	}

	r.Geometry = ComputeGeometry(int(ih.Width), int(ih.Height), bpp)
	headerEnd := int64(fileHeaderLen) + int64(ih.Size)
	if int64(fh.OffBits) < headerEnd {
		r.Errors = append(r.Errors, fmt.Errorf("%w: pixel data offset %d lies inside the %d byte header", ErrConflictingHeaderInformation, fh.OffBits, headerEnd))
	}
	r.ExpectedLength = headerEnd + int64(r.Geometry.PaddedLength)

	if bpp != 24 && bpp != 32 {
		r.NumColours = ih.ColorsUsed
		if r.NumColours == 0 {
			r.NumColours = 1 << bpp
		}
		paletteBytes := int64(r.NumColours) * 4

		if headerEnd+paletteBytes == int64(fh.OffBits) {
			r.PalettePresent = true
			r.PaletteBytes = int(paletteBytes)
			r.Geometry.NoPalette = false
			r.ExpectedLength += paletteBytes
		} else if bpp != 8 && bpp != 16 {
			// Only 8 and 16 bit pixels have a direct colour reading.
			r.Errors = append(r.Errors, fmt.Errorf("%w: %d colours at %d bits per pixel", ErrExpectedColourPaletteNotPresent, r.NumColours, bpp))
		}
		r.Indexed = r.PalettePresent || (bpp != 8 && bpp != 16)
	}

	if fileLength != r.ExpectedLength {
		r.Errors = append(r.Errors, fmt.Errorf("%w: file is %d bytes, headers describe %d", ErrConflictingHeaderInformation, fileLength, r.ExpectedLength))
	}
	return r
}

func compressionName(c uint32) string {
	switch c {
	case biRLE8:
		return "RLE8"
	case biRLE4:
		return "RLE4"
	case biJPEG:
		return "JPEG"
	case biPNG:
		return "PNG"
	}
	return fmt.Sprintf("method %d", c)
}
