package bmp

import (
	"fmt"
	"io"

	"github.com/apex/log"
)

// Decoding refuses images with more pixels than this, whatever the mode.
const maxPixels = 1 << 28

// Pixel data may be at most this many times longer than the bytes present.
const maxFill = 2

type options struct {
	permissive bool
}

// Option configures a decode.
type Option func(*options)

// WithPermissive makes decoding carry on past header problems. The bitmap
// is then returned together with a *Report of everything that was wrong,
// and callers must look at the report before trusting the pixels.
func WithPermissive(permissive bool) Option {
	return func(o *options) {
		o.permissive = permissive
	}
}

// Decode reads a whole bitmap from r and converts it to 32-bit RGBA.
func Decode(r io.Reader, opts ...Option) (*BitmapImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, opts...)
}

// DecodeBytes runs the decode pipeline over an in-memory file. The
// returned bitmap never aliases data.
//
// Strict mode (the default) returns the first problem and no bitmap.
// Permissive mode returns the best-effort bitmap and a *Report; unsupported
// compression and bit depths still abort.
func DecodeBytes(data []byte, opts ...Option) (*BitmapImage, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var errs []error
	// keep records err and reports whether decoding may go on.
	keep := func(err error) bool {
		if err == nil {
			return true
		}
		if !o.permissive || isFatal(err) {
			return false
		}
		errs = append(errs, err)
		return true
	}

	fh, ih, variant, herrs := parseHeader(data, o.permissive)
	for _, err := range herrs {
		if !keep(err) {
			return nil, err
		}
	}

	report := Validate(fh, ih, int64(len(data)))
	for _, err := range report.Errors {
		if !keep(err) {
			return nil, err
		}
	}

	width, height := abs(int(ih.Width)), abs(int(ih.Height))
	if int64(width)*int64(height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds the decoder limit", ErrConflictingHeaderInformation, width, height)
	}

	// Missing pixel bytes are zero-filled in permissive mode, but only while
	// the file holds a fair share of what the header claims.
	avail := max(int64(len(data))-int64(fh.OffBits), 0)
	if need := int64(report.Geometry.PaddedLength); need > maxFill*avail {
		return nil, fmt.Errorf("%w: headers describe %d bytes of pixel data, file holds %d", ErrConflictingHeaderInformation, need, avail)
	}

	palette, err := ResolvePalette(data, ih, report)
	if !keep(err) {
		return nil, err
	}

	raw := make([]byte, report.Geometry.PaddedLength)
	if off := int64(fh.OffBits); off < int64(len(data)) {
		copy(raw, data[off:])
	}

	pixels, err := Unpack(raw, report.Geometry, width, height, int(ih.BitCount), palette)
	if !keep(err) {
		return nil, err
	}

	b := &BitmapImage{
		BFHeader: fh,
		BIHeader: ih,
		Variant:  variant,
		Geometry: report.Geometry,
		Palette:  palette,
		Data:     pixels,
		Errors:   errs,
	}

	// The pixels no longer index the palette.
	b.BIHeader.BitCount = 32
	b.Geometry.NoPalette = true
	b.recalculate()

	log.WithFields(log.Fields{
		"header":  variant,
		"width":   width,
		"height":  height,
		"bpp":     ih.BitCount,
		"palette": len(palette),
	}).Debug("decoded bitmap")

	if len(errs) > 0 {
		for _, err := range errs {
			log.WithError(err).Warn("bitmap decoded despite error")
		}
		return b, &Report{Errs: errs}
	}
	return b, nil
}
