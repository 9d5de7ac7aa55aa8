package bmp

import (
	"errors"
	"strings"
)

var (
	ErrFileNotFound                    = errors.New("bitmap file not found")
	ErrUnknownHeaderFormat             = errors.New("unknown bitmap header format")
	ErrInvalidPaletteSize              = errors.New("invalid colour palette size")
	ErrInconsistentHeaderInformation   = errors.New("inconsistent header information")
	ErrExpectedColourPaletteNotPresent = errors.New("expected colour palette not present")
	ErrConflictingHeaderInformation    = errors.New("conflicting header information")

	// These two abort decoding even in permissive mode: there is no pixel
	// interpretation to fall back on.
	ErrUnsupportedCompression = errors.New("unsupported compression method")
	ErrUnsupportedBitDepth    = errors.New("unsupported bit depth")
)

// Report collects every problem found while decoding in permissive mode.
// The bitmap it accompanies is a best-effort result.
type Report struct {
	Errs []error
}

func (r *Report) Error() string {
	msgs := make([]string, len(r.Errs))
	for i, err := range r.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (r *Report) Unwrap() []error {
	return r.Errs
}

func isFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedCompression) || errors.Is(err, ErrUnsupportedBitDepth)
}
