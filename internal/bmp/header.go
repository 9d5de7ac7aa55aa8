package bmp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ParseHeader reads the file header and the variable length image header
// from the start of data.
//
// In strict mode the first problem is returned with zero values. In
// permissive mode parsing carries on with whatever could be read: unknown
// header lengths are tagged VariantUnknown and missing bytes read as zero.
// The returned error is then a *Report listing every problem.
func ParseHeader(data []byte, permissive bool) (BitmapFileHeader, ImageHeader, HeaderVariant, error) {
	fh, ih, variant, errs := parseHeader(data, permissive)
	switch {
	case len(errs) == 0:
		return fh, ih, variant, nil
	case !permissive:
		return BitmapFileHeader{}, ImageHeader{}, VariantUnknown, errs[0]
	}
	return fh, ih, variant, &Report{Errs: errs}
}

func parseHeader(data []byte, permissive bool) (fh BitmapFileHeader, ih ImageHeader, variant HeaderVariant, errs []error) {
	// fail records err and reports whether parsing has to stop.
	fail := func(err error) bool {
		errs = append(errs, err)
		return !permissive
	}

	// File header plus the image header length field
	head := data
	if len(head) < fileHeaderLen+4 {
		if fail(fmt.Errorf("%w: %d bytes is too short for a bitmap", ErrConflictingHeaderInformation, len(data))) {
			return
		}
		head = zeroExtend(data, fileHeaderLen+4)
	}

	binary.Read(bytes.NewReader(head), binary.LittleEndian, &fh)
	if fh.Type != signature {
		if fail(fmt.Errorf("%w: signature %q is not \"BM\"", ErrInconsistentHeaderInformation, fh.Type[:])) {
			return
		}
	}

	length := binary.LittleEndian.Uint32(head[fileHeaderLen:])
	variant = variantForLength(length)
	if variant == VariantUnknown {
		if fail(fmt.Errorf("%w: header length %d", ErrUnknownHeaderFormat, length)) {
			return
		}
	}

	end := len(head)
	if declared := fileHeaderLen + int64(length); declared < int64(end) {
		end = int(declared)
	}
	raw := head[fileHeaderLen:end]
	if int64(len(raw)) < int64(length) {
		err := fmt.Errorf("%w: header declares %d bytes, only %d present", ErrConflictingHeaderInformation, length, len(raw))
		if fail(err) {
			return
		}
	}

	ih = decodeImageHeader(raw, length)
	if ih.Planes != 1 {
		if fail(fmt.Errorf("%w: %d colour planes, must be 1", ErrInconsistentHeaderInformation, ih.Planes)) {
			return
		}
	}
	return fh, ih, variant, errs
}
