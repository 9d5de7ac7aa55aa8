package bmp

import (
	"errors"
	"testing"
)

func validateFixture(t *testing.T, f fixture) ValidationReport {
	t.Helper()
	data := f.bytes(t)
	fh, ih, _, err := ParseHeader(data, false)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	return Validate(fh, ih, int64(len(data)))
}

func TestValidatePalettePresence(t *testing.T) {
	for _, tc := range []struct {
		name        string
		f           fixture
		present     bool
		indexed     bool
		numColours  uint32
		wantErr     error
		paletteSize int
	}{
		{
			name:       "1-bit with table",
			f:          fixture{headerLen: 40, width: 8, height: 1, bpp: 1, colours: 2, palette: Palette{Black, White}, pixels: make([]byte, 4)},
			present:    true,
			indexed:    true,
			numColours: 2,
		},
		{
			name:       "4-bit default colour count",
			f:          fixture{headerLen: 40, width: 2, height: 1, bpp: 4, palette: make(Palette, 16), pixels: make([]byte, 4)},
			present:    true,
			indexed:    true,
			numColours: 16,
		},
		{
			name:       "4-bit without table",
			f:          fixture{headerLen: 40, width: 2, height: 1, bpp: 4, pixels: make([]byte, 4)},
			indexed:    true,
			numColours: 16,
			wantErr:    ErrExpectedColourPaletteNotPresent,
		},
		{
			name:       "8-bit direct colour",
			f:          fixture{headerLen: 40, width: 4, height: 1, bpp: 8, pixels: make([]byte, 4)},
			numColours: 256,
		},
		{
			name:       "16-bit direct colour",
			f:          fixture{headerLen: 108, width: 2, height: 1, bpp: 16, pixels: make([]byte, 4)},
			numColours: 65536,
		},
		{
			name: "24-bit",
			f:    fixture{headerLen: 40, width: 1, height: 1, bpp: 24, pixels: make([]byte, 4)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := validateFixture(t, tc.f)
			if tc.wantErr == nil && len(r.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", r.Errors)
			}
			if tc.wantErr != nil && (len(r.Errors) != 1 || !errors.Is(r.Errors[0], tc.wantErr)) {
				t.Fatalf("errors = %v, want only %v", r.Errors, tc.wantErr)
			}
			if r.PalettePresent != tc.present || r.Indexed != tc.indexed {
				t.Errorf("present=%v indexed=%v, want %v %v", r.PalettePresent, r.Indexed, tc.present, tc.indexed)
			}
			if r.NumColours != tc.numColours {
				t.Errorf("NumColours = %d, want %d", r.NumColours, tc.numColours)
			}
			if r.Geometry.NoPalette == tc.present {
				t.Errorf("NoPalette = %v with present = %v", r.Geometry.NoPalette, tc.present)
			}
		})
	}
}

func TestValidateInvalidPaletteSize(t *testing.T) {
	f := fixture{headerLen: 40, width: 4, height: 1, bpp: 8, colours: 300, palette: make(Palette, 300), pixels: make([]byte, 4)}
	r := validateFixture(t, f)
	if len(r.Errors) == 0 || !errors.Is(r.Errors[0], ErrInvalidPaletteSize) {
		t.Fatalf("errors = %v, want ErrInvalidPaletteSize first", r.Errors)
	}
}

func TestValidateLength(t *testing.T) {
	f := fixture{headerLen: 40, width: 4, height: 4, bpp: 32, pixels: make([]byte, 64)}
	data := f.bytes(t)
	fh, ih, _, err := ParseHeader(data, false)
	if err != nil {
		t.Fatal(err)
	}

	r := Validate(fh, ih, int64(len(data)))
	if len(r.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if r.ExpectedLength != int64(len(data)) {
		t.Errorf("ExpectedLength = %d, want %d", r.ExpectedLength, len(data))
	}

	r = Validate(fh, ih, int64(len(data)-10))
	if len(r.Errors) != 1 || !errors.Is(r.Errors[0], ErrConflictingHeaderInformation) {
		t.Errorf("errors = %v, want ErrConflictingHeaderInformation", r.Errors)
	}
}

func TestValidateUnsupported(t *testing.T) {
	rle := validateFixture(t, fixture{headerLen: 40, width: 4, height: 1, bpp: 8, compression: biRLE8, pixels: make([]byte, 4)})
	if len(rle.Errors) == 0 || !errors.Is(rle.Errors[0], ErrUnsupportedCompression) {
		t.Errorf("RLE8: errors = %v", rle.Errors)
	}

	bitfields := validateFixture(t, fixture{headerLen: 108, width: 1, height: 1, bpp: 32, compression: biBitFields, pixels: make([]byte, 4)})
	if len(bitfields.Errors) != 0 {
		t.Errorf("BI_BITFIELDS: errors = %v", bitfields.Errors)
	}

	depth := validateFixture(t, fixture{headerLen: 40, width: 1, height: 1, bpp: 48, pixels: make([]byte, 8)})
	if len(depth.Errors) == 0 || !errors.Is(depth.Errors[len(depth.Errors)-1], ErrUnsupportedBitDepth) {
		t.Errorf("48-bit: errors = %v", depth.Errors)
	}
}
