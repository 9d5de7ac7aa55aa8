package bmp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Files with this suffix hold a zstd-compressed bitmap.
const zstdSuffix = ".zst"

func isZstd(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), zstdSuffix)
}

// Reads a Bitmap file
func ReadBitmap(filename string, opts ...Option) (*BitmapImage, error) {
	// Open the file
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if isZstd(filename) {
		dec, err := zstd.NewReader(file, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	b, err := Decode(r, opts...)
	if b != nil {
		b.Filename = filename
	}
	return b, err
}

// Saves the bitmap image onto local disk
func (b *BitmapImage) Save(filename string) (err error) {
	newBitmap, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := newBitmap.Close(); err == nil {
			err = cerr
		}
	}()

	if !isZstd(filename) {
		return Encode(newBitmap, b)
	}

	enc, err := zstd.NewWriter(newBitmap,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return err
	}
	if err := Encode(enc, b); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
