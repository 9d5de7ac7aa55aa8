// Filters perform color manipulation and per-pixel operations
package filters

import (
	"errors"

	"github.com/anas-shakeel/bmapcodec/internal/bmp"
	"github.com/anas-shakeel/bmapcodec/internal/utils"
)

// apply runs fn over every pixel of b in place.
func apply(b *bmp.BitmapImage, fn func(p bmp.Pixel) bmp.Pixel) {
	for row := range b.Height() {
		for col := range b.Width() {
			b.Set(row, col, fn(b.At(row, col)))
		}
	}
}

// Inverts (negates) the bitmap image. Alpha is left alone.
func Invert(b *bmp.BitmapImage) {
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		p.R = 255 - p.R
		p.G = 255 - p.G
		p.B = 255 - p.B
		return p
	})
}

// Greyscale modes
const (
	Luminance = 'L' // 0.2126 R + 0.7152 G + 0.0722 B
	Mean      = 'M' // arithmetic mean of R, G and B
	Alpha     = 'A' // alpha channel only
	Red       = 'R' // red channel only
	Green     = 'G' // green channel only
	Blue      = 'B' // blue channel only
)

// Converts a bitmap to Black-and-White using one of the greyscale modes.
// Unknown modes fall back to Mean.
func Greyscale(b *bmp.BitmapImage, mode byte) {
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		var v byte
		switch mode {
		case Luminance:
			v = byte(0.2126*float64(p.R) + 0.7152*float64(p.G) + 0.0722*float64(p.B))
		case Alpha:
			// Mode A greys by the alpha channel itself.
			v = p.A
		case Red:
			v = p.R
		case Green:
			v = p.G
		case Blue:
			v = p.B
		default:
			v = byte(utils.Average(int(p.R), int(p.G), int(p.B)))
		}
		p.R, p.G, p.B = v, v, v
		return p
	})
}

// Converts a bitmap to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(b *bmp.BitmapImage) {
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		L := byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
		p.R, p.G, p.B = L, L, L
		return p
	})
}

// Adjusts the Brightness of a Bitmap in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Pixel values are clipped to [0, 255].
func Brightness(b *bmp.BitmapImage, factor float64, method string) error {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return errors.New("invalid method: method must be add or multiply")
	}

	// Apply brightness (or darkness)
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		p.R = utils.Clamp(operation(float64(p.R), factor))
		p.G = utils.Clamp(operation(float64(p.G), factor))
		p.B = utils.Clamp(operation(float64(p.B), factor))
		return p
	})

	return nil
}

// Adjusts the Contrast of a Bitmap in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(b *bmp.BitmapImage, factor float64) {
	totalPixels := b.Len()
	if totalPixels == 0 {
		return
	}

	// Compute mean for each channel
	var sumR, sumG, sumB int
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		sumR += int(p.R)
		sumG += int(p.G)
		sumB += int(p.B)
		return p
	})
	meanR := float64(sumR / totalPixels) // Average of all R pixels
	meanG := float64(sumG / totalPixels) // Average of all G pixels
	meanB := float64(sumB / totalPixels) // Average of all B pixels

	// Apply contrast
	apply(b, func(p bmp.Pixel) bmp.Pixel {
		p.R = utils.Clamp(float64(p.R)*factor + (1-factor)*meanR)
		p.G = utils.Clamp(float64(p.G)*factor + (1-factor)*meanG)
		p.B = utils.Clamp(float64(p.B)*factor + (1-factor)*meanB)
		return p
	})
}
