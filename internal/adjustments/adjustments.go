// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"
	"image"
	"image/draw"

	"github.com/disintegration/gift"

	"github.com/anas-shakeel/bmapcodec/internal/bmp"
)

// transform runs g over a copy of b and returns the copy with its headers
// updated to the new dimensions.
func transform(b *bmp.BitmapImage, g *gift.GIFT) (*bmp.BitmapImage, error) {
	src := b.Image()
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	out := b.Copy()
	if err := out.ReplaceData(dst.Rect.Dx(), dst.Rect.Dy(), dst.Pix); err != nil {
		return nil, err
	}
	return out, nil
}

// Crops a region in the bitmap image (0,0  is at the top-left of the image)
func Crop(b *bmp.BitmapImage, x, y, width, height int) (*bmp.BitmapImage, error) {
	// Validate bounds
	if x < 0 || y < 0 {
		return nil, errors.New("invalid bounds: negative origin")
	} else if width <= 0 || height <= 0 {
		return nil, errors.New("invalid bounds: empty region")
	} else if width+x > b.Width() {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height+y > b.Height() {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	// Bottom-up bitmaps store the top row last.
	if !b.TopDown() {
		y = b.Height() - y - height
	}

	return transform(b, gift.New(gift.Crop(image.Rect(x, y, x+width, y+height))))
}

// Resizes the bitmap to width x height using nearest-neighbour sampling
func ResizeNearest(b *bmp.BitmapImage, width, height int) (*bmp.BitmapImage, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid size: width and height must be greater than 0")
	}
	return transform(b, gift.New(nearest{width: width, height: height}))
}

// nearest is a gift.Filter that maps output pixel (x, y) to source pixel
// (x*srcW/width, y*srcH/height), rounding down. gift's own nearest
// neighbour resampling samples pixel centres instead.
type nearest struct {
	width, height int
}

func (f nearest) Bounds(image.Rectangle) image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

func (f nearest) Draw(dst draw.Image, src image.Image, _ *gift.Options) {
	sb, db := src.Bounds(), dst.Bounds()
	for y := range f.height {
		sy := sb.Min.Y + y*sb.Dy()/f.height
		for x := range f.width {
			sx := sb.Min.X + x*sb.Dx()/f.width
			dst.Set(db.Min.X+x, db.Min.Y+y, src.At(sx, sy))
		}
	}
}

// Mirrors the bitmap top to bottom
func FlipVertical(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
	return transform(b, gift.New(gift.FlipVertical()))
}

// Mirrors the bitmap left to right
func FlipHorizontal(b *bmp.BitmapImage) (*bmp.BitmapImage, error) {
	return transform(b, gift.New(gift.FlipHorizontal()))
}
