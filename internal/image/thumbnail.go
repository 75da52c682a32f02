package imagepkg

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/errs"
)

// MaxThumbnail bounds the longest side of a thumbnail.
const MaxThumbnail = 2048

// Thumbnail scales img down so its longest side is at most size pixels,
// keeping the aspect ratio. Images already small enough are returned as is.
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// ThumbnailPNG decodes PNG bytes and returns the thumbnail bitmap.
func ThumbnailPNG(data []byte, size int) (image.Image, error) {
	if size <= 0 || size > MaxThumbnail {
		return nil, errs.New(errs.CodeInvalidInput, "thumbnail size %d must be between 1 and %d", size, MaxThumbnail)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.CodeDecodeFailed, err, "decode stored mockup")
	}
	return Thumbnail(img, size), nil
}
