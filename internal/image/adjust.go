package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Grayscale desaturates img by amount percent (0-100), following the CSS
// grayscale() filter: 0 leaves the image untouched, 100 is fully gray.
// Alpha is preserved.
func Grayscale(img image.Image, amount float64) image.Image {
	if amount <= 0 {
		return img
	}
	p := amount / 100
	if p > 1 {
		p = 1
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		// sRGB luma coefficients of the CSS grayscale() filter
		y := 0.2126*r + 0.7152*g + 0.0722*b
		return color.NRGBA{
			R: clamp8(r + (y-r)*p),
			G: clamp8(g + (y-g)*p),
			B: clamp8(b + (y-b)*p),
			A: c.A,
		}
	})
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
