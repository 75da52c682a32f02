package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
)

// DefaultMaxPixels bounds the output surface (about 16k x 8k).
const DefaultMaxPixels = 128 << 20

// Surface is the single raster a render draws into. Each draw call receives
// its full transform; no drawing state survives between calls.
type Surface struct {
	img    *image.RGBA
	interp xdraw.Interpolator
}

// NewSurface allocates a transparent w x h surface.
func NewSurface(w, h int, maxPixels int64, interp xdraw.Interpolator) (*Surface, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if w <= 0 || h <= 0 {
		return nil, errs.New(errs.CodeSurfaceInitFailed, "surface size %dx%d must be positive", w, h)
	}
	// Each side is checked first so the product cannot overflow.
	if int64(w) > maxPixels || int64(h) > maxPixels || int64(w)*int64(h) > maxPixels {
		return nil, errs.New(errs.CodeSurfaceInitFailed, "surface %dx%d exceeds %d pixels", w, h, maxPixels)
	}
	if interp == nil {
		interp = xdraw.CatmullRom
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h)), interp: interp}, nil
}

// surfaceSize returns the pixel size of container under s. Sizes are
// checked in float64 before any integer conversion.
func surfaceSize(container geometry.Size, s geometry.Scale, maxPixels int64) (int, int, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	w, h := math.Round(container.W*s.X), math.Round(container.H*s.Y)
	limit := float64(maxPixels)
	if !(w >= 1 && h >= 1) || w > limit || h > limit || w*h > limit {
		return 0, 0, errs.New(errs.CodeSurfaceInitFailed, "surface %gx%g is empty or exceeds %d pixels", w, h, maxPixels)
	}
	iw, ih := s.Pixels(container)
	return iw, ih, nil
}

// Image returns the backing raster.
func (s *Surface) Image() *image.RGBA { return s.img }

// Bounds returns the surface bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// DrawImage composites the region src of img onto the surface. m maps
// coordinates relative to img's top-left corner into surface pixels. mask,
// when non-nil, limits the pixels that may change; it is aligned with the
// surface origin.
func (s *Surface) DrawImage(img image.Image, src geometry.Rect, m geometry.Affine, mask image.Image) {
	b := img.Bounds()
	sr := image.Rect(
		b.Min.X+int(math.Floor(src.X)),
		b.Min.Y+int(math.Floor(src.Y)),
		b.Min.X+int(math.Ceil(src.X+src.W)),
		b.Min.Y+int(math.Ceil(src.Y+src.H)),
	).Intersect(b)
	if sr.Empty() || m.Det() == 0 {
		return
	}
	s2d := m.Mul(geometry.Translate(-float64(b.Min.X), -float64(b.Min.Y)))
	var opts *xdraw.Options
	if mask != nil {
		opts = &xdraw.Options{DstMask: mask}
	}
	s.interp.Transform(s.img, s2d.Aff3(), img, sr, xdraw.Over, opts)
}

// DrawLayer composites layer, rendered for the surface region r, onto the
// surface through mask. mask shares surface coordinates.
func (s *Surface) DrawLayer(layer image.Image, r image.Rectangle, mask image.Image) {
	xdraw.DrawMask(s.img, r, layer, layer.Bounds().Min, mask, r.Min, xdraw.Over)
}

// StrokeRect strokes r with a dashed line centered on its edges.
func (s *Surface) StrokeRect(r geometry.Rect, width float64, dash []float64, c color.Color) {
	if width <= 0 || r.W <= 0 || r.H <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(s.img)
	dc.SetColor(c)
	dc.SetLineWidth(width)
	if len(dash) > 0 {
		dc.SetDash(dash...)
	}
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()
}

// PixelRect rounds r to the pixel grid and clips it to the surface.
func (s *Surface) PixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	).Intersect(s.img.Bounds())
}

// fitAffine maps content pixels so that f.Source lands on f.Draw, with
// f.Draw relative to origin.
func fitAffine(f geometry.Fit, origin geometry.Point) geometry.Affine {
	return geometry.Translate(origin.X+f.Draw.X, origin.Y+f.Draw.Y).
		Mul(geometry.ScaleXY(f.Draw.W/f.Source.W, f.Draw.H/f.Source.H)).
		Mul(geometry.Translate(-f.Source.X, -f.Source.Y))
}

// Interpolator names a resampling kernel.
func Interpolator(name string) xdraw.Interpolator {
	switch name {
	case "nearest":
		return xdraw.NearestNeighbor
	case "bilinear":
		return xdraw.BiLinear
	case "approxbilinear":
		return xdraw.ApproxBiLinear
	}
	return xdraw.CatmullRom
}
