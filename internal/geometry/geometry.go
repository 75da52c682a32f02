// Package geometry maps authored scene coordinates onto the output raster.
//
// All functions are pure. A render picks exactly one Scale with ScaleFactors
// and every authored quantity (positions, sizes, stroke widths, dash lengths,
// font sizes) goes through that value. The policy is uniform: the output width
// determines the factor and the height follows from the container's aspect
// ratio, so X and Y are always equal.
package geometry

import (
	"math"

	"github.com/youruser/mockupapp/internal/errs"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Positive reports whether both dimensions are strictly positive and finite.
func (s Size) Positive() bool {
	return s.W > 0 && s.H > 0 && !math.IsInf(s.W, 0) && !math.IsInf(s.H, 0)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Translate moves r by p.
func (r Rect) Translate(p Point) Rect { return Rect{r.X + p.X, r.Y + p.Y, r.W, r.H} }

// Inset shrinks r by d on every side. Dimensions never go below zero.
func (r Rect) Inset(d float64) Rect {
	out := Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
	if out.W < 0 {
		out.X, out.W = r.X+r.W/2, 0
	}
	if out.H < 0 {
		out.Y, out.H = r.Y+r.H/2, 0
	}
	return out
}

// Output selects the render resolution. Width wins over Multiplier when both
// are set.
type Output struct {
	Width      int
	Multiplier float64
}

// Scale is the authored-to-render factor chosen once per render.
type Scale struct {
	X, Y float64
}

// ScaleFactors computes the single scale used for a render of container.
func ScaleFactors(container Size, out Output) (Scale, error) {
	if !container.Positive() {
		return Scale{}, errs.New(errs.CodeInvalidGeometry, "container size %gx%g must be positive", container.W, container.H)
	}
	var s float64
	switch {
	case out.Width > 0:
		s = float64(out.Width) / container.W
	case out.Multiplier > 0:
		s = out.Multiplier
	default:
		return Scale{}, errs.New(errs.CodeInvalidGeometry, "output needs a width or a positive multiplier")
	}
	if math.IsInf(s, 0) || math.IsNaN(s) || s <= 0 {
		return Scale{}, errs.New(errs.CodeInvalidGeometry, "scale factor %g is not usable", s)
	}
	return Scale{X: s, Y: s}, nil
}

// Pixels returns the integer output dimensions for container under s. The
// caller bounds the result first; out-of-range floats do not convert.
func (s Scale) Pixels(container Size) (int, int) {
	return int(math.Round(container.W * s.X)), int(math.Round(container.H * s.Y))
}

// Len scales a scalar length such as a stroke width or font size.
func (s Scale) Len(v float64) float64 { return v * s.X }

// Point scales p.
func (s Scale) Point(p Point) Point { return Point{p.X * s.X, p.Y * s.Y} }

// Size scales sz.
func (s Scale) Size(sz Size) Size { return Size{sz.W * s.X, sz.H * s.Y} }

// Rect scales r, including its origin.
func (s Scale) Rect(r Rect) Rect {
	return Rect{r.X * s.X, r.Y * s.Y, r.W * s.X, r.H * s.Y}
}
