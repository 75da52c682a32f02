package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine is an immutable 2x3 matrix:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity is the identity transform.
var Identity = Affine{A: 1, E: 1}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine { return Affine{A: 1, C: tx, E: 1, F: ty} }

// Rotate returns a rotation by theta radians. In a y-down raster a positive
// angle turns clockwise.
func Rotate(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

// ScaleXY returns a non-uniform scale.
func ScaleXY(sx, sy float64) Affine { return Affine{A: sx, E: sy} }

// Mul returns m∘o: the transform that applies o first, then m.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms p.
func (m Affine) Apply(p Point) Point {
	return Point{m.A*p.X + m.B*p.Y + m.C, m.D*p.X + m.E*p.Y + m.F}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 { return m.A*m.E - m.B*m.D }

// Aff3 converts m for golang.org/x/image/draw.
func (m Affine) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Bounds returns the axis-aligned bounding box of r after m.
func (m Affine) Bounds(r Rect) Rect {
	corners := [4]Point{
		m.Apply(Point{r.X, r.Y}),
		m.Apply(Point{r.X + r.W, r.Y}),
		m.Apply(Point{r.X, r.Y + r.H}),
		m.Apply(Point{r.X + r.W, r.Y + r.H}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Transform is the placement of one element in render space. Drawing always
// composes translate(Center), then rotate(Rotation), then scale(Scale), and
// draws the element centered on the resulting origin.
type Transform struct {
	Center   Point
	Rotation float64
	Scale    float64
}

// ElementTransform computes the pivot and rotation for an element whose
// top-left is pos and whose box is size, both already in render space.
func ElementTransform(pos Point, size Size, scale, angleDeg float64) Transform {
	return Transform{
		Center:   Point{pos.X + size.W/2, pos.Y + size.H/2},
		Rotation: angleDeg * math.Pi / 180,
		Scale:    scale,
	}
}

// Matrix returns translate(Center)·rotate(Rotation)·scale(Scale).
func (t Transform) Matrix() Affine {
	return Translate(t.Center.X, t.Center.Y).
		Mul(Rotate(t.Rotation)).
		Mul(ScaleXY(t.Scale, t.Scale))
}

// Local maps a point of the element's box (origin at the box's top-left)
// into render space.
func (t Transform) Local(box Size) Affine {
	return t.Matrix().Mul(Translate(-box.W/2, -box.H/2))
}

// Placement maps pixel coordinates of a natural-sized bitmap onto the element
// box, centered on the transformed origin.
func (t Transform) Placement(box, natural Size) Affine {
	return t.Local(box).Mul(ScaleXY(box.W/natural.W, box.H/natural.H))
}
