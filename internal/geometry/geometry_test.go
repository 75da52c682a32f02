package geometry

import (
	"math"
	"testing"

	"github.com/youruser/mockupapp/internal/errs"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b)) }

func TestScaleFactors(t *testing.T) {
	tests := []struct {
		name      string
		container Size
		out       Output
		wantS     float64
		wantW     int
		wantH     int
	}{
		{"multiplier", Size{500, 400}, Output{Multiplier: 8}, 8, 4000, 3200},
		{"width integer", Size{500, 400}, Output{Width: 1000}, 2, 1000, 800},
		{"width non-integer", Size{480, 360}, Output{Width: 1000}, 1000.0 / 480, 1000, 750},
		{"width wins", Size{100, 50}, Output{Width: 250, Multiplier: 9}, 2.5, 250, 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ScaleFactors(tt.container, tt.out)
			if err != nil {
				t.Fatalf("ScaleFactors: %v", err)
			}
			if !near(s.X, tt.wantS) || s.X != s.Y {
				t.Errorf("scale = %+v, want uniform %g", s, tt.wantS)
			}
			w, h := s.Pixels(tt.container)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Pixels = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScaleFactorsRejectsBadInput(t *testing.T) {
	cases := []struct {
		container Size
		out       Output
	}{
		{Size{0, 10}, Output{Multiplier: 2}},
		{Size{10, -1}, Output{Multiplier: 2}},
		{Size{10, 10}, Output{}},
		{Size{10, 10}, Output{Multiplier: -1}},
	}
	for _, c := range cases {
		if _, err := ScaleFactors(c.container, c.out); !errs.Is(err, errs.CodeInvalidGeometry) {
			t.Errorf("ScaleFactors(%+v, %+v) err = %v, want INVALID_GEOMETRY", c.container, c.out, err)
		}
	}
}

// Every derived quantity must be exactly k times its authored value, including
// when k is not an integer.
func TestScaleIsAppliedUniformly(t *testing.T) {
	s, err := ScaleFactors(Size{333, 217}, Output{Width: 1000})
	if err != nil {
		t.Fatal(err)
	}
	k := 1000.0 / 333
	r := s.Rect(Rect{12.5, 7.25, 100, 33.3})
	want := Rect{12.5 * k, 7.25 * k, 100 * k, 33.3 * k}
	if !near(r.X, want.X) || !near(r.Y, want.Y) || !near(r.W, want.W) || !near(r.H, want.H) {
		t.Errorf("Rect = %+v, want %+v", r, want)
	}
	if !near(s.Len(1.5), 1.5*k) {
		t.Errorf("Len(1.5) = %g, want %g", s.Len(1.5), 1.5*k)
	}
	p := s.Point(Point{3, 4})
	if !near(p.X, 3*k) || !near(p.Y, 4*k) {
		t.Errorf("Point = %+v", p)
	}
}

func TestFitContain(t *testing.T) {
	tests := []struct {
		name    string
		content Size
		box     Size
		want    Rect
	}{
		{"wider content", Size{200, 100}, Size{100, 100}, Rect{0, 25, 100, 50}},
		{"taller content", Size{100, 400}, Size{200, 200}, Rect{75, 0, 50, 200}},
		{"same aspect", Size{30, 20}, Size{90, 60}, Rect{0, 0, 90, 60}},
		{"upscale", Size{10, 10}, Size{300, 100}, Rect{100, 0, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FitRect(tt.content, tt.box, Contain)
			if err != nil {
				t.Fatal(err)
			}
			if f.Draw != tt.want {
				t.Errorf("Draw = %+v, want %+v", f.Draw, tt.want)
			}
			if f.Source != (Rect{0, 0, tt.content.W, tt.content.H}) {
				t.Errorf("Source = %+v, want full content", f.Source)
			}
		})
	}
}

// contains reports whether o lies inside r, allowing rounding slack.
func contains(r, o Rect) bool {
	const eps = 1e-9
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.X+o.W <= r.X+r.W+eps && o.Y+o.H <= r.Y+r.H+eps
}

func TestFitProperties(t *testing.T) {
	sizes := []Size{{1, 1}, {3, 7}, {640, 480}, {1080, 1920}, {333.3, 12.7}, {0.5, 900}}
	for _, c := range sizes {
		for _, b := range sizes {
			box := Rect{0, 0, b.W, b.H}

			contain, err := FitRect(c, b, Contain)
			if err != nil {
				t.Fatal(err)
			}
			if !contains(box, contain.Draw) {
				t.Errorf("contain %v in %v: draw %+v leaks", c, b, contain.Draw)
			}
			if contain.Draw.W != b.W && contain.Draw.H != b.H {
				t.Errorf("contain %v in %v: no axis matches exactly (%+v)", c, b, contain.Draw)
			}
			if !near(contain.Draw.W/contain.Draw.H, c.W/c.H) {
				t.Errorf("contain %v in %v: aspect ratio changed", c, b)
			}

			cover, err := FitRect(c, b, Cover)
			if err != nil {
				t.Fatal(err)
			}
			if cover.Draw != box {
				t.Errorf("cover %v in %v: draw %+v, want %+v", c, b, cover.Draw, box)
			}
			content := Rect{0, 0, c.W, c.H}
			if !contains(content, cover.Source) {
				t.Errorf("cover %v in %v: source %+v outside content", c, b, cover.Source)
			}
			if !near(cover.Source.W/cover.Source.H, b.W/b.H) {
				t.Errorf("cover %v in %v: source aspect %g, want %g", c, b, cover.Source.W/cover.Source.H, b.W/b.H)
			}
		}
	}
}

func TestFitCoverCentersCrop(t *testing.T) {
	f, err := FitRect(Size{400, 100}, Size{100, 100}, Cover)
	if err != nil {
		t.Fatal(err)
	}
	if f.Source != (Rect{150, 0, 100, 100}) {
		t.Errorf("Source = %+v, want centered 100x100 crop", f.Source)
	}
}

func TestFitRejectsDegenerate(t *testing.T) {
	for _, mode := range []FitMode{Contain, Cover} {
		if _, err := FitRect(Size{0, 10}, Size{10, 10}, mode); !errs.Is(err, errs.CodeInvalidGeometry) {
			t.Errorf("%s: zero content err = %v", mode, err)
		}
		if _, err := FitRect(Size{10, 10}, Size{10, -2}, mode); !errs.Is(err, errs.CodeInvalidGeometry) {
			t.Errorf("%s: negative box err = %v", mode, err)
		}
	}
}

func TestModeFor(t *testing.T) {
	if ModeFor(true) != Contain || ModeFor(false) != Cover {
		t.Error("original frame images contain, others cover")
	}
}

func TestElementTransform(t *testing.T) {
	tr := ElementTransform(Point{10, 20}, Size{40, 60}, 2, 90)
	if tr.Center != (Point{30, 50}) {
		t.Errorf("Center = %+v, want {30 50}", tr.Center)
	}
	if !near(tr.Rotation, math.Pi/2) {
		t.Errorf("Rotation = %g", tr.Rotation)
	}

	// A local offset of +1 on x is scaled to 2, then rotated 90° clockwise
	// onto +y, then moved to the center.
	p := tr.Matrix().Apply(Point{1, 0})
	if !near(p.X, 30) || !near(p.Y, 52) {
		t.Errorf("Matrix.Apply({1,0}) = %+v, want {30 52}", p)
	}
}

func TestPlacementCentersBox(t *testing.T) {
	tr := ElementTransform(Point{100, 50}, Size{80, 40}, 1, 0)
	m := tr.Placement(Size{80, 40}, Size{160, 20})

	tl := m.Apply(Point{0, 0})
	br := m.Apply(Point{160, 20})
	if !near(tl.X, 100) || !near(tl.Y, 50) || !near(br.X, 180) || !near(br.Y, 90) {
		t.Errorf("placement corners = %+v %+v", tl, br)
	}

	// Scaling keeps the center fixed.
	tr.Scale = 0.5
	b := tr.Placement(Size{80, 40}, Size{160, 20}).Bounds(Rect{0, 0, 160, 20})
	if !near(b.X, 120) || !near(b.Y, 60) || !near(b.W, 40) || !near(b.H, 20) {
		t.Errorf("scaled bounds = %+v", b)
	}
}

func TestAffineMulOrder(t *testing.T) {
	m := Translate(5, 0).Mul(ScaleXY(2, 2))
	if p := m.Apply(Point{1, 1}); p != (Point{7, 2}) {
		t.Errorf("translate∘scale = %+v, want {7 2}", p)
	}
	m = ScaleXY(2, 2).Mul(Translate(5, 0))
	if p := m.Apply(Point{1, 1}); p != (Point{12, 2}) {
		t.Errorf("scale∘translate = %+v, want {12 2}", p)
	}
	if Identity.Mul(m) != m || m.Mul(Identity) != m {
		t.Error("identity should be neutral")
	}
}

func TestRectInset(t *testing.T) {
	if got := (Rect{0, 0, 10, 20}).Inset(1); got != (Rect{1, 1, 8, 18}) {
		t.Errorf("Inset = %+v", got)
	}
	if got := (Rect{0, 0, 2, 20}).Inset(3); got.W != 0 || got.X != 1 {
		t.Errorf("over-inset = %+v, want collapsed width at center", got)
	}
}
