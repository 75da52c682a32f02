package compositor

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"", color.NRGBA{0, 0, 0, 255}},
		{"#3b82f6", color.NRGBA{0x3b, 0x82, 0xf6, 255}},
		{"#FFF", color.NRGBA{255, 255, 255, 255}},
		{"#ff000080", color.NRGBA{255, 0, 0, 0x80}},
		{"#0f08", color.NRGBA{0, 255, 0, 0x88}},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}},
		{"rgba(255,0,0,0.5)", color.NRGBA{255, 0, 0, 128}},
		{"rgb(100% 0% 0% / 25%)", color.NRGBA{255, 0, 0, 64}},
		{"rgb(300, -5, 0)", color.NRGBA{255, 0, 0, 255}},
		{"red", color.NRGBA{255, 0, 0, 255}},
		{"  White ", color.NRGBA{255, 255, 255, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"#12", "#gggggg", "rgb(1,2)", "rgb(a,b,c)", "blurple"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestParseClipPath(t *testing.T) {
	box := geometry.Size{W: 100, H: 50}
	tests := []struct {
		expr string
		ok   bool
	}{
		{"inset(10px)", true},
		{"inset(5% 10px 0 2px round 4px)", true},
		{"circle()", true},
		{"circle(20px at 10px 30%)", true},
		{"circle(farthest-side at right)", true},
		{"ellipse(50% 25% at center top)", true},
		{"polygon(evenodd, 0 0, 100% 0, 50% 100%)", true},
		{"polygon(0 0, 10px 10px)", false},
		{"inset()", false},
		{"circle(1px 2px)", false},
		{"ellipse(10px)", false},
		{"url(#clip)", false},
		{"none", false},
		{"inset(abc)", false},
	}
	for _, tt := range tests {
		shape, err := parseClipPath(tt.expr, 2)
		if (err == nil) != tt.ok {
			t.Errorf("parseClipPath(%q) error = %v, want ok=%v", tt.expr, err, tt.ok)
			continue
		}
		if tt.ok {
			// Must rasterize without panicking.
			clipMask(shape, geometry.Transform{Center: geometry.Point{X: 50, Y: 25}, Scale: 1}, box, image.Rect(0, 0, 100, 50))
		}
	}
}

func TestClipMaskCoversOnlyElement(t *testing.T) {
	shape, err := parseClipPath("circle(50%)", 1)
	if err != nil {
		t.Fatal(err)
	}
	box := geometry.Size{W: 10, H: 10}
	surface := image.Rect(0, 0, 1000, 1000)

	mask := clipMask(shape, geometry.Transform{Center: geometry.Point{X: 500, Y: 500}, Scale: 1}, box, surface)
	if mask.Rect != image.Rect(495, 495, 505, 505) {
		t.Errorf("mask bounds = %v, want the element footprint", mask.Rect)
	}
	if a := mask.AlphaAt(500, 500).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
	if a := mask.AlphaAt(495, 495).A; a > 128 {
		t.Errorf("corner alpha = %d, want mostly clipped", a)
	}
	if a := mask.AlphaAt(10, 10).A; a != 0 {
		t.Errorf("alpha outside the element = %d, want 0", a)
	}

	rotated := clipMask(shape, geometry.Transform{Center: geometry.Point{X: 2, Y: 2}, Rotation: math.Pi / 4, Scale: 2}, box, surface)
	if !rotated.Rect.In(surface) || rotated.Rect.Min != (image.Point{}) {
		t.Errorf("rotated mask bounds = %v, want clipped to the surface", rotated.Rect)
	}

	off := clipMask(shape, geometry.Transform{Center: geometry.Point{X: -100, Y: -100}, Scale: 1}, box, surface)
	if !off.Rect.Empty() {
		t.Errorf("off-surface mask bounds = %v, want empty", off.Rect)
	}
}

func TestClipLengthsScale(t *testing.T) {
	shape, err := parseClipPath("inset(10px 20%)", 2)
	if err != nil {
		t.Fatal(err)
	}
	s := shape.(*insetShape)
	if got := s.top.resolve(50); got != 20 {
		t.Errorf("top = %g, want 20 (10px at scale 2)", got)
	}
	if got := s.left.resolve(100); got != 20 {
		t.Errorf("left = %g, want 20 (20%% of 100)", got)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   []string
		x, y float64
	}{
		{nil, 50, 25},
		{[]string{"left"}, 0, 25},
		{[]string{"bottom"}, 50, 50},
		{[]string{"top", "right"}, 100, 0},
		{[]string{"10px", "20%"}, 10, 10},
	}
	for _, tt := range tests {
		p, err := parsePosition(tt.in, 1)
		if err != nil {
			t.Errorf("parsePosition(%v) error = %v", tt.in, err)
			continue
		}
		if x, y := p.x.resolve(100), p.y.resolve(50); x != tt.x || y != tt.y {
			t.Errorf("parsePosition(%v) = (%g,%g), want (%g,%g)", tt.in, x, y, tt.x, tt.y)
		}
	}
}

func TestFontsFallBackToBuiltin(t *testing.T) {
	f, err := NewFonts(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []int{100, 400, 500, 700, 900} {
		face, err := f.Face(`"Roboto", sans-serif`, w, 24)
		if err != nil {
			t.Fatalf("Face(weight %d) error = %v", w, err)
		}
		if h := face.Metrics().Height.Ceil(); h <= 0 {
			t.Errorf("weight %d: face height = %d", w, h)
		}
		face.Close()
	}
	if _, err := f.Face("Roboto", 400, 0); err == nil {
		t.Error("Face() with zero size should fail")
	}
	if _, err := NewFonts([]FontFile{{Family: "X", Path: "/nonexistent.ttf"}}); err == nil {
		t.Error("NewFonts() with a missing file should fail")
	}
}

func TestStageString(t *testing.T) {
	if got := StageSlotsDrawn.String(); got != "slots-drawn" {
		t.Errorf("String() = %q", got)
	}
	if got := Stage(42).String(); got != "Stage(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewSurfaceRejects(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, -1}} {
		if _, err := NewSurface(sz[0], sz[1], 0, nil); err == nil {
			t.Errorf("NewSurface(%v) should fail", sz)
		}
	}
	// w*h overflows int64 on 64-bit platforms.
	if _, err := NewSurface(math.MaxInt, 2, 0, nil); !errs.Is(err, errs.CodeSurfaceInitFailed) {
		t.Errorf("NewSurface(MaxInt x 2) error = %v, want SURFACE_INIT_FAILED", err)
	}
	s, err := NewSurface(3, 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bounds() = %v", s.Bounds())
	}
}

func TestSurfaceSize(t *testing.T) {
	tests := []struct {
		name      string
		container geometry.Size
		scale     float64
		w, h      int
		ok        bool
	}{
		{"fits", geometry.Size{W: 30, H: 20}, 8, 240, 160, true},
		{"rounds", geometry.Size{W: 333, H: 200}, 1000.0 / 333, 1000, 601, true},
		{"huge sides", geometry.Size{W: 1 << 29, H: 1 << 29}, 8, 0, 0, false},
		{"one huge side", geometry.Size{W: 1e30, H: 1}, 1, 0, 0, false},
		{"area", geometry.Size{W: 20000, H: 20000}, 1, 0, 0, false},
		{"rounds to zero", geometry.Size{W: 0.1, H: 10}, 1, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := surfaceSize(tt.container, geometry.Scale{X: tt.scale, Y: tt.scale}, 0)
			if tt.ok {
				if err != nil || w != tt.w || h != tt.h {
					t.Errorf("surfaceSize() = %d, %d, %v; want %d, %d", w, h, err, tt.w, tt.h)
				}
				return
			}
			if !errs.Is(err, errs.CodeSurfaceInitFailed) {
				t.Errorf("surfaceSize() error = %v, want SURFACE_INIT_FAILED", err)
			}
		})
	}
}
