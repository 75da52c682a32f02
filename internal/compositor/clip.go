package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/youruser/mockupapp/internal/geometry"
)

// clipShape is a parsed CSS basic shape, drawn in element-local coordinates
// (origin at the box's top-left corner, render units).
type clipShape interface {
	path(dc *gg.Context, box geometry.Size)
}

// length is a CSS length: either render pixels or a percentage.
type length struct {
	px  float64
	pct float64
	rel bool
}

func (l length) resolve(ref float64) float64 {
	if l.rel {
		return l.pct / 100 * ref
	}
	return l.px
}

// parseLength reads "12px", "12", "0" or "50%". Pixel values are authored
// and multiplied by scale.
func parseLength(s string, scale float64) (length, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return length{}, fmt.Errorf("bad percentage %q", s)
		}
		return length{pct: v, rel: true}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return length{}, fmt.Errorf("bad length %q", s)
	}
	return length{px: v * scale}, nil
}

// parseClipPath parses inset(), circle(), ellipse() and polygon(). Pixel
// lengths are authored and scaled by scale.
func parseClipPath(expr string, scale float64) (clipShape, error) {
	expr = strings.TrimSpace(expr)
	open, end := strings.IndexByte(expr, '('), strings.LastIndexByte(expr, ')')
	if open <= 0 || end != len(expr)-1 {
		return nil, fmt.Errorf("unsupported clip-path %q", expr)
	}
	fn := strings.ToLower(strings.TrimSpace(expr[:open]))
	args := strings.TrimSpace(expr[open+1 : end])

	switch fn {
	case "inset":
		return parseInset(args, scale)
	case "circle":
		return parseCircle(args, scale)
	case "ellipse":
		return parseEllipse(args, scale)
	case "polygon":
		return parsePolygon(args, scale)
	}
	return nil, fmt.Errorf("unsupported clip-path function %q", fn)
}

type insetShape struct {
	top, right, bottom, left length
	radius                   *length
}

func parseInset(args string, scale float64) (clipShape, error) {
	var round string
	if i := strings.Index(args, "round"); i >= 0 {
		args, round = args[:i], strings.TrimSpace(args[i+len("round"):])
	}
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 4 {
		return nil, fmt.Errorf("inset() takes 1 to 4 lengths, got %d", len(fields))
	}
	vals := make([]length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f, scale)
		if err != nil {
			return nil, err
		}
		vals[i] = l
	}
	s := &insetShape{}
	switch len(vals) {
	case 1:
		s.top, s.right, s.bottom, s.left = vals[0], vals[0], vals[0], vals[0]
	case 2:
		s.top, s.right, s.bottom, s.left = vals[0], vals[1], vals[0], vals[1]
	case 3:
		s.top, s.right, s.bottom, s.left = vals[0], vals[1], vals[2], vals[1]
	case 4:
		s.top, s.right, s.bottom, s.left = vals[0], vals[1], vals[2], vals[3]
	}
	if round != "" {
		// Only a single uniform radius is honored.
		l, err := parseLength(strings.Fields(round)[0], scale)
		if err != nil {
			return nil, err
		}
		s.radius = &l
	}
	return s, nil
}

func (s *insetShape) path(dc *gg.Context, box geometry.Size) {
	x := s.left.resolve(box.W)
	y := s.top.resolve(box.H)
	w := box.W - x - s.right.resolve(box.W)
	h := box.H - y - s.bottom.resolve(box.H)
	if w <= 0 || h <= 0 {
		return
	}
	if s.radius != nil {
		r := math.Min(s.radius.resolve(math.Min(box.W, box.H)), math.Min(w, h)/2)
		dc.DrawRoundedRectangle(x, y, w, h, r)
		return
	}
	dc.DrawRectangle(x, y, w, h)
}

// radius is a circle or ellipse radius: a length or a side keyword.
type radius struct {
	l       length
	keyword string
}

func parseRadius(s string, scale float64) (radius, error) {
	switch s {
	case "closest-side", "farthest-side":
		return radius{keyword: s}, nil
	}
	l, err := parseLength(s, scale)
	return radius{l: l}, err
}

// resolve computes the radius for center c along an axis of extent ext.
func (r radius) resolve(c, ext, ref float64) float64 {
	switch r.keyword {
	case "closest-side":
		return math.Min(c, ext-c)
	case "farthest-side":
		return math.Max(c, ext-c)
	}
	return r.l.resolve(ref)
}

type position struct{ x, y length }

var centerPos = position{x: length{pct: 50, rel: true}, y: length{pct: 50, rel: true}}

func parsePosition(fields []string, scale float64) (position, error) {
	kw := map[string]length{
		"left": {rel: true}, "top": {rel: true},
		"center": {pct: 50, rel: true},
		"right":  {pct: 100, rel: true}, "bottom": {pct: 100, rel: true},
	}
	parse := func(s string) (length, error) {
		if l, ok := kw[s]; ok {
			return l, nil
		}
		return parseLength(s, scale)
	}
	pos := centerPos
	switch len(fields) {
	case 0:
		return pos, nil
	case 1:
		l, err := parse(fields[0])
		if err != nil {
			return pos, err
		}
		if fields[0] == "top" || fields[0] == "bottom" {
			pos.y = l
		} else {
			pos.x = l
		}
		return pos, nil
	case 2:
		a, b := fields[0], fields[1]
		if a == "top" || a == "bottom" || b == "left" || b == "right" {
			a, b = b, a
		}
		x, err := parse(a)
		if err != nil {
			return pos, err
		}
		y, err := parse(b)
		if err != nil {
			return pos, err
		}
		return position{x, y}, nil
	}
	return pos, fmt.Errorf("position takes at most 2 values, got %d", len(fields))
}

// splitAt separates "<shape> at <position>".
func splitAt(args string) (shape, pos []string) {
	fields := strings.Fields(args)
	for i, f := range fields {
		if f == "at" {
			return fields[:i], fields[i+1:]
		}
	}
	return fields, nil
}

type ellipseShape struct {
	rx, ry radius
	circle bool
	at     position
}

func parseCircle(args string, scale float64) (clipShape, error) {
	shape, at := splitAt(args)
	s := &ellipseShape{rx: radius{keyword: "closest-side"}, circle: true}
	switch len(shape) {
	case 0:
	case 1:
		r, err := parseRadius(shape[0], scale)
		if err != nil {
			return nil, err
		}
		s.rx = r
	default:
		return nil, fmt.Errorf("circle() takes one radius, got %d", len(shape))
	}
	pos, err := parsePosition(at, scale)
	if err != nil {
		return nil, err
	}
	s.at = pos
	s.ry = s.rx
	return s, nil
}

func parseEllipse(args string, scale float64) (clipShape, error) {
	shape, at := splitAt(args)
	s := &ellipseShape{rx: radius{keyword: "closest-side"}, ry: radius{keyword: "closest-side"}}
	switch len(shape) {
	case 0:
	case 2:
		rx, err := parseRadius(shape[0], scale)
		if err != nil {
			return nil, err
		}
		ry, err := parseRadius(shape[1], scale)
		if err != nil {
			return nil, err
		}
		s.rx, s.ry = rx, ry
	default:
		return nil, fmt.Errorf("ellipse() takes two radii, got %d", len(shape))
	}
	pos, err := parsePosition(at, scale)
	if err != nil {
		return nil, err
	}
	s.at = pos
	return s, nil
}

func (s *ellipseShape) path(dc *gg.Context, box geometry.Size) {
	cx, cy := s.at.x.resolve(box.W), s.at.y.resolve(box.H)
	if s.circle {
		var r float64
		switch s.rx.keyword {
		case "closest-side":
			r = math.Min(math.Min(cx, box.W-cx), math.Min(cy, box.H-cy))
		case "farthest-side":
			r = math.Max(math.Max(cx, box.W-cx), math.Max(cy, box.H-cy))
		default:
			r = s.rx.l.resolve(math.Hypot(box.W, box.H) / math.Sqrt2)
		}
		if r > 0 {
			dc.DrawCircle(cx, cy, r)
		}
		return
	}
	rx := s.rx.resolve(cx, box.W, box.W)
	ry := s.ry.resolve(cy, box.H, box.H)
	if rx > 0 && ry > 0 {
		dc.DrawEllipse(cx, cy, rx, ry)
	}
}

type polygonShape struct {
	evenOdd bool
	points  []position
}

func parsePolygon(args string, scale float64) (clipShape, error) {
	s := &polygonShape{}
	parts := strings.Split(args, ",")
	if first := strings.TrimSpace(parts[0]); first == "evenodd" || first == "nonzero" {
		s.evenOdd = first == "evenodd"
		parts = parts[1:]
	}
	for _, p := range parts {
		fields := strings.Fields(p)
		if len(fields) != 2 {
			return nil, fmt.Errorf("polygon vertex %q needs two lengths", strings.TrimSpace(p))
		}
		x, err := parseLength(fields[0], scale)
		if err != nil {
			return nil, err
		}
		y, err := parseLength(fields[1], scale)
		if err != nil {
			return nil, err
		}
		s.points = append(s.points, position{x, y})
	}
	if len(s.points) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(s.points))
	}
	return s, nil
}

func (s *polygonShape) path(dc *gg.Context, box geometry.Size) {
	if s.evenOdd {
		dc.SetFillRule(gg.FillRuleEvenOdd)
	}
	for i, p := range s.points {
		x, y := p.x.resolve(box.W), p.y.resolve(box.H)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

// applyTransform loads translate(center), rotate, scale into dc, then moves
// the origin to the top-left of a box of size box. A zero box leaves the
// origin on the center.
func applyTransform(dc *gg.Context, t geometry.Transform, box geometry.Size) {
	dc.Identity()
	dc.Translate(t.Center.X, t.Center.Y)
	dc.Rotate(t.Rotation)
	dc.Scale(t.Scale, t.Scale)
	dc.Translate(-box.W/2, -box.H/2)
}

// clipMask rasterizes shape under t into an alpha mask that only covers the
// element box's footprint on the surface. The mask's Rect is in surface
// coordinates, so it can be used as a draw mask with a zero offset; pixels
// outside it are fully clipped. Shapes are confined to the element box.
func clipMask(shape clipShape, t geometry.Transform, box geometry.Size, bounds image.Rectangle) *image.Alpha {
	region := pixelBounds(t.Local(box).Bounds(geometry.Rect{W: box.W, H: box.H}), bounds)
	if region.Empty() {
		return image.NewAlpha(image.Rectangle{})
	}
	dc := gg.NewContext(region.Dx(), region.Dy())
	local := t
	local.Center = t.Center.Sub(geometry.Point{X: float64(region.Min.X), Y: float64(region.Min.Y)})
	applyTransform(dc, local, box)
	shape.path(dc, box)
	dc.SetColor(color.White)
	dc.Fill()
	mask := dc.AsMask()
	mask.Rect = region
	return mask
}

// pixelBounds is the smallest pixel rectangle covering r, clipped to within.
// Clipping happens before the integer conversion.
func pixelBounds(r geometry.Rect, within image.Rectangle) image.Rectangle {
	x0 := math.Max(math.Floor(r.X), float64(within.Min.X))
	y0 := math.Max(math.Floor(r.Y), float64(within.Min.Y))
	x1 := math.Min(math.Ceil(r.X+r.W), float64(within.Max.X))
	y1 := math.Min(math.Ceil(r.Y+r.H), float64(within.Max.Y))
	if !(x0 < x1 && y0 < y1) {
		return image.Rectangle{}
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}
