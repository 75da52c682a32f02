package compositor

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
	"github.com/youruser/mockupapp/internal/scene"
)

// lineSpacing is the line height of multi-line text as a multiple of the
// font height.
const lineSpacing = 1.2

// drawText renders a text element centered on its box. The anchor box comes
// from dimensionOnCollect, then from the element's own width and height.
// Text with neither is skipped.
func (r *run) drawText(e *scene.Text) error {
	b := e.Common()
	var box geometry.Size
	switch {
	case e.DimensionOnCollect != nil:
		box = e.DimensionOnCollect.Size()
	case b.Width > 0 && b.Height > 0:
		box = geometry.Size{W: b.Width, H: b.Height}
	default:
		return errs.New(errs.CodeInvalidInput, "text %s has no measured dimension", b.ID)
	}
	if strings.TrimSpace(e.Content) == "" {
		return nil
	}

	boxPx := r.scale.Size(box)
	t := geometry.ElementTransform(r.scale.Point(b.Origin()), boxPx, b.EffectiveScale(), b.Angle)
	if t.Scale == 0 {
		return nil
	}

	// The uniform element scale is folded into the face size so glyphs are
	// rasterized at their final resolution. The text is anchored on the
	// origin, so this matches translate, rotate, then scale.
	size := r.scale.Len(e.EffectiveFontSize()) * t.Scale
	face, err := r.opts.Fonts.Face(e.FontFamily, e.EffectiveWeight(), size)
	if err != nil {
		return errs.Wrap(errs.CodeInvalidInput, err, "text %s font", b.ID)
	}
	defer face.Close()

	c, err := ParseColor(e.TextColor)
	if err != nil {
		r.log.Debug("text color fallback to black", "id", b.ID, "err", err)
		c, _ = ParseColor("")
	}

	// Clipped text is drawn onto a layer covering only the mask, then
	// composited through it.
	var clip *image.Alpha
	if b.ClipPath != "" {
		clip = r.mask(b, t, boxPx)
	}
	var dc *gg.Context
	var offset image.Point
	if clip != nil {
		if clip.Rect.Empty() {
			return nil
		}
		dc = gg.NewContext(clip.Rect.Dx(), clip.Rect.Dy())
		offset = clip.Rect.Min
	} else {
		dc = gg.NewContextForRGBA(r.surface.Image())
	}
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.Identity()
	dc.Translate(t.Center.X-float64(offset.X), t.Center.Y-float64(offset.Y))
	dc.Rotate(t.Rotation)

	// Each line's em box is centered on its anchor: the baseline sits half
	// of (ascent - descent) below it.
	m := face.Metrics()
	ascent, descent := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
	baseline := (ascent - descent) / 2
	lines := strings.Split(strings.ReplaceAll(e.Content, "\r\n", "\n"), "\n")
	step := fixedToFloat(m.Height) * lineSpacing
	top := -step * float64(len(lines)-1) / 2
	for i, line := range lines {
		dc.DrawStringAnchored(line, 0, top+step*float64(i)+baseline, 0.5, 0)
	}

	if clip != nil {
		r.surface.DrawLayer(dc.Image(), clip.Rect, clip)
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// mask parses an element's clip-path and rasterizes it. Unsupported
// expressions are logged and ignored.
func (r *run) mask(b *scene.Base, t geometry.Transform, box geometry.Size) *image.Alpha {
	shape, err := parseClipPath(b.ClipPath, r.scale.X)
	if err != nil {
		r.log.Warn("ignoring clip-path", "id", b.ID, "clippath", b.ClipPath, "err", err)
		return nil
	}
	return clipMask(shape, t, box, r.surface.Bounds())
}
