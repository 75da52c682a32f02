package compositor

import (
	"image"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/scene"
)

// DefaultOutlineWidth is the print-area stroke, in authored pixels, used when
// the scene sets no border.
const DefaultOutlineWidth = 1.5

// outlineDash is the authored dash and gap length.
const outlineDash = 5

// drawBackground contain-fits the product photo into the whole container.
// Any failure aborts the render.
func (r *run) drawBackground() error {
	ref := r.scene.Background()
	rec, err := r.cache.Get(r.ctx, ref)
	if err != nil {
		r.log.Error("background unavailable", "ref", ref, "err", err)
		return err
	}
	fit, err := geometry.FitRect(rec.Size(), r.scene.ContainerSize(), geometry.Contain)
	if err != nil {
		return err
	}
	fit.Draw = r.scale.Rect(fit.Draw)
	r.surface.DrawImage(rec.Image, fit.Source, fitAffine(fit, geometry.Point{}), nil)
	return r.layer(LayerBackground, ref, nil)
}

// drawOutline strokes the dashed print-area guide.
func (r *run) drawOutline() error {
	pa := r.scene.PrintArea
	rect := pa.Geometry().Translate(geometry.Point{X: -r.origin.X, Y: -r.origin.Y})
	if rect.W <= 0 || rect.H <= 0 {
		return nil
	}
	width := pa.Border()
	if width <= 0 {
		width = DefaultOutlineWidth
	}
	stroke := r.scale.Len(width)
	dash := r.scale.Len(outlineDash)
	r.surface.StrokeRect(r.scale.Rect(rect).Inset(stroke/2), stroke, []float64{dash, dash}, printAreaColor)
	return r.layer(LayerOutline, "print-area", nil)
}

// drawSlots places each slot image inside the slot's content box and
// strokes the slot guide.
func (r *run) drawSlots() error {
	if !r.scene.DrawsSlots() {
		return nil
	}
	border := scene.ParseLength(r.scene.SlotBorderWidth)
	for _, slot := range r.scene.LayoutSlots() {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		rect := r.scale.Rect(slot.Geometry().Translate(geometry.Point{X: -r.origin.X, Y: -r.origin.Y}))
		err := r.drawSlotImage(slot, rect.Inset(r.scale.Len(border)))
		if border > 0 {
			stroke := r.scale.Len(border)
			dash := r.scale.Len(outlineDash)
			r.surface.StrokeRect(rect.Inset(stroke/2), stroke, []float64{dash, dash}, slotGuideColor)
		}
		if err := r.layer(LayerSlot, slot.SlotID, err); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) drawSlotImage(slot scene.Slot, content geometry.Rect) error {
	ref := slot.PlacedImage.ImageURL
	if ref == "" || content.W <= 0 || content.H <= 0 {
		return nil
	}
	rec, err := r.cache.Get(r.ctx, ref)
	if err != nil {
		return err
	}
	fit, err := geometry.FitRect(rec.Size(), content.Size(), slot.FitMode())
	if err != nil {
		return err
	}
	clip := r.surface.PixelRect(content)
	r.surface.DrawImage(rec.Image, fit.Source, fitAffine(fit, content.Min()), clip)
	return nil
}

// drawElements paints user elements in z-order.
func (r *run) drawElements() error {
	for _, e := range r.scene.Ordered() {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		var err error
		switch e := e.(type) {
		case scene.ImageElement:
			err = r.drawImageElement(e)
		case *scene.Text:
			err = r.drawText(e)
		default:
			err = errs.New(errs.CodeInvalidInput, "unknown element kind %s", e.Kind())
		}
		if err := r.layer(layerOf(e.Kind()), e.Common().ID, err); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) drawImageElement(e scene.ImageElement) error {
	rec, err := r.cache.Get(r.ctx, e.Ref())
	if err != nil {
		return err
	}
	b := e.Common()
	natural := rec.Size()
	box := r.scale.Size(b.BoxOr(natural))
	if box.W <= 0 || box.H <= 0 {
		return nil
	}
	t := geometry.ElementTransform(r.scale.Point(b.Origin()), box, b.EffectiveScale(), b.Angle)

	var mask image.Image
	if b.ClipPath != "" {
		if m := r.mask(b, t, box); m != nil {
			mask = m
		}
	}
	img := imagepkg.Grayscale(rec.Image, e.GrayscaleAmount())
	r.surface.DrawImage(img, geometry.Rect{W: natural.W, H: natural.H}, t.Placement(box, natural), mask)
	return nil
}

func layerOf(k scene.Kind) Layer {
	switch k {
	case scene.KindPrintedImage:
		return LayerPrinted
	case scene.KindSticker:
		return LayerSticker
	}
	return LayerText
}
