package scene

import (
	"encoding/json"
	"io"
	"math"

	"github.com/youruser/mockupapp/internal/errs"
)

// UnmarshalJSON decodes a scene. Besides the per-kind element lists, a
// generic "elements" array whose entries carry a "kind" discriminator is
// accepted; each entry is appended to the list of its kind. Unknown kinds are
// rejected.
func (s *Scene) UnmarshalJSON(data []byte) error {
	type plain Scene
	aux := struct {
		*plain
		Elements []json.RawMessage `json:"elements,omitempty"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	for i, raw := range aux.Elements {
		var head struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return errs.Wrap(errs.CodeInvalidInput, err, "elements[%d]", i)
		}
		switch head.Kind {
		case KindPrintedImage:
			var e PrintedImage
			if err := json.Unmarshal(raw, &e); err != nil {
				return errs.Wrap(errs.CodeInvalidInput, err, "elements[%d]", i)
			}
			s.PrintedImages = append(s.PrintedImages, &e)
		case KindSticker:
			var e Sticker
			if err := json.Unmarshal(raw, &e); err != nil {
				return errs.Wrap(errs.CodeInvalidInput, err, "elements[%d]", i)
			}
			s.Stickers = append(s.Stickers, &e)
		case KindText:
			var e Text
			if err := json.Unmarshal(raw, &e); err != nil {
				return errs.Wrap(errs.CodeInvalidInput, err, "elements[%d]", i)
			}
			s.Texts = append(s.Texts, &e)
		default:
			return errs.New(errs.CodeInvalidInput, "elements[%d]: unknown kind %q", i, head.Kind)
		}
	}
	return nil
}

// Decode reads, normalizes and validates a scene document.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		if errs.CodeOf(err) == errs.CodeInvalidInput {
			return nil, err
		}
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "decode scene")
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Normalize fills defaults: an empty or "none" layout mode becomes
// LayoutNone and a missing device pixel ratio becomes 1.
func (s *Scene) Normalize() {
	switch s.LayoutMode {
	case "", "none":
		s.LayoutMode = LayoutNone
	}
	if s.DevicePixelRatio <= 0 {
		s.DevicePixelRatio = 1
	}
}

// Validate checks the structural invariants of a scene.
func (s *Scene) Validate() error {
	switch s.LayoutMode {
	case LayoutNone, LayoutWith, LayoutFrame:
	default:
		return errs.New(errs.CodeInvalidInput, "unknown layout mode %q", s.LayoutMode)
	}
	if s.Background() == "" {
		return errs.New(errs.CodeInvalidInput, "product.mockup.imageURL is required")
	}
	if !finite(s.Container.Width, s.Container.Height, s.Container.X, s.Container.Y) ||
		s.Container.Width <= 0 || s.Container.Height <= 0 {
		return errs.New(errs.CodeInvalidGeometry, "container %gx%g must be positive", s.Container.Width, s.Container.Height)
	}
	if err := nonNegative("allowedPrintArea", s.PrintArea.Width, s.PrintArea.Height); err != nil {
		return err
	}
	for _, slot := range s.LayoutSlots() {
		if err := nonNegative("slot "+slot.SlotID, slot.Width, slot.Height); err != nil {
			return err
		}
	}
	for _, e := range s.Ordered() {
		b := e.Common()
		if err := nonNegative(string(e.Kind())+" "+b.ID, b.Width, b.Height); err != nil {
			return err
		}
		if b.Scale < 0 || !finite(b.Scale, b.Angle, b.Position.X, b.Position.Y) {
			return errs.New(errs.CodeInvalidGeometry, "%s %s: scale %g angle %g", e.Kind(), b.ID, b.Scale, b.Angle)
		}
		if t, ok := e.(*Text); ok && t.DimensionOnCollect != nil {
			if err := nonNegative("text "+b.ID+" dimensionOnCollect", t.DimensionOnCollect.Width, t.DimensionOnCollect.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

func nonNegative(what string, w, h float64) error {
	if w < 0 || h < 0 || !finite(w, h) {
		return errs.New(errs.CodeInvalidGeometry, "%s: size %gx%g must be non-negative", what, w, h)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
