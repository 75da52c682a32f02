package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/youruser/mockupapp/internal/geometry"
)

// Kind names an element variant.
type Kind string

const (
	KindPrintedImage Kind = "printed-image"
	KindSticker      Kind = "sticker"
	KindText         Kind = "text"
)

// DefaultFontSize is used for text elements that carry no font size.
const DefaultFontSize = 33

// Element is a positioned, transformable visual unit. The set of
// implementations is closed: *PrintedImage, *Sticker and *Text.
type Element interface {
	Kind() Kind
	Common() *Base
	isElement()
}

// ImageElement is implemented by the element kinds that draw a bitmap.
type ImageElement interface {
	Element
	Ref() string
	GrayscaleAmount() float64
}

// Point is an authored position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Base holds the fields shared by every element kind.
type Base struct {
	ID       string  `json:"id"`
	Position Point   `json:"position"`
	Scale    float64 `json:"scale"`
	Angle    float64 `json:"angle"`
	ZIndex   int     `json:"zindex"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	ClipPath string  `json:"clippath,omitempty"`
}

// Common returns b.
func (b *Base) Common() *Base { return b }

// Origin returns the authored top-left position.
func (b *Base) Origin() geometry.Point { return geometry.Point{X: b.Position.X, Y: b.Position.Y} }

// EffectiveScale returns Scale, treating an unset value as 1.
func (b *Base) EffectiveScale() float64 {
	if b.Scale == 0 {
		return 1
	}
	return b.Scale
}

// BoxOr returns the authored box, falling back per axis to natural when the
// element leaves a dimension unset.
func (b *Base) BoxOr(natural geometry.Size) geometry.Size {
	out := geometry.Size{W: b.Width, H: b.Height}
	if out.W == 0 {
		out.W = natural.W
	}
	if out.H == 0 {
		out.H = natural.H
	}
	return out
}

// PrintedImage is a user image printed onto the product.
type PrintedImage struct {
	Base
	Path             string  `json:"path"`
	Grayscale        float64 `json:"grayscale,omitempty"`
	IsInitWithLayout bool    `json:"isInitWithLayout,omitempty"`
}

func (*PrintedImage) Kind() Kind                 { return KindPrintedImage }
func (*PrintedImage) isElement()                 {}
func (e *PrintedImage) Ref() string              { return e.Path }
func (e *PrintedImage) GrayscaleAmount() float64 { return e.Grayscale }

// Sticker is a decorative image.
type Sticker struct {
	Base
	Path      string  `json:"path"`
	Grayscale float64 `json:"grayscale,omitempty"`
}

func (*Sticker) Kind() Kind                 { return KindSticker }
func (*Sticker) isElement()                 {}
func (e *Sticker) Ref() string              { return e.Path }
func (e *Sticker) GrayscaleAmount() float64 { return e.Grayscale }

// Dimension is the box a text element measured in the editor. Both the
// DOM names (offsetWidth/offsetHeight) and plain width/height are accepted.
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d *Dimension) UnmarshalJSON(data []byte) error {
	var raw struct {
		Width        *float64 `json:"width"`
		Height       *float64 `json:"height"`
		OffsetWidth  *float64 `json:"offsetWidth"`
		OffsetHeight *float64 `json:"offsetHeight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pick := func(a, b *float64) float64 {
		if a != nil {
			return *a
		}
		if b != nil {
			return *b
		}
		return 0
	}
	d.Width = pick(raw.OffsetWidth, raw.Width)
	d.Height = pick(raw.OffsetHeight, raw.Height)
	return nil
}

// Size returns the dimension as a geometry.Size.
func (d Dimension) Size() geometry.Size { return geometry.Size{W: d.Width, H: d.Height} }

// FontWeight is a numeric CSS weight. It decodes from numbers, numeric
// strings and the keywords "normal" and "bold".
type FontWeight int

func (w *FontWeight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "normal":
			*w = 400
			return nil
		case "bold":
			*w = 700
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("font weight %q: %w", s, err)
		}
		*w = FontWeight(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*w = FontWeight(f)
	return nil
}

// Text is a text label.
type Text struct {
	Base
	Content            string     `json:"content"`
	TextColor          string     `json:"textColor"`
	FontFamily         string     `json:"fontFamily"`
	FontWeight         FontWeight `json:"fontWeight"`
	FontSize           float64    `json:"fontSize,omitempty"`
	DimensionOnCollect *Dimension `json:"dimensionOnCollect,omitempty"`
}

func (*Text) Kind() Kind { return KindText }
func (*Text) isElement() {}

// EffectiveFontSize returns FontSize or DefaultFontSize.
func (e *Text) EffectiveFontSize() float64 {
	if e.FontSize > 0 {
		return e.FontSize
	}
	return DefaultFontSize
}

// EffectiveWeight returns FontWeight or 400.
func (e *Text) EffectiveWeight() int {
	if e.FontWeight > 0 {
		return int(e.FontWeight)
	}
	return 400
}

// Ordered merges printed images, stickers and texts, in that priority, and
// sorts them by ascending zindex. The sort is stable so equal zindex values
// keep their list order.
func (s *Scene) Ordered() []Element {
	out := make([]Element, 0, len(s.PrintedImages)+len(s.Stickers)+len(s.Texts))
	for _, e := range s.PrintedImages {
		if e != nil {
			out = append(out, e)
		}
	}
	for _, e := range s.Stickers {
		if e != nil {
			out = append(out, e)
		}
	}
	for _, e := range s.Texts {
		if e != nil {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Common().ZIndex < out[j].Common().ZIndex
	})
	return out
}
