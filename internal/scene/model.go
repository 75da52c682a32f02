// Package scene holds the declarative mockup description: the container, the
// allowed print area, an optional slot layout and the z-ordered elements.
//
// A Scene is decoded once per request and is read-only afterwards.
package scene

import (
	"strconv"
	"strings"

	"github.com/youruser/mockupapp/internal/geometry"
)

// LayoutMode controls whether layout slots are drawn.
type LayoutMode string

const (
	LayoutNone  LayoutMode = "no-layout"
	LayoutWith  LayoutMode = "with-layout"
	LayoutFrame LayoutMode = "frame-layout"
)

// Rect is an authored rectangle. BorderWidth is kept as the CSS string the
// client sent ("2px", "1.5").
type Rect struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	BorderWidth string  `json:"borderWidth,omitempty"`
}

// Geometry converts r to a geometry.Rect.
func (r Rect) Geometry() geometry.Rect { return geometry.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height} }

// Position returns the top-left corner.
func (r Rect) Position() geometry.Point { return geometry.Point{X: r.X, Y: r.Y} }

// Border returns the parsed border width in authored pixels.
func (r Rect) Border() float64 { return ParseLength(r.BorderWidth) }

// ParseLength reads a CSS pixel length such as "2px" or "1.5". Anything it
// cannot read is 0.
func ParseLength(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Product identifies the product photo used as background.
type Product struct {
	ID     any    `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Mockup struct {
		ID       any    `json:"id,omitempty"`
		ImageURL string `json:"imageURL"`
	} `json:"mockup"`
}

// PlacedImage is the picture assigned to a slot.
type PlacedImage struct {
	ImageURL             string `json:"imageURL"`
	IsOriginalFrameImage bool   `json:"isOriginalFrameImage,omitempty"`
}

// Slot is a layout placeholder. Its rectangle is expressed in the same page
// frame as the container.
type Slot struct {
	SlotID      string      `json:"slotId"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	PlacedImage PlacedImage `json:"placedImage"`
}

// Geometry returns the slot rectangle.
func (s Slot) Geometry() geometry.Rect { return geometry.Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height} }

// FitMode returns contain for original frame images and cover otherwise.
func (s Slot) FitMode() geometry.FitMode { return geometry.ModeFor(s.PlacedImage.IsOriginalFrameImage) }

// Layout is the optional slot grid. Only its identity is used for drawing;
// the slot rectangles travel in Scene.Slots.
type Layout struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	LayoutType string `json:"layoutType,omitempty"`
	Slots      []Slot `json:"slots,omitempty"`
}

// Metadata is optional tracking information.
type Metadata struct {
	SessionID string `json:"sessionId,omitempty"`
}

// Scene is the root render request.
type Scene struct {
	MockupID         string     `json:"mockupId"`
	DevicePixelRatio float64    `json:"devicePixelRatio"`
	Container        Rect       `json:"printAreaContainerWrapper"`
	PrintArea        Rect       `json:"allowedPrintArea"`
	Product          Product    `json:"product"`
	LayoutMode       LayoutMode `json:"layoutMode"`
	Layout           *Layout    `json:"layout,omitempty"`
	Slots            []Slot     `json:"layoutSlotsForCanvas,omitempty"`
	SlotBorderWidth  string     `json:"layoutSlotBorderWidth,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"`

	PrintedImages []*PrintedImage `json:"printedImageElements,omitempty"`
	Stickers      []*Sticker      `json:"stickerElements,omitempty"`
	Texts         []*Text         `json:"textElements,omitempty"`
}

// Background returns the product photo reference.
func (s *Scene) Background() string { return s.Product.Mockup.ImageURL }

// ContainerSize returns the authored container dimensions.
func (s *Scene) ContainerSize() geometry.Size {
	return geometry.Size{W: s.Container.Width, H: s.Container.Height}
}

// DrawsSlots reports whether layout slots take part in the render: the mode
// must not be no-layout and a layout must be selected.
func (s *Scene) DrawsSlots() bool {
	return s.LayoutMode != LayoutNone && s.Layout != nil
}

// LayoutSlots returns the slots to draw: the canvas slot list if present,
// otherwise the slots carried by the layout itself.
func (s *Scene) LayoutSlots() []Slot {
	if len(s.Slots) > 0 || s.Layout == nil {
		return s.Slots
	}
	return s.Layout.Slots
}
