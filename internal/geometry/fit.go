package geometry

import (
	"fmt"
	"math"

	"github.com/youruser/mockupapp/internal/errs"
)

// FitMode selects how content is placed inside a box.
type FitMode int

const (
	// Contain scales content to fit entirely inside the box, letterboxing the rest.
	Contain FitMode = iota
	// Cover scales content to fill the box and crops the overflow.
	Cover
)

func (m FitMode) String() string {
	switch m {
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// Fit is the result of FitRect. Draw is relative to the box's top-left corner;
// Source is the region of the content, in content pixels, that maps onto Draw.
type Fit struct {
	Draw   Rect
	Source Rect
}

// FitRect places content inside box according to mode. Both results are
// centered. Non-positive sizes are rejected.
func FitRect(content, box Size, mode FitMode) (Fit, error) {
	if !content.Positive() {
		return Fit{}, errs.New(errs.CodeInvalidGeometry, "content size %gx%g must be positive", content.W, content.H)
	}
	if !box.Positive() {
		return Fit{}, errs.New(errs.CodeInvalidGeometry, "box size %gx%g must be positive", box.W, box.H)
	}

	kx := box.W / content.W
	ky := box.H / content.H
	full := Rect{0, 0, content.W, content.H}

	switch mode {
	case Contain:
		var w, h float64
		if kx <= ky {
			w, h = box.W, math.Min(content.H*kx, box.H)
		} else {
			w, h = math.Min(content.W*ky, box.W), box.H
		}
		return Fit{
			Draw:   Rect{(box.W - w) / 2, (box.H - h) / 2, w, h},
			Source: full,
		}, nil

	case Cover:
		k := math.Max(kx, ky)
		sw := math.Min(box.W/k, content.W)
		sh := math.Min(box.H/k, content.H)
		return Fit{
			Draw:   Rect{0, 0, box.W, box.H},
			Source: Rect{(content.W - sw) / 2, (content.H - sh) / 2, sw, sh},
		}, nil
	}
	return Fit{}, errs.New(errs.CodeInvalidGeometry, "unknown fit mode %d", int(mode))
}

// ModeFor maps a slot's original-frame flag to a fit mode.
func ModeFor(originalFrame bool) FitMode {
	if originalFrame {
		return Contain
	}
	return Cover
}
