package scene

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/geometry"
)

const sampleScene = `{
  "mockupId": "m-1",
  "devicePixelRatio": 2,
  "printAreaContainerWrapper": {"width": 500, "height": 400, "x": 10, "y": 20, "borderWidth": "2px"},
  "allowedPrintArea": {"width": 300, "height": 200, "x": 110, "y": 120, "borderWidth": "1.5px"},
  "product": {"id": 7, "mockup": {"id": "a", "imageURL": "/assets/shirt.png"}},
  "layoutMode": "with-layout",
  "layout": {"id": "l1", "layoutType": "2-horizontal-square"},
  "layoutSlotsForCanvas": [
    {"slotId": "s1", "x": 110, "y": 120, "width": 150, "height": 200,
     "placedImage": {"imageURL": "blob:http://localhost/abc", "isOriginalFrameImage": true}}
  ],
  "layoutSlotBorderWidth": "2px",
  "printedImageElements": [
    {"id": "p1", "position": {"x": 1, "y": 2}, "scale": 1, "angle": 0, "zindex": 3, "path": "blob:http://x/p1", "grayscale": 50}
  ],
  "stickerElements": [
    {"id": "s1", "position": {"x": 5, "y": 6}, "scale": 2, "angle": 45, "zindex": 1, "width": 40, "height": 40, "path": "/stickers/a.png"}
  ],
  "textElements": [
    {"id": "t1", "position": {"x": 0, "y": 0}, "scale": 1, "angle": 0, "zindex": 2,
     "content": "Hello", "textColor": "#ff0000", "fontFamily": "Roboto", "fontWeight": "bold",
     "dimensionOnCollect": {"offsetWidth": 80, "offsetHeight": 33}}
  ]
}`

func TestDecodeSample(t *testing.T) {
	s, err := Decode(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.MockupID != "m-1" || s.Background() != "/assets/shirt.png" {
		t.Errorf("mockup id/background = %q/%q", s.MockupID, s.Background())
	}
	if s.Container.Border() != 2 || s.PrintArea.Border() != 1.5 {
		t.Errorf("borders = %g/%g", s.Container.Border(), s.PrintArea.Border())
	}
	if !s.DrawsSlots() || len(s.LayoutSlots()) != 1 {
		t.Fatalf("expected one drawable slot")
	}
	if s.LayoutSlots()[0].FitMode() != geometry.Contain {
		t.Error("original frame slot should contain")
	}
	s.Layout = nil
	if s.DrawsSlots() {
		t.Error("slots without a selected layout should not draw")
	}

	txt := s.Texts[0]
	if txt.EffectiveWeight() != 700 {
		t.Errorf("weight = %d, want 700", txt.EffectiveWeight())
	}
	if txt.DimensionOnCollect == nil || txt.DimensionOnCollect.Size() != (geometry.Size{W: 80, H: 33}) {
		t.Errorf("dimension = %+v", txt.DimensionOnCollect)
	}
	if txt.EffectiveFontSize() != DefaultFontSize {
		t.Errorf("font size = %g, want default", txt.EffectiveFontSize())
	}
	if s.PrintedImages[0].GrayscaleAmount() != 50 {
		t.Errorf("grayscale = %g", s.PrintedImages[0].GrayscaleAmount())
	}

	var ids []string
	for _, e := range s.Ordered() {
		ids = append(ids, e.Common().ID)
	}
	if got := strings.Join(ids, ","); got != "s1,t1,p1" {
		t.Errorf("order = %s, want s1,t1,p1", got)
	}
}

func TestOrderedIsStable(t *testing.T) {
	s := &Scene{
		PrintedImages: []*PrintedImage{
			{Base: Base{ID: "a", ZIndex: 1}},
			{Base: Base{ID: "b", ZIndex: 0}},
			{Base: Base{ID: "c", ZIndex: 1}},
		},
		Stickers: []*Sticker{{Base: Base{ID: "d", ZIndex: 1}}, {Base: Base{ID: "e", ZIndex: 0}}},
		Texts:    []*Text{{Base: Base{ID: "f", ZIndex: 0}}},
	}
	var ids []string
	for _, e := range s.Ordered() {
		ids = append(ids, e.Common().ID)
	}
	if got := strings.Join(ids, ""); got != "befacd" {
		t.Errorf("order = %s, want befacd", got)
	}

	// zindex strictly ascending between consecutive groups
	ordered := s.Ordered()
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Common().ZIndex > ordered[i].Common().ZIndex {
			t.Fatalf("zindex decreases at %d", i)
		}
	}
}

func TestGenericElementsArray(t *testing.T) {
	doc := `{
	  "printAreaContainerWrapper": {"width": 10, "height": 10},
	  "product": {"mockup": {"imageURL": "bg.png"}},
	  "elements": [
	    {"kind": "sticker", "id": "x", "path": "a.png", "zindex": 2},
	    {"kind": "text", "id": "y", "content": "hi", "zindex": 1},
	    {"kind": "printed-image", "id": "z", "path": "b.png"}
	  ]
	}`
	s, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Stickers) != 1 || len(s.Texts) != 1 || len(s.PrintedImages) != 1 {
		t.Fatalf("elements not routed by kind: %+v", s)
	}
	if s.LayoutMode != LayoutNone || s.DevicePixelRatio != 1 {
		t.Errorf("defaults not applied: mode=%q dpr=%g", s.LayoutMode, s.DevicePixelRatio)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"unknown kind", `{"printAreaContainerWrapper":{"width":1,"height":1},"product":{"mockup":{"imageURL":"a"}},"elements":[{"kind":"video"}]}`, errs.CodeInvalidInput},
		{"bad json", `{`, errs.CodeInvalidInput},
		{"no background", `{"printAreaContainerWrapper":{"width":1,"height":1}}`, errs.CodeInvalidInput},
		{"bad layout mode", `{"layoutMode":"grid","printAreaContainerWrapper":{"width":1,"height":1},"product":{"mockup":{"imageURL":"a"}}}`, errs.CodeInvalidInput},
		{"zero container", `{"printAreaContainerWrapper":{"width":0,"height":1},"product":{"mockup":{"imageURL":"a"}}}`, errs.CodeInvalidGeometry},
		{"negative print area", `{"printAreaContainerWrapper":{"width":1,"height":1},"allowedPrintArea":{"width":-1},"product":{"mockup":{"imageURL":"a"}}}`, errs.CodeInvalidGeometry},
		{"negative element", `{"printAreaContainerWrapper":{"width":1,"height":1},"product":{"mockup":{"imageURL":"a"}},"stickerElements":[{"id":"s","width":-3}]}`, errs.CodeInvalidGeometry},
		{"negative scale", `{"printAreaContainerWrapper":{"width":1,"height":1},"product":{"mockup":{"imageURL":"a"}},"stickerElements":[{"id":"s","scale":-1}]}`, errs.CodeInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFontWeight(t *testing.T) {
	tests := []struct {
		in   string
		want FontWeight
	}{
		{`400`, 400},
		{`"600"`, 600},
		{`"bold"`, 700},
		{`"normal"`, 400},
		{`null`, 0},
		{`700.0`, 700},
	}
	for _, tt := range tests {
		var w FontWeight
		if err := json.Unmarshal([]byte(tt.in), &w); err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if w != tt.want {
			t.Errorf("%s = %d, want %d", tt.in, w, tt.want)
		}
	}
	var w FontWeight
	if err := json.Unmarshal([]byte(`"heavy"`), &w); err == nil {
		t.Error("expected error for unknown keyword")
	}
}

func TestParseLength(t *testing.T) {
	tests := map[string]float64{"2px": 2, " 1.5px ": 1.5, "3": 3, "": 0, "abc": 0, "-2px": 0}
	for in, want := range tests {
		if got := ParseLength(in); got != want {
			t.Errorf("ParseLength(%q) = %g, want %g", in, got, want)
		}
	}
}

func TestBoxOr(t *testing.T) {
	b := Base{Width: 40}
	if got := b.BoxOr(geometry.Size{W: 100, H: 50}); got != (geometry.Size{W: 40, H: 50}) {
		t.Errorf("BoxOr = %+v", got)
	}
	if (&Base{}).EffectiveScale() != 1 {
		t.Error("unset scale should be 1")
	}
}
