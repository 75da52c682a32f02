package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/youruser/mockupapp/internal/errs"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 7), uint8(y * 11), 90, 255})
		}
	}
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	src := gradient(37, 23)
	for _, enc := range []Encoder{{}, {Recompress: true}} {
		data, err := enc.Encode(src)
		if err != nil {
			t.Fatalf("Encode(recompress=%v) error = %v", enc.Recompress, err)
		}
		got, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Bounds() != src.Bounds() {
			t.Errorf("bounds = %v, want %v", got.Bounds(), src.Bounds())
		}
		for _, p := range []image.Point{{0, 0}, {36, 22}, {10, 5}} {
			want := src.RGBAAt(p.X, p.Y)
			r, g, b, a := got.At(p.X, p.Y).RGBA()
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || uint8(a>>8) != want.A {
				t.Errorf("pixel %v = %v, want %v", p, got.At(p.X, p.Y), want)
			}
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	src := gradient(20, 20)
	a, err := Encoder{}.Encode(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encoder{}.Encode(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same pixels twice produced different bytes")
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	for _, img := range []image.Image{nil, image.NewRGBA(image.Rect(0, 0, 0, 4))} {
		if _, err := (Encoder{}).Encode(img); !errs.Is(err, errs.CodeExportFailed) {
			t.Errorf("Encode(%v) error = %v, want EXPORT_FAILED", img, err)
		}
	}
}
