// Package export turns a finished surface into PNG bytes.
package export

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/errs"
)

// Encoder writes lossless PNG at the best compression level. Output is a pure
// function of the pixels.
type Encoder struct {
	// Recompress runs the encoded image through a second imaging pass.
	Recompress bool
}

// Encode returns the PNG encoding of img.
func (e Encoder) Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errs.New(errs.CodeExportFailed, "nothing to encode")
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errs.New(errs.CodeExportFailed, "image %dx%d is empty", b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errs.Wrap(errs.CodeExportFailed, err, "encode png")
	}
	if !e.Recompress {
		return buf.Bytes(), nil
	}

	decoded, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, errs.Wrap(errs.CodeExportFailed, err, "reload png")
	}
	var out bytes.Buffer
	if err := imaging.Encode(&out, decoded, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, errs.Wrap(errs.CodeExportFailed, err, "recompress png")
	}
	return out.Bytes(), nil
}
