package imagepkg

import (
	"bytes"
	"encoding/hex"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/youruser/mockupapp/internal/errs"
)

// Format is a raster container format detected from magic bytes.
type Format string

const (
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatSVG     Format = "svg"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatAVIF    Format = "avif"
	FormatUnknown Format = "unknown"
)

// Decodable reports whether f can be decoded without transcoding.
func (f Format) Decodable() bool {
	return f == FormatPNG || f == FormatJPEG || f == FormatGIF
}

// maxSVGSide caps the raster size of an SVG viewBox.
const maxSVGSide = 8192

// Sniff identifies the container format from the first bytes of data. File
// names and declared content types are never consulted.
func Sniff(data []byte) Format {
	if isSVG(data) {
		return FormatSVG
	}
	if len(data) < 4 {
		return FormatUnknown
	}
	head := data[:4]
	switch {
	case bytes.Equal(head, []byte{0x89, 'P', 'N', 'G'}):
		return FormatPNG
	case head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff:
		return FormatJPEG
	case bytes.Equal(head, []byte("GIF8")):
		return FormatGIF
	case bytes.Equal(head, []byte("RIFF")):
		return FormatWebP
	case head[0] == 'B' && head[1] == 'M':
		return FormatBMP
	case bytes.Equal(head, []byte("II*\x00")), bytes.Equal(head, []byte("MM\x00*")):
		return FormatTIFF
	case head[0] == 0 && head[1] == 0 && head[2] == 0 && len(data) >= 8 && string(data[4:8]) == "ftyp":
		return FormatAVIF
	}
	return FormatUnknown
}

// Normalized is image data in a directly decodable format.
type Normalized struct {
	Data       []byte
	Original   Format
	Transcoded bool
}

// Normalize passes PNG, JPEG and GIF through and transcodes every other
// supported format to PNG. Transcoding failures are UNSUPPORTED_FORMAT.
func Normalize(data []byte) (*Normalized, error) {
	f := Sniff(data)
	if f.Decodable() {
		return &Normalized{Data: data, Original: f}, nil
	}

	var (
		img image.Image
		err error
	)
	switch f {
	case FormatWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	case FormatBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	case FormatTIFF:
		img, err = tiff.Decode(bytes.NewReader(data))
	case FormatSVG:
		img, err = rasterizeSVG(data)
	case FormatAVIF:
		return nil, errs.New(errs.CodeUnsupportedFormat, "no decoder available for ISO-BMFF (AVIF/HEIF) images")
	default:
		return nil, errs.New(errs.CodeUnsupportedFormat, "unrecognized signature %s", signature(data))
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeUnsupportedFormat, err, "transcode %s", f)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, errs.Wrap(errs.CodeUnsupportedFormat, err, "re-encode %s as png", f)
	}
	return &Normalized{Data: buf.Bytes(), Original: f, Transcoded: true}, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// svgText drops a UTF-8 byte order mark and leading whitespace.
func svgText(data []byte) []byte {
	return bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
}

// isSVG reports whether data starts like an XML or SVG document once a BOM
// and leading whitespace are skipped.
func isSVG(data []byte) bool {
	text := svgText(data)
	n := min(len(text), 16)
	head := bytes.ToLower(text[:n])
	for _, p := range []string{"<?xml", "<svg", "<!--", "<!doctype svg"} {
		if bytes.HasPrefix(head, []byte(p)) {
			return true
		}
	}
	return false
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgText(data)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		// CSS default replaced-element size
		w, h = 300, 150
	}
	if k := maxSVGSide / math.Max(w, h); k < 1 {
		w, h = w*k, h*k
	}
	iw, ih := int(math.Ceil(w)), int(math.Ceil(h))

	img := image.NewRGBA(image.Rect(0, 0, iw, ih))
	icon.SetTarget(0, 0, float64(iw), float64(ih))
	scanner := rasterx.NewScannerGV(iw, ih, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(iw, ih, scanner), 1.0)
	return img, nil
}

func signature(data []byte) string {
	n := min(len(data), 4)
	return hex.EncodeToString(data[:n])
}
