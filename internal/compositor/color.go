package compositor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Outline colors.
var (
	printAreaColor = mustColor("#3b82f6")
	slotGuideColor = mustColor("#4a5565")
)

// ParseColor reads a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), a named color or "transparent". An empty string is black.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.NRGBA{A: 0xff}, nil
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(s string) (color.NRGBA, error) {
	hex := s[1:]
	alpha := uint8(0xff)
	switch len(hex) {
	case 4:
		a, err := strconv.ParseUint(hex[3:]+hex[3:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		alpha, hex = uint8(a), hex[:3]
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		alpha, hex = uint8(a), hex[:6]
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// parseFunc handles rgb(r, g, b) and rgba(r, g, b, a), with channels as
// 0-255 numbers or percentages and alpha as 0-1 or a percentage. The space
// separated form "rgb(r g b / a)" is accepted too.
func parseFunc(s string) (color.NRGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", s)
	}
	body := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : end])
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color %q needs 3 or 4 components", s)
	}

	var ch [3]float64
	for i := range ch {
		v, err := component(parts[i], 255)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		ch[i] = v / 255
	}
	a := 1.0
	if len(parts) == 4 {
		v, err := component(parts[3], 1)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		a = v
	}
	r, g, b := colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clampUnit(a)*255 + 0.5)}, nil
}

// component parses a number or a percentage of full.
func component(s string, full float64) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, err
		}
		return v / 100 * full, nil
	}
	return strconv.ParseFloat(s, 64)
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func mustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
