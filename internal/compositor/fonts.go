package compositor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFile registers one font file under a CSS family name and weight.
type FontFile struct {
	Family string `toml:"family"`
	Weight int    `toml:"weight"`
	Path   string `toml:"path"`
}

type weighted struct {
	weight int
	font   *opentype.Font
}

// Fonts maps CSS font families and weights to parsed fonts. Every file is
// parsed up front; after construction a Fonts is read-only and can be shared
// by concurrent renders.
type Fonts struct {
	families map[string][]weighted
	builtin  []weighted
}

// NewFonts parses files. Families without a registered file fall back to the
// embedded Go fonts.
func NewFonts(files []FontFile) (*Fonts, error) {
	f := &Fonts{families: make(map[string][]weighted)}
	for _, b := range []struct {
		weight int
		ttf    []byte
	}{{400, goregular.TTF}, {500, gomedium.TTF}, {700, gobold.TTF}} {
		parsed, err := opentype.Parse(b.ttf)
		if err != nil {
			return nil, fmt.Errorf("parse builtin font: %w", err)
		}
		f.builtin = append(f.builtin, weighted{b.weight, parsed})
	}

	for _, file := range files {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", file.Path, err)
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", file.Path, err)
		}
		w := file.Weight
		if w <= 0 {
			w = 400
		}
		key := familyKey(file.Family)
		f.families[key] = append(f.families[key], weighted{w, parsed})
	}
	for _, list := range f.families {
		sort.Slice(list, func(i, j int) bool { return list[i].weight < list[j].weight })
	}
	return f, nil
}

// Face returns a face for the first known family in the CSS family list,
// at the registered weight closest to weight, sized px pixels.
func (f *Fonts) Face(family string, weight int, px float64) (font.Face, error) {
	if px <= 0 {
		return nil, fmt.Errorf("font size %g must be positive", px)
	}
	candidates := f.builtin
	for _, name := range strings.Split(family, ",") {
		if list, ok := f.families[familyKey(name)]; ok {
			candidates = list
			break
		}
	}
	best := closestWeight(candidates, weight)
	return opentype.NewFace(best, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func closestWeight(list []weighted, weight int) *opentype.Font {
	best := list[0]
	for _, w := range list[1:] {
		if abs(w.weight-weight) < abs(best.weight-weight) {
			best = w
		}
	}
	return best.font
}

func familyKey(name string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
