package orb

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps noise values to colours.
type Palette []colorful.Color

// DefaultPalette runs from near-white to saturated orange.
var DefaultPalette = MustParsePalette(
	"#fff7ed",
	"#ffedd5",
	"#fed7aa",
	"#fdba74",
	"#fb923c",
	"#f97316",
)

// ParsePalette parses "#rrggbb" colours.
func ParsePalette(hex ...string) (Palette, error) {
	p := make(Palette, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parsing palette colour %q: %w", h, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// MustParsePalette is ParsePalette for package-level literals.
func MustParsePalette(hex ...string) Palette {
	p, err := ParsePalette(hex...)
	if err != nil {
		panic(err)
	}
	return p
}

// ByNoise picks the colour for a noise value in [-1, 1]. Anything that lands
// outside the palette falls back to the first colour.
func (p Palette) ByNoise(n float64) color.Color {
	if len(p) == 0 {
		return color.White
	}
	if math.IsNaN(n) || n < -1 || n >= 1 {
		return p[0]
	}
	i := int(math.Floor((n + 1) / 2 * float64(len(p))))
	if i < 0 || i >= len(p) {
		return p[0]
	}
	return p[i]
}
