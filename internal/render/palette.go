package render

import (
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-starmap/internal/projection"
)

// SpectralClasses lists the legend entries, hottest first.
var SpectralClasses = []byte{'O', 'B', 'A', 'F', 'G', 'K', 'M'}

// Style is a complete visual parameter set for the renderer.
type Style struct {
	Name string
	Mode projection.Mode

	Palette    map[byte]colorful.Color // keyed by spectral class letter
	Neutral    colorful.Color          // unknown classes
	Background colorful.Color
	Ring       colorful.Color
	RingLabel  colorful.Color
	Label      colorful.Color
	Hover      colorful.Color
	Accent     colorful.Color

	SunCore colorful.Color
	SunMid  colorful.Color
	SunEdge colorful.Color

	// Glow scales the halo radius around each star (1 = twice the radius).
	Glow float64
	// RingAlpha is the opacity of distance rings against the background.
	RingAlpha float64
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Classic is the warm default look with logarithmic distances.
func Classic() Style {
	return Style{
		Name: "classic",
		Mode: projection.ModeLog,
		Palette: map[byte]colorful.Color{
			'O': rgb(90, 190, 255),
			'B': rgb(160, 210, 255),
			'A': rgb(255, 255, 255),
			'F': rgb(255, 244, 194),
			'G': rgb(255, 216, 107),
			'K': rgb(255, 179, 71),
			'M': rgb(255, 107, 107),
		},
		Neutral:    rgb(255, 255, 255),
		Background: rgb(0, 0, 0),
		Ring:       rgb(255, 255, 255),
		RingLabel:  rgb(150, 150, 150),
		Label:      rgb(230, 230, 230),
		Hover:      rgb(255, 255, 255),
		Accent:     rgb(255, 200, 80),
		SunCore:    rgb(255, 255, 255),
		SunMid:     rgb(255, 200, 80),
		SunEdge:    rgb(255, 170, 0),
		Glow:       1,
		RingAlpha:  40.0 / 255.0,
	}
}

// Nebula is a cooler look with square-root distances and a wider glow.
func Nebula() Style {
	return Style{
		Name: "nebula",
		Mode: projection.ModeSqrt,
		Palette: map[byte]colorful.Color{
			'O': rgb(110, 150, 255),
			'B': rgb(140, 180, 255),
			'A': rgb(210, 225, 255),
			'F': rgb(240, 240, 255),
			'G': rgb(255, 236, 170),
			'K': rgb(255, 190, 120),
			'M': rgb(255, 120, 150),
		},
		Neutral:    rgb(220, 220, 255),
		Background: rgb(8, 6, 24),
		Ring:       rgb(157, 78, 221),
		RingLabel:  rgb(123, 44, 191),
		Label:      rgb(208, 200, 255),
		Hover:      rgb(236, 72, 153),
		Accent:     rgb(217, 70, 239),
		SunCore:    rgb(255, 255, 240),
		SunMid:     rgb(255, 214, 140),
		SunEdge:    rgb(236, 72, 153),
		Glow:       1.5,
		RingAlpha:  70.0 / 255.0,
	}
}

var styles = map[string]func() Style{
	"classic": Classic,
	"nebula":  Nebula,
}

// StyleByName looks up a style case-insensitively.
func StyleByName(name string) (Style, bool) {
	fn, ok := styles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Style{}, false
	}
	return fn(), true
}

// StyleNames returns the registered style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextStyle returns the style after current in StyleNames order.
func NextStyle(current string) Style {
	names := StyleNames()
	for i, name := range names {
		if name == current {
			s, _ := StyleByName(names[(i+1)%len(names)])
			return s
		}
	}
	s, _ := StyleByName(names[0])
	return s
}

// SpectralColor returns the palette colour for a spectral class string,
// keyed by its first character. Unknown classes get the neutral colour.
func (s Style) SpectralColor(class string) colorful.Color {
	if class == "" {
		return s.Neutral
	}
	c := class[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if col, ok := s.Palette[c]; ok {
		return col
	}
	return s.Neutral
}

// Fade blends c over the background at opacity alpha.
func (s Style) Fade(c colorful.Color, alpha float64) colorful.Color {
	return s.Background.BlendRgb(c, projection.Clamp(alpha, 0, 1)).Clamped()
}
