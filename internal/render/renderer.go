// Package render draws star map frames into a styled terminal canvas.
package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
	"github.com/litescript/ls-starmap/internal/starmap"
)

// RingDistances are the reference circles drawn around the Sun, in ly.
var RingDistances = []float64{5, 10, 25, 50, 100, 500, 1000, 2000}

// Draw priorities. Higher weights overwrite lower ones.
const (
	weightRing      = 0.05
	weightRingLabel = 0.1
	weightMarker    = 0.5
	weightLabel     = 1.2
	weightHalo      = 1.5
	weightSelected  = 1.8
	weightCore      = 2.0
	weightSun       = 2.5
	weightLegend    = 3.0
	weightTooltip   = 4.0
)

// minGlowAlpha drops glow cells too faint to read on a terminal.
const minGlowAlpha = 0.08

// Renderer turns controller frames into canvases.
type Renderer struct {
	Style Style
}

// New creates a renderer with the given style.
func New(style Style) *Renderer {
	return &Renderer{Style: style}
}

// Draw renders f and returns the styled terminal text.
func (r *Renderer) Draw(f starmap.Frame) string {
	return r.Paint(f).String()
}

// Paint renders f into a canvas sized from the frame viewport.
func (r *Renderer) Paint(f starmap.Frame) *Canvas {
	vp := f.Scaler.Viewport
	c := NewCanvas(int(vp.Width/CellWidth), int(vp.Height/CellHeight))
	if vp.Width <= 0 || vp.Height <= 0 {
		return c
	}

	r.drawRings(c, f)
	r.drawSun(c, f)
	r.drawStars(c, f)
	r.drawLegend(c)
	r.drawPointer(c, f)
	r.drawTooltip(c, f)
	return c
}

// StarColor is the class colour of a star dimmed by its depth.
func (r *Renderer) StarColor(s catalog.Star) colorful.Color {
	return r.Style.Fade(r.Style.SpectralColor(s.SpectralClass), projection.DepthAlpha(s.DistanceLY))
}

// Pulse returns the hover halo scale for a frame number.
func Pulse(frame uint64) float64 {
	return math.Sin(float64(frame)*0.05)*0.1 + 1.15
}

func (r *Renderer) origin(f starmap.Frame) (float64, float64) {
	return f.Camera.WorldToScreen(layout.Position{}, f.Scaler.Viewport)
}

func (r *Renderer) drawRings(c *Canvas, f starmap.Frame) {
	ox, oy := r.origin(f)
	ringCol := r.Style.Fade(r.Style.Ring, r.Style.RingAlpha)
	labelCol := r.Style.Fade(r.Style.RingLabel, 0.8)

	for _, d := range RingDistances {
		rad := f.Scaler.ScaleDistance(d) * f.Camera.Zoom
		c.Circle(ox, oy, rad, func(x, y int) {
			c.Mark(x, y, Cell{Ch: '·', FG: ringCol, Weight: weightRing})
		})

		label := fmt.Sprintf("%g ly", d)
		lx, ly := PixelToCell(ox, oy-rad-5)
		c.Text(lx-len(label)/2, ly, label, labelCol, false, weightRingLabel)
	}
}

func (r *Renderer) drawSun(c *Canvas, f starmap.Frame) {
	ox, oy := r.origin(f)
	sunR := f.Scaler.ScaleRadius(1) * f.Camera.Zoom
	s := r.Style

	r.glow(c, ox, oy, sunR*3*s.Glow, s.SunCore, s.SunMid, s.SunEdge, 1, 0)

	x, y := PixelToCell(ox, oy)
	c.Mark(x, y, Cell{Ch: '☉', FG: s.SunMid, Bold: true, Weight: weightSun})

	label := "Sun (0 ly)"
	lx, ly := PixelToCell(ox, oy-sunR*4)
	if ly == y {
		ly--
	}
	c.Text(lx-len(label)/2, ly, label, s.Label, false, weightLabel)
}

func (r *Renderer) drawStars(c *Canvas, f starmap.Frame) {
	s := r.Style
	vp := f.Scaler.Viewport
	n := len(f.Stars)
	if len(f.Positions) < n {
		n = len(f.Positions)
	}

	for i := 0; i < n; i++ {
		star := f.Stars[i]
		sx, sy := f.Camera.WorldToScreen(f.Positions[i], vp)
		rad := f.Scaler.ScaleRadius(star.RadiusSolar) * f.Camera.Zoom
		class := s.SpectralColor(star.SpectralClass)
		alpha := projection.DepthAlpha(star.DistanceLY)

		r.glow(c, sx, sy, rad*2*s.Glow, colorful.Color{R: 1, G: 1, B: 1}, class, class, alpha, 0)

		x, y := PixelToCell(sx, sy)
		hovered := i == f.Hovered
		selected := i == f.Selected
		glyph := '•'
		if rad >= 3 {
			glyph = '●'
		}
		if hovered || selected {
			glyph = '✦'
		}
		c.Mark(x, y, Cell{Ch: glyph, FG: r.StarColor(star), Bold: hovered || selected, Weight: weightCore})

		if hovered {
			r.drawHalo(c, sx, sy, rad*1.5*Pulse(f.Number), Pulse(f.Number))
		}
		if selected {
			c.Text(x+2, y, "◄ "+star.Name, s.Accent, true, weightSelected)
		}
	}
}

// glow fills cells within extent of (sx, sy) with a radial gradient:
// core at the centre, mid at 0.4, fading toward edge and transparency.
func (r *Renderer) glow(c *Canvas, sx, sy, extent float64, core, mid, edge colorful.Color, alpha, baseWeight float64) {
	if extent <= 0 {
		return
	}
	cols, rows := c.Size()
	x0, y0 := PixelToCell(sx-extent, sy-extent)
	x1, y1 := PixelToCell(sx+extent, sy+extent)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, cols-1), min(y1, rows-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := CellCenter(x, y)
			t := math.Hypot(px-sx, py-sy) / extent
			if t > 1 {
				continue
			}
			var col colorful.Color
			a := alpha
			if t <= 0.4 {
				col = core.BlendRgb(mid, t/0.4)
			} else {
				u := (t - 0.4) / 0.6
				col = mid.BlendRgb(edge, u)
				a *= 1 - u
			}
			if a < minGlowAlpha {
				continue
			}
			c.Mark(x, y, Cell{
				Ch:     glowGlyph(a),
				FG:     r.Style.Fade(col, a),
				Weight: baseWeight + 0.2 + 0.6*a,
			})
		}
	}
}

func glowGlyph(a float64) rune {
	switch {
	case a < 0.35:
		return '░'
	case a < 0.6:
		return '▒'
	case a < 0.85:
		return '▓'
	default:
		return '█'
	}
}

func (r *Renderer) drawHalo(c *Canvas, sx, sy, rad, pulse float64) {
	col := r.Style.Fade(r.Style.Hover, 0.35+2*(pulse-1.05))
	if rad < CellWidth {
		x, y := PixelToCell(sx, sy)
		c.Mark(x-1, y, Cell{Ch: '(', FG: col, Bold: true, Weight: weightHalo})
		c.Mark(x+1, y, Cell{Ch: ')', FG: col, Bold: true, Weight: weightHalo})
		return
	}
	c.Circle(sx, sy, rad, func(x, y int) {
		c.Mark(x, y, Cell{Ch: '◦', FG: col, Weight: weightHalo})
	})
}

func (r *Renderer) drawLegend(c *Canvas) {
	for i, class := range SpectralClasses {
		y := 1 + i
		c.Mark(1, y, Cell{Ch: '●', FG: r.Style.Palette[class], Weight: weightLegend})
		c.Mark(2, y, Cell{Ch: ' ', Weight: weightLegend})
		c.Text(3, y, string(class), r.Style.Label, false, weightLegend)
	}
}

func (r *Renderer) drawPointer(c *Canvas, f starmap.Frame) {
	if !f.HasPointer {
		return
	}
	var glyph rune
	switch f.Cursor {
	case starmap.CursorGrab:
		glyph = '+'
	case starmap.CursorGrabbing:
		glyph = '×'
	default:
		return
	}
	x, y := PixelToCell(f.PointerX, f.PointerY)
	c.Mark(x, y, Cell{Ch: glyph, FG: r.Style.Accent, Weight: weightMarker})
}

func (r *Renderer) drawTooltip(c *Canvas, f starmap.Frame) {
	tip := f.Tooltip
	if tip == nil {
		return
	}
	lines := append([]string{tip.Title}, tip.Lines...)
	inner := 0
	for _, l := range lines {
		inner = max(inner, lipgloss.Width(l))
	}
	boxW, boxH := inner+4, len(lines)+2
	cols, rows := c.Size()

	x, y := PixelToCell(tip.X, tip.Y)
	if x+boxW > cols {
		px, _ := PixelToCell(f.PointerX, f.PointerY)
		x = px - 1 - boxW
	}
	if y+boxH > rows {
		y = rows - boxH
	}
	x, y = max(x, 0), max(y, 0)

	border := lipgloss.RoundedBorder()
	edge := r.Style.Accent
	put := func(cx, cy int, s string) {
		ch, _ := utf8.DecodeRuneInString(s)
		c.Set(cx, cy, Cell{Ch: ch, FG: edge, Weight: weightTooltip})
	}

	for row := 0; row < boxH; row++ {
		for col := 0; col < boxW; col++ {
			c.Set(x+col, y+row, Cell{Ch: ' ', Weight: weightTooltip})
		}
	}
	put(x, y, border.TopLeft)
	put(x+boxW-1, y, border.TopRight)
	put(x, y+boxH-1, border.BottomLeft)
	put(x+boxW-1, y+boxH-1, border.BottomRight)
	for col := 1; col < boxW-1; col++ {
		put(x+col, y, border.Top)
		put(x+col, y+boxH-1, border.Bottom)
	}
	for row := 1; row < boxH-1; row++ {
		put(x, y+row, border.Left)
		put(x+boxW-1, y+row, border.Right)
	}

	for i, l := range lines {
		fg := r.Style.Fade(r.Style.Label, 0.85)
		if i == 0 {
			fg = r.Style.Label
		}
		col := x + 2
		for _, ch := range l {
			c.Set(col, y+1+i, Cell{Ch: ch, FG: fg, Bold: i == 0, Weight: weightTooltip})
			col++
		}
	}
}
