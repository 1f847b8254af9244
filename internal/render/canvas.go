package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Terminal cells are mapped onto a virtual pixel space so the layout and
// hit-testing math works in the same units regardless of terminal size.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Cell is one character of the canvas.
type Cell struct {
	Ch     rune
	FG     colorful.Color
	Bold   bool
	Weight float64 // draw priority; heavier marks overwrite lighter ones
}

// Empty reports whether nothing has been drawn in the cell.
func (c Cell) Empty() bool {
	return c.Ch == 0 || c.Ch == ' '
}

// Canvas is a fixed-size grid of cells addressed in cell coordinates.
type Canvas struct {
	cols, rows int
	cells      []Cell
}

// NewCanvas allocates a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.cols && y >= 0 && y < c.rows
}

// At returns the cell at (x, y); out-of-range cells are empty.
func (c *Canvas) At(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y*c.cols+x]
}

// Set writes a cell unconditionally.
func (c *Canvas) Set(x, y int, cell Cell) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[y*c.cols+x] = cell
}

// Mark writes a cell unless something heavier is already there. Equal
// weights overwrite, so later marks win ties.
func (c *Canvas) Mark(x, y int, cell Cell) bool {
	if !c.inBounds(x, y) {
		return false
	}
	cur := &c.cells[y*c.cols+x]
	if !cur.Empty() && cur.Weight > cell.Weight {
		return false
	}
	*cur = cell
	return true
}

// Text writes s left to right starting at (x, y), clipping at the edges.
func (c *Canvas) Text(x, y int, s string, fg colorful.Color, bold bool, weight float64) {
	for _, r := range s {
		if x >= c.cols {
			return
		}
		c.Mark(x, y, Cell{Ch: r, FG: fg, Bold: bold, Weight: weight})
		x++
	}
}

// PixelToCell maps a virtual pixel coordinate to the cell containing it.
func PixelToCell(px, py float64) (int, int) {
	return int(math.Floor(px / CellWidth)), int(math.Floor(py / CellHeight))
}

// CellCenter returns the virtual pixel at the centre of cell (x, y).
func CellCenter(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * CellWidth, (float64(y) + 0.5) * CellHeight
}

// Circle plots the outline of a pixel-space circle centred on (cx, cy),
// calling plot once per distinct cell it passes through.
func (c *Canvas) Circle(cx, cy, r float64, plot func(x, y int)) {
	if r <= 0 {
		return
	}
	steps := int(2 * math.Pi * r / (CellWidth / 2))
	if steps < 16 {
		steps = 16
	}
	if steps > 4096 {
		steps = 4096
	}
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x, y := PixelToCell(cx+r*math.Cos(theta), cy+r*math.Sin(theta))
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		if c.inBounds(x, y) {
			plot(x, y)
		}
	}
}

// String renders the canvas with lipgloss, grouping runs of equal style.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		row := c.cells[y*c.cols : (y+1)*c.cols]
		for x := 0; x < len(row); {
			cell := row[x]
			if cell.Empty() {
				b.WriteByte(' ')
				x++
				continue
			}
			end := x + 1
			for end < len(row) && !row[end].Empty() &&
				row[end].FG == cell.FG && row[end].Bold == cell.Bold {
				end++
			}
			var run strings.Builder
			for _, rc := range row[x:end] {
				run.WriteRune(rc.Ch)
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(cell.FG.Clamped().Hex())).Bold(cell.Bold)
			b.WriteString(style.Render(run.String()))
			x = end
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Plain returns the canvas characters without styling.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			cell := c.cells[y*c.cols+x]
			if cell.Empty() {
				b.WriteByte(' ')
			} else {
				b.WriteRune(cell.Ch)
			}
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
