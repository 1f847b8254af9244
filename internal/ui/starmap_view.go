package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starmap/internal/logging"
	"github.com/litescript/ls-starmap/internal/render"
	"github.com/litescript/ls-starmap/internal/starmap"
)

// panStep is the keyboard pan distance in screen units.
const panStep = 4 * render.CellWidth

// MapModel is the interactive star map view.
type MapModel struct {
	ctrl     *starmap.Controller
	renderer *render.Renderer
	log      *logging.Logger

	width   int // canvas size in cells
	height  int
	offsetY int // terminal rows above the canvas
}

// NewMapModel creates the map view around a controller.
func NewMapModel(ctrl *starmap.Controller, style render.Style, log *logging.Logger) MapModel {
	if log == nil {
		log = logging.Discard()
	}
	ctrl.SetMode(style.Mode)
	return MapModel{
		ctrl:     ctrl,
		renderer: render.New(style),
		log:      log,
	}
}

// SetSize sets the canvas size in cells and resizes the controller's
// viewport to match.
func (m MapModel) SetSize(width, height int) MapModel {
	m.width = width
	m.height = height
	m.ctrl.Resize(float64(width*render.CellWidth), float64(height*render.CellHeight))
	return m
}

// SetOffset records how many terminal rows sit above the canvas.
func (m MapModel) SetOffset(rows int) MapModel {
	m.offsetY = rows
	return m
}

// Controller returns the underlying controller.
func (m MapModel) Controller() *starmap.Controller {
	return m.ctrl
}

// Style returns the active render style.
func (m MapModel) Style() render.Style {
	return m.renderer.Style
}

// Update handles keys and mouse input for the map.
func (m MapModel) Update(msg tea.Msg) (MapModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			m.ctrl.PanBy(0, panStep)
		case key.Matches(msg, keys.Down):
			m.ctrl.PanBy(0, -panStep)
		case key.Matches(msg, keys.Left):
			m.ctrl.PanBy(panStep, 0)
		case key.Matches(msg, keys.Right):
			m.ctrl.PanBy(-panStep, 0)
		case key.Matches(msg, keys.ZoomIn):
			m.ctrl.Wheel(-1)
		case key.Matches(msg, keys.ZoomOut):
			m.ctrl.Wheel(1)
		case key.Matches(msg, keys.Next):
			m.ctrl.CycleFocus(1)
			m.logFocus()
		case key.Matches(msg, keys.Prev):
			m.ctrl.CycleFocus(-1)
			m.logFocus()
		case key.Matches(msg, keys.Fly):
			m.ctrl.FocusHovered()
			m.logFocus()
		case key.Matches(msg, keys.Style):
			m.setStyle(render.NextStyle(m.renderer.Style.Name))
		case key.Matches(msg, keys.Reset):
			m.ctrl.Reset()
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m MapModel) setStyle(style render.Style) {
	m.renderer.Style = style
	m.ctrl.SetMode(style.Mode)
	m.log.Debug("style set to %s (%s projection)", style.Name, style.Mode)
}

func (m MapModel) logFocus() {
	if i, ok := m.ctrl.Selected(); ok {
		m.log.Debug("flying to %s", m.ctrl.Catalog().Stars[i].Name)
	}
}

// toPixels maps a terminal cell to the centre of its virtual pixel block.
// With snap set, a star drawn inside the cell wins over the centre so that
// stars smaller than a cell can still be picked.
func (m MapModel) toPixels(x, y int, snap bool) (float64, float64, bool) {
	row := y - m.offsetY
	inside := x >= 0 && x < m.width && row >= 0 && row < m.height
	x0, y0 := float64(x*render.CellWidth), float64(row*render.CellHeight)
	if snap && inside {
		if i, ok := m.ctrl.StarInRect(x0, y0, x0+render.CellWidth, y0+render.CellHeight); ok {
			sx, sy, _ := m.ctrl.ScreenPos(i)
			return sx, sy, true
		}
	}
	return x0 + render.CellWidth/2, y0 + render.CellHeight/2, inside
}

func (m MapModel) handleMouse(msg tea.MouseMsg) {
	dragging := m.ctrl.Cursor() == starmap.CursorGrabbing
	px, py, inside := m.toPixels(msg.X, msg.Y, !dragging)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			m.ctrl.PointerPress(px, py)
		}
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerRelease(px, py)
	case msg.Action == tea.MouseActionMotion:
		if !inside {
			m.ctrl.PointerLeave()
			return
		}
		m.ctrl.PointerDrag(px, py)
	}
}

// View renders the canvas.
func (m MapModel) View() string {
	if m.width < 20 || m.height < 5 {
		return "Terminal too small for star map"
	}
	return m.renderer.Draw(m.ctrl.Frame())
}

// HUD renders the two status lines under the map.
func (m MapModel) HUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	cat := m.ctrl.Catalog()
	idx, ok := m.ctrl.Hovered()
	if !ok {
		idx, ok = m.ctrl.Selected()
	}
	if ok && idx < cat.Len() {
		star := cat.Stars[idx]
		b.WriteString(headerStyle.Render("✦ " + star.Name))
		for _, line := range starmap.StarDetails(star) {
			label, value, _ := strings.Cut(line, ": ")
			b.WriteString("  ")
			b.WriteString(labelStyle.Render(label + ":"))
			b.WriteString(valueStyle.Render(" " + value))
		}
	} else {
		b.WriteString(headerStyle.Render("☉ Sun"))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("(%d stars, out to %.0f ly)", cat.Len(), cat.MaxDistance())))
	}
	b.WriteString("\n")

	cam := m.ctrl.Camera()
	style := m.renderer.Style
	status := []struct{ label, value string }{
		{"Style:", style.Name},
		{"Mode:", style.Mode.String()},
		{"Zoom:", fmt.Sprintf("%.2fx", cam.Zoom)},
		{"Pan:", fmt.Sprintf("%+.0f,%+.0f", cam.PanX, cam.PanY)},
		{"Cursor:", m.ctrl.Cursor().String()},
	}
	for i, s := range status {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(dimStyle.Render(s.label))
		b.WriteString(valueStyle.Render(s.value))
	}
	if m.ctrl.Flying() {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render("» flying"))
	}

	return b.String()
}
