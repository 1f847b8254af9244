// Package starmap owns the interactive state of the star map: camera,
// pointer, hover and fly-to focus. Input handlers and Tick form the update
// step; Frame hands an immutable snapshot to the draw step.
package starmap

import (
	"github.com/litescript/ls-starmap/internal/camera"
	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
)

// settleTolerance ends a keyboard fly-to once the target is this close
// (screen units) to the viewport centre.
const settleTolerance = 0.5

// Options configures a Controller.
type Options struct {
	Seed     int64
	Mode     projection.Mode
	Camera   camera.Config
	Viewport projection.Viewport
}

// DefaultOptions returns the standard seed, projection and camera limits.
func DefaultOptions() Options {
	return Options{
		Seed:   layout.DefaultSeed,
		Mode:   projection.ModeLog,
		Camera: camera.DefaultConfig(),
	}
}

// Controller holds the view state for one star map session. All methods
// must be called from the same goroutine.
type Controller struct {
	cat       *catalog.Catalog
	seed      int64
	engine    *layout.Engine    // nil until the first non-empty viewport
	positions []layout.Position // shared read-only with frames
	scaler    projection.Scaler
	cam       *camera.Camera

	pointerX   float64
	pointerY   float64
	hasPointer bool
	pressed    bool
	dragging   bool

	hovered  int // -1 when nothing is hovered
	selected int // keyboard selection, -1 when none
	flying   bool

	frame uint64
}

// New creates a controller. The layout is computed against opts.Viewport,
// or against the first non-empty viewport passed to Resize.
func New(cat *catalog.Catalog, opts Options) *Controller {
	c := &Controller{
		cat:      cat,
		seed:     opts.Seed,
		scaler:   projection.NewScaler(opts.Viewport, opts.Mode),
		cam:      camera.New(opts.Camera),
		hovered:  -1,
		selected: -1,
	}
	c.ensureLayout()
	return c
}

func (c *Controller) ensureLayout() {
	if c.engine != nil {
		return
	}
	vp := c.scaler.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	c.engine = layout.NewEngine(c.cat, c.seed, c.scaler)
	c.positions = c.engine.Positions()
}

// Catalog returns the catalog being displayed.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.cat
}

// Camera returns a copy of the camera state.
func (c *Controller) Camera() camera.Camera {
	return *c.cam
}

// Scaler returns the scaler for the current viewport.
func (c *Controller) Scaler() projection.Scaler {
	return c.scaler
}

// Positions returns the cached world positions, or nil before layout.
func (c *Controller) Positions() []layout.Position {
	if c.engine == nil {
		return nil
	}
	return c.engine.Positions()
}

// Resize updates the viewport. Cached star positions never change.
func (c *Controller) Resize(width, height float64) {
	c.scaler.Viewport = projection.Viewport{Width: width, Height: height}
	c.ensureLayout()
}

// SetMode switches the distance projection. Stars are laid out again in
// the new mode against the viewport of the original layout, so resizing
// between mode switches still never moves them.
func (c *Controller) SetMode(mode projection.Mode) {
	if c.scaler.Mode == mode {
		return
	}
	c.scaler.Mode = mode
	if c.engine == nil {
		return
	}
	base := c.engine.Scaler()
	base.Mode = mode
	c.engine = layout.NewEngine(c.cat, c.seed, base)
	c.positions = c.engine.Positions()
}

// Mode returns the active distance projection.
func (c *Controller) Mode() projection.Mode {
	return c.scaler.Mode
}

// PointerMove records the pointer position without a button held.
func (c *Controller) PointerMove(x, y float64) {
	c.pointerX, c.pointerY = x, y
	c.hasPointer = true
}

// PointerPress starts a drag at (x, y).
func (c *Controller) PointerPress(x, y float64) {
	c.PointerMove(x, y)
	c.pressed = true
	c.dragging = true
	c.flying = false
}

// PointerDrag pans the camera 1:1 with pointer movement while pressed.
func (c *Controller) PointerDrag(x, y float64) {
	if !c.pressed {
		c.PointerMove(x, y)
		return
	}
	c.cam.Pan(x-c.pointerX, y-c.pointerY)
	c.PointerMove(x, y)
}

// PointerRelease ends a drag.
func (c *Controller) PointerRelease(x, y float64) {
	c.PointerMove(x, y)
	c.pressed = false
	c.dragging = false
}

// PointerLeave forgets the pointer, clearing hover.
func (c *Controller) PointerLeave() {
	c.hasPointer = false
	c.pressed = false
	c.dragging = false
	c.hovered = -1
}

// Wheel zooms by one scroll step; positive delta zooms out.
func (c *Controller) Wheel(delta float64) {
	c.cam.Wheel(delta)
}

// ZoomBy multiplies the zoom by factor, within the camera limits.
func (c *Controller) ZoomBy(factor float64) {
	c.cam.SetZoom(c.cam.Zoom * factor)
}

// PanBy pans the view and cancels any keyboard fly-to.
func (c *Controller) PanBy(dx, dy float64) {
	c.flying = false
	c.cam.Pan(dx, dy)
}

// FocusStar selects star i and starts a fly-to that runs until the camera
// settles or other input interrupts it.
func (c *Controller) FocusStar(i int) bool {
	if i < 0 || i >= c.cat.Len() {
		return false
	}
	c.selected = i
	c.flying = true
	return true
}

// FocusHovered flies to the hovered star, if any.
func (c *Controller) FocusHovered() bool {
	if c.hovered < 0 {
		return c.FocusStar(c.selected)
	}
	return c.FocusStar(c.hovered)
}

// CycleFocus moves the selection by dir (+1 or -1) through the catalog in
// distance order, wrapping at both ends.
func (c *Controller) CycleFocus(dir int) bool {
	n := c.cat.Len()
	if n == 0 {
		return false
	}
	next := c.selected + dir
	if c.selected < 0 && dir < 0 {
		next = n - 1
	}
	next = ((next % n) + n) % n
	return c.FocusStar(next)
}

// Find flies to the star with the given name.
func (c *Controller) Find(name string) bool {
	i, ok := c.cat.Find(name)
	if !ok {
		return false
	}
	return c.FocusStar(i)
}

// Reset recentres the camera and clears the selection.
func (c *Controller) Reset() {
	c.cam.Reset()
	c.flying = false
	c.selected = -1
}

// Tick advances one frame: recompute hover, then run the focus animation.
// A press held on a hovered star keeps pulling the camera toward it.
func (c *Controller) Tick() {
	c.frame++
	c.ensureLayout()
	if c.engine == nil {
		return
	}

	c.hovered = -1
	if c.hasPointer {
		if i, ok := c.hitTest(); ok {
			c.hovered = i
		}
	}

	switch {
	case c.pressed && c.hovered >= 0:
		p := c.positions[c.hovered]
		c.cam.FocusOn(p.X, p.Y)
	case c.flying && c.selected >= 0:
		p := c.positions[c.selected]
		c.cam.FocusOn(p.X, p.Y)
		if c.cam.Settled(p.X, p.Y, settleTolerance) {
			c.flying = false
		}
	}
}

// StarInRect returns the first star whose screen position lies inside
// the rectangle [x0, x1) x [y0, y1).
func (c *Controller) StarInRect(x0, y0, x1, y1 float64) (int, bool) {
	if c.engine == nil {
		return -1, false
	}
	for i, p := range c.positions {
		sx, sy := c.cam.WorldToScreen(p, c.scaler.Viewport)
		if sx >= x0 && sx < x1 && sy >= y0 && sy < y1 {
			return i, true
		}
	}
	return -1, false
}

// ScreenPos returns where star i is currently drawn.
func (c *Controller) ScreenPos(i int) (float64, float64, bool) {
	if c.engine == nil || i < 0 || i >= len(c.positions) {
		return 0, 0, false
	}
	sx, sy := c.cam.WorldToScreen(c.positions[i], c.scaler.Viewport)
	return sx, sy, true
}

func (c *Controller) hitTest() (int, bool) {
	var stars []catalog.Star
	if c.cat != nil {
		stars = c.cat.Stars
	}
	return HitTest(stars, c.positions, *c.cam, c.scaler, c.pointerX, c.pointerY)
}

// Hovered returns the hovered star index from the last Tick.
func (c *Controller) Hovered() (int, bool) {
	return c.hovered, c.hovered >= 0
}

// Selected returns the keyboard-selected star index.
func (c *Controller) Selected() (int, bool) {
	return c.selected, c.selected >= 0
}

// Flying reports whether a keyboard fly-to is in progress.
func (c *Controller) Flying() bool {
	return c.flying
}

// Cursor returns the pointer shape for the current state.
func (c *Controller) Cursor() Cursor {
	if c.dragging {
		return CursorGrabbing
	}
	if c.hovered >= 0 {
		return CursorPointer
	}
	return CursorGrab
}

// Tooltip returns the hovered star's tooltip, or nil.
func (c *Controller) Tooltip() *Tooltip {
	if c.hovered < 0 || c.hovered >= c.cat.Len() {
		return nil
	}
	return NewTooltip(c.cat.Stars[c.hovered], c.pointerX, c.pointerY)
}

// Frame is an immutable snapshot for the draw step.
type Frame struct {
	Number     uint64
	Stars      []catalog.Star
	Positions  []layout.Position
	Scaler     projection.Scaler
	Camera     camera.Camera
	Hovered    int
	Selected   int
	PointerX   float64
	PointerY   float64
	HasPointer bool
	Cursor     Cursor
	Tooltip    *Tooltip
}

// Frame captures the state produced by the last Tick.
func (c *Controller) Frame() Frame {
	f := Frame{
		Number:     c.frame,
		Scaler:     c.scaler,
		Camera:     *c.cam,
		Hovered:    c.hovered,
		Selected:   c.selected,
		PointerX:   c.pointerX,
		PointerY:   c.pointerY,
		HasPointer: c.hasPointer,
		Cursor:     c.Cursor(),
		Tooltip:    c.Tooltip(),
	}
	if c.cat != nil {
		f.Stars = c.cat.Stars
	}
	f.Positions = c.positions
	return f
}
