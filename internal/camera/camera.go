// Package camera tracks pan and zoom for the star map view.
package camera

import (
	"math"

	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
)

// Config holds zoom limits and animation rates.
type Config struct {
	MinZoom       float64 `yaml:"min_zoom" validate:"gt=0"`
	MaxZoom       float64 `yaml:"max_zoom" validate:"gtfield=MinZoom"`
	ZoomInFactor  float64 `yaml:"zoom_in_factor" validate:"gt=1"`
	ZoomOutFactor float64 `yaml:"zoom_out_factor" validate:"gt=0,lt=1"`
	FocusZoom     float64 `yaml:"focus_zoom" validate:"gt=0"`
	FocusPanRate  float64 `yaml:"focus_pan_rate" validate:"gt=0,lte=1"`
	FocusZoomRate float64 `yaml:"focus_zoom_rate" validate:"gt=0,lte=1"`
}

// DefaultConfig returns the standard zoom range and fly-to rates.
func DefaultConfig() Config {
	return Config{
		MinZoom:       0.4,
		MaxZoom:       6,
		ZoomInFactor:  1.1,
		ZoomOutFactor: 0.9,
		FocusZoom:     2.5,
		FocusPanRate:  0.08,
		FocusZoomRate: 0.05,
	}
}

// Camera is the pan offset (screen units) and zoom factor of the view.
// A Camera is owned by a single view and is not safe for concurrent use.
type Camera struct {
	PanX float64
	PanY float64
	Zoom float64

	cfg Config
}

// New creates a camera at the origin with zoom 1 (clamped into range).
func New(cfg Config) *Camera {
	c := &Camera{cfg: cfg, Zoom: 1}
	c.Zoom = c.clampZoom(c.Zoom)
	return c
}

// Config returns the camera configuration.
func (c *Camera) Config() Config {
	return c.cfg
}

// Pan moves the view by a screen-space delta. Pan is unbounded.
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// Wheel applies one scroll step. Positive delta zooms out, negative zooms
// in, zero is ignored.
func (c *Camera) Wheel(delta float64) {
	switch {
	case delta > 0:
		c.Zoom *= c.cfg.ZoomOutFactor
	case delta < 0:
		c.Zoom *= c.cfg.ZoomInFactor
	default:
		return
	}
	c.Zoom = c.clampZoom(c.Zoom)
}

// SetZoom sets the zoom factor, clamped to the configured range.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = c.clampZoom(z)
}

// FocusOn advances one smoothing step of the fly-to animation toward the
// world point (wx, wy). It never completes on its own; callers stop
// calling it when the animation should end.
func (c *Camera) FocusOn(wx, wy float64) {
	c.PanX = projection.Lerp(c.PanX, -wx*c.Zoom, c.cfg.FocusPanRate)
	c.PanY = projection.Lerp(c.PanY, -wy*c.Zoom, c.cfg.FocusPanRate)
	c.Zoom = c.clampZoom(projection.Lerp(c.Zoom, c.cfg.FocusZoom, c.cfg.FocusZoomRate))
}

// Settled reports whether the camera is within tol (screen units) of the
// fly-to target for (wx, wy) and within tol/100 of the focus zoom.
func (c *Camera) Settled(wx, wy, tol float64) bool {
	target := c.clampZoom(c.cfg.FocusZoom)
	return math.Abs(c.PanX+wx*c.Zoom) < tol &&
		math.Abs(c.PanY+wy*c.Zoom) < tol &&
		math.Abs(c.Zoom-target) < tol/100
}

// Reset returns to the origin at zoom 1.
func (c *Camera) Reset() {
	c.PanX, c.PanY = 0, 0
	c.Zoom = c.clampZoom(1)
}

// WorldToScreen projects a world position into viewport coordinates.
func (c *Camera) WorldToScreen(p layout.Position, vp projection.Viewport) (float64, float64) {
	cx, cy := vp.Center()
	return p.X*c.Zoom + cx + c.PanX, p.Y*c.Zoom + cy + c.PanY
}

// ScreenToWorld inverts WorldToScreen.
func (c *Camera) ScreenToWorld(sx, sy float64, vp projection.Viewport) layout.Position {
	cx, cy := vp.Center()
	return layout.Position{
		X: (sx - cx - c.PanX) / c.Zoom,
		Y: (sy - cy - c.PanY) / c.Zoom,
	}
}

func (c *Camera) clampZoom(z float64) float64 {
	return projection.Clamp(z, c.cfg.MinZoom, c.cfg.MaxZoom)
}
