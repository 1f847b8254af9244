// Package projection maps physical star quantities onto screen distances.
//
// Screen units are virtual pixels. Every function here is pure and cheap,
// so callers recompute on every frame against the current viewport.
package projection

import "math"

// Mode selects the distance compression formula.
type Mode int

const (
	// ModeLog compresses distance as log(ly + 1).
	ModeLog Mode = iota
	// ModeSqrt compresses distance as sqrt(ly); spreads the inner stars
	// less and the far ones more than ModeLog.
	ModeSqrt
)

func (m Mode) String() string {
	switch m {
	case ModeLog:
		return "log"
	case ModeSqrt:
		return "sqrt"
	default:
		return "unknown"
	}
}

// Star radius clamp in screen units. The floor keeps hit targets usable.
const (
	MinStarRadius = 1.5
	MaxStarRadius = 40.0
)

// Screen-size bands for ScaleFactor.
const (
	smallScreen  = 500.0
	mediumScreen = 900.0
)

// Depth fading: distances beyond fadeDistanceLY render at minDepthAlpha.
const (
	fadeDistanceLY = 2600.0
	minDepthAlpha  = 120.0 / 255.0
)

// Viewport is the drawable area in screen units.
type Viewport struct {
	Width  float64
	Height float64
}

// Base returns the smaller viewport dimension.
func (v Viewport) Base() float64 {
	return math.Min(v.Width, v.Height)
}

// Center returns the viewport midpoint.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// Scaler projects distances and radii for one viewport.
type Scaler struct {
	Viewport Viewport
	Mode     Mode
}

// NewScaler creates a scaler for the given viewport and mode.
func NewScaler(vp Viewport, mode Mode) Scaler {
	return Scaler{Viewport: vp, Mode: mode}
}

// ScaleFactor picks the distance multiplier from the smaller viewport
// dimension so relative spacing stays legible on small and large screens.
func (s Scaler) ScaleFactor() float64 {
	base := s.Viewport.Base()
	switch {
	case base < smallScreen:
		return base * 0.22
	case base < mediumScreen:
		return base * 0.16
	default:
		return base * 0.12
	}
}

// ScaleDistance maps light-years to screen units. It is strictly
// increasing and ScaleDistance(0) == 0. Negative input is treated as 0.
func (s Scaler) ScaleDistance(ly float64) float64 {
	if ly < 0 || math.IsNaN(ly) {
		ly = 0
	}
	switch s.Mode {
	case ModeSqrt:
		return math.Sqrt(ly) * s.ScaleFactor() * 0.5
	default:
		return math.Log(ly+1) * s.ScaleFactor()
	}
}

// ScaleRadius maps a radius in solar radii to a screen radius, growing
// with sqrt and clamped to [MinStarRadius, MaxStarRadius].
func (s Scaler) ScaleRadius(radius float64) float64 {
	if radius <= 0 || math.IsNaN(radius) {
		return MinStarRadius
	}
	screenFactor := s.Viewport.Base() / mediumScreen
	r := math.Sqrt(radius) * 4 * screenFactor
	return Clamp(r, MinStarRadius, MaxStarRadius)
}

// DepthAlpha returns the opacity for a star at the given distance:
// 1 at the Sun, falling linearly to 120/255 at 2600 ly and beyond.
func DepthAlpha(ly float64) float64 {
	t := Clamp(ly/fadeDistanceLY, 0, 1)
	return 1 + t*(minDepthAlpha-1)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp moves a toward b by fraction t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
