package starmap

import (
	"math"

	"github.com/litescript/ls-starmap/internal/camera"
	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
)

// Cursor is the pointer shape the host should display.
type Cursor int

const (
	CursorGrab     Cursor = iota // idle over empty space
	CursorPointer                // hovering a star
	CursorGrabbing               // dragging the view
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorPointer:
		return "pointer"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "unknown"
	}
}

// IsHit reports whether the pointer lies strictly inside the star's
// screen-space radius.
func IsHit(star catalog.Star, pos layout.Position, cam camera.Camera, scaler projection.Scaler, px, py float64) bool {
	sx, sy := cam.WorldToScreen(pos, scaler.Viewport)
	r := scaler.ScaleRadius(star.RadiusSolar) * cam.Zoom
	return math.Hypot(px-sx, py-sy) < r
}

// HitTest returns the first star in catalog order under the pointer.
// It is a linear scan; the datasets rendered here are small.
func HitTest(stars []catalog.Star, positions []layout.Position, cam camera.Camera, scaler projection.Scaler, px, py float64) (int, bool) {
	n := len(stars)
	if len(positions) < n {
		n = len(positions)
	}
	for i := 0; i < n; i++ {
		if IsHit(stars[i], positions[i], cam, scaler, px, py) {
			return i, true
		}
	}
	return -1, false
}
