package starmap

import (
	"fmt"

	"github.com/litescript/ls-starmap/internal/catalog"
)

// TooltipOffset is the distance, in screen units, between the pointer and
// the tooltip's top-left corner on both axes.
const TooltipOffset = 15.0

// Tooltip describes the hovered star for the host UI layer.
type Tooltip struct {
	Title string
	Lines []string
	X, Y  float64 // top-left corner in screen units
}

// NewTooltip builds the tooltip for star with the pointer at (px, py).
func NewTooltip(star catalog.Star, px, py float64) *Tooltip {
	return &Tooltip{
		Title: star.Name,
		Lines: StarDetails(star),
		X:     px + TooltipOffset,
		Y:     py + TooltipOffset,
	}
}

// StarDetails formats the display fields of a star.
func StarDetails(star catalog.Star) []string {
	return []string{
		fmt.Sprintf("Distance: %.2f ly", star.DistanceLY),
		fmt.Sprintf("Spectral: %s", star.SpectralClass),
		fmt.Sprintf("Radius: %.2f R☉", star.RadiusSolar),
		fmt.Sprintf("Luminosity: %.2f L☉", star.LuminositySolar),
	}
}
