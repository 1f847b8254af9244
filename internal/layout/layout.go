// Package layout places catalog stars at fixed world coordinates.
package layout

import (
	"math"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/noise"
	"github.com/litescript/ls-starmap/internal/projection"
)

const (
	// DefaultSeed keeps the map identical across sessions.
	DefaultSeed int64 = 42

	// noiseStep spaces consecutive indices along the noise curve.
	noiseStep = 0.3

	// turns is how many full rotations the noise range covers.
	turns = 4
)

// Position is a world-space coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Compute returns one position per star, in catalog order. The angle comes
// from seeded noise of the star index and the radius from the scaler's
// distance projection, so equal inputs give bit-identical output.
func Compute(stars []catalog.Star, seed int64, scaler projection.Scaler) []Position {
	sn := noise.NewSimplex(seed)
	positions := make([]Position, len(stars))

	for i, star := range stars {
		r := scaler.ScaleDistance(star.DistanceLY)
		angle := sn.Noise1D(float64(i)*noiseStep) * 2 * math.Pi * turns
		positions[i] = Position{
			X: math.Cos(angle) * r,
			Y: math.Sin(angle) * r,
		}
	}

	return positions
}

// Engine computes the layout once and serves it read-only afterwards.
type Engine struct {
	seed      int64
	scaler    projection.Scaler
	positions []Position
}

// NewEngine lays out the catalog against the startup scaler. Later
// viewport changes never move stars; they only change how the whole view
// is projected.
func NewEngine(cat *catalog.Catalog, seed int64, scaler projection.Scaler) *Engine {
	var stars []catalog.Star
	if cat != nil {
		stars = cat.Stars
	}
	return &Engine{
		seed:      seed,
		scaler:    scaler,
		positions: Compute(stars, seed, scaler),
	}
}

// Seed returns the seed used for the layout.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Scaler returns the scaler captured at construction.
func (e *Engine) Scaler() projection.Scaler {
	return e.scaler
}

// Len returns the number of positions.
func (e *Engine) Len() int {
	return len(e.positions)
}

// At returns the position of star i.
func (e *Engine) At(i int) Position {
	return e.positions[i]
}

// Positions returns a copy of all positions.
func (e *Engine) Positions() []Position {
	out := make([]Position, len(e.positions))
	copy(out, e.positions)
	return out
}
