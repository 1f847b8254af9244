// Package catalog loads and validates the star dataset rendered by the map.
package catalog

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrEmptyCatalog is returned when a dataset decodes to zero records.
	ErrEmptyCatalog = errors.New("catalog: dataset contains no stars")

	// ErrInvalidStar is wrapped by every per-record validation failure.
	ErrInvalidStar = errors.New("catalog: invalid star record")
)

// Star is a single immutable record from the dataset.
type Star struct {
	ID              string  // Key of the record in the source document
	Name            string  // Display name (e.g., "Tau Ceti")
	DistanceLY      float64 // Distance from the Sun in light-years
	SpectralClass   string  // Full spectral classification (e.g., "G8.5V")
	RadiusSolar     float64 // Radius in solar radii
	LuminositySolar float64 // Luminosity in solar luminosities
}

// ClassLetter returns the upper-cased first character of the spectral
// class, or 0 when the class is empty.
func (s Star) ClassLetter() byte {
	if s.SpectralClass == "" {
		return 0
	}
	c := s.SpectralClass[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c
}

// Catalog holds stars in ascending distance order.
type Catalog struct {
	Stars []Star
}

// New sorts a copy of stars by distance (ties by ID) and returns a catalog.
func New(stars []Star) *Catalog {
	sorted := make([]Star, len(stars))
	copy(sorted, stars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DistanceLY != sorted[j].DistanceLY {
			return sorted[i].DistanceLY < sorted[j].DistanceLY
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &Catalog{Stars: sorted}
}

// Len returns the number of stars.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Stars)
}

// Find returns the index of the first star whose name matches
// case-insensitively.
func (c *Catalog) Find(name string) (int, bool) {
	if c == nil {
		return -1, false
	}
	name = strings.TrimSpace(name)
	for i, s := range c.Stars {
		if strings.EqualFold(s.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// MaxDistance returns the largest distance in the catalog.
func (c *Catalog) MaxDistance() float64 {
	if c.Len() == 0 {
		return 0
	}
	return c.Stars[len(c.Stars)-1].DistanceLY
}
