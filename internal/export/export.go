// Package export writes catalog and layout data for headless use.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
)

// Snapshot is the JSON-serializable representation of a laid-out catalog.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Seed        int64          `json:"seed"`
	Projection  string         `json:"projection"`
	Viewport    ViewportExport `json:"viewport"`
	Stars       []StarExport   `json:"stars"`
}

// ViewportExport is the viewport the layout was computed against.
type ViewportExport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StarExport is a JSON-friendly star with its world position.
type StarExport struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DistanceLY    float64 `json:"distance_ly"`
	SpectralClass string  `json:"spectral_class"`
	Radius        float64 `json:"radius_solar"`
	Luminosity    float64 `json:"luminosity_solar"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	ScreenRadius  float64 `json:"screen_radius"`
	DepthAlpha    float64 `json:"depth_alpha"`
}

// NewSnapshot pairs every star with its position from engine.
func NewSnapshot(cat *catalog.Catalog, engine *layout.Engine, generatedAt time.Time) *Snapshot {
	scaler := engine.Scaler()
	s := &Snapshot{
		GeneratedAt: generatedAt,
		Seed:        engine.Seed(),
		Projection:  scaler.Mode.String(),
		Viewport: ViewportExport{
			Width:  scaler.Viewport.Width,
			Height: scaler.Viewport.Height,
		},
		Stars: make([]StarExport, 0, cat.Len()),
	}

	for i := 0; i < cat.Len() && i < engine.Len(); i++ {
		star := cat.Stars[i]
		pos := engine.At(i)
		s.Stars = append(s.Stars, StarExport{
			ID:            star.ID,
			Name:          star.Name,
			DistanceLY:    star.DistanceLY,
			SpectralClass: star.SpectralClass,
			Radius:        star.RadiusSolar,
			Luminosity:    star.LuminositySolar,
			X:             pos.X,
			Y:             pos.Y,
			ScreenRadius:  scaler.ScaleRadius(star.RadiusSolar),
			DepthAlpha:    projection.DepthAlpha(star.DistanceLY),
		})
	}
	return s
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Rank       int
	Name       string
	Class      string
	Distance   string
	Radius     float64
	Luminosity float64
	Bearing    float64 // degrees clockwise from the +X axis, [0, 360)
	Offset     float64 // distance from the Sun in screen units
}

// GenerateSummaryRows creates one row per positioned star.
func GenerateSummaryRows(cat *catalog.Catalog, positions []layout.Position) []SummaryRow {
	n := cat.Len()
	if len(positions) < n {
		n = len(positions)
	}

	rows := make([]SummaryRow, 0, n)
	for i := 0; i < n; i++ {
		star := cat.Stars[i]
		p := positions[i]
		bearing := math.Atan2(p.Y, p.X) * 180 / math.Pi
		if bearing < 0 {
			bearing += 360
		}
		rows = append(rows, SummaryRow{
			Rank:       i + 1,
			Name:       star.Name,
			Class:      star.SpectralClass,
			Distance:   FormatDistance(star.DistanceLY),
			Radius:     star.RadiusSolar,
			Luminosity: star.LuminositySolar,
			Bearing:    bearing,
			Offset:     math.Hypot(p.X, p.Y),
		})
	}
	return rows
}

// FormatDistance renders a distance in light-years.
func FormatDistance(ly float64) string {
	if ly >= 1000 {
		return fmt.Sprintf("%.0f ly", ly)
	}
	return fmt.Sprintf("%.2f ly", ly)
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, cat *catalog.Catalog, positions []layout.Position, timestamp time.Time) {
	rows := GenerateSummaryRows(cat, positions)

	fmt.Fprintf(w, "Star Map @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 90))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No stars")
		return
	}

	// Header
	fmt.Fprintf(w, "%-4s %-24s %-12s %-12s %10s %12s %8s %8s\n",
		"#", "Name", "Class", "Distance", "Radius", "Luminosity", "Bearing", "Offset")
	fmt.Fprintln(w, strings.Repeat("─", 90))

	// Rows
	for _, r := range rows {
		fmt.Fprintf(w, "%-4d %-24s %-12s %-12s %10.3f %12.4g %7.1f° %8.1f\n",
			r.Rank,
			truncateStr(r.Name, 24),
			truncateStr(r.Class, 12),
			r.Distance,
			r.Radius,
			r.Luminosity,
			r.Bearing,
			r.Offset,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d stars\n", len(rows))
}

func truncateStr(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-2]) + ".."
}
