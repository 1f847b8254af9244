package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-starmap/internal/catalog"
	"github.com/litescript/ls-starmap/internal/layout"
	"github.com/litescript/ls-starmap/internal/projection"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Star{
		{ID: "a", Name: "Proxima Centauri", DistanceLY: 4.2465, SpectralClass: "M5.5Ve", RadiusSolar: 0.154, LuminositySolar: 0.0017},
		{ID: "b", Name: "Deneb", DistanceLY: 2615, SpectralClass: "A2Ia", RadiusSolar: 203, LuminositySolar: 196000},
	})
}

func testEngine(cat *catalog.Catalog) *layout.Engine {
	scaler := projection.NewScaler(projection.Viewport{Width: 1200, Height: 800}, projection.ModeLog)
	return layout.NewEngine(cat, layout.DefaultSeed, scaler)
}

func TestNewSnapshot(t *testing.T) {
	cat := testCatalog()
	engine := testEngine(cat)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewSnapshot(cat, engine, at)

	if s.GeneratedAt != at {
		t.Errorf("GeneratedAt = %v, want %v", s.GeneratedAt, at)
	}
	if s.Seed != 42 {
		t.Errorf("Seed = %d, want 42", s.Seed)
	}
	if s.Projection != "log" {
		t.Errorf("Projection = %q, want log", s.Projection)
	}
	if s.Viewport.Width != 1200 || s.Viewport.Height != 800 {
		t.Errorf("Viewport = %+v", s.Viewport)
	}
	if len(s.Stars) != 2 {
		t.Fatalf("Stars count = %d, want 2", len(s.Stars))
	}

	deneb := s.Stars[1]
	if deneb.Name != "Deneb" {
		t.Errorf("Stars[1] = %q, want Deneb", deneb.Name)
	}
	if deneb.ScreenRadius != projection.MaxStarRadius {
		t.Errorf("ScreenRadius = %v, want clamp at %v", deneb.ScreenRadius, projection.MaxStarRadius)
	}
	want := engine.Scaler().ScaleDistance(2615)
	if got := math.Hypot(deneb.X, deneb.Y); math.Abs(got-want) > 1e-9 {
		t.Errorf("Deneb radius = %v, want %v", got, want)
	}
	if deneb.DepthAlpha > 120.0/255.0+1e-9 {
		t.Errorf("DepthAlpha = %v, want near minimum", deneb.DepthAlpha)
	}
}

func TestSnapshotWriteJSON(t *testing.T) {
	cat := testCatalog()
	s := NewSnapshot(cat, testEngine(cat), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"generated_at", "seed", "projection", "viewport", "stars"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	stars := doc["stars"].([]interface{})
	first := stars[0].(map[string]interface{})
	if first["name"] != "Proxima Centauri" {
		t.Errorf("first star = %v", first["name"])
	}
	if first["spectral_class"] != "M5.5Ve" {
		t.Errorf("spectral_class = %v", first["spectral_class"])
	}
}

func TestGenerateSummaryRows(t *testing.T) {
	cat := testCatalog()
	positions := []layout.Position{{X: 0, Y: 10}, {X: -5, Y: 0}}

	rows := GenerateSummaryRows(cat, positions)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if math.Abs(rows[0].Bearing-90) > 1e-9 || rows[0].Offset != 10 {
		t.Errorf("row 0 bearing/offset = %v/%v, want 90/10", rows[0].Bearing, rows[0].Offset)
	}
	if math.Abs(rows[1].Bearing-180) > 1e-9 {
		t.Errorf("row 1 bearing = %v, want 180", rows[1].Bearing)
	}
	if !strings.HasPrefix(rows[0].Distance, "4.2") || rows[1].Distance != "2615 ly" {
		t.Errorf("distances = %q, %q", rows[0].Distance, rows[1].Distance)
	}

	if got := GenerateSummaryRows(cat, positions[:1]); len(got) != 1 {
		t.Errorf("rows without positions = %d, want 1", len(got))
	}
}

func TestWriteSummaryTable(t *testing.T) {
	cat := testCatalog()
	engine := testEngine(cat)

	var buf bytes.Buffer
	WriteSummaryTable(&buf, cat, engine.Positions(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	out := buf.String()

	if !strings.HasPrefix(out, "Star Map @ 2026-03-01T12:00:00Z") {
		t.Errorf("unexpected header: %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "Proxima Centauri") || !strings.Contains(out, "Deneb") {
		t.Error("expected star names in table")
	}
	if !strings.Contains(out, "Total: 2 stars") {
		t.Error("expected total line")
	}

	buf.Reset()
	WriteSummaryTable(&buf, catalog.New(nil), nil, time.Now())
	if !strings.Contains(buf.String(), "No stars") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Vega", 10, "Vega"},
		{"Proxima Centauri", 8, "Proxim.."},
		{"Alnitak", 3, "Aln"},
		{"α Centauri A", 5, "α C.."},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
