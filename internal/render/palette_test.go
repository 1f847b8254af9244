package render

import (
	"testing"

	"github.com/litescript/ls-starmap/internal/projection"
)

func TestSpectralColor(t *testing.T) {
	s := Classic()
	tests := []struct {
		class string
		want  string
	}{
		{"O9V", "#5abeff"},
		{"B8Ia", "#a0d2ff"},
		{"A1V", "#ffffff"},
		{"F5IV-V", "#fff4c2"},
		{"G2V", "#ffd86b"},
		{"K1V", "#ffb347"},
		{"M5.5Ve", "#ff6b6b"},
		{"m3", "#ff6b6b"},
		{"DA2", "#ffffff"},
		{"", "#ffffff"},
	}
	for _, tt := range tests {
		if got := s.SpectralColor(tt.class).Hex(); got != tt.want {
			t.Errorf("SpectralColor(%q) = %s, want %s", tt.class, got, tt.want)
		}
	}
}

func TestStyleByName(t *testing.T) {
	s, ok := StyleByName(" NEBULA ")
	if !ok || s.Name != "nebula" {
		t.Fatalf("StyleByName(nebula) = %q, %v", s.Name, ok)
	}
	if s.Mode != projection.ModeSqrt {
		t.Errorf("nebula mode = %s, want sqrt", s.Mode)
	}
	if _, ok := StyleByName("vaporwave"); ok {
		t.Error("expected unknown style to be rejected")
	}
}

func TestNextStyle(t *testing.T) {
	if got := NextStyle("classic").Name; got != "nebula" {
		t.Errorf("NextStyle(classic) = %s", got)
	}
	if got := NextStyle("nebula").Name; got != "classic" {
		t.Errorf("NextStyle(nebula) = %s", got)
	}
	if got := NextStyle("").Name; got != "classic" {
		t.Errorf("NextStyle(\"\") = %s", got)
	}
}

func TestFade(t *testing.T) {
	s := Classic()
	white := s.Neutral
	if got := s.Fade(white, 1).Hex(); got != "#ffffff" {
		t.Errorf("Fade(white, 1) = %s", got)
	}
	if got := s.Fade(white, 0).Hex(); got != s.Background.Hex() {
		t.Errorf("Fade(white, 0) = %s, want background", got)
	}
	if got := s.Fade(white, 7).Hex(); got != "#ffffff" {
		t.Errorf("Fade should clamp alpha, got %s", got)
	}
}
