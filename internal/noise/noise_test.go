package noise

import (
	"math"
	"testing"
)

func TestNewSimplex_SameSeedSameOutput(t *testing.T) {
	a := NewSimplex(42)
	b := NewSimplex(42)

	for i := 0; i < 200; i++ {
		x := float64(i) * 0.3
		if a.Noise1D(x) != b.Noise1D(x) {
			t.Fatalf("Noise1D(%v) differs between generators with equal seeds", x)
		}
	}
}

func TestNewSimplex_DifferentSeeds(t *testing.T) {
	a := NewSimplex(42)
	b := NewSimplex(7)

	differ := false
	for i := 0; i < 50; i++ {
		x := float64(i)*0.3 + 0.1
		if a.Noise1D(x) != b.Noise1D(x) {
			differ = true
			break
		}
	}
	if !differ {
		t.Error("expected different seeds to produce different noise")
	}
}

func TestNoise2D_Range(t *testing.T) {
	sn := NewSimplex(1)
	for x := -10.0; x < 10; x += 0.37 {
		for y := -10.0; y < 10; y += 0.41 {
			v := sn.Noise2D(x, y)
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("Noise2D(%v, %v) = %v, want [-1, 1]", x, y, v)
			}
		}
	}
}

func TestNoise1D_Range(t *testing.T) {
	sn := NewSimplex(42)
	for i := 0; i < 1000; i++ {
		v := sn.Noise1D(float64(i) * 0.3)
		if v < 0 || v > 1 {
			t.Fatalf("Noise1D(%d*0.3) = %v, want [0, 1]", i, v)
		}
	}
}

func TestNoise1D_Continuous(t *testing.T) {
	sn := NewSimplex(42)
	prev := sn.Noise1D(0)
	for x := 0.001; x < 5; x += 0.001 {
		v := sn.Noise1D(x)
		if math.Abs(v-prev) > 0.05 {
			t.Fatalf("jump of %v at x=%v", math.Abs(v-prev), x)
		}
		prev = v
	}
}

func TestFractal_ClampsOctaves(t *testing.T) {
	sn := NewSimplex(3)
	v := sn.Fractal(1.5, 0, 1, 0, 2, 0.5)
	if v != sn.Fractal(1.5, 0, 1, 1, 2, 0.5) {
		t.Error("octaves < 1 should behave like a single octave")
	}
}
