package projection

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestScaleFactor_Bands(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		want float64
	}{
		{"phone", Viewport{Width: 400, Height: 800}, 400 * 0.22},
		{"tablet", Viewport{Width: 1024, Height: 768}, 768 * 0.16},
		{"desktop", Viewport{Width: 1920, Height: 1080}, 1080 * 0.12},
		{"band edge 500", Viewport{Width: 500, Height: 500}, 500 * 0.16},
		{"band edge 900", Viewport{Width: 900, Height: 1200}, 900 * 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScaler(tt.vp, ModeLog)
			if got := s.ScaleFactor(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScaleFactor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaleDistance_Zero(t *testing.T) {
	for _, mode := range []Mode{ModeLog, ModeSqrt} {
		s := NewScaler(Viewport{Width: 960, Height: 640}, mode)
		if got := s.ScaleDistance(0); got != 0 {
			t.Errorf("%s: ScaleDistance(0) = %v, want 0", mode, got)
		}
		if got := s.ScaleDistance(-5); got != 0 {
			t.Errorf("%s: ScaleDistance(-5) = %v, want 0", mode, got)
		}
	}
}

func TestScaleDistance_ProximaExample(t *testing.T) {
	s := NewScaler(Viewport{Width: 960, Height: 640}, ModeLog)
	want := math.Log(5.2) * s.ScaleFactor()
	if got := s.ScaleDistance(4.2); math.Abs(got-want) > 1e-9 {
		t.Errorf("ScaleDistance(4.2) = %v, want %v", got, want)
	}
}

func TestScaleRadius_Examples(t *testing.T) {
	s := NewScaler(Viewport{Width: 1800, Height: 900}, ModeLog)

	// base 900 -> screenFactor 1, so radius 1 -> 4.
	if got := s.ScaleRadius(1); math.Abs(got-4) > 1e-9 {
		t.Errorf("ScaleRadius(1) = %v, want 4", got)
	}
	if got := s.ScaleRadius(0.0084); got != MinStarRadius {
		t.Errorf("ScaleRadius(white dwarf) = %v, want %v", got, MinStarRadius)
	}
	if got := s.ScaleRadius(764); got != MaxStarRadius {
		t.Errorf("ScaleRadius(supergiant) = %v, want %v", got, MaxStarRadius)
	}
	if got := s.ScaleRadius(0); got != MinStarRadius {
		t.Errorf("ScaleRadius(0) = %v, want %v", got, MinStarRadius)
	}
}

func TestDepthAlpha(t *testing.T) {
	if got := DepthAlpha(0); got != 1 {
		t.Errorf("DepthAlpha(0) = %v, want 1", got)
	}
	if got := DepthAlpha(2600); math.Abs(got-120.0/255.0) > 1e-12 {
		t.Errorf("DepthAlpha(2600) = %v, want %v", got, 120.0/255.0)
	}
	if got := DepthAlpha(10000); math.Abs(got-120.0/255.0) > 1e-12 {
		t.Errorf("DepthAlpha(10000) = %v, want clamp at %v", got, 120.0/255.0)
	}
	if DepthAlpha(100) <= DepthAlpha(1000) {
		t.Error("DepthAlpha should decrease with distance")
	}
}

func TestModeString(t *testing.T) {
	if ModeLog.String() != "log" || ModeSqrt.String() != "sqrt" || Mode(9).String() != "unknown" {
		t.Error("unexpected Mode.String output")
	}
}

func TestScalingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genViewport := gopter.CombineGens(
		gen.Float64Range(80, 4000),
		gen.Float64Range(80, 4000),
	).Map(func(vals []interface{}) Viewport {
		return Viewport{Width: vals[0].(float64), Height: vals[1].(float64)}
	})

	properties.Property("ScaleDistance is strictly increasing", prop.ForAll(
		func(vp Viewport, a, b float64) bool {
			if a == b {
				return true
			}
			lo, hi := math.Min(a, b), math.Max(a, b)
			for _, mode := range []Mode{ModeLog, ModeSqrt} {
				s := NewScaler(vp, mode)
				if !(s.ScaleDistance(lo) < s.ScaleDistance(hi)) {
					return false
				}
			}
			return true
		},
		genViewport,
		gen.Float64Range(0, 5000),
		gen.Float64Range(0, 5000),
	))

	properties.Property("ScaleRadius stays within clamp", prop.ForAll(
		func(vp Viewport, r float64) bool {
			got := NewScaler(vp, ModeLog).ScaleRadius(r)
			return got >= MinStarRadius && got <= MaxStarRadius
		},
		genViewport,
		gen.Float64Range(-10, 1e6),
	))

	properties.Property("ScaleRadius increasing inside unclamped range", prop.ForAll(
		func(a, b float64) bool {
			// base 900: unclamped for sqrt(r)*4 in (1.5, 40), i.e. r in (0.140625, 100).
			s := NewScaler(Viewport{Width: 900, Height: 900}, ModeLog)
			if a == b {
				return true
			}
			lo, hi := math.Min(a, b), math.Max(a, b)
			return s.ScaleRadius(lo) < s.ScaleRadius(hi)
		},
		gen.Float64Range(0.15, 99.9),
		gen.Float64Range(0.15, 99.9),
	))

	properties.Property("DepthAlpha within [120/255, 1]", prop.ForAll(
		func(ly float64) bool {
			a := DepthAlpha(ly)
			return a >= 120.0/255.0-1e-12 && a <= 1
		},
		gen.Float64Range(0, 1e5),
	))

	properties.TestingRun(t)
}
