package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestDistance(t *testing.T) {
	cases := []struct {
		x1, y1, x2, y2 float64
		want           float64
	}{
		{0, 0, 3, 4, 5},
		{1, 1, 1, 1, 0},
		{-2, 0, 2, 0, 4},
	}
	for _, c := range cases {
		got := Distance(c.x1, c.y1, c.x2, c.y2)
		if math.Abs(got-c.want) > eps {
			t.Errorf("Distance(%v,%v,%v,%v): want %v, got %v", c.x1, c.y1, c.x2, c.y2, c.want, got)
		}
	}
}

func TestDistance_NaNPropagates(t *testing.T) {
	if got := Distance(math.NaN(), 0, 1, 1); !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}
}

func TestAngleToTarget(t *testing.T) {
	cases := []struct {
		x, y, tx, ty float64
		want         float64
	}{
		{0, 0, 1, 0, 0},    // due "east"
		{0, 0, 0, 1, 90},   // straight up-field
		{0, 0, -1, 0, 180}, // behind
		{0, 0, 0, -1, 270}, // down
		{0, 0, 1, 1, 45},
	}
	for _, c := range cases {
		got := AngleToTarget(c.x, c.y, c.tx, c.ty)
		if math.Abs(got-c.want) > eps {
			t.Errorf("AngleToTarget(%v,%v,%v,%v): want %v, got %v", c.x, c.y, c.tx, c.ty, c.want, got)
		}
	}
}

func TestAngleToTarget_Range(t *testing.T) {
	// Sweep a ring of targets; every result must land in [0,360).
	for deg := 0; deg < 360; deg += 15 {
		rad := float64(deg) * math.Pi / 180
		got := AngleToTarget(0, 0, math.Cos(rad), math.Sin(rad))
		if got < 0 || got >= 360 {
			t.Errorf("angle %d: result %v out of [0,360)", deg, got)
		}
	}
}

func TestAngularDifference_Identity(t *testing.T) {
	for a := 0.0; a < 360; a += 7.5 {
		if got := AngularDifference(a, a); got != 0 {
			t.Errorf("AngularDifference(%v,%v): want 0, got %v", a, a, got)
		}
	}
}

func TestAngularDifference_Wraparound(t *testing.T) {
	cases := []struct {
		a1, a2, want float64
	}{
		{350, 10, 20}, // not 340
		{10, 350, 20},
		{0, 180, 180},
		{0, 181, 179},
		{359, 1, 2},
		{90, 270, 180},
		{45, 90, 45},
	}
	for _, c := range cases {
		got := AngularDifference(c.a1, c.a2)
		if math.Abs(got-c.want) > eps {
			t.Errorf("AngularDifference(%v,%v): want %v, got %v", c.a1, c.a2, c.want, got)
		}
	}
}

func TestAngularDifference_Symmetry(t *testing.T) {
	for a1 := 0.0; a1 < 360; a1 += 30 {
		for a2 := 0.0; a2 < 360; a2 += 30 {
			d12 := AngularDifference(a1, a2)
			d21 := AngularDifference(a2, a1)
			if d12 != d21 {
				t.Errorf("asymmetric: (%v,%v)=%v vs (%v,%v)=%v", a1, a2, d12, a2, a1, d21)
			}
			if d12 < 0 || d12 > 180 {
				t.Errorf("AngularDifference(%v,%v)=%v outside [0,180]", a1, a2, d12)
			}
		}
	}
}

func TestAngularDifferences_Elementwise(t *testing.T) {
	a1 := []float64{350, 0, 90}
	a2 := []float64{10, 180, 45}
	want := []float64{20, 180, 45}
	got := AngularDifferences(a1, a2)
	if len(got) != len(want) {
		t.Fatalf("length: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("index %d: want %v, got %v", i, want[i], got[i])
		}
	}
}
