// Package geom holds the 2D field-geometry primitives used by the feature
// pipeline. All angles are degrees; NaN inputs propagate.
package geom

import "math"

// Distance returns the Euclidean distance between (x1,y1) and (x2,y2).
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleToTarget returns the angle from (x,y) toward (tx,ty) in degrees,
// normalized into [0,360).
func AngleToTarget(x, y, tx, ty float64) float64 {
	deg := math.Atan2(ty-y, tx-x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// AngularDifference returns the smallest difference between two angles in
// [0,360), reflected around 180 so the result lies in [0,180].
func AngularDifference(a1, a2 float64) float64 {
	diff := math.Abs(a1 - a2)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// AngularDifferences applies AngularDifference elementwise. The slices must be
// the same length.
func AngularDifferences(a1, a2 []float64) []float64 {
	out := make([]float64, len(a1))
	for i := range a1 {
		out[i] = AngularDifference(a1[i], a2[i])
	}
	return out
}
