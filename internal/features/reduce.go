package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Reductions skip NaN; elementwise arithmetic elsewhere propagates it. A
// reduction over an all-NaN (or empty) input yields NaN.

func dropNaN(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func nanMean(xs []float64) float64 {
	valid := dropNaN(xs)
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// nanStd is the sample standard deviation over the non-NaN values. A single
// valid observation has no spread estimate and yields NaN.
func nanStd(xs []float64) float64 {
	valid := dropNaN(xs)
	if len(valid) < 2 {
		return math.NaN()
	}
	return math.Sqrt(stat.Variance(valid, nil))
}

func nanMin(xs []float64) float64 {
	min := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(min) || x < min {
			min = x
		}
	}
	return min
}

func nanMax(xs []float64) float64 {
	max := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(max) || x > max {
			max = x
		}
	}
	return max
}
