package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SafePow is math.Pow with a NaN result for a fractional power of a negative base
func SafePow(x, p float64) (y float64) {
	if math.IsNaN(x) || (x < 0 && p != math.Trunc(p)) {
		return math.NaN()
	}
	return math.Pow(x, p)
}

// SafeLog returns NaN for non-positive arguments
func SafeLog(x float64) (y float64) {
	if !(x > 0) {
		return math.NaN()
	}
	return math.Log(x)
}

// Linspace returns N values evenly spaced from start to end, both ends included
func Linspace(start, end float64, N int) (v []float64) {
	switch {
	case N <= 0:
		return nil
	case N == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, N), start, end)
}

// ArgMinAbs returns the index of the value nearest to target, the first one on ties
func ArgMinAbs(values []float64, target float64) (ind int) {
	var (
		best = math.Inf(1)
	)
	ind = -1
	for i, v := range values {
		d := math.Abs(v - target)
		if d < best {
			best, ind = d, i
		}
	}
	return
}
