package mathutil

import "math"

// Log returns the natural logarithm of p. Zero maps to -Inf and is never
// clamped: an observed event with probability 0 must stay visible.
func Log(p float64) float64 {
	if p == 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}

// Sum adds xs with Neumaier compensation. The result depends only on the
// order of xs, so callers iterate over sorted keys for reproducible totals.
// An infinite term makes the result infinite.
func Sum(xs []float64) float64 {
	sum, comp := 0.0, 0.0
	for _, x := range xs {
		t := sum + x
		if math.Abs(sum) >= math.Abs(x) {
			comp += (sum - t) + x
		} else {
			comp += (x - t) + sum
		}
		sum = t
	}
	if math.IsInf(sum, 0) || math.IsNaN(sum) {
		return sum
	}
	return sum + comp
}

// Normalize divides xs by their sum in place. It reports false and leaves xs
// untouched when the sum is zero.
func Normalize(xs []float64) bool {
	total := Sum(xs)
	if total == 0 {
		return false
	}
	for i := range xs {
		xs[i] /= total
	}
	return true
}
