// Package mathutil provides the rounding and clamping helpers shared by the
// scoring packages.
package mathutil

import "math"

// Round rounds val to the given number of decimal places, halves away from zero.
func Round(val float64, places int) float64 {
	if places <= 0 {
		return math.Round(val)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// Round1 rounds val to one decimal place. Scores are reported at this precision.
func Round1(val float64) float64 {
	return math.Round(val*10) / 10
}

// Clamp bounds val to [lo, hi]. NaN is returned as lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) || val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Finite returns val, or 0 when val is NaN or infinite.
func Finite(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}
