// Package utils contains small shared helpers with no domain dependencies.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns whether their
// difference is less than epsilon.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) < epsilon
}

// Float64sAlmostEqual compares two float64 slices elementwise against
// epsilon; slices of different lengths are never equal.
func Float64sAlmostEqual(s1, s2 []float64, epsilon float64) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i, v := range s1 {
		if !Float64AlmostEqual(v, s2[i], epsilon) {
			return false
		}
	}
	return true
}
