package common

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared across algorithms, backed by gonum where it fits

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// ParabolicPeak refines a discrete extremum position from the values at
// the extremum and its two neighbors. Returns the fractional offset from
// the center sample, in (-1, 1) for a strict extremum. Zero curvature
// returns 0 so callers fall back to the unrefined index.
func ParabolicPeak(y1, y2, y3 float64) float64 {
	a := (y1 - 2*y2 + y3) / 2
	if a == 0 {
		return 0.0
	}
	b := (y3 - y1) / 2
	return -b / (2 * a)
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
