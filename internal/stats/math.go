package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median of values, 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
