package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and population standard deviation.
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	if len(data) == 1 {
		return data[0], 0
	}
	mean, std := stat.PopMeanStdDev(data, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// -----------------------------------------------------------------------------

// CalculateMedian returns the middle value, averaging the two middle values for even lengths.
func CalculateMedian(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
