package core

import (
	"math"

	"crypto-analyst/src/models"
)

// Volatility thresholds on absolute 24h change, in percent.
const (
	ModerateThreshold = 1.0
	VolatileThreshold = 5.0
)

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates percentage change in percent units.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous * 100
}

// -----------------------------------------------------------------------------

// VolatilityBucket classifies a 24h change by its magnitude.
func VolatilityBucket(changePct float64) string {
	abs := math.Abs(changePct)
	switch {
	case abs >= VolatileThreshold:
		return models.BucketVolatile
	case abs >= ModerateThreshold:
		return models.BucketModerate
	default:
		return models.BucketStable
	}
}

// -----------------------------------------------------------------------------

// SentimentScore blends market breadth and average momentum into 0..100, 50 neutral.
func SentimentScore(advancers, decliners, total int, avgChange float64) float64 {
	if total <= 0 {
		return 50
	}
	breadth := float64(advancers-decliners) / float64(total)
	momentum := math.Tanh(avgChange / 5)
	score := Clamp(50+25*breadth+25*momentum, 0, 100)
	return Round(score, 1)
}

// -----------------------------------------------------------------------------

// Share returns part as a percentage of whole.
func Share(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// -----------------------------------------------------------------------------

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// -----------------------------------------------------------------------------

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
