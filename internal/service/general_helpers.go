package service

import (
	"math"
	"time"
)

// nowUTC returns the current time in UTC. All derived timestamps use UTC.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// RoundingPrecision is the multiplier used for two-decimal rounding of
// monetary values in API responses.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
// This function is used throughout the service layer to ensure consistent rounding of monetary
// values and share counts in API responses.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// round4 rounds to four decimal places, used for returns and correlations.
func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleCovariance returns the covariance of two equal-length series with
// n-1 in the denominator. Returns 0 when fewer than two observations.
func sampleCovariance(a, b []float64) float64 {
	n := len(a)
	if n < 2 || n != len(b) {
		return 0
	}
	meanA, meanB := mean(a), mean(b)
	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}
	return sum / float64(n-1)
}

// populationVariance returns the variance of a series with n in the
// denominator. Returns 0 for an empty slice.
func populationVariance(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return sum / float64(n)
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series, clamped to [-1, 1]. Returns 0 when either series has zero variance.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n < 2 || n != len(b) {
		return 0
	}
	meanA, meanB := mean(a), mean(b)
	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	r := cov / math.Sqrt(varA*varB)
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// cumulativeReturn compounds a series of periodic returns.
func cumulativeReturn(returns []float64) float64 {
	total := 1.0
	for _, r := range returns {
		total *= 1 + r
	}
	return total - 1
}
