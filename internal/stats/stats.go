// Package stats implements the aggregate statistics shared by the
// synthesis engine and the dashboard handlers.
package stats

import "math"

// Mean returns the arithmetic mean of values. Empty input yields 0 by
// contract, not an error.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values (divide by N,
// not N-1). Empty input yields 0.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// AchievementRate returns value/target as a percentage, rounded to one
// decimal. A non-positive target yields 0.
func AchievementRate(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return Round1(value / target * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
