// Package stats provides the small set of descriptive statistics and the
// closed-form least-squares fit shared by the analytics components.
//
// Variance and standard deviation are population moments (divide by n, not
// n-1); every documented threshold in the service assumes them.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
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

// Variance returns the population variance.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation.
func Std(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Diff returns consecutive differences values[i+1]-values[i].
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// FitLine fits y = slope*x + intercept over x = 0..len(y)-1 by least
// squares. With fewer than two points, or zero spread in x, the slope is 0
// and the intercept is the mean.
func FitLine(y []float64) (slope, intercept float64) {
	n := len(y)
	if n < 2 {
		return 0, Mean(y)
	}

	xMean := float64(n-1) / 2
	yMean := Mean(y)

	num, den := 0.0, 0.0
	for i, v := range y {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}

// RSquared returns the coefficient of determination of the FitLine fit,
// clamped at 0. A series with zero total variance fits perfectly.
func RSquared(y []float64, slope, intercept float64) float64 {
	yMean := Mean(y)
	ssRes, ssTot := 0.0, 0.0
	for i, v := range y {
		pred := slope*float64(i) + intercept
		ssRes += (v - pred) * (v - pred)
		ssTot += (v - yMean) * (v - yMean)
	}
	if ssTot == 0 {
		return 1
	}
	return math.Max(0, 1-ssRes/ssTot)
}

// Round1, Round2 and Round3 round to 1, 2 and 3 decimal places.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Round3 rounds to 3 decimal places.
func Round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
