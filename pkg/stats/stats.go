// Package stats provides the small amount of numeric work chart shaping needs:
// totals, extremes and an ordinary least-squares line fit.
package stats

import (
	"cmp"
	"errors"
	"fmt"
)

// Sentinel fit errors.
var (
	ErrNoPoints       = errors.New("no points to fit")
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrDegenerateFit  = errors.New("all x values are equal")
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return Sum(values) / float64(len(values))
}

// Min returns the smallest element in values.
// Returns the zero value of T for an empty slice.
func Min[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	result := values[0]

	for _, v := range values[1:] {
		if v < result {
			result = v
		}
	}

	return result
}

// Max returns the largest element in values.
// Returns the zero value of T for an empty slice.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	result := values[0]

	for _, v := range values[1:] {
		if v > result {
			result = v
		}
	}

	return result
}

// Sum returns the sum of all elements in values.
// Returns the zero value of T for an empty slice.
func Sum[T cmp.Ordered](values []T) T {
	var result T

	for _, v := range values {
		result += v
	}

	return result
}

// Fit is a fitted line y = Slope*x + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// LinearFit computes the ordinary least-squares line through (xs[i], ys[i]).
//
//	slope     = (nΣxy − ΣxΣy) / (nΣx² − (Σx)²)
//	intercept = (Σy − slope·Σx) / n
func LinearFit(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(xs), len(ys))
	}

	if len(xs) == 0 {
		return Fit{}, ErrNoPoints
	}

	var sumX, sumY, sumXY, sumXX float64

	for i, x := range xs {
		y := ys[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	n := float64(len(xs))

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return Fit{}, ErrDegenerateFit
	}

	slope := (n*sumXY - sumX*sumY) / denominator

	return Fit{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}, nil
}
