// Package stats wraps the leaf statistics functions used by Series and
// aggregation reductions. Every function takes a contiguous buffer of
// non-missing float64 values; missing-value filtering is the caller's job
// and an empty buffer is rejected uniformly.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/monner/black-jack/internal/errors"
)

// Sum returns the sum of the buffer.
func Sum(op string, buf []float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	return floats.Sum(buf), nil
}

// Mean returns the arithmetic mean of the buffer.
func Mean(op string, buf []float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	return stat.Mean(buf, nil), nil
}

// Variance returns the variance of the buffer. ddof 0 gives the population
// variance, ddof 1 the sample variance.
func Variance(op string, buf []float64, ddof float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	n := float64(len(buf))
	if n-ddof <= 0 {
		return math.NaN(), nil
	}
	// gonum's stat.Variance is the sample variance (ddof=1); rescale for
	// other ddof values.
	if len(buf) == 1 {
		if ddof == 0 {
			return 0, nil
		}
		return math.NaN(), nil
	}
	sample := stat.Variance(buf, nil)
	return sample * (n - 1) / (n - ddof), nil
}

// StdDev returns the standard deviation of the buffer for the given ddof.
func StdDev(op string, buf []float64, ddof float64) (float64, error) {
	v, err := Variance(op, buf, ddof)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Min returns the minimum of the buffer.
func Min(op string, buf []float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	return floats.Min(buf), nil
}

// Max returns the maximum of the buffer.
func Max(op string, buf []float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	return floats.Max(buf), nil
}

// Median returns the median of the buffer. The input is not modified.
func Median(op string, buf []float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	sorted := make([]float64, len(buf))
	copy(sorted, buf)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil), nil
}

// Quantile returns the q-th empirical quantile of the buffer, q in [0, 1].
func Quantile(op string, buf []float64, q float64) (float64, error) {
	if len(buf) == 0 {
		return 0, errors.NewEmptyReduction(op, "")
	}
	sorted := make([]float64, len(buf))
	copy(sorted, buf)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil), nil
}
