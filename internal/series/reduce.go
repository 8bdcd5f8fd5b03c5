package series

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/stats"
)

// Float64Buffer extracts the non-missing values as a contiguous float64
// buffer, the shape the statistics collaborator consumes. Non-numeric
// element types fail with TypeMismatch.
func (s *Series[T]) Float64Buffer() ([]float64, error) {
	if !IsNumericType(s.DataType()) {
		return nil, errors.NewTypeMismatch("Float64Buffer", s.name, s.DataType().Name())
	}
	buf := make([]float64, 0, s.Len()-s.NullCount())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		buf = append(buf, toFloat64(s.Value(i)))
	}
	return buf, nil
}

func toFloat64[T any](v T) float64 {
	switch x := any(v).(type) {
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case float64:
		return x
	case float32:
		return float64(x)
	default:
		return 0
	}
}

// reduce extracts the buffer and applies fn, attaching the column name to
// an EmptyReduction from the collaborator.
func (s *Series[T]) reduce(op string, fn func(string, []float64) (float64, error)) (float64, error) {
	buf, err := s.Float64Buffer()
	if err != nil {
		return 0, errors.NewTypeMismatch(op, s.name, s.DataType().Name())
	}
	v, err := fn(op, buf)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindEmptyReduction {
			return 0, errors.NewEmptyReduction(op, s.name)
		}
		return 0, err
	}
	return v, nil
}

// Sum returns the sum over non-missing values.
func (s *Series[T]) Sum() (float64, error) {
	return s.reduce("Sum", stats.Sum)
}

// Mean returns the arithmetic mean over non-missing values.
func (s *Series[T]) Mean() (float64, error) {
	return s.reduce("Mean", stats.Mean)
}

// Min returns the minimum over non-missing values.
func (s *Series[T]) Min() (float64, error) {
	return s.reduce("Min", stats.Min)
}

// Max returns the maximum over non-missing values.
func (s *Series[T]) Max() (float64, error) {
	return s.reduce("Max", stats.Max)
}

// Median returns the median over non-missing values.
func (s *Series[T]) Median() (float64, error) {
	return s.reduce("Median", stats.Median)
}

// Var returns the variance over non-missing values. ddof 0 is the
// population variance, 1 the sample variance.
func (s *Series[T]) Var(ddof float64) (float64, error) {
	return s.reduce("Var", func(op string, buf []float64) (float64, error) {
		return stats.Variance(op, buf, ddof)
	})
}

// Std returns the standard deviation over non-missing values for the
// given ddof.
func (s *Series[T]) Std(ddof float64) (float64, error) {
	return s.reduce("Std", func(op string, buf []float64) (float64, error) {
		return stats.StdDev(op, buf, ddof)
	})
}

// Mode returns the most frequent non-missing value(s) as a new Series of
// the same element type. Ties all appear, in first-occurrence order.
// Defined for every element type; an empty or all-missing Series fails
// with EmptyReduction.
func (s *Series[T]) Mode() (*Series[T], error) {
	counts := make(map[any]int)
	var order []T
	best := 0
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		v := s.Value(i)
		k := any(v)
		if counts[k] == 0 {
			order = append(order, v)
		}
		counts[k]++
		if counts[k] > best {
			best = counts[k]
		}
	}
	if best == 0 {
		return nil, errors.NewEmptyReduction("Mode", s.name)
	}

	modes := make([]T, 0, len(order))
	for _, v := range order {
		if counts[any(v)] == best {
			modes = append(modes, v)
		}
	}
	return New(s.name, modes, memory.NewGoAllocator()), nil
}

// Count returns the number of non-missing values. Defined for every element
// type and never fails.
func (s *Series[T]) Count() int {
	return s.Len() - s.NullCount()
}
