package series

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/parallel"
	"github.com/monner/black-jack/internal/stats"
)

// Rolling computes windowed aggregations over a numeric Series. Each output
// position i holds the aggregate of the window ending at i; the first
// window-1 positions are missing, as is any window containing a missing
// source value.
type Rolling[T any] struct {
	window int
	series *Series[T]
	pool   *parallel.Pool
}

// Rolling returns a windowed view of the Series for rolling aggregation.
func (s *Series[T]) Rolling(window int) *Rolling[T] {
	return &Rolling[T]{window: window, series: s, pool: parallel.Shared()}
}

// RollingPool is Rolling with an explicit execution pool.
func (s *Series[T]) RollingPool(window int, pool *parallel.Pool) *Rolling[T] {
	return &Rolling[T]{window: window, series: s, pool: pool}
}

// apply runs fn over every complete window. The window loop fans out to the
// pool above the parallel threshold; each output position depends only on
// its own window, so chunk order recombination keeps results deterministic.
func (r *Rolling[T]) apply(op string, fn func(buf []float64) (float64, error)) (*Series[float64], error) {
	s := r.series
	if r.window <= 0 || r.window > s.Len() {
		return nil, &errors.Error{
			Kind:    errors.KindLengthMismatch,
			Op:      op,
			Column:  s.name,
			Message: "window size out of range",
		}
	}
	if !IsNumericType(s.DataType()) {
		return nil, errors.NewTypeMismatch(op, s.name, s.DataType().Name())
	}

	n := s.Len()
	values := s.Values()
	validity := s.Validity()

	compute := func(c parallel.Chunk) (chunkPart[float64], error) {
		part := chunkPart[float64]{
			values: make([]float64, c.End-c.Start),
			valid:  make([]bool, c.End-c.Start),
		}
		buf := make([]float64, r.window)
		for i := c.Start; i < c.End; i++ {
			if i < r.window-1 {
				continue
			}
			ok := true
			for j := 0; j < r.window; j++ {
				src := i - r.window + 1 + j
				if !validity[src] {
					ok = false
					break
				}
				buf[j] = toFloat64(values[src])
			}
			if !ok {
				continue
			}
			v, err := fn(buf)
			if err != nil {
				return chunkPart[float64]{}, err
			}
			part.values[i-c.Start] = v
			part.valid[i-c.Start] = true
		}
		return part, nil
	}

	var parts []chunkPart[float64]
	cfg := config.GetGlobalConfig()
	if n < cfg.ParallelThreshold || r.pool == nil {
		part, err := compute(parallel.Chunk{Start: 0, End: n})
		if err != nil {
			return nil, err
		}
		parts = []chunkPart[float64]{part}
	} else {
		var err error
		parts, err = parallel.Run(r.pool, n, compute)
		if err != nil {
			return nil, err
		}
	}

	out := make([]float64, 0, n)
	valid := make([]bool, 0, n)
	for _, p := range parts {
		out = append(out, p.values...)
		valid = append(valid, p.valid...)
	}
	result := NewNullable(s.name, out, valid, memory.NewGoAllocator())
	result.index = s.index
	return result, nil
}

// Sum computes the rolling sum.
func (r *Rolling[T]) Sum() (*Series[float64], error) {
	return r.apply("RollingSum", func(buf []float64) (float64, error) {
		return stats.Sum("RollingSum", buf)
	})
}

// Mean computes the rolling mean.
func (r *Rolling[T]) Mean() (*Series[float64], error) {
	return r.apply("RollingMean", func(buf []float64) (float64, error) {
		return stats.Mean("RollingMean", buf)
	})
}

// Var computes the rolling variance with the given delta degrees of freedom
// (0 population, 1 sample).
func (r *Rolling[T]) Var(ddof float64) (*Series[float64], error) {
	return r.apply("RollingVar", func(buf []float64) (float64, error) {
		return stats.Variance("RollingVar", buf, ddof)
	})
}

// Std computes the rolling standard deviation for the given ddof.
func (r *Rolling[T]) Std(ddof float64) (*Series[float64], error) {
	return r.apply("RollingStd", func(buf []float64) (float64, error) {
		return stats.StdDev("RollingStd", buf, ddof)
	})
}

// Median computes the rolling median.
func (r *Rolling[T]) Median() (*Series[float64], error) {
	return r.apply("RollingMedian", func(buf []float64) (float64, error) {
		return stats.Median("RollingMedian", buf)
	})
}

// Min computes the rolling minimum.
func (r *Rolling[T]) Min() (*Series[float64], error) {
	return r.apply("RollingMin", func(buf []float64) (float64, error) {
		return stats.Min("RollingMin", buf)
	})
}

// Max computes the rolling maximum.
func (r *Rolling[T]) Max() (*Series[float64], error) {
	return r.apply("RollingMax", func(buf []float64) (float64, error) {
		return stats.Max("RollingMax", buf)
	})
}
