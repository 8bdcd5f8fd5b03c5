package dataframe

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/logging"
	"github.com/monner/black-jack/internal/parallel"
	"github.com/monner/black-jack/internal/series"
	"github.com/monner/black-jack/internal/stats"
)

// AggFunc identifies a per-group reduction.
type AggFunc int

const (
	AggSum AggFunc = iota
	AggMean
	AggMin
	AggMax
	AggCount
	AggVar
	AggStd
	AggMedian
)

// String returns the suffix used for result column naming.
func (f AggFunc) String() string {
	switch f {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggCount:
		return "count"
	case AggVar:
		return "var"
	case AggStd:
		return "std"
	case AggMedian:
		return "median"
	default:
		return "unknown"
	}
}

// Aggregation pairs a value column with a reduction to apply per group.
type Aggregation struct {
	Column string
	Func   AggFunc
}

// group is one partition: the rows sharing a composite key, in source order.
type group struct {
	key  []byte
	rows []int
}

// GroupBy partitions row indices by the values of one or more key columns.
// Partitions appear in first-occurrence order of each distinct key.
type GroupBy struct {
	df      *DataFrame
	keyCols []string
	groups  []*group
	sorted  bool
	pool    *parallel.Pool
}

// GroupBy builds the partition map for the given key columns. The scan is a
// single sequential pass; missing key values form their own group rather
// than being dropped. Unknown columns fail with KeyNotFound.
func (df *DataFrame) GroupBy(keyCols ...string) (*GroupBy, error) {
	if len(keyCols) == 0 {
		return nil, &errors.Error{
			Kind:    errors.KindKeyNotFound,
			Op:      "GroupBy",
			Message: "at least one key column is required",
		}
	}
	keyArrays := make([]arrow.Array, len(keyCols))
	for i, name := range keyCols {
		s, err := df.Column(name)
		if err != nil {
			return nil, errors.NewKeyNotFound("GroupBy", name)
		}
		keyArrays[i] = s.Array()
	}
	defer func() {
		for _, arr := range keyArrays {
			arr.Release()
		}
	}()

	// The key-discovery scan must stay sequential: every row probes and
	// possibly extends one shared table, and first-occurrence output order
	// depends on scan order.
	buckets := make(map[uint64][]*group)
	var groups []*group
	var keyBuf []byte
	for row := 0; row < df.Len(); row++ {
		keyBuf = encodeRowKey(keyBuf[:0], keyArrays, row)
		h := xxhash.Sum64(keyBuf)

		var g *group
		for _, cand := range buckets[h] {
			if bytes.Equal(cand.key, keyBuf) {
				g = cand
				break
			}
		}
		if g == nil {
			g = &group{key: append([]byte(nil), keyBuf...)}
			buckets[h] = append(buckets[h], g)
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}

	return &GroupBy{
		df:      df,
		keyCols: keyCols,
		groups:  groups,
		pool:    parallel.Shared(),
	}, nil
}

// encodeRowKey appends a collision-free encoding of the row's key-column
// values to dst. Missing values get their own tag so they group together
// instead of colliding with empty strings.
func encodeRowKey(dst []byte, keyArrays []arrow.Array, row int) []byte {
	for _, arr := range keyArrays {
		if arr.IsNull(row) {
			dst = append(dst, 0x00)
			continue
		}
		v := valueString(arr, row)
		dst = append(dst, 0x01)
		dst = binary.AppendUvarint(dst, uint64(len(v)))
		dst = append(dst, v...)
	}
	return dst
}

// Sorted requests sorted-by-key output order instead of the default
// first-occurrence order.
func (gb *GroupBy) Sorted() *GroupBy {
	gb.sorted = true
	return gb
}

// WithPool overrides the execution pool for the reduction phase.
func (gb *GroupBy) WithPool(pool *parallel.Pool) *GroupBy {
	gb.pool = pool
	return gb
}

// NumGroups returns the number of distinct keys observed.
func (gb *GroupBy) NumGroups() int {
	return len(gb.groups)
}

// aggCell is one computed result cell; valid false means a missing cell
// (the group had no non-missing values for the aggregated column).
type aggCell struct {
	value float64
	count int64
	valid bool
}

// Agg applies the requested reductions per group and assembles a result
// frame with one row per distinct key: the key columns first, then one
// column per aggregation named <column>_<func>. A group whose values are
// all missing yields a missing cell, not an error.
func (gb *GroupBy) Agg(aggs ...Aggregation) (*DataFrame, error) {
	if len(aggs) == 0 {
		return nil, &errors.Error{
			Kind:    errors.KindKeyNotFound,
			Op:      "Agg",
			Message: "at least one aggregation is required",
		}
	}

	logging.Op("Agg").Debug("aggregating",
		zap.Int("groups", len(gb.groups)),
		zap.Int("aggregations", len(aggs)),
	)

	out := NewEmpty()
	firstRows := make([]int, len(gb.groups))
	for i, g := range gb.groups {
		firstRows[i] = g.rows[0]
	}
	for _, name := range gb.keyCols {
		keyCol := gb.df.columns[name]
		taken, err := takeSeries(keyCol, firstRows)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(taken); err != nil {
			out.Release()
			return nil, err
		}
	}

	for _, agg := range aggs {
		col, err := gb.df.Column(agg.Column)
		if err != nil {
			out.Release()
			return nil, errors.NewKeyNotFound("Agg", agg.Column)
		}
		result, err := gb.aggregateColumn(col, agg)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(result); err != nil {
			out.Release()
			return nil, err
		}
	}

	if gb.sorted {
		ascending := make([]bool, len(gb.keyCols))
		for i := range ascending {
			ascending[i] = true
		}
		sorted, err := out.SortBy(gb.keyCols, ascending)
		out.Release()
		if err != nil {
			return nil, err
		}
		return sorted, nil
	}
	return out, nil
}

// aggregateColumn runs one reduction over every group. The per-group phase
// fans out to the pool above the parallel threshold; group order in the
// output follows gb.groups regardless of scheduling.
func (gb *GroupBy) aggregateColumn(col ISeries, agg Aggregation) (ISeries, error) {
	if agg.Func != AggCount && !series.IsNumericType(col.DataType()) {
		return nil, errors.NewTypeMismatch("Agg", agg.Column, col.DataType().Name())
	}

	arr := col.Array()
	defer arr.Release()

	reduceGroup := func(i int) (aggCell, error) {
		g := gb.groups[i]
		if agg.Func == AggCount {
			var n int64
			for _, row := range g.rows {
				if !arr.IsNull(row) {
					n++
				}
			}
			return aggCell{count: n, valid: true}, nil
		}

		buf := make([]float64, 0, len(g.rows))
		for _, row := range g.rows {
			if arr.IsNull(row) {
				continue
			}
			buf = append(buf, numericValue(arr, row))
		}
		if len(buf) == 0 {
			return aggCell{valid: false}, nil
		}
		v, err := applyAggFunc(agg.Func, buf)
		if err != nil {
			return aggCell{}, err
		}
		return aggCell{value: v, valid: true}, nil
	}

	var cells []aggCell
	cfg := config.GetGlobalConfig()
	if gb.df.Len() < cfg.ParallelThreshold || gb.pool == nil {
		cells = make([]aggCell, len(gb.groups))
		for i := range gb.groups {
			c, err := reduceGroup(i)
			if err != nil {
				return nil, err
			}
			cells[i] = c
		}
	} else {
		var err error
		cells, err = parallel.RunIndexed(gb.pool, len(gb.groups), reduceGroup)
		if err != nil {
			return nil, err
		}
	}

	name := fmt.Sprintf("%s_%s", agg.Column, agg.Func)
	mem := memory.NewGoAllocator()
	if agg.Func == AggCount {
		counts := make([]int64, len(cells))
		for i, c := range cells {
			counts[i] = c.count
		}
		return series.New(name, counts, mem), nil
	}
	values := make([]float64, len(cells))
	valid := make([]bool, len(cells))
	for i, c := range cells {
		values[i] = c.value
		valid[i] = c.valid
	}
	return series.NewNullable(name, values, valid, mem), nil
}

func applyAggFunc(f AggFunc, buf []float64) (float64, error) {
	switch f {
	case AggSum:
		return stats.Sum("Agg", buf)
	case AggMean:
		return stats.Mean("Agg", buf)
	case AggMin:
		return stats.Min("Agg", buf)
	case AggMax:
		return stats.Max("Agg", buf)
	case AggVar:
		return stats.Variance("Agg", buf, 1)
	case AggStd:
		return stats.StdDev("Agg", buf, 1)
	case AggMedian:
		return stats.Median("Agg", buf)
	default:
		return 0, fmt.Errorf("unknown aggregation function %d", f)
	}
}

// numericValue reads a numeric array element as float64.
func numericValue(arr arrow.Array, i int) float64 {
	switch a := arr.(type) {
	case *array.Int64:
		return float64(a.Value(i))
	case *array.Int32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	default:
		return 0
	}
}

// Convenience single-aggregation helpers.

// Sum aggregates one column with a per-group sum.
func (gb *GroupBy) Sum(column string) (*DataFrame, error) {
	return gb.Agg(Aggregation{Column: column, Func: AggSum})
}

// Mean aggregates one column with a per-group mean.
func (gb *GroupBy) Mean(column string) (*DataFrame, error) {
	return gb.Agg(Aggregation{Column: column, Func: AggMean})
}

// Min aggregates one column with a per-group minimum.
func (gb *GroupBy) Min(column string) (*DataFrame, error) {
	return gb.Agg(Aggregation{Column: column, Func: AggMin})
}

// Max aggregates one column with a per-group maximum.
func (gb *GroupBy) Max(column string) (*DataFrame, error) {
	return gb.Agg(Aggregation{Column: column, Func: AggMax})
}

// Count aggregates one column with a per-group non-missing count.
func (gb *GroupBy) Count(column string) (*DataFrame, error) {
	return gb.Agg(Aggregation{Column: column, Func: AggCount})
}
