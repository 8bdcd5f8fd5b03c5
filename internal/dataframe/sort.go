package dataframe

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/errors"
)

// SortBy returns a new DataFrame with rows stably sorted by the given
// columns, earlier columns taking precedence. ascending must be empty
// (all ascending) or match columns in length. Missing values are placed
// per the global configuration (last by default).
func (df *DataFrame) SortBy(columns []string, ascending []bool) (*DataFrame, error) {
	if len(columns) == 0 {
		return nil, &errors.Error{
			Kind:    errors.KindKeyNotFound,
			Op:      "SortBy",
			Message: "at least one sort column is required",
		}
	}
	if len(ascending) == 0 {
		ascending = make([]bool, len(columns))
		for i := range ascending {
			ascending[i] = true
		}
	}
	if len(ascending) != len(columns) {
		return nil, errors.NewLengthMismatch("SortBy", len(columns), len(ascending))
	}

	arrays := make([]arrow.Array, len(columns))
	for i, name := range columns {
		s, err := df.Column(name)
		if err != nil {
			releaseArrays(arrays[:i])
			return nil, errors.NewKeyNotFound("SortBy", name)
		}
		arrays[i] = s.Array()
	}
	defer releaseArrays(arrays)

	nullsFirst := config.GetGlobalConfig().NullsFirst
	perm := make([]int, df.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for k, arr := range arrays {
			c := compareAt(arr, ra, rb, nullsFirst)
			if c == 0 {
				continue
			}
			if !ascending[k] {
				c = -c
			}
			return c < 0
		}
		return false
	})

	return df.takeRows(perm)
}

// compareAt orders two rows of one column: -1, 0, or 1. Missing values sort
// before everything when nullsFirst, after everything otherwise.
func compareAt(arr arrow.Array, i, j int, nullsFirst bool) int {
	ni, nj := arr.IsNull(i), arr.IsNull(j)
	switch {
	case ni && nj:
		return 0
	case ni:
		if nullsFirst {
			return -1
		}
		return 1
	case nj:
		if nullsFirst {
			return 1
		}
		return -1
	}

	switch a := arr.(type) {
	case *array.String:
		return compareOrdered(a.Value(i), a.Value(j))
	case *array.Int64:
		return compareOrdered(a.Value(i), a.Value(j))
	case *array.Int32:
		return compareOrdered(a.Value(i), a.Value(j))
	case *array.Float64:
		return compareOrdered(a.Value(i), a.Value(j))
	case *array.Float32:
		return compareOrdered(a.Value(i), a.Value(j))
	case *array.Boolean:
		vi, vj := a.Value(i), a.Value(j)
		switch {
		case vi == vj:
			return 0
		case !vi:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

func compareOrdered[T interface {
	~string | ~int64 | ~int32 | ~float64 | ~float32
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
