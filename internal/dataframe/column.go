package dataframe

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/series"
)

// gather copies selected positions of a typed accessor into a fresh series.
// A nil indices gathers everything; an index outside [0, n) produces a
// missing position.
func gather[T any](
	name string, n int, indices []int,
	value func(int) T, isNull func(int) bool,
	mem memory.Allocator,
) ISeries {
	if indices == nil {
		indices = make([]int, n)
		for i := range indices {
			indices[i] = i
		}
	}
	values := make([]T, len(indices))
	valid := make([]bool, len(indices))
	for out, i := range indices {
		if i < 0 || i >= n || isNull(i) {
			continue
		}
		values[out] = value(i)
		valid[out] = true
	}
	return series.NewNullable(name, values, valid, mem)
}

// seriesFromArrow materializes a new series from an Arrow array under a new
// name, gathering the given row indices (nil = all rows).
func seriesFromArrow(name string, arr arrow.Array, indices []int) (ISeries, error) {
	mem := memory.NewGoAllocator()
	switch a := arr.(type) {
	case *array.String:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	case *array.Int64:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	case *array.Int32:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	case *array.Float64:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	case *array.Float32:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	case *array.Boolean:
		return gather(name, a.Len(), indices, a.Value, a.IsNull, mem), nil
	default:
		return nil, errors.NewTypeMismatch("seriesFromArrow", name, arr.DataType().Name())
	}
}

// takeSeries gathers rows of a column into a new series of the same name.
func takeSeries(s ISeries, indices []int) (ISeries, error) {
	arr := s.Array()
	defer arr.Release()
	return seriesFromArrow(s.Name(), arr, indices)
}

// renameSeries copies a column under a new name.
func renameSeries(s ISeries, name string) ISeries {
	arr := s.Array()
	defer arr.Release()
	out, err := seriesFromArrow(name, arr, nil)
	if err != nil {
		// The registry only ever holds supported types.
		panic(err)
	}
	return out
}

// ConcatColumns stitches same-typed column fragments into one column,
// preserving validity. Parts must be non-empty and share an element type.
func ConcatColumns(name string, parts []ISeries) ISeries {
	return concatSeries(name, parts)
}

// concatSeries concatenates same-typed columns vertically, preserving
// missing positions.
func concatSeries(name string, parts []ISeries) ISeries {
	total := 0
	for _, p := range parts {
		total += p.Len()
	}
	first := parts[0].Array()
	defer first.Release()
	mem := memory.NewGoAllocator()

	switch first.(type) {
	case *array.String:
		return concatTyped[string](name, parts, total, mem)
	case *array.Int64:
		return concatTyped[int64](name, parts, total, mem)
	case *array.Int32:
		return concatTyped[int32](name, parts, total, mem)
	case *array.Float64:
		return concatTyped[float64](name, parts, total, mem)
	case *array.Float32:
		return concatTyped[float32](name, parts, total, mem)
	case *array.Boolean:
		return concatTyped[bool](name, parts, total, mem)
	default:
		return series.New(name, []string{}, mem)
	}
}

func concatTyped[T any](name string, parts []ISeries, total int, mem memory.Allocator) ISeries {
	values := make([]T, 0, total)
	valid := make([]bool, 0, total)
	for _, p := range parts {
		arr := p.Array()
		for i := 0; i < arr.Len(); i++ {
			values = append(values, typedValue[T](arr, i))
			valid = append(valid, arr.IsValid(i))
		}
		arr.Release()
	}
	return series.NewNullable(name, values, valid, mem)
}

func typedValue[T any](arr arrow.Array, i int) T {
	var result T
	if arr.IsNull(i) {
		return result
	}
	switch a := arr.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = a.Value(i)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = a.Value(i)
		}
	case *array.Int32:
		if v, ok := any(&result).(*int32); ok {
			*v = a.Value(i)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = a.Value(i)
		}
	case *array.Float32:
		if v, ok := any(&result).(*float32); ok {
			*v = a.Value(i)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = a.Value(i)
		}
	}
	return result
}

// fillSeries replaces missing positions with the given fill value, which
// must match the column's element type.
func fillSeries(s ISeries, fill any) (ISeries, error) {
	arr := s.Array()
	defer arr.Release()
	mem := memory.NewGoAllocator()

	switch a := arr.(type) {
	case *array.String:
		v, ok := fill.(string)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected string fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	case *array.Int64:
		v, ok := fill.(int64)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected int64 fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	case *array.Int32:
		v, ok := fill.(int32)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected int32 fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	case *array.Float64:
		v, ok := fill.(float64)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected float64 fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	case *array.Float32:
		v, ok := fill.(float32)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected float32 fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	case *array.Boolean:
		v, ok := fill.(bool)
		if !ok {
			return nil, errors.NewTypeMismatch("FillNA", s.Name(), "expected bool fill")
		}
		return fillTyped(s.Name(), a.Len(), a.Value, a.IsNull, v, mem), nil
	default:
		return nil, errors.NewTypeMismatch("FillNA", s.Name(), arr.DataType().Name())
	}
}

func fillTyped[T any](
	name string, n int,
	value func(int) T, isNull func(int) bool,
	fill T, mem memory.Allocator,
) ISeries {
	values := make([]T, n)
	for i := range values {
		if isNull(i) {
			values[i] = fill
		} else {
			values[i] = value(i)
		}
	}
	return series.New(name, values, mem)
}

// CellValue returns the boxed value of a column at a row, nil when missing.
func CellValue(s ISeries, row int) any {
	if s.IsNull(row) {
		return nil
	}
	arr := s.Array()
	defer arr.Release()
	switch a := arr.(type) {
	case *array.String:
		return a.Value(row)
	case *array.Int64:
		return a.Value(row)
	case *array.Int32:
		return a.Value(row)
	case *array.Float64:
		return a.Value(row)
	case *array.Float32:
		return a.Value(row)
	case *array.Boolean:
		return a.Value(row)
	default:
		return nil
	}
}

// valueString renders a column value for key encoding and display. Missing
// positions render as the empty string; pair with IsNull to distinguish an
// actual empty string.
func valueString(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return ""
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'g', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'g', -1, 32)
	case *array.Boolean:
		return strconv.FormatBool(a.Value(i))
	default:
		return ""
	}
}
