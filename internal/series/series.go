// Package series provides the typed column store: a named, fixed-type ordered
// sequence of values backed by an Apache Arrow array. The Arrow validity
// bitmap is the missing-value mask; a value at a missing position is never
// read for arithmetic.
package series

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/errors"
)

// Series represents a typed data column with an Apache Arrow backend and an
// optional explicit row index. When index is nil the row position is the
// index. Index labels need not be unique, but alignment by label requires
// uniqueness.
type Series[T any] struct {
	name  string
	array arrow.Array
	index []string
}

// New creates a Series from a slice of values, all non-missing.
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewNullable(name, values, nil, mem)
}

// NewNullable creates a Series from values plus a validity mask. valid[i]
// false marks position i missing; the value there is a placeholder and is
// never read. A nil mask marks every position valid. Panics if the mask
// length disagrees with the values, or the element type is unsupported;
// both are programming errors, matching the constructor contract of the
// underlying Arrow builders.
func NewNullable[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if valid != nil && len(valid) != len(values) {
		panic(fmt.Sprintf("series: validity mask length %d != values length %d", len(valid), len(values)))
	}

	var arr arrow.Array

	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	case []int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	case []float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("series: unsupported element type %T", values))
	}

	return &Series[T]{
		name:  name,
		array: arr,
	}
}

// Arange creates an int64 Series covering [start, stop) with step one.
func Arange(name string, start, stop int64, mem memory.Allocator) *Series[int64] {
	if stop < start {
		stop = start
	}
	values := make([]int64, 0, stop-start)
	for v := start; v < stop; v++ {
		values = append(values, v)
	}
	return New(name, values, mem)
}

// Name returns the column name.
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the number of rows.
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// DataType returns the Arrow data type.
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull reports whether the value at index is missing.
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// NullCount returns the number of missing positions.
func (s *Series[T]) NullCount() int {
	return s.array.NullN()
}

// Value returns the value at the given index. The zero value is returned for
// out-of-range or missing positions; use IsNull to distinguish.
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return result
	}

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = arr.Value(index)
		}
	case *array.Int32:
		if v, ok := any(&result).(*int32); ok {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = arr.Value(index)
		}
	case *array.Float32:
		if v, ok := any(&result).(*float32); ok {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = arr.Value(index)
		}
	}

	return result
}

// Values returns the data as a Go slice. Missing positions hold the zero
// value; pair with Validity for the mask.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())
	for i := range result {
		result[i] = s.Value(i)
	}
	return result
}

// Validity returns the missing-value mask: true means present.
func (s *Series[T]) Validity() []bool {
	valid := make([]bool, s.array.Len())
	for i := range valid {
		valid[i] = s.array.IsValid(i)
	}
	return valid
}

// Index returns the row index labels, or nil when the index is positional.
func (s *Series[T]) Index() []string {
	if s.index == nil {
		return nil
	}
	return append([]string(nil), s.index...)
}

// WithIndex returns a copy of the Series carrying the given index labels.
func (s *Series[T]) WithIndex(labels []string) (*Series[T], error) {
	if len(labels) != s.Len() {
		return nil, errors.NewLengthMismatch("WithIndex", s.Len(), len(labels))
	}
	out := s.shallowCopy()
	out.index = append([]string(nil), labels...)
	return out, nil
}

// Rename returns a copy of the Series under a new name. The column data is
// shared, not copied.
func (s *Series[T]) Rename(name string) *Series[T] {
	out := s.shallowCopy()
	out.name = name
	return out
}

func (s *Series[T]) shallowCopy() *Series[T] {
	s.array.Retain()
	return &Series[T]{
		name:  s.name,
		array: s.array,
		index: s.index,
	}
}

// Append returns a new Series with the value added at the end. The Arrow
// buffer is immutable, so this rebuilds the column; a Series registered in a
// DataFrame must not be resized — replace the column instead.
func (s *Series[T]) Append(value T, mem memory.Allocator) *Series[T] {
	values := append(s.Values(), value)
	valid := append(s.Validity(), true)
	out := NewNullable(s.name, values, valid, mem)
	return out
}

// AppendNull returns a new Series with a missing position added at the end.
func (s *Series[T]) AppendNull(mem memory.Allocator) *Series[T] {
	var zero T
	values := append(s.Values(), zero)
	valid := append(s.Validity(), false)
	return NewNullable(s.name, values, valid, mem)
}

// String returns a short description of the series.
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d, nulls=%d)",
		reflect.TypeOf(new(T)).Elem().Name(),
		s.name,
		s.Len(),
		s.NullCount())
}

// Array returns the underlying Arrow array (retains a reference).
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory.
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}

// IsNumericType reports whether dt is one of the numeric element types.
func IsNumericType(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT64, arrow.INT32, arrow.FLOAT64, arrow.FLOAT32:
		return true
	default:
		return false
	}
}

// fromArrow wraps an existing array without copying. The caller transfers
// its reference.
func fromArrow[T any](name string, arr arrow.Array, index []string) *Series[T] {
	return &Series[T]{name: name, array: arr, index: index}
}
