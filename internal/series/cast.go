package series

import (
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/errors"
)

// AsFloat64 casts the Series to float64 elements. Numeric values convert
// directly, booleans become 0/1, and strings parse; an unparseable string
// becomes NaN rather than failing. Missing positions stay missing.
func (s *Series[T]) AsFloat64() (*Series[float64], error) {
	values := make([]float64, s.Len())
	valid := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		valid[i] = true
		switch v := any(s.Value(i)).(type) {
		case int64:
			values[i] = float64(v)
		case int32:
			values[i] = float64(v)
		case float64:
			values[i] = v
		case float32:
			values[i] = float64(v)
		case bool:
			if v {
				values[i] = 1
			}
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				f = math.NaN()
			}
			values[i] = f
		}
	}
	out := NewNullable(s.name, values, valid, memory.NewGoAllocator())
	out.index = s.index
	return out, nil
}

// AsInt64 casts the Series to int64 elements. Strings and NaN floats
// cannot represent an integer and fail with TypeMismatch. Missing positions
// stay missing.
func (s *Series[T]) AsInt64() (*Series[int64], error) {
	values := make([]int64, s.Len())
	valid := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		valid[i] = true
		switch v := any(s.Value(i)).(type) {
		case int64:
			values[i] = v
		case int32:
			values[i] = int64(v)
		case float64:
			if math.IsNaN(v) {
				return nil, errors.NewTypeMismatch("AsInt64", s.name, "NaN")
			}
			values[i] = int64(v)
		case float32:
			if math.IsNaN(float64(v)) {
				return nil, errors.NewTypeMismatch("AsInt64", s.name, "NaN")
			}
			values[i] = int64(v)
		case bool:
			if v {
				values[i] = 1
			}
		case string:
			return nil, errors.NewTypeMismatch("AsInt64", s.name, "string")
		}
	}
	out := NewNullable(s.name, values, valid, memory.NewGoAllocator())
	out.index = s.index
	return out, nil
}

// AsString casts the Series to string elements. Every supported type has a
// string rendering, so the cast cannot fail; missing positions stay missing.
func (s *Series[T]) AsString() *Series[string] {
	values := make([]string, s.Len())
	valid := make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		valid[i] = true
		switch v := any(s.Value(i)).(type) {
		case string:
			values[i] = v
		case int64:
			values[i] = strconv.FormatInt(v, 10)
		case int32:
			values[i] = strconv.FormatInt(int64(v), 10)
		case float64:
			values[i] = strconv.FormatFloat(v, 'g', -1, 64)
		case float32:
			values[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		case bool:
			values[i] = strconv.FormatBool(v)
		}
	}
	out := NewNullable(s.name, values, valid, memory.NewGoAllocator())
	out.index = s.index
	return out
}
