package series

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/errors"
)

func TestAsFloat64(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("from int64 keeps missing", func(t *testing.T) {
		s := NewNullable("x", []int64{1, 0, 3}, []bool{true, false, true}, mem)
		defer s.Release()

		out, err := s.AsFloat64()
		require.NoError(t, err)
		defer out.Release()

		assert.InDelta(t, 1.0, out.Value(0), 1e-12)
		assert.True(t, out.IsNull(1))
		assert.InDelta(t, 3.0, out.Value(2), 1e-12)
	})

	t.Run("from bool", func(t *testing.T) {
		s := New("b", []bool{true, false}, mem)
		defer s.Release()

		out, err := s.AsFloat64()
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []float64{1, 0}, out.Values())
	})

	t.Run("unparseable string becomes NaN", func(t *testing.T) {
		s := New("w", []string{"2.5", "oops"}, mem)
		defer s.Release()

		out, err := s.AsFloat64()
		require.NoError(t, err)
		defer out.Release()

		assert.InDelta(t, 2.5, out.Value(0), 1e-12)
		assert.True(t, math.IsNaN(out.Value(1)))
		assert.False(t, out.IsNull(1), "NaN is a present value, not missing")
	})
}

func TestAsInt64(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("float truncates", func(t *testing.T) {
		s := New("f", []float64{1.9, -2.9}, mem)
		defer s.Release()

		out, err := s.AsInt64()
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []int64{1, -2}, out.Values())
	})

	t.Run("NaN fails", func(t *testing.T) {
		s := New("f", []float64{math.NaN()}, mem)
		defer s.Release()

		_, err := s.AsInt64()
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindTypeMismatch))
	})

	t.Run("string fails", func(t *testing.T) {
		s := New("w", []string{"1"}, mem)
		defer s.Release()

		_, err := s.AsInt64()
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindTypeMismatch))
	})
}

func TestAsString(t *testing.T) {
	mem := memory.NewGoAllocator()

	ints := New("i", []int64{42}, mem)
	defer ints.Release()
	floats := NewNullable("f", []float64{2.5, 0}, []bool{true, false}, mem)
	defer floats.Release()
	bools := New("b", []bool{true}, mem)
	defer bools.Release()

	si := ints.AsString()
	defer si.Release()
	assert.Equal(t, "42", si.Value(0))

	sf := floats.AsString()
	defer sf.Release()
	assert.Equal(t, "2.5", sf.Value(0))
	assert.True(t, sf.IsNull(1))

	sb := bools.AsString()
	defer sb.Release()
	assert.Equal(t, "true", sb.Value(0))
}
