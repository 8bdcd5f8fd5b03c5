package series

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/errors"
)

func TestNewSeries(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("int64 series", func(t *testing.T) {
		s := New("numbers", []int64{1, 2, 3}, mem)
		defer s.Release()

		assert.Equal(t, "numbers", s.Name())
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, arrow.INT64, s.DataType().ID())
		assert.Equal(t, 0, s.NullCount())
		assert.Equal(t, []int64{1, 2, 3}, s.Values())
	})

	t.Run("string series", func(t *testing.T) {
		s := New("words", []string{"a", "b"}, mem)
		defer s.Release()

		assert.Equal(t, 2, s.Len())
		assert.Equal(t, "b", s.Value(1))
	})

	t.Run("empty series", func(t *testing.T) {
		s := New("empty", []float64{}, mem)
		defer s.Release()

		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 0, s.Count())
	})

	t.Run("unsupported element type panics", func(t *testing.T) {
		assert.Panics(t, func() {
			New("bad", []complex128{1i}, mem)
		})
	})
}

func TestNewNullable(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("mask marks missing positions", func(t *testing.T) {
		s := NewNullable("vals", []float64{1.5, 0, 3.5}, []bool{true, false, true}, mem)
		defer s.Release()

		assert.Equal(t, 3, s.Len())
		assert.Equal(t, 1, s.NullCount())
		assert.False(t, s.IsNull(0))
		assert.True(t, s.IsNull(1))
		assert.False(t, s.IsNull(2))
		assert.Equal(t, 2, s.Count())
	})

	t.Run("missing is distinct from zero", func(t *testing.T) {
		s := NewNullable("vals", []int64{0, 0}, []bool{true, false}, mem)
		defer s.Release()

		assert.False(t, s.IsNull(0))
		assert.True(t, s.IsNull(1))
		assert.Equal(t, int64(0), s.Value(0))
	})

	t.Run("mask length mismatch panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewNullable("bad", []int64{1, 2}, []bool{true}, mem)
		})
	})
}

func TestArange(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("covers half-open range", func(t *testing.T) {
		s := Arange("r", 2, 6, mem)
		defer s.Release()

		assert.Equal(t, []int64{2, 3, 4, 5}, s.Values())
	})

	t.Run("empty when stop before start", func(t *testing.T) {
		s := Arange("r", 5, 5, mem)
		defer s.Release()
		assert.Equal(t, 0, s.Len())

		s2 := Arange("r", 5, 2, mem)
		defer s2.Release()
		assert.Equal(t, 0, s2.Len())
	})
}

func TestSeriesAppend(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := New("x", []int64{1, 2}, mem)
	defer s.Release()

	grown := s.Append(3, mem)
	defer grown.Release()
	assert.Equal(t, []int64{1, 2, 3}, grown.Values())
	assert.Equal(t, 2, s.Len(), "original is untouched")

	withNull := grown.AppendNull(mem)
	defer withNull.Release()
	assert.Equal(t, 4, withNull.Len())
	assert.True(t, withNull.IsNull(3))
}

func TestSeriesRename(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := New("old", []int64{1}, mem)
	defer s.Release()

	renamed := s.Rename("new")
	defer renamed.Release()

	assert.Equal(t, "new", renamed.Name())
	assert.Equal(t, "old", s.Name())
	assert.Equal(t, s.Values(), renamed.Values())
}

func TestSeriesWithIndex(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := New("x", []int64{10, 20}, mem)
	defer s.Release()

	t.Run("valid labels", func(t *testing.T) {
		labeled, err := s.WithIndex([]string{"a", "b"})
		require.NoError(t, err)
		defer labeled.Release()

		assert.Equal(t, []string{"a", "b"}, labeled.Index())
		assert.Nil(t, s.Index(), "original stays positional")
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := s.WithIndex([]string{"only-one"})
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindLengthMismatch))
	})
}

func TestIsNumericType(t *testing.T) {
	mem := memory.NewGoAllocator()

	numeric := New("n", []float32{1}, mem)
	defer numeric.Release()
	text := New("t", []string{"x"}, mem)
	defer text.Release()
	flag := New("b", []bool{true}, mem)
	defer flag.Release()

	assert.True(t, IsNumericType(numeric.DataType()))
	assert.False(t, IsNumericType(text.DataType()))
	assert.False(t, IsNumericType(flag.DataType()))
}
