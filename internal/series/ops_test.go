package series

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/parallel"
)

func TestMap(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("preserves missing positions", func(t *testing.T) {
		s := NewNullable("x", []int64{1, 0, 3}, []bool{true, false, true}, mem)
		defer s.Release()

		doubled := s.Map(func(v int64) int64 { return v * 2 })
		defer doubled.Release()

		assert.Equal(t, 3, doubled.Len())
		assert.Equal(t, int64(2), doubled.Value(0))
		assert.True(t, doubled.IsNull(1))
		assert.Equal(t, int64(6), doubled.Value(2))
	})

	t.Run("explicit single worker pool gives same result", func(t *testing.T) {
		values := make([]int64, 5000)
		for i := range values {
			values[i] = int64(i)
		}
		s := New("x", values, mem)
		defer s.Release()

		serial := s.MapPool(parallel.NewPool(1), func(v int64) int64 { return v + 1 })
		defer serial.Release()
		shared := s.Map(func(v int64) int64 { return v + 1 })
		defer shared.Release()

		assert.Equal(t, serial.Values(), shared.Values())
		assert.Equal(t, int64(1), shared.Value(0))
		assert.Equal(t, int64(5000), shared.Value(4999))
	})
}

func TestZipWith(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("missing on either side wins", func(t *testing.T) {
		a := NewNullable("a", []float64{1, 2, 0, 4}, []bool{true, true, false, true}, mem)
		defer a.Release()
		b := NewNullable("b", []float64{10, 0, 30, 40}, []bool{true, false, true, true}, mem)
		defer b.Release()

		sum, err := a.ZipWith(b, func(x, y float64) float64 { return x + y })
		require.NoError(t, err)
		defer sum.Release()

		assert.Equal(t, float64(11), sum.Value(0))
		assert.True(t, sum.IsNull(1))
		assert.True(t, sum.IsNull(2))
		assert.Equal(t, float64(44), sum.Value(3))
	})

	t.Run("length mismatch never truncates", func(t *testing.T) {
		a := New("a", []int64{1, 2, 3}, mem)
		defer a.Release()
		b := New("b", []int64{1}, mem)
		defer b.Release()

		_, err := a.ZipWith(b, func(x, y int64) int64 { return x + y })
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindLengthMismatch))
	})
}

func TestArithmetic(t *testing.T) {
	mem := memory.NewGoAllocator()

	a := New("a", []int64{6, 8, 10}, mem)
	defer a.Release()
	b := New("b", []int64{2, 4, 5}, mem)
	defer b.Release()

	sum, err := Add(a, b)
	require.NoError(t, err)
	defer sum.Release()
	assert.Equal(t, []int64{8, 12, 15}, sum.Values())

	diff, err := Sub(a, b)
	require.NoError(t, err)
	defer diff.Release()
	assert.Equal(t, []int64{4, 4, 5}, diff.Values())

	prod, err := Mul(a, b)
	require.NoError(t, err)
	defer prod.Release()
	assert.Equal(t, []int64{12, 32, 50}, prod.Values())

	quot, err := Div(a, b)
	require.NoError(t, err)
	defer quot.Release()
	assert.Equal(t, []int64{3, 2, 2}, quot.Values())

	shifted := AddScalar(a, 1)
	defer shifted.Release()
	assert.Equal(t, []int64{7, 9, 11}, shifted.Values())

	scaled := MulScalar(a, 10)
	defer scaled.Release()
	assert.Equal(t, []int64{60, 80, 100}, scaled.Values())
}

func TestDivByZero(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("integer zero divisor is missing", func(t *testing.T) {
		a := New("a", []int64{10, 20, 30}, mem)
		defer a.Release()
		b := New("b", []int64{2, 0, 3}, mem)
		defer b.Release()

		quot, err := Div(a, b)
		require.NoError(t, err)
		defer quot.Release()

		assert.Equal(t, int64(5), quot.Value(0))
		assert.True(t, quot.IsNull(1))
		assert.Equal(t, int64(10), quot.Value(2))
	})

	t.Run("integer zero divisor above parallel threshold", func(t *testing.T) {
		const n = 4096
		av := make([]int64, n)
		bv := make([]int64, n)
		for i := range av {
			av[i] = int64(i)
			bv[i] = int64(i % 3) // zeros at every third position
		}
		a := New("a", av, mem)
		defer a.Release()
		b := New("b", bv, mem)
		defer b.Release()

		quot, err := Div(a, b)
		require.NoError(t, err)
		defer quot.Release()

		assert.Equal(t, n, quot.Len())
		for i := 0; i < n; i++ {
			if i%3 == 0 {
				assert.True(t, quot.IsNull(i), "position %d", i)
			} else {
				assert.Equal(t, int64(i)/int64(i%3), quot.Value(i), "position %d", i)
			}
		}
	})

	t.Run("float zero divisor follows IEEE", func(t *testing.T) {
		a := New("a", []float64{1, -1, 0}, mem)
		defer a.Release()
		b := New("b", []float64{0, 0, 0}, mem)
		defer b.Release()

		quot, err := Div(a, b)
		require.NoError(t, err)
		defer quot.Release()

		assert.False(t, quot.IsNull(0))
		assert.True(t, math.IsInf(quot.Value(0), 1))
		assert.True(t, math.IsInf(quot.Value(1), -1))
		assert.True(t, math.IsNaN(quot.Value(2)))
	})
}

func TestFilter(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := NewNullable("x", []int64{5, 0, 2, 9}, []bool{true, false, true, true}, mem)
	defer s.Release()

	big := s.Filter(func(v int64) bool { return v > 3 })
	defer big.Release()

	assert.Equal(t, []int64{5, 9}, big.Values())
	assert.Equal(t, 0, big.NullCount(), "missing positions are dropped")
}

func TestSort(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("missing sorts last by default", func(t *testing.T) {
		s := NewNullable("x", []int64{3, 0, 1, 2}, []bool{true, false, true, true}, mem)
		defer s.Release()

		sorted := s.Sort(true)
		defer sorted.Release()

		assert.Equal(t, int64(1), sorted.Value(0))
		assert.Equal(t, int64(2), sorted.Value(1))
		assert.Equal(t, int64(3), sorted.Value(2))
		assert.True(t, sorted.IsNull(3))
	})

	t.Run("descending", func(t *testing.T) {
		s := New("x", []float64{1.5, 3.5, 2.5}, mem)
		defer s.Release()

		sorted := s.Sort(false)
		defer sorted.Release()
		assert.Equal(t, []float64{3.5, 2.5, 1.5}, sorted.Values())
	})

	t.Run("explicit nulls first", func(t *testing.T) {
		s := NewNullable("x", []int64{2, 0, 1}, []bool{true, false, true}, mem)
		defer s.Release()

		sorted := s.SortWithOrder(SortOrder{Ascending: true, NullsFirst: true})
		defer sorted.Release()

		assert.True(t, sorted.IsNull(0))
		assert.Equal(t, int64(1), sorted.Value(1))
		assert.Equal(t, int64(2), sorted.Value(2))
	})

	t.Run("strings sort lexicographically", func(t *testing.T) {
		s := New("x", []string{"pear", "apple", "mango"}, mem)
		defer s.Release()

		sorted := s.Sort(true)
		defer sorted.Release()
		assert.Equal(t, []string{"apple", "mango", "pear"}, sorted.Values())
	})
}

func TestTake(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := New("x", []int64{10, 20, 30}, mem)
	defer s.Release()

	t.Run("gathers in order with repeats", func(t *testing.T) {
		got := s.Take([]int{2, 0, 0})
		defer got.Release()
		assert.Equal(t, []int64{30, 10, 10}, got.Values())
	})

	t.Run("out of range becomes missing", func(t *testing.T) {
		got := s.Take([]int{1, -1, 5})
		defer got.Release()
		assert.Equal(t, int64(20), got.Value(0))
		assert.True(t, got.IsNull(1))
		assert.True(t, got.IsNull(2))
	})
}

func TestAlign(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("outer join of labels", func(t *testing.T) {
		a := New("a", []int64{1, 2}, mem)
		defer a.Release()
		al, err := a.WithIndex([]string{"x", "y"})
		require.NoError(t, err)
		defer al.Release()

		b := New("b", []int64{20, 30}, mem)
		defer b.Release()
		bl, err := b.WithIndex([]string{"y", "z"})
		require.NoError(t, err)
		defer bl.Release()

		left, right, err := al.Align(bl)
		require.NoError(t, err)
		defer left.Release()
		defer right.Release()

		assert.Equal(t, []string{"x", "y", "z"}, left.Index())
		assert.Equal(t, []string{"x", "y", "z"}, right.Index())

		assert.Equal(t, int64(1), left.Value(0))
		assert.Equal(t, int64(2), left.Value(1))
		assert.True(t, left.IsNull(2))

		assert.True(t, right.IsNull(0))
		assert.Equal(t, int64(20), right.Value(1))
		assert.Equal(t, int64(30), right.Value(2))
	})

	t.Run("positional series align by position", func(t *testing.T) {
		a := New("a", []int64{1, 2, 3}, mem)
		defer a.Release()
		b := New("b", []int64{4, 5}, mem)
		defer b.Release()

		left, right, err := a.Align(b)
		require.NoError(t, err)
		defer left.Release()
		defer right.Release()

		assert.Equal(t, 3, left.Len())
		assert.Equal(t, 3, right.Len())
		assert.True(t, right.IsNull(2))
	})

	t.Run("duplicate labels rejected", func(t *testing.T) {
		a := New("a", []int64{1, 2}, mem)
		defer a.Release()
		al, err := a.WithIndex([]string{"x", "x"})
		require.NoError(t, err)
		defer al.Release()

		b := New("b", []int64{3}, mem)
		defer b.Release()

		_, _, err = al.Align(b)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindDuplicateColumn))
	})
}

func TestPredicates(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := NewNullable("x", []int64{2, 0, 4, 7}, []bool{true, false, true, true}, mem)
	defer s.Release()

	even := func(v int64) bool { return v%2 == 0 }

	assert.False(t, s.All(even))
	assert.True(t, s.Any(even))
	assert.Equal(t, []int{0, 2}, s.Positions(even))

	t.Run("missing values are skipped", func(t *testing.T) {
		allMissing := NewNullable("m", []int64{0, 0}, []bool{false, false}, mem)
		defer allMissing.Release()

		assert.True(t, allMissing.All(even), "vacuously true")
		assert.False(t, allMissing.Any(even))
		assert.Empty(t, allMissing.Positions(even))
	})
}

func TestDropNAFillNA(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := NewNullable("x", []float64{1, 0, 3}, []bool{true, false, true}, mem)
	defer s.Release()

	dropped := s.DropNA()
	defer dropped.Release()
	assert.Equal(t, []float64{1, 3}, dropped.Values())
	assert.Equal(t, 0, dropped.NullCount())

	filled := s.FillNA(-1)
	defer filled.Release()
	assert.Equal(t, []float64{1, -1, 3}, filled.Values())
	assert.Equal(t, 0, filled.NullCount())
	assert.Equal(t, 3, s.NullCount()+s.Count(), "original untouched")
}
