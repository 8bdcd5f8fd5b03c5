package series

import (
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/parallel"
)

// chunkPart is the per-chunk output of a parallel elementwise operation.
type chunkPart[T any] struct {
	values []T
	valid  []bool
}

// Map applies a pure function to every non-missing value, preserving length
// and missing positions. Work fans out to the shared pool once the element
// count crosses the configured parallel threshold.
func (s *Series[T]) Map(f func(T) T) *Series[T] {
	return s.MapPool(parallel.Shared(), f)
}

// MapPool is Map with an explicit execution pool, for injecting a
// single-threaded strategy in tests.
func (s *Series[T]) MapPool(pool *parallel.Pool, f func(T) T) *Series[T] {
	n := s.Len()
	compute := func(c parallel.Chunk) (chunkPart[T], error) {
		part := chunkPart[T]{
			values: make([]T, 0, c.End-c.Start),
			valid:  make([]bool, 0, c.End-c.Start),
		}
		for i := c.Start; i < c.End; i++ {
			if s.IsNull(i) {
				var zero T
				part.values = append(part.values, zero)
				part.valid = append(part.valid, false)
				continue
			}
			part.values = append(part.values, f(s.Value(i)))
			part.valid = append(part.valid, true)
		}
		return part, nil
	}

	parts := runElementwise(pool, n, compute)
	out := assembleParts(s.name, n, parts)
	out.index = s.index
	return out
}

// ZipWith applies a binary function positionwise against another Series of
// equal length. A missing operand at either position produces a missing
// result at that position. Unequal lengths fail with LengthMismatch; the
// operation never truncates.
func (s *Series[T]) ZipWith(other *Series[T], f func(T, T) T) (*Series[T], error) {
	return s.ZipWithPool(parallel.Shared(), other, f)
}

// ZipWithPool is ZipWith with an explicit execution pool.
func (s *Series[T]) ZipWithPool(pool *parallel.Pool, other *Series[T], f func(T, T) T) (*Series[T], error) {
	return s.zipPartialPool(pool, other, func(x, y T) (T, bool) { return f(x, y), true })
}

// zipPartial is ZipWith for functions that can decline a position: ok ==
// false marks the result missing instead of computing a value.
func (s *Series[T]) zipPartial(other *Series[T], f func(T, T) (T, bool)) (*Series[T], error) {
	return s.zipPartialPool(parallel.Shared(), other, f)
}

func (s *Series[T]) zipPartialPool(pool *parallel.Pool, other *Series[T], f func(T, T) (T, bool)) (*Series[T], error) {
	if s.Len() != other.Len() {
		return nil, errors.NewLengthMismatch("ZipWith", s.Len(), other.Len())
	}

	n := s.Len()
	compute := func(c parallel.Chunk) (chunkPart[T], error) {
		part := chunkPart[T]{
			values: make([]T, 0, c.End-c.Start),
			valid:  make([]bool, 0, c.End-c.Start),
		}
		for i := c.Start; i < c.End; i++ {
			if s.IsNull(i) || other.IsNull(i) {
				var zero T
				part.values = append(part.values, zero)
				part.valid = append(part.valid, false)
				continue
			}
			v, ok := f(s.Value(i), other.Value(i))
			if !ok {
				var zero T
				v = zero
			}
			part.values = append(part.values, v)
			part.valid = append(part.valid, ok)
		}
		return part, nil
	}

	parts := runElementwise(pool, n, compute)
	out := assembleParts(s.name, n, parts)
	out.index = s.index
	return out, nil
}

// runElementwise executes compute over [0, n), single-threaded below the
// configured threshold, chunked on the pool above it. Chunk results come
// back in chunk index order.
func runElementwise[T any](pool *parallel.Pool, n int, compute func(parallel.Chunk) (chunkPart[T], error)) []chunkPart[T] {
	cfg := config.GetGlobalConfig()
	if n < cfg.ParallelThreshold || pool == nil {
		part, _ := compute(parallel.Chunk{Start: 0, End: n})
		return []chunkPart[T]{part}
	}
	parts, _ := parallel.Run(pool, n, compute)
	return parts
}

func assembleParts[T any](name string, n int, parts []chunkPart[T]) *Series[T] {
	values := make([]T, 0, n)
	valid := make([]bool, 0, n)
	for _, p := range parts {
		values = append(values, p.values...)
		valid = append(valid, p.valid...)
	}
	return NewNullable(name, values, valid, memory.NewGoAllocator())
}

// Filter returns a new Series containing the non-missing values satisfying
// the predicate plus any missing positions dropped. The result is reindexed
// by position; explicit index labels do not survive filtering.
func (s *Series[T]) Filter(pred func(T) bool) *Series[T] {
	values := make([]T, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		if v := s.Value(i); pred(v) {
			values = append(values, v)
		}
	}
	return New(s.name, values, memory.NewGoAllocator())
}

// SortOrder configures Sort direction and missing-value placement.
type SortOrder struct {
	Ascending  bool
	NullsFirst bool
}

// Sort returns a stably sorted copy of the Series. Missing values are
// placed per the global configuration (last by default).
func (s *Series[T]) Sort(ascending bool) *Series[T] {
	return s.SortWithOrder(SortOrder{
		Ascending:  ascending,
		NullsFirst: config.GetGlobalConfig().NullsFirst,
	})
}

// SortWithOrder returns a stably sorted copy with explicit ordering policy.
func (s *Series[T]) SortWithOrder(order SortOrder) *Series[T] {
	n := s.Len()
	validIdx := make([]int, 0, n)
	nullIdx := make([]int, 0)
	for i := 0; i < n; i++ {
		if s.IsNull(i) {
			nullIdx = append(nullIdx, i)
		} else {
			validIdx = append(validIdx, i)
		}
	}

	sort.SliceStable(validIdx, func(a, b int) bool {
		va, vb := s.Value(validIdx[a]), s.Value(validIdx[b])
		if order.Ascending {
			return lessValue(va, vb)
		}
		return lessValue(vb, va)
	})

	perm := make([]int, 0, n)
	if order.NullsFirst {
		perm = append(perm, nullIdx...)
		perm = append(perm, validIdx...)
	} else {
		perm = append(perm, validIdx...)
		perm = append(perm, nullIdx...)
	}

	return s.Take(perm)
}

// Take returns a new Series gathering the rows named by indices, in order.
// Out-of-range indices yield missing positions.
func (s *Series[T]) Take(indices []int) *Series[T] {
	values := make([]T, len(indices))
	valid := make([]bool, len(indices))
	var labels []string
	if s.index != nil {
		labels = make([]string, len(indices))
	}
	for out, i := range indices {
		if i < 0 || i >= s.Len() || s.IsNull(i) {
			valid[out] = false
		} else {
			values[out] = s.Value(i)
			valid[out] = true
		}
		if labels != nil && i >= 0 && i < len(s.index) {
			labels[out] = s.index[i]
		}
	}
	out := NewNullable(s.name, values, valid, memory.NewGoAllocator())
	out.index = labels
	return out
}

// Align reconciles two Series into a common shape by outer-joining their
// index labels: output labels are s's labels in order followed by labels
// unique to other, in other's order. Positions a side lacks become missing.
// Duplicate labels on either side make alignment ambiguous and are rejected.
func (s *Series[T]) Align(other *Series[T]) (*Series[T], *Series[T], error) {
	leftLabels := s.effectiveLabels()
	rightLabels := other.effectiveLabels()

	leftPos, err := labelPositions("Align", leftLabels)
	if err != nil {
		return nil, nil, err
	}
	rightPos, err := labelPositions("Align", rightLabels)
	if err != nil {
		return nil, nil, err
	}

	union := append([]string(nil), leftLabels...)
	for _, label := range rightLabels {
		if _, ok := leftPos[label]; !ok {
			union = append(union, label)
		}
	}

	left := gatherByLabel(s, union, leftPos)
	right := gatherByLabel(other, union, rightPos)
	return left, right, nil
}

func (s *Series[T]) effectiveLabels() []string {
	if s.index != nil {
		return s.index
	}
	labels := make([]string, s.Len())
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func labelPositions(op string, labels []string) (map[string]int, error) {
	pos := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, dup := pos[label]; dup {
			return nil, &errors.Error{
				Kind:    errors.KindDuplicateColumn,
				Op:      op,
				Column:  label,
				Message: "duplicate index label",
			}
		}
		pos[label] = i
	}
	return pos, nil
}

func gatherByLabel[T any](s *Series[T], union []string, pos map[string]int) *Series[T] {
	values := make([]T, len(union))
	valid := make([]bool, len(union))
	for out, label := range union {
		if i, ok := pos[label]; ok && !s.IsNull(i) {
			values[out] = s.Value(i)
			valid[out] = true
		}
	}
	result := NewNullable(s.name, values, valid, memory.NewGoAllocator())
	result.index = append([]string(nil), union...)
	return result
}

// All reports whether every non-missing value satisfies the predicate.
func (s *Series[T]) All(pred func(T) bool) bool {
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		if !pred(s.Value(i)) {
			return false
		}
	}
	return true
}

// Any reports whether at least one non-missing value satisfies the predicate.
func (s *Series[T]) Any(pred func(T) bool) bool {
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		if pred(s.Value(i)) {
			return true
		}
	}
	return false
}

// Positions returns the row positions of non-missing values satisfying the
// predicate.
func (s *Series[T]) Positions(pred func(T) bool) []int {
	var out []int
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue
		}
		if pred(s.Value(i)) {
			out = append(out, i)
		}
	}
	return out
}

// DropNA returns a new Series without the missing positions, reindexed by
// position.
func (s *Series[T]) DropNA() *Series[T] {
	values := make([]T, 0, s.Len()-s.NullCount())
	for i := 0; i < s.Len(); i++ {
		if !s.IsNull(i) {
			values = append(values, s.Value(i))
		}
	}
	return New(s.name, values, memory.NewGoAllocator())
}

// FillNA returns a new Series with every missing position replaced by fill.
func (s *Series[T]) FillNA(fill T) *Series[T] {
	values := make([]T, s.Len())
	for i := range values {
		if s.IsNull(i) {
			values[i] = fill
		} else {
			values[i] = s.Value(i)
		}
	}
	out := New(s.name, values, memory.NewGoAllocator())
	out.index = s.index
	return out
}

// lessValue orders two values of a supported element type. Booleans order
// false before true.
func lessValue[T any](a, b T) bool {
	switch av := any(a).(type) {
	case string:
		return av < any(b).(string)
	case int64:
		return av < any(b).(int64)
	case int32:
		return av < any(b).(int32)
	case float64:
		return av < any(b).(float64)
	case float32:
		return av < any(b).(float32)
	case bool:
		return !av && any(b).(bool)
	default:
		return false
	}
}
