package series

import (
	"golang.org/x/exp/constraints"
)

// Numeric constrains the element types arithmetic is defined over.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Add returns the elementwise sum of two Series. Missing operands produce
// missing results; unequal lengths fail with LengthMismatch.
func Add[T Numeric](a, b *Series[T]) (*Series[T], error) {
	return a.ZipWith(b, func(x, y T) T { return x + y })
}

// Sub returns the elementwise difference a - b.
func Sub[T Numeric](a, b *Series[T]) (*Series[T], error) {
	return a.ZipWith(b, func(x, y T) T { return x - y })
}

// Mul returns the elementwise product.
func Mul[T Numeric](a, b *Series[T]) (*Series[T], error) {
	return a.ZipWith(b, func(x, y T) T { return x * y })
}

// Div returns the elementwise quotient a / b. Integer division truncates,
// and a zero integer divisor yields a missing result at that position;
// float division by zero follows IEEE semantics.
func Div[T Numeric](a, b *Series[T]) (*Series[T], error) {
	if isFloatElem[T]() {
		return a.ZipWith(b, func(x, y T) T { return x / y })
	}
	return a.zipPartial(b, func(x, y T) (T, bool) {
		if y == 0 {
			var zero T
			return zero, false
		}
		return x / y, true
	})
}

func isFloatElem[T Numeric]() bool {
	var zero T
	switch any(zero).(type) {
	case float64, float32:
		return true
	default:
		return false
	}
}

// AddScalar adds a scalar to every non-missing value.
func AddScalar[T Numeric](s *Series[T], v T) *Series[T] {
	return s.Map(func(x T) T { return x + v })
}

// MulScalar multiplies every non-missing value by a scalar.
func MulScalar[T Numeric](s *Series[T], v T) *Series[T] {
	return s.Map(func(x T) T { return x * v })
}
