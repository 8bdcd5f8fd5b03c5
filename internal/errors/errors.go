// Package errors provides standardized error types for DataFrame and Series
// operations. All recoverable conditions surface as an *Error carrying one of
// the closed set of Kinds, with operation context and wrapping support.
package errors

import (
	"fmt"
)

// Kind classifies a recoverable failure condition.
type Kind int

const (
	// KindUnknown is the zero value; internal failures wrap under it.
	KindUnknown Kind = iota
	// KindLengthMismatch: two operands expected equal length, weren't.
	KindLengthMismatch
	// KindRowCountMismatch: column insertion violates the registry row count.
	KindRowCountMismatch
	// KindDuplicateColumn: name collision on insert, rename, or join.
	KindDuplicateColumn
	// KindEmptyReduction: reduction over zero non-missing values.
	KindEmptyReduction
	// KindTypeMismatch: operation requires a type the Series does not have.
	KindTypeMismatch
	// KindKeyNotFound: lookup by column name or group key failed.
	KindKeyNotFound
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLengthMismatch:
		return "LengthMismatch"
	case KindRowCountMismatch:
		return "RowCountMismatch"
	case KindDuplicateColumn:
		return "DuplicateColumn"
	case KindEmptyReduction:
		return "EmptyReduction"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindKeyNotFound:
		return "KeyNotFound"
	default:
		return "Unknown"
	}
}

// Error represents a standardized error across all DataFrame operations.
type Error struct {
	Kind    Kind   // Failure classification
	Op      string // Operation name (e.g. "Sort", "Insert", "Join")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s failed on column %q: %s", e.Kind, e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches either an exact *Error or a bare Kind sentinel created by
// KindOf, so callers can write errors.Is(err, blackjack.ErrEmptyReduction).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" && t.Column == "" && t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Op == t.Op && e.Column == t.Column && e.Message == t.Message
}

// KindOf returns a sentinel error matching any *Error of the given kind.
func KindOf(k Kind) *Error {
	return &Error{Kind: k}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == k
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Constructors for the common cases, mirrored across call sites for
// consistent error creation.

// NewLengthMismatch creates an error for operand length disagreements.
func NewLengthMismatch(op string, left, right int) *Error {
	return &Error{
		Kind:    KindLengthMismatch,
		Op:      op,
		Message: fmt.Sprintf("operand lengths differ: %d vs %d", left, right),
	}
}

// NewRowCountMismatch creates an error for column insertions that violate
// the registry row count.
func NewRowCountMismatch(op, column string, want, got int) *Error {
	return &Error{
		Kind:    KindRowCountMismatch,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("registry row count is %d, series has %d", want, got),
	}
}

// NewDuplicateColumn creates an error for column name collisions.
func NewDuplicateColumn(op, column string) *Error {
	return &Error{
		Kind:    KindDuplicateColumn,
		Op:      op,
		Column:  column,
		Message: "column already exists",
	}
}

// NewEmptyReduction creates an error for reductions over zero non-missing
// values.
func NewEmptyReduction(op, column string) *Error {
	return &Error{
		Kind:    KindEmptyReduction,
		Op:      op,
		Column:  column,
		Message: "no non-missing values to reduce",
	}
}

// NewTypeMismatch creates an error for operations on an unsupported
// element type.
func NewTypeMismatch(op, column, typeName string) *Error {
	return &Error{
		Kind:    KindTypeMismatch,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewKeyNotFound creates an error for failed lookups by column name.
func NewKeyNotFound(op, column string) *Error {
	return &Error{
		Kind:    KindKeyNotFound,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(op string, cause error) *Error {
	return &Error{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}
