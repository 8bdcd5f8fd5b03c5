// Package dataframe provides the column registry: an insertion-ordered
// mapping from column name to a type-erased Series, enforcing one row count
// across all columns. GroupBy and Join engines live alongside it.
package dataframe

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/monner/black-jack/internal/errors"
)

// DataFrame represents a table of data with uniquely named, equal-length
// typed columns. Column order is significant for display and iteration but
// not for equality.
//
// Structural mutation (Insert, Drop, Rename) must not be interleaved with
// in-flight parallel reads over the same columns; callers serialize the two.
type DataFrame struct {
	columns map[string]ISeries
	order   []string
}

// New creates a DataFrame from the given columns. Every column must carry a
// unique name and the same row count; the first column fixes the row count.
func New(columns ...ISeries) (*DataFrame, error) {
	df := NewEmpty()
	for _, s := range columns {
		if err := df.Insert(s); err != nil {
			df.Release()
			return nil, err
		}
	}
	return df, nil
}

// NewEmpty creates a DataFrame with no columns. The first inserted column
// adopts its length as the registry row count.
func NewEmpty() *DataFrame {
	return &DataFrame{
		columns: make(map[string]ISeries),
		order:   nil,
	}
}

// Insert adds a column to the registry. A name collision fails with
// DuplicateColumn and a row-count disagreement with RowCountMismatch; the
// registry is unchanged on failure.
func (df *DataFrame) Insert(s ISeries) error {
	name := s.Name()
	if _, exists := df.columns[name]; exists {
		return errors.NewDuplicateColumn("Insert", name)
	}
	if len(df.order) > 0 && s.Len() != df.Len() {
		return errors.NewRowCountMismatch("Insert", name, df.Len(), s.Len())
	}
	df.columns[name] = s
	df.order = append(df.order, name)
	return nil
}

// Column returns the series for the given column name, or KeyNotFound.
func (df *DataFrame) Column(name string) (ISeries, error) {
	s, exists := df.columns[name]
	if !exists {
		return nil, errors.NewKeyNotFound("Column", name)
	}
	return s, nil
}

// HasColumn checks if a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Drop removes a column from the registry, or fails with KeyNotFound.
func (df *DataFrame) Drop(name string) error {
	s, exists := df.columns[name]
	if !exists {
		return errors.NewKeyNotFound("Drop", name)
	}
	delete(df.columns, name)
	for i, n := range df.order {
		if n == name {
			df.order = append(df.order[:i], df.order[i+1:]...)
			break
		}
	}
	s.Release()
	return nil
}

// Rename changes a column's name in place, preserving its position.
// A missing old name fails with KeyNotFound, an occupied new name with
// DuplicateColumn.
func (df *DataFrame) Rename(oldName, newName string) error {
	s, exists := df.columns[oldName]
	if !exists {
		return errors.NewKeyNotFound("Rename", oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := df.columns[newName]; exists {
		return errors.NewDuplicateColumn("Rename", newName)
	}
	delete(df.columns, oldName)
	df.columns[newName] = renameSeries(s, newName)
	s.Release()
	for i, n := range df.order {
		if n == oldName {
			df.order[i] = newName
			break
		}
	}
	return nil
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows. The first column in order is the single
// source of truth; Insert keeps the rest consistent.
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Select returns a new DataFrame containing only the named columns, in the
// given order, preserving row order. Unknown names fail with KeyNotFound.
// The selected columns share storage with the receiver.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	out := NewEmpty()
	for _, name := range names {
		s, exists := df.columns[name]
		if !exists {
			return nil, errors.NewKeyNotFound("Select", name)
		}
		out.columns[name] = s
		out.order = append(out.order, name)
	}
	return out, nil
}

// Equal reports whether two DataFrames hold the same column names, row
// count, and per-column values including missing positions. Column order
// does not participate.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil {
		return false
	}
	if df.Width() != other.Width() || df.Len() != other.Len() {
		return false
	}
	for name, left := range df.columns {
		right, exists := other.columns[name]
		if !exists {
			return false
		}
		la, ra := left.Array(), right.Array()
		eq := array.Equal(la, ra)
		la.Release()
		ra.Release()
		if !eq {
			return false
		}
	}
	return true
}

// String returns a short structural description of the DataFrame.
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}
	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		s := df.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, s.DataType().String()))
	}
	return strings.Join(parts, "\n")
}

// Slice creates a new DataFrame containing rows from start (inclusive) to
// end (exclusive), clamped to the actual row count.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	length := df.Len()
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start >= end {
		return df.emptyLike()
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	out, _ := df.takeRows(indices)
	return out
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	return df.Slice(0, n)
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	return df.Slice(df.Len()-n, df.Len())
}

// Concat concatenates DataFrames vertically. Every frame must have the same
// column names, order, and types.
func (df *DataFrame) Concat(others ...*DataFrame) (*DataFrame, error) {
	for _, other := range others {
		if !df.sameSchema(other) {
			return nil, &errors.Error{
				Kind:    errors.KindTypeMismatch,
				Op:      "Concat",
				Message: "column structure differs between frames",
			}
		}
	}
	out := NewEmpty()
	for _, name := range df.order {
		parts := []ISeries{df.columns[name]}
		for _, other := range others {
			parts = append(parts, other.columns[name])
		}
		merged := concatSeries(name, parts)
		if err := out.Insert(merged); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

func (df *DataFrame) sameSchema(other *DataFrame) bool {
	if other == nil || len(df.order) != len(other.order) {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name {
			return false
		}
		if df.columns[name].DataType().ID() != other.columns[name].DataType().ID() {
			return false
		}
	}
	return true
}

// DropNA returns a new DataFrame keeping only rows with no missing value in
// any column.
func (df *DataFrame) DropNA() *DataFrame {
	indices := []int{}
	for i := 0; i < df.Len(); i++ {
		keep := true
		for _, name := range df.order {
			if df.columns[name].IsNull(i) {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, i)
		}
	}
	out, _ := df.takeRows(indices)
	return out
}

// FillNA returns a new DataFrame with missing positions in the named
// columns replaced by the given fill values. A fill value of the wrong type
// for its column fails with TypeMismatch; unknown names with KeyNotFound.
func (df *DataFrame) FillNA(fills map[string]any) (*DataFrame, error) {
	for name := range fills {
		if !df.HasColumn(name) {
			return nil, errors.NewKeyNotFound("FillNA", name)
		}
	}
	out := NewEmpty()
	var built []ISeries
	for _, name := range df.order {
		s := df.columns[name]
		fill, ok := fills[name]
		if !ok {
			out.columns[name] = s
			out.order = append(out.order, name)
			continue
		}
		filled, err := fillSeries(s, fill)
		if err != nil {
			for _, b := range built {
				b.Release()
			}
			return nil, err
		}
		built = append(built, filled)
		out.columns[name] = filled
		out.order = append(out.order, name)
	}
	return out, nil
}

// takeRows materializes a new DataFrame gathering the given row indices
// from every column; nil gathers every row. An index of -1 produces a
// missing position, which the join engine uses for unmatched outer rows.
func (df *DataFrame) takeRows(indices []int) (*DataFrame, error) {
	out := NewEmpty()
	for _, name := range df.order {
		taken, err := takeSeries(df.columns[name], indices)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(taken); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// emptyLike returns a zero-row DataFrame with the receiver's schema.
func (df *DataFrame) emptyLike() *DataFrame {
	out, _ := df.takeRows([]int{})
	return out
}

// Release releases all underlying Arrow memory.
func (df *DataFrame) Release() {
	for _, s := range df.columns {
		s.Release()
	}
}
