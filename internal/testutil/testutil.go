// Package testutil provides shared helpers for tests: checked allocator
// setup and canonical fixture frames.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/series"
)

// Mem returns a checked allocator that fails the test on leaked buffers.
func Mem(tb testing.TB) *memory.CheckedAllocator {
	tb.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	tb.Cleanup(func() { mem.AssertSize(tb, 0) })
	return mem
}

// SalesFrame builds the canonical fixture: four rows of region, units and
// revenue, with one missing revenue value.
func SalesFrame(tb testing.TB, mem memory.Allocator) *dataframe.DataFrame {
	tb.Helper()
	region := series.New("region", []string{"east", "west", "east", "south"}, mem)
	units := series.New("units", []int64{10, 20, 30, 40}, mem)
	revenue := series.NewNullable("revenue",
		[]float64{100.5, 200.25, 0, 400.75},
		[]bool{true, true, false, true}, mem)

	df, err := dataframe.New(region, units, revenue)
	require.NoError(tb, err)
	return df
}

// IntColumn builds an int64 column without missing values.
func IntColumn(tb testing.TB, mem memory.Allocator, name string, values []int64) *series.Series[int64] {
	tb.Helper()
	return series.New(name, values, mem)
}

// FloatColumnWithNulls builds a float64 column from (value, valid) pairs.
func FloatColumnWithNulls(
	tb testing.TB, mem memory.Allocator, name string, values []float64, valid []bool,
) *series.Series[float64] {
	tb.Helper()
	require.Len(tb, valid, len(values))
	return series.NewNullable(name, values, valid, mem)
}

// RequireColumn fetches a column or fails the test.
func RequireColumn(tb testing.TB, df *dataframe.DataFrame, name string) dataframe.ISeries {
	tb.Helper()
	col, err := df.Column(name)
	require.NoError(tb, err)
	return col
}
