package io

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/series"
	"github.com/monner/black-jack/internal/testutil"
)

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := testutil.SalesFrame(t, mem)
	defer df.Release()

	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionGzip} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			opts := ArrowOptions{Compression: c}
			require.NoError(t, NewArrowWriter(&buf, opts, mem).Write(df))

			back, err := NewArrowReader(&buf, opts, mem).Read()
			require.NoError(t, err)
			defer back.Release()

			assert.True(t, df.Equal(back), "values, order and validity all survive")
		})
	}
}

func TestArrowRoundTripAllColumnTypes(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(
		series.NewNullable("s", []string{"a", ""}, []bool{true, false}, mem),
		series.NewNullable("i64", []int64{1, 0}, []bool{true, false}, mem),
		series.New("i32", []int32{1, 2}, mem),
		series.New("f64", []float64{0.5, 1.5}, mem),
		series.New("f32", []float32{0.5, 1.5}, mem),
		series.NewNullable("b", []bool{true, false}, []bool{true, false}, mem),
	)
	require.NoError(t, err)
	defer df.Release()

	var buf bytes.Buffer
	require.NoError(t, NewArrowWriter(&buf, DefaultArrowOptions(), mem).Write(df))

	back, err := NewArrowReader(&buf, DefaultArrowOptions(), mem).Read()
	require.NoError(t, err)
	defer back.Release()

	assert.True(t, df.Equal(back))
}

func TestArrowZeroRowFrame(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(
		series.New("x", []int64{}, mem),
		series.New("y", []string{}, mem),
	)
	require.NoError(t, err)
	defer df.Release()

	var buf bytes.Buffer
	require.NoError(t, NewArrowWriter(&buf, DefaultArrowOptions(), mem).Write(df))

	back, err := NewArrowReader(&buf, DefaultArrowOptions(), mem).Read()
	require.NoError(t, err)
	defer back.Release()

	assert.Equal(t, 0, back.Len())
	assert.Equal(t, []string{"x", "y"}, back.Columns())

	x, err := back.Column("x")
	require.NoError(t, err)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, x.DataType(), "schema survives without rows")
}

func TestArrowCompressionShrinksOutput(t *testing.T) {
	mem := memory.NewGoAllocator()

	values := make([]float64, 10000)
	df, err := dataframe.New(series.New("zeros", values, mem))
	require.NoError(t, err)
	defer df.Release()

	var plain, packed bytes.Buffer
	require.NoError(t, NewArrowWriter(&plain, ArrowOptions{Compression: CompressionNone}, mem).Write(df))
	require.NoError(t, NewArrowWriter(&packed, ArrowOptions{Compression: CompressionZstd}, mem).Write(df))

	assert.Less(t, packed.Len(), plain.Len())
}

func TestArrowUnsupportedCompression(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := testutil.SalesFrame(t, mem)
	defer df.Release()

	var buf bytes.Buffer
	err := NewArrowWriter(&buf, ArrowOptions{Compression: "lzma"}, mem).Write(df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported compression")

	_, err = NewArrowReader(bytes.NewReader(nil), ArrowOptions{Compression: "lzma"}, mem).Read()
	require.Error(t, err)
}
