package io

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/series"
)

// recordFromDataFrame builds a single Arrow record carrying every column of
// the frame, in column order. The record retains the column arrays.
func recordFromDataFrame(df *dataframe.DataFrame) (arrow.Record, error) {
	names := df.Columns()
	fields := make([]arrow.Field, 0, len(names))
	arrays := make([]arrow.Array, 0, len(names))
	for _, name := range names {
		col, err := df.Column(name)
		if err != nil {
			for _, arr := range arrays {
				arr.Release()
			}
			return nil, err
		}
		arr := col.Array()
		fields = append(fields, arrow.Field{Name: name, Type: arr.DataType(), Nullable: true})
		arrays = append(arrays, arr)
	}
	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrays, int64(df.Len()))
	for _, arr := range arrays {
		arr.Release()
	}
	return rec, nil
}

// dataFrameFromRecord converts one Arrow record back into a DataFrame,
// copying values and validity.
func dataFrameFromRecord(rec arrow.Record, mem memory.Allocator) (*dataframe.DataFrame, error) {
	out := dataframe.NewEmpty()
	for i := 0; i < int(rec.NumCols()); i++ {
		name := rec.Schema().Field(i).Name
		s, err := arrowColumnToSeries(name, rec.Column(i), mem)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// arrowColumnToSeries copies an Arrow array into a fresh series.
func arrowColumnToSeries(name string, arr arrow.Array, mem memory.Allocator) (dataframe.ISeries, error) {
	switch a := arr.(type) {
	case *array.String:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	case *array.Int64:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	case *array.Int32:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	case *array.Float64:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	case *array.Float32:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	case *array.Boolean:
		return copyTyped(name, a.Len(), a.Value, a.IsNull, mem), nil
	default:
		return nil, fmt.Errorf("unsupported column type %s for column %s", arr.DataType().Name(), name)
	}
}

func copyTyped[T any](
	name string, n int,
	value func(int) T, isNull func(int) bool,
	mem memory.Allocator,
) dataframe.ISeries {
	values := make([]T, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if isNull(i) {
			continue
		}
		values[i] = value(i)
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, mem)
}

// Write encodes the DataFrame as one Arrow IPC stream record, passing the
// encoded bytes through the configured compression filter. A zero-row frame
// writes a zero-row record and round-trips exactly.
func (w *ArrowWriter) Write(df *dataframe.DataFrame) error {
	rec, err := recordFromDataFrame(df)
	if err != nil {
		return fmt.Errorf("building record: %w", err)
	}
	defer rec.Release()

	out, closeFilter, err := wrapCompressor(w.writer, w.options.Compression)
	if err != nil {
		return err
	}

	ipcWriter := ipc.NewWriter(out, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(w.mem))
	if err := ipcWriter.Write(rec); err != nil {
		ipcWriter.Close()
		closeFilter()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := ipcWriter.Close(); err != nil {
		closeFilter()
		return fmt.Errorf("closing ipc writer: %w", err)
	}
	return closeFilter()
}

// Read decodes an Arrow IPC stream written by ArrowWriter.
func (r *ArrowReader) Read() (*dataframe.DataFrame, error) {
	in, err := wrapDecompressor(r.reader, r.options.Compression)
	if err != nil {
		return nil, err
	}

	ipcReader, err := ipc.NewReader(in, ipc.WithAllocator(r.mem))
	if err != nil {
		return nil, fmt.Errorf("opening ipc stream: %w", err)
	}
	defer ipcReader.Release()

	if !ipcReader.Next() {
		if err := ipcReader.Err(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		// Schema-only stream: a frame with columns but the record was
		// elided. Reconstruct zero-row columns from the schema.
		return emptyFromSchema(ipcReader.Schema(), r.mem)
	}
	return dataFrameFromRecord(ipcReader.Record(), r.mem)
}

func emptyFromSchema(schema *arrow.Schema, mem memory.Allocator) (*dataframe.DataFrame, error) {
	out := dataframe.NewEmpty()
	for _, field := range schema.Fields() {
		s, err := emptySeriesOfType(field.Name, field.Type, mem)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

func emptySeriesOfType(name string, dt arrow.DataType, mem memory.Allocator) (dataframe.ISeries, error) {
	switch dt.ID() {
	case arrow.STRING:
		return series.New(name, []string{}, mem), nil
	case arrow.INT64:
		return series.New(name, []int64{}, mem), nil
	case arrow.INT32:
		return series.New(name, []int32{}, mem), nil
	case arrow.FLOAT64:
		return series.New(name, []float64{}, mem), nil
	case arrow.FLOAT32:
		return series.New(name, []float32{}, mem), nil
	case arrow.BOOL:
		return series.New(name, []bool{}, mem), nil
	default:
		return nil, fmt.Errorf("unsupported column type %s for column %s", dt.Name(), name)
	}
}

// wrapCompressor layers the chosen filter over w. The returned close
// function flushes the filter without closing the underlying writer.
func wrapCompressor(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case CompressionNone, "":
		return w, func() error { return nil }, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return zw, zw.Close, nil
	case CompressionGzip:
		gw := gzip.NewWriter(w)
		return gw, gw.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression %q", c)
	}
}

func wrapDecompressor(r io.Reader, c Compression) (io.Reader, error) {
	switch c {
	case CompressionNone, "":
		return r, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gr, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}
