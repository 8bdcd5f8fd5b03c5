package io

import (
	"bytes"
	"context"
	"fmt"
	stdio "io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/monner/black-jack/internal/dataframe"
)

// Read reads Parquet data and returns a DataFrame. The whole input is
// buffered in memory; Parquet needs random access.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	data, err := stdio.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading parquet data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return r.tableToDataFrame(table)
}

func (r *ParquetReader) tableToDataFrame(table arrow.Table) (*dataframe.DataFrame, error) {
	out := dataframe.NewEmpty()
	schema := table.Schema()

	for i := 0; i < int(table.NumCols()); i++ {
		field := schema.Field(i)
		chunked := table.Column(i).Data()

		var s dataframe.ISeries
		var err error
		switch len(chunked.Chunks()) {
		case 0:
			s, err = emptySeriesOfType(field.Name, field.Type, r.mem)
		case 1:
			s, err = arrowColumnToSeries(field.Name, chunked.Chunk(0), r.mem)
		default:
			s, err = chunkedToSeries(field.Name, chunked)
		}
		if err != nil {
			out.Release()
			return nil, fmt.Errorf("converting column %s: %w", field.Name, err)
		}
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// chunkedToSeries flattens a multi-chunk column into one series by
// converting each chunk and stitching the fragments together.
func chunkedToSeries(name string, chunked *arrow.Chunked) (dataframe.ISeries, error) {
	mem := memory.NewGoAllocator()
	parts := make([]dataframe.ISeries, 0, len(chunked.Chunks()))
	defer func() {
		for _, p := range parts {
			p.Release()
		}
	}()
	for _, chunk := range chunked.Chunks() {
		s, err := arrowColumnToSeries(name, chunk, mem)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return dataframe.ConcatColumns(name, parts), nil
}

// Write writes the DataFrame to Parquet format.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	rec, err := recordFromDataFrame(df)
	if err != nil {
		return fmt.Errorf("building record: %w", err)
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(parquetCodec(w.options.Compression)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(w.mem))

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	return writer.Close()
}

func parquetCodec(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "lz4":
		return compress.Codecs.Lz4Raw
	case "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
