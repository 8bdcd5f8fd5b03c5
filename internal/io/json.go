package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/series"
)

// Read reads JSON data and returns a DataFrame. A JSON null, or a key
// absent from a row object, becomes a missing value.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	switch r.options.Format {
	case JSONArray:
		return r.readArray()
	case JSONLines:
		return r.readLines()
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
}

func (r *JSONReader) readArray() (*dataframe.DataFrame, error) {
	data, err := stdio.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON data: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
	}
	return r.recordsToDataFrame(records)
}

func (r *JSONReader) readLines() (*dataframe.DataFrame, error) {
	scanner := bufio.NewScanner(r.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []map[string]any
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning JSON lines: %w", err)
	}
	return r.recordsToDataFrame(records)
}

func (r *JSONReader) recordsToDataFrame(records []map[string]any) (*dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.NewEmpty(), nil
	}

	columnSet := make(map[string]bool)
	for _, record := range records {
		for key := range record {
			columnSet[key] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	out := dataframe.NewEmpty()
	for _, col := range columns {
		cells := make([]any, len(records))
		for i, record := range records {
			cells[i] = record[col] // absent key yields nil
		}
		s, err := r.columnFromCells(col, cells)
		if err != nil {
			out.Release()
			return nil, fmt.Errorf("creating series for column %s: %w", col, err)
		}
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// columnFromCells infers one element type for a column of decoded JSON
// values and builds the series. JSON numbers arrive as float64; a column
// whose numbers are all integral becomes int64.
func (r *JSONReader) columnFromCells(name string, cells []any) (dataframe.ISeries, error) {
	hasString := false
	hasBool := false
	hasFloat := false
	hasInt := false
	for _, v := range cells {
		switch val := v.(type) {
		case nil:
		case bool:
			hasBool = true
		case float64:
			if val == float64(int64(val)) {
				hasInt = true
			} else {
				hasFloat = true
			}
		case string:
			hasString = true
		default:
			hasString = true
		}
	}

	switch {
	case hasString, hasBool && (hasInt || hasFloat):
		values := make([]string, len(cells))
		valid := make([]bool, len(cells))
		for i, v := range cells {
			if v == nil {
				continue
			}
			values[i] = cellString(v)
			valid[i] = true
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case hasFloat:
		values := make([]float64, len(cells))
		valid := make([]bool, len(cells))
		for i, v := range cells {
			f, ok := v.(float64)
			if !ok {
				continue
			}
			values[i] = f
			valid[i] = true
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case hasInt:
		values := make([]int64, len(cells))
		valid := make([]bool, len(cells))
		for i, v := range cells {
			f, ok := v.(float64)
			if !ok {
				continue
			}
			values[i] = int64(f)
			valid[i] = true
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case hasBool:
		values := make([]bool, len(cells))
		valid := make([]bool, len(cells))
		for i, v := range cells {
			b, ok := v.(bool)
			if !ok {
				continue
			}
			values[i] = b
			valid[i] = true
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	default:
		// All-missing column defaults to string.
		values := make([]string, len(cells))
		valid := make([]bool, len(cells))
		return series.NewNullable(name, values, valid, r.mem), nil
	}
}

func cellString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// Write writes the DataFrame as JSON. Missing values render as null.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	switch w.options.Format {
	case JSONArray:
		return w.writeArray(df)
	case JSONLines:
		return w.writeLines(df)
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
}

func (w *JSONWriter) writeArray(df *dataframe.DataFrame) error {
	records, err := dataFrameToRecords(df)
	if err != nil {
		return err
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling JSON array: %w", err)
	}
	_, err = w.writer.Write(data)
	return err
}

func (w *JSONWriter) writeLines(df *dataframe.DataFrame) error {
	records, err := dataFrameToRecords(df)
	if err != nil {
		return err
	}
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling JSON record: %w", err)
		}
		if _, err := w.writer.Write(data); err != nil {
			return err
		}
		if _, err := w.writer.Write([]byte("\n")); err != nil {
			return err
		}
	}
	return nil
}

func dataFrameToRecords(df *dataframe.DataFrame) ([]map[string]any, error) {
	names := df.Columns()
	records := make([]map[string]any, df.Len())
	for i := range records {
		record := make(map[string]any, len(names))
		for _, name := range names {
			column, err := df.Column(name)
			if err != nil {
				return nil, err
			}
			record[name] = dataframe.CellValue(column, i)
		}
		records[i] = record
	}
	return records, nil
}
