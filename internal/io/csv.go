package io

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/series"
)

const (
	trueStr  = "true"
	falseStr = "false"

	typeInt64   = "int64"
	typeFloat64 = "float64"
	typeBool    = "bool"
	typeString  = "string"
)

// Read reads delimited text and returns a DataFrame. Element types are
// inferred per column from the first non-empty field unless overridden; an
// empty field is a missing value.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.NewEmpty(), nil
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	// Transpose to per-column string slices.
	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := 0; i < numCols; i++ {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			}
		}
	}

	out := dataframe.NewEmpty()
	for i, header := range headers {
		s, err := r.columnFromStrings(header, columns[i])
		if err != nil {
			out.Release()
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// columnFromStrings builds a typed series from raw string fields.
func (r *CSVReader) columnFromStrings(name string, data []string) (dataframe.ISeries, error) {
	inferred, ok := r.options.TypeOverrides[name]
	if !ok {
		inferred = inferFieldType(data)
	}

	switch inferred {
	case typeBool:
		return r.boolColumn(name, data)
	case typeInt64:
		return r.intColumn(name, data)
	case typeFloat64:
		return r.floatColumn(name, data)
	case typeString:
		return r.stringColumn(name, data), nil
	default:
		return nil, fmt.Errorf("unknown type override %q", inferred)
	}
}

// inferFieldType picks the narrowest type the first non-empty field parses
// as and the rest of the column agrees on. An all-empty column stays string.
func inferFieldType(data []string) string {
	canBeInt := true
	canBeFloat := true
	canBeBool := true
	hasValue := false

	for _, value := range data {
		if value == "" {
			continue
		}
		hasValue = true
		if canBeBool {
			lower := strings.ToLower(value)
			if lower != trueStr && lower != falseStr {
				canBeBool = false
			}
		}
		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}
	}

	if !hasValue {
		return typeString
	}
	if canBeBool {
		return typeBool
	}
	if canBeInt {
		return typeInt64
	}
	if canBeFloat {
		return typeFloat64
	}
	return typeString
}

func (r *CSVReader) boolColumn(name string, data []string) (dataframe.ISeries, error) {
	values := make([]bool, len(data))
	valid := make([]bool, len(data))
	for i, v := range data {
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("parsing bool %q: %w", v, err)
		}
		values[i] = parsed
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, r.mem), nil
}

func (r *CSVReader) intColumn(name string, data []string) (dataframe.ISeries, error) {
	values := make([]int64, len(data))
	valid := make([]bool, len(data))
	for i, v := range data {
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing int %q: %w", v, err)
		}
		values[i] = parsed
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, r.mem), nil
}

func (r *CSVReader) floatColumn(name string, data []string) (dataframe.ISeries, error) {
	values := make([]float64, len(data))
	valid := make([]bool, len(data))
	for i, v := range data {
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing float %q: %w", v, err)
		}
		values[i] = parsed
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, r.mem), nil
}

func (r *CSVReader) stringColumn(name string, data []string) dataframe.ISeries {
	values := make([]string, len(data))
	valid := make([]bool, len(data))
	for i, v := range data {
		if v == "" {
			continue
		}
		values[i] = v
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, r.mem)
}

// Write writes the DataFrame as delimited text. Missing values render as
// empty fields.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	names := df.Columns()
	for i := 0; i < df.Len(); i++ {
		row := make([]string, len(names))
		for j, name := range names {
			column, err := df.Column(name)
			if err != nil {
				return err
			}
			row[j] = fieldString(column, i)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return csvWriter.Error()
}

// fieldString renders one cell for delimited output.
func fieldString(column dataframe.ISeries, index int) string {
	if column.IsNull(index) {
		return ""
	}
	arr := column.Array()
	defer arr.Release()

	switch a := arr.(type) {
	case *array.String:
		return a.Value(index)
	case *array.Int64:
		return strconv.FormatInt(a.Value(index), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(index)), 10)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(index), 'g', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(index)), 'g', -1, 32)
	case *array.Boolean:
		return strconv.FormatBool(a.Value(index))
	default:
		return ""
	}
}
