// Package display renders DataFrames as aligned text tables for
// terminals and logs.
package display

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/monner/black-jack/internal/dataframe"
)

// Options controls table rendering.
type Options struct {
	// MaxRows caps the number of data rows rendered; 0 means all rows.
	// When the frame is longer, a trailing ellipsis row is added.
	MaxRows int
	// ShowIndex prepends a zero-based row-position column.
	ShowIndex bool
	// NullText is rendered for missing values.
	NullText string
}

// DefaultOptions returns rendering defaults.
func DefaultOptions() Options {
	return Options{MaxRows: 20, NullText: "null"}
}

// Render writes the frame as a bordered table.
func Render(w io.Writer, df *dataframe.DataFrame, opts Options) error {
	names := df.Columns()
	header := names
	if opts.ShowIndex {
		header = append([]string{""}, names...)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	limit := df.Len()
	truncated := false
	if opts.MaxRows > 0 && limit > opts.MaxRows {
		limit = opts.MaxRows
		truncated = true
	}

	columns := make([]dataframe.ISeries, len(names))
	for i, name := range names {
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		columns[i] = col
	}

	for row := 0; row < limit; row++ {
		cells := make([]string, 0, len(header))
		if opts.ShowIndex {
			cells = append(cells, fmt.Sprintf("%d", row))
		}
		for _, col := range columns {
			cells = append(cells, cellText(col, row, opts.NullText))
		}
		table.Append(cells)
	}
	if truncated {
		ellipsis := make([]string, len(header))
		for i := range ellipsis {
			ellipsis[i] = "..."
		}
		table.Append(ellipsis)
	}

	table.Render()
	_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", df.Len(), df.Width())
	return err
}

func cellText(col dataframe.ISeries, row int, nullText string) string {
	v := dataframe.CellValue(col, row)
	if v == nil {
		return nullText
	}
	return fmt.Sprintf("%v", v)
}
