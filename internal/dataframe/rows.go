package dataframe

// RowIter is a single-pass iterator over per-row value tuples, for
// cross-column computation. It is not restartable: once advanced, earlier
// rows are gone. Values come back boxed, with nil marking a missing cell.
type RowIter struct {
	df   *DataFrame
	cols []ISeries
	pos  int
}

// Rows returns a row iterator over the frame in column order.
func (df *DataFrame) Rows() *RowIter {
	cols := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		cols = append(cols, df.columns[name])
	}
	return &RowIter{df: df, cols: cols, pos: -1}
}

// Next advances to the next row, returning false past the end.
func (it *RowIter) Next() bool {
	if it.pos+1 >= it.df.Len() {
		return false
	}
	it.pos++
	return true
}

// Row returns the current row as one boxed value per column, nil for
// missing cells. Valid only after a true Next.
func (it *RowIter) Row() []any {
	row := make([]any, len(it.cols))
	for i, col := range it.cols {
		row[i] = CellValue(col, it.pos)
	}
	return row
}

// Columns returns the column names in iteration order.
func (it *RowIter) Columns() []string {
	return it.df.Columns()
}
