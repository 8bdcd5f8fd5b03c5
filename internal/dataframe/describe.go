package dataframe

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/series"
	"github.com/monner/black-jack/internal/stats"
)

// describeStats lists the summary rows Describe emits, in output order.
var describeStats = []string{"count", "mean", "std", "min", "median", "max"}

// Describe returns a summary frame over the numeric columns: one row per
// statistic (count, mean, std, min, median, max), one column per numeric
// source column, plus a leading "statistic" label column. A column with no
// non-missing values reports zero count and missing cells for the rest.
func (df *DataFrame) Describe() (*DataFrame, error) {
	mem := memory.NewGoAllocator()
	out := NewEmpty()
	if err := out.Insert(series.New("statistic", describeStats, mem)); err != nil {
		return nil, err
	}

	for _, name := range df.order {
		col := df.columns[name]
		if !series.IsNumericType(col.DataType()) {
			continue
		}

		arr := col.Array()
		buf := make([]float64, 0, col.Len())
		for i := 0; i < col.Len(); i++ {
			if arr.IsNull(i) {
				continue
			}
			buf = append(buf, numericValue(arr, i))
		}
		arr.Release()

		values := make([]float64, len(describeStats))
		valid := make([]bool, len(describeStats))
		values[0] = float64(len(buf))
		valid[0] = true
		if len(buf) > 0 {
			fns := []func(string, []float64) (float64, error){
				nil, // count handled above
				stats.Mean,
				func(op string, b []float64) (float64, error) { return stats.StdDev(op, b, 1) },
				stats.Min,
				stats.Median,
				stats.Max,
			}
			for i := 1; i < len(describeStats); i++ {
				v, err := fns[i]("Describe", buf)
				if err != nil {
					out.Release()
					return nil, err
				}
				values[i] = v
				valid[i] = true
			}
		}

		s := series.NewNullable(name, values, valid, mem)
		if err := out.Insert(s); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}
