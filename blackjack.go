// Package blackjack provides a typed, columnar Series and DataFrame
// library backed by Apache Arrow. This package is the sole public API;
// it re-exports the internal engine under stable names.
//
// Columns are immutable typed arrays with per-position validity, so a
// missing value is distinct from a zero value. Elementwise and windowed
// operations transparently run in parallel above a configurable row
// threshold with deterministic, input-order results.
package blackjack

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/monner/black-jack/internal/config"
	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/display"
	"github.com/monner/black-jack/internal/errors"
	blackjackio "github.com/monner/black-jack/internal/io"
	"github.com/monner/black-jack/internal/logging"
	"github.com/monner/black-jack/internal/parallel"
	"github.com/monner/black-jack/internal/series"
	"github.com/monner/black-jack/internal/version"
)

// Core types.
type (
	// Series is a typed immutable column.
	Series[T any] = series.Series[T]
	// Rolling is a windowed view over a numeric column.
	Rolling[T any] = series.Rolling[T]
	// SortOrder controls direction and missing-value placement.
	SortOrder = series.SortOrder
	// ISeries is the type-erased column interface a DataFrame holds.
	ISeries = dataframe.ISeries
	// DataFrame is an ordered collection of equal-length columns.
	DataFrame = dataframe.DataFrame
	// GroupBy is a prepared grouping of a frame by key columns.
	GroupBy = dataframe.GroupBy
	// Aggregation pairs a value column with a per-group reduction.
	Aggregation = dataframe.Aggregation
	// AggFunc identifies a per-group reduction.
	AggFunc = dataframe.AggFunc
	// JoinType selects the join flavor.
	JoinType = dataframe.JoinType
	// JoinOptions configures a join.
	JoinOptions = dataframe.JoinOptions
	// RowIter walks a frame row by row.
	RowIter = dataframe.RowIter
	// Pool is a bounded worker pool for explicit parallelism control.
	Pool = parallel.Pool
	// Config holds library tunables.
	Config = config.Config
)

// Aggregation functions.
const (
	AggSum    = dataframe.AggSum
	AggMean   = dataframe.AggMean
	AggMin    = dataframe.AggMin
	AggMax    = dataframe.AggMax
	AggCount  = dataframe.AggCount
	AggVar    = dataframe.AggVar
	AggStd    = dataframe.AggStd
	AggMedian = dataframe.AggMedian
)

// Join types.
const (
	InnerJoin = dataframe.InnerJoin
	LeftJoin  = dataframe.LeftJoin
)

// Error kinds, for matching with errors.Is.
var (
	ErrLengthMismatch   = errors.KindOf(errors.KindLengthMismatch)
	ErrRowCountMismatch = errors.KindOf(errors.KindRowCountMismatch)
	ErrDuplicateColumn  = errors.KindOf(errors.KindDuplicateColumn)
	ErrEmptyReduction   = errors.KindOf(errors.KindEmptyReduction)
	ErrTypeMismatch     = errors.KindOf(errors.KindTypeMismatch)
	ErrKeyNotFound      = errors.KindOf(errors.KindKeyNotFound)
)

// NewSeries creates a typed column from values. Supported element types:
// string, int64, int32, float64, float32, bool. A nil allocator uses the
// Go allocator.
func NewSeries[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return series.New(name, values, mem)
}

// NewSeriesNullable creates a typed column with an explicit validity mask;
// valid[i] == false marks position i missing.
func NewSeriesNullable[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return series.NewNullable(name, values, valid, mem)
}

// Arange creates an int64 column holding [start, stop).
func Arange(name string, start, stop int64, mem memory.Allocator) *Series[int64] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return series.Arange(name, start, stop, mem)
}

// Numeric constrains the element types arithmetic is defined over.
type Numeric = series.Numeric

// Add returns the elementwise sum of two Series.
func Add[T Numeric](a, b *Series[T]) (*Series[T], error) { return series.Add(a, b) }

// Sub returns the elementwise difference a - b.
func Sub[T Numeric](a, b *Series[T]) (*Series[T], error) { return series.Sub(a, b) }

// Mul returns the elementwise product.
func Mul[T Numeric](a, b *Series[T]) (*Series[T], error) { return series.Mul(a, b) }

// Div returns the elementwise quotient a / b. A zero integer divisor
// yields a missing result at that position; float division by zero
// follows IEEE semantics.
func Div[T Numeric](a, b *Series[T]) (*Series[T], error) { return series.Div(a, b) }

// AddScalar adds a scalar to every non-missing value.
func AddScalar[T Numeric](s *Series[T], v T) *Series[T] { return series.AddScalar(s, v) }

// MulScalar multiplies every non-missing value by a scalar.
func MulScalar[T Numeric](s *Series[T], v T) *Series[T] { return series.MulScalar(s, v) }

// NewDataFrame creates a DataFrame from columns. All columns must have the
// same length and distinct names.
func NewDataFrame(columns ...ISeries) (*DataFrame, error) {
	return dataframe.New(columns...)
}

// NewEmptyDataFrame creates a DataFrame with no columns.
func NewEmptyDataFrame() *DataFrame {
	return dataframe.NewEmpty()
}

// NewPool creates a worker pool with the given concurrency for the
// *Pool operation variants.
func NewPool(numWorkers int) *Pool {
	return parallel.NewPool(numWorkers)
}

// Configure replaces the global configuration and rebuilds the logger.
func Configure(cfg Config) error {
	if err := config.SetGlobalConfig(cfg); err != nil {
		return err
	}
	return logging.Init(cfg)
}

// CurrentConfig returns the global configuration.
func CurrentConfig() Config {
	return config.GetGlobalConfig()
}

// Version returns a one-line build version string.
func Version() string {
	return version.Short()
}

// Render writes the frame as an aligned text table.
func Render(w io.Writer, df *DataFrame) error {
	return display.Render(w, df, display.DefaultOptions())
}

// IO options and formats.
type (
	CSVOptions     = blackjackio.CSVOptions
	JSONOptions    = blackjackio.JSONOptions
	JSONFormat     = blackjackio.JSONFormat
	ArrowOptions   = blackjackio.ArrowOptions
	Compression    = blackjackio.Compression
	ParquetOptions = blackjackio.ParquetOptions
)

const (
	JSONArray = blackjackio.JSONArray
	JSONLines = blackjackio.JSONLines

	CompressionNone = blackjackio.CompressionNone
	CompressionZstd = blackjackio.CompressionZstd
	CompressionGzip = blackjackio.CompressionGzip
)

// ReadCSV reads delimited text with default options.
func ReadCSV(r io.Reader) (*DataFrame, error) {
	return blackjackio.NewCSVReader(r, blackjackio.DefaultCSVOptions(), nil).Read()
}

// WriteCSV writes delimited text with default options.
func WriteCSV(w io.Writer, df *DataFrame) error {
	return blackjackio.NewCSVWriter(w, blackjackio.DefaultCSVOptions()).Write(df)
}

// ReadJSON reads a JSON array of row objects.
func ReadJSON(r io.Reader) (*DataFrame, error) {
	return blackjackio.NewJSONReader(r, blackjackio.DefaultJSONOptions(), nil).Read()
}

// WriteJSON writes a JSON array of row objects.
func WriteJSON(w io.Writer, df *DataFrame) error {
	return blackjackio.NewJSONWriter(w, blackjackio.DefaultJSONOptions()).Write(df)
}

// ReadJSONLines reads newline-delimited row objects.
func ReadJSONLines(r io.Reader) (*DataFrame, error) {
	return blackjackio.NewJSONReader(r, blackjackio.JSONOptions{Format: blackjackio.JSONLines}, nil).Read()
}

// WriteJSONLines writes newline-delimited row objects.
func WriteJSONLines(w io.Writer, df *DataFrame) error {
	return blackjackio.NewJSONWriter(w, blackjackio.JSONOptions{Format: blackjackio.JSONLines}).Write(df)
}

// ReadArrow reads the native Arrow IPC encoding.
func ReadArrow(r io.Reader) (*DataFrame, error) {
	return blackjackio.NewArrowReader(r, blackjackio.DefaultArrowOptions(), nil).Read()
}

// WriteArrow writes the native Arrow IPC encoding.
func WriteArrow(w io.Writer, df *DataFrame) error {
	return blackjackio.NewArrowWriter(w, blackjackio.DefaultArrowOptions(), nil).Write(df)
}

// ReadParquet reads Parquet data.
func ReadParquet(r io.Reader) (*DataFrame, error) {
	return blackjackio.NewParquetReader(r, blackjackio.DefaultParquetOptions(), nil).Read()
}

// WriteParquet writes Parquet data.
func WriteParquet(w io.Writer, df *DataFrame) error {
	return blackjackio.NewParquetWriter(w, blackjackio.DefaultParquetOptions(), nil).Write(df)
}
