package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/dataframe"
	"github.com/monner/black-jack/internal/testutil"
)

func TestRender(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := testutil.SalesFrame(t, mem)
	defer df.Release()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, df, DefaultOptions()))
	out := buf.String()

	assert.Contains(t, out, "region")
	assert.Contains(t, out, "revenue")
	assert.Contains(t, out, "east")
	assert.Contains(t, out, "null", "missing revenue renders as the null text")
	assert.Contains(t, out, "[4 rows x 3 columns]")
	assert.NotContains(t, out, "...", "no ellipsis when nothing is truncated")
}

func TestRenderTruncation(t *testing.T) {
	mem := memory.NewGoAllocator()

	values := make([]int64, 50)
	for i := range values {
		values[i] = int64(i)
	}
	df, err := dataframe.New(testutil.IntColumn(t, mem, "n", values))
	require.NoError(t, err)
	defer df.Release()

	opts := DefaultOptions()
	opts.MaxRows = 5

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, df, opts))
	out := buf.String()

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "[50 rows x 1 columns]")
	assert.NotContains(t, out, "| 49 ", "rows past the cap are not rendered")
}

func TestRenderOptions(t *testing.T) {
	mem := memory.NewGoAllocator()

	df, err := dataframe.New(
		testutil.FloatColumnWithNulls(t, mem, "v", []float64{1.5, 0}, []bool{true, false}),
	)
	require.NoError(t, err)
	defer df.Release()

	t.Run("custom null text", func(t *testing.T) {
		opts := DefaultOptions()
		opts.NullText = "<NA>"

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, df, opts))
		assert.Contains(t, buf.String(), "<NA>")
		assert.NotContains(t, buf.String(), "null")
	})

	t.Run("row index column", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ShowIndex = true

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, df, opts))

		lines := strings.Split(buf.String(), "\n")
		var dataLines []string
		for _, line := range lines {
			if strings.HasPrefix(line, "|") {
				dataLines = append(dataLines, line)
			}
		}
		require.NotEmpty(t, dataLines)
		assert.Contains(t, dataLines[len(dataLines)-1], "1", "positions are zero-based")
	})
}
