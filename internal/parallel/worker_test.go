package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monner/black-jack/internal/config"
)

func TestNewPool(t *testing.T) {
	assert.Equal(t, 4, NewPool(4).NumWorkers())
	assert.Equal(t, runtime.NumCPU(), NewPool(0).NumWorkers())
	assert.Equal(t, runtime.NumCPU(), NewPool(-3).NumWorkers())
}

func TestShared(t *testing.T) {
	a := Shared()
	b := Shared()
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, config.GetGlobalConfig().EffectiveWorkers(), a.NumWorkers(),
		"shared pool is sized from configuration")
}

func TestRunHonorsChunkSizeFloor(t *testing.T) {
	prev := config.GetGlobalConfig()
	cfg := prev
	cfg.ChunkSize = 100
	require.NoError(t, config.SetGlobalConfig(cfg))
	defer func() { require.NoError(t, config.SetGlobalConfig(prev)) }()

	p := NewPool(8)
	results, err := Run(p, 250, func(c Chunk) (int, error) {
		return c.End - c.Start, nil
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(results), 2, "250 items with a 100-item floor never split 8 ways")
	total := 0
	for _, n := range results {
		total += n
	}
	assert.Equal(t, 250, total)
}

func TestSplit(t *testing.T) {
	p := NewPool(4)

	t.Run("covers range contiguously", func(t *testing.T) {
		chunks := p.Split(10, 0)
		require.NotEmpty(t, chunks)
		assert.LessOrEqual(t, len(chunks), 4)

		next := 0
		for _, c := range chunks {
			assert.Equal(t, next, c.Start)
			assert.Greater(t, c.End, c.Start)
			next = c.End
		}
		assert.Equal(t, 10, next)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, p.Split(0, 0))
		assert.Nil(t, p.Split(-1, 0))
	})

	t.Run("min chunk floors fan-out", func(t *testing.T) {
		chunks := p.Split(10, 8)
		assert.Len(t, chunks, 1)
	})

	t.Run("chunk count bounded by workers not n", func(t *testing.T) {
		chunks := NewPool(2).Split(1000, 0)
		assert.LessOrEqual(t, len(chunks), 2)
	})
}

func TestRun(t *testing.T) {
	p := NewPool(4)

	t.Run("results come back in chunk order", func(t *testing.T) {
		results, err := Run(p, 100, func(c Chunk) (int, error) {
			return c.Start, nil
		})
		require.NoError(t, err)
		for i := 1; i < len(results); i++ {
			assert.Greater(t, results[i], results[i-1])
		}
	})

	t.Run("deterministic recombination", func(t *testing.T) {
		sum := func() int {
			parts, err := Run(p, 10_000, func(c Chunk) (int, error) {
				total := 0
				for i := c.Start; i < c.End; i++ {
					total += i
				}
				return total, nil
			})
			require.NoError(t, err)
			total := 0
			for _, v := range parts {
				total += v
			}
			return total
		}
		want := sum()
		for i := 0; i < 5; i++ {
			assert.Equal(t, want, sum())
		}
	})

	t.Run("first error in chunk order wins", func(t *testing.T) {
		_, err := Run(p, 100, func(c Chunk) (int, error) {
			return 0, fmt.Errorf("chunk starting at %d", c.Start)
		})
		require.Error(t, err)
		assert.Equal(t, "chunk starting at 0", err.Error())
	})

	t.Run("partial results discarded on failure", func(t *testing.T) {
		boom := errors.New("boom")
		results, err := Run(p, 100, func(c Chunk) (int, error) {
			if c.Start > 0 {
				return 0, boom
			}
			return 1, nil
		})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, results)
	})

	t.Run("zero length", func(t *testing.T) {
		results, err := Run(p, 0, func(c Chunk) (int, error) { return 1, nil })
		require.NoError(t, err)
		assert.Nil(t, results)
	})
}

func TestRunConcurrencyBound(t *testing.T) {
	p := NewPool(2)
	var active, peak atomic.Int32

	_, err := Run(p, 64, func(c Chunk) (int, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		active.Add(-1)
		return 0, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunIndexed(t *testing.T) {
	p := NewPool(4)

	t.Run("preserves index order", func(t *testing.T) {
		results, err := RunIndexed(p, 50, func(i int) (int, error) {
			return i * i, nil
		})
		require.NoError(t, err)
		require.Len(t, results, 50)
		for i, v := range results {
			assert.Equal(t, i*i, v)
		}
	})

	t.Run("propagates errors", func(t *testing.T) {
		boom := errors.New("bad item")
		_, err := RunIndexed(p, 10, func(i int) (int, error) {
			if i == 3 {
				return 0, boom
			}
			return i, nil
		})
		assert.ErrorIs(t, err, boom)
	})
}
