// Package parallel provides the shared execution strategy for bulk Series and
// aggregation work.
//
// A buffer of length n is split into contiguous chunks (chunk count bounded by
// the worker count, never by n) and a pure function runs independently per
// chunk. Results recombine in chunk index order, so output is deterministic
// regardless of goroutine scheduling. A failure in any chunk aborts the whole
// operation; the first error in chunk order is returned and partial results
// are discarded.
//
// Callers must not structurally mutate a column (resize, drop) while a chunked
// operation over it is in flight. The pool does no per-column locking; this is
// a documented caller obligation.
package parallel

import (
	"runtime"
	"sync"

	"github.com/monner/black-jack/internal/config"
)

// Pool is a fixed-size set of workers for data-parallel fan-out/fan-in.
type Pool struct {
	numWorkers int
}

// NewPool creates a pool with the given worker count. Zero or negative
// selects runtime.NumCPU().
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{numWorkers: numWorkers}
}

// NumWorkers returns the worker count.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

var (
	sharedOnce sync.Once
	sharedPool *Pool
)

// Shared returns the process-wide pool, lazily initialized on first use and
// living until process exit. The worker count is taken from the global
// configuration at initialization; later config changes do not resize it.
func Shared() *Pool {
	sharedOnce.Do(func() {
		sharedPool = NewPool(config.GetGlobalConfig().EffectiveWorkers())
	})
	return sharedPool
}

// Chunk is a contiguous half-open range [Start, End) of a buffer.
type Chunk struct {
	Start int
	End   int
}

// Split divides [0, n) into at most p.numWorkers contiguous chunks of
// near-equal size. minChunk floors the chunk size so tiny inputs do not
// fan out; zero means no floor.
func (p *Pool) Split(n, minChunk int) []Chunk {
	if n <= 0 {
		return nil
	}
	workers := p.numWorkers
	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
		if workers == 0 {
			workers = 1
		}
	}
	size := (n + workers - 1) / workers
	chunks := make([]Chunk, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}

type chunkOutcome[R any] struct {
	result R
	err    error
}

// Run splits [0, n) into chunks and applies fn to each on the pool,
// blocking until every chunk completes. The configured chunk-size floor
// bounds how small a chunk may get. Per-chunk results are returned in
// chunk index order. If any chunk fails, Run returns the error of the
// lowest-indexed failing chunk and no results.
func Run[R any](p *Pool, n int, fn func(c Chunk) (R, error)) ([]R, error) {
	chunks := p.Split(n, config.GetGlobalConfig().ChunkSize)
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) == 1 {
		r, err := fn(chunks[0])
		if err != nil {
			return nil, err
		}
		return []R{r}, nil
	}

	outcomes := make([]chunkOutcome[R], len(chunks))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.numWorkers)
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c Chunk) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			r, err := fn(c)
			outcomes[i] = chunkOutcome[R]{result: r, err: err}
		}(i, c)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
	}
	results := make([]R, len(chunks))
	for i, o := range outcomes {
		results[i] = o.result
	}
	return results, nil
}

// RunIndexed applies fn to each item index in [0, n) on the pool, preserving
// index order in the result slice. first error by index wins, as with Run.
// Used where the unit of work is an item (a group) rather than a range.
func RunIndexed[R any](p *Pool, n int, fn func(i int) (R, error)) ([]R, error) {
	results, err := Run(p, n, func(c Chunk) ([]R, error) {
		part := make([]R, 0, c.End-c.Start)
		for i := c.Start; i < c.End; i++ {
			r, ferr := fn(i)
			if ferr != nil {
				return nil, ferr
			}
			part = append(part, r)
		}
		return part, nil
	})
	if err != nil {
		return nil, err
	}
	flat := make([]R, 0, n)
	for _, part := range results {
		flat = append(flat, part...)
	}
	return flat, nil
}
