package dataframe

import (
	"bytes"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/monner/black-jack/internal/errors"
	"github.com/monner/black-jack/internal/logging"
)

// JoinType represents the kind of join operation.
type JoinType int

const (
	// InnerJoin emits only matched rows.
	InnerJoin JoinType = iota
	// LeftJoin emits every left row; unmatched rows carry missing
	// right-side values.
	LeftJoin
)

// JoinOptions specifies parameters for join operations. Single-key and
// multi-key forms are interchangeable; set one of them.
type JoinOptions struct {
	Type      JoinType
	LeftKey   string
	RightKey  string
	LeftKeys  []string
	RightKeys []string
	// Suffix resolves name collisions between right non-key columns and
	// left columns. Empty means collisions fail with DuplicateColumn.
	Suffix string
}

func (opts *JoinOptions) keyPairs() ([]string, []string) {
	if len(opts.LeftKeys) > 0 {
		return opts.LeftKeys, opts.RightKeys
	}
	return []string{opts.LeftKey}, []string{opts.RightKey}
}

// joinEntry is one distinct right-side key with its row positions in
// build (right input) order.
type joinEntry struct {
	key  []byte
	rows []int
}

// Join matches rows of two frames under key equality and materializes a new
// frame. The output column set is every left column plus the right non-key
// columns; right key columns are elided. Output rows follow left input
// order, with multiple right matches emitted in right input order. Missing
// key values are equal to each other, matching the grouping semantics.
//
// The hash build and probe both run on the calling goroutine; they share
// one map and stay sequential.
func (df *DataFrame) Join(right *DataFrame, opts *JoinOptions) (*DataFrame, error) {
	leftKeys, rightKeys := opts.keyPairs()
	if len(leftKeys) == 0 || len(leftKeys) != len(rightKeys) {
		return nil, &errors.Error{
			Kind:    errors.KindKeyNotFound,
			Op:      "Join",
			Message: "left and right key column lists must be non-empty and the same length",
		}
	}

	logging.Op("Join").Debug("joining",
		zap.Int("left_rows", df.Len()),
		zap.Int("right_rows", right.Len()),
		zap.Strings("left_keys", leftKeys),
	)

	leftArrays, err := keyArrays("Join", df, leftKeys)
	if err != nil {
		return nil, err
	}
	defer releaseArrays(leftArrays)
	rightArrays, err := keyArrays("Join", right, rightKeys)
	if err != nil {
		return nil, err
	}
	defer releaseArrays(rightArrays)

	// Build phase: hash every right row's key.
	buckets := make(map[uint64][]*joinEntry)
	var keyBuf []byte
	for row := 0; row < right.Len(); row++ {
		keyBuf = encodeRowKey(keyBuf[:0], rightArrays, row)
		h := xxhash.Sum64(keyBuf)
		var e *joinEntry
		for _, cand := range buckets[h] {
			if bytes.Equal(cand.key, keyBuf) {
				e = cand
				break
			}
		}
		if e == nil {
			e = &joinEntry{key: append([]byte(nil), keyBuf...)}
			buckets[h] = append(buckets[h], e)
		}
		e.rows = append(e.rows, row)
	}

	// Probe phase: walk left rows in order, emitting one output row per
	// match (inner) or at least one per left row (left outer).
	leftIdx := []int{}
	rightIdx := []int{}
	for row := 0; row < df.Len(); row++ {
		keyBuf = encodeRowKey(keyBuf[:0], leftArrays, row)
		h := xxhash.Sum64(keyBuf)
		var e *joinEntry
		for _, cand := range buckets[h] {
			if bytes.Equal(cand.key, keyBuf) {
				e = cand
				break
			}
		}
		if e == nil {
			if opts.Type == LeftJoin {
				leftIdx = append(leftIdx, row)
				rightIdx = append(rightIdx, -1)
			}
			continue
		}
		for _, rrow := range e.rows {
			leftIdx = append(leftIdx, row)
			rightIdx = append(rightIdx, rrow)
		}
	}

	return assembleJoin(df, right, rightKeys, opts.Suffix, leftIdx, rightIdx)
}

func keyArrays(op string, df *DataFrame, names []string) ([]arrow.Array, error) {
	arrays := make([]arrow.Array, len(names))
	for i, name := range names {
		s, err := df.Column(name)
		if err != nil {
			for _, arr := range arrays[:i] {
				arr.Release()
			}
			return nil, errors.NewKeyNotFound(op, name)
		}
		arrays[i] = s.Array()
	}
	return arrays, nil
}

func releaseArrays(arrays []arrow.Array) {
	for _, arr := range arrays {
		arr.Release()
	}
}

// assembleJoin materializes the matched row-index pairs into a new frame.
func assembleJoin(
	left, right *DataFrame,
	rightKeys []string, suffix string,
	leftIdx, rightIdx []int,
) (*DataFrame, error) {
	out := NewEmpty()
	for _, name := range left.order {
		taken, err := takeSeries(left.columns[name], leftIdx)
		if err != nil {
			out.Release()
			return nil, err
		}
		if err := out.Insert(taken); err != nil {
			out.Release()
			return nil, err
		}
	}

	keySet := make(map[string]bool, len(rightKeys))
	for _, k := range rightKeys {
		keySet[k] = true
	}
	for _, name := range right.order {
		if keySet[name] {
			continue
		}
		outName := name
		if out.HasColumn(outName) {
			if suffix == "" {
				out.Release()
				return nil, errors.NewDuplicateColumn("Join", name)
			}
			outName = name + suffix
			if out.HasColumn(outName) {
				out.Release()
				return nil, errors.NewDuplicateColumn("Join", outName)
			}
		}
		taken, err := takeSeries(right.columns[name], rightIdx)
		if err != nil {
			out.Release()
			return nil, err
		}
		if outName != name {
			renamed := renameSeries(taken, outName)
			taken.Release()
			taken = renamed
		}
		if err := out.Insert(taken); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}
