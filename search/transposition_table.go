package search

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/move"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const noMove = int16(-1)

// 16 bytes (entrySize)
type TableEntry struct {
	// The full hash is kept so that two positions landing in the same
	// bucket are told apart.
	hash  uint64
	score int32
	// play is the row-major square index of the best move, or noMove.
	play  int16
	depth uint8
	flag  uint8
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

func (t TableEntry) move(dim int) move.Move {
	if t.play == noMove {
		return move.PassMove
	}
	return move.FromIndex(int(t.play), dim)
}

func packMove(m move.Move, dim int) int16 {
	if m.IsPass() {
		return noMove
	}
	return int16(m.Index(dim))
}

// TableStats is a snapshot of the table counters.
type TableStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
}

type TranspositionTable struct {
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// A "type 2" collision is two positions that share a bucket. Two
	// positions that share the full 64-bit hash are not detected.
	t2collisions atomic.Uint64
}

func (t *TranspositionTable) lookup(zval uint64) TableEntry {
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if entry.hash != zval {
		if entry.valid() {
			// There is another unrelated node at this position.
			t.t2collisions.Add(1)
		}
		return TableEntry{}
	}
	t.hits.Add(1)
	return entry
}

func (t *TranspositionTable) store(zval uint64, tentry TableEntry) {
	idx := zval & t.sizeMask
	tentry.hash = zval
	// just overwrite whatever is there.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset sizes the table to the largest power of two that fits in
// fractionOfMemory of the system memory, clamped to [2^minPow, 2^maxPow],
// and empties it.
func (t *TranspositionTable) Reset(fractionOfMemory float64, minPow, maxPow int) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	pow := minPow
	if desiredNElems >= 1 {
		// find biggest power of 2 lower than desired.
		pow = int(math.Log2(desiredNElems))
	}
	t.resize(max(minPow, min(pow, maxPow)))

	log.Debug().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// ResetPow sizes the table to exactly 2^pow entries and empties it.
func (t *TranspositionTable) ResetPow(pow int) {
	t.resize(pow)
}

func (t *TranspositionTable) resize(pow int) {
	pow = max(pow, 1)
	t.sizePowerOf2 = pow
	numElems := 1 << pow
	t.sizeMask = uint64(numElems - 1)
	if t.table != nil && len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Size is the number of buckets.
func (t *TranspositionTable) Size() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T2Collisions: t.t2collisions.Load(),
	}
}
