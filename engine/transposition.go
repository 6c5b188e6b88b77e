package engine

import (
	"github.com/lucidfusion/chess/board"
)

const (
	DefaultHashTableSize = 1 << 20 // number of entries
)

// HashMoveTable remembers the best move found for a position, keyed by its Zobrist hash.
// Moves are stored packed. Entries only steer move ordering; their scores are never trusted.
type HashMoveTable struct {
	table    []entry
	maskHash uint64

	// stats
	hits   int
	misses int
	writes int
}

type entry struct {
	hash  uint64
	mv    board.PackedMove
	depth uint8
}

// NewHashMoveTable rounds size down to a power of two.
func NewHashMoveTable(size uint32) *HashMoveTable {
	if size == 0 {
		size = DefaultHashTableSize
	}
	n := uint64(1)
	for n<<1 <= uint64(size) {
		n <<= 1
	}
	return &HashMoveTable{
		table:    make([]entry, n),
		maskHash: n - 1,
	}
}

// Set keeps the deeper of the stored and the new result for the same slot.
func (t *HashMoveTable) Set(hash uint64, mv board.Move, depth uint8) {
	if mv.IsNull() {
		return
	}
	e := &t.table[hash&t.maskHash]
	if e.hash == hash && e.depth > depth {
		return
	}
	t.writes++
	*e = entry{
		hash:  hash,
		mv:    mv.Pack(),
		depth: depth,
	}
}

func (t *HashMoveTable) Get(hash uint64) (board.Move, uint8, bool) {
	e := &t.table[hash&t.maskHash]
	if e.hash != hash || e.mv == 0 {
		t.misses++
		return board.Move{}, 0, false
	}
	t.hits++
	return e.mv.Unpack(), e.depth, true
}

func (t *HashMoveTable) Clear() {
	for i := range t.table {
		t.table[i] = entry{}
	}
	t.ResetStats()
}

func (t *HashMoveTable) Len() int {
	return len(t.table)
}

func (t *HashMoveTable) ResetStats() {
	t.hits = 0
	t.misses = 0
	t.writes = 0
}

func (t *HashMoveTable) Stats() (int, int, int) {
	return t.hits, t.misses, t.writes
}
