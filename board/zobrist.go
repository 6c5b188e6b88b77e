package board

import (
	"sync"

	"github.com/lucidfusion/chess/square"
)

const zobristSeed uint64 = 7

// zobristTable holds 12*64 piece keys plus side, castle and en passant file keys.
type zobristTable struct {
	piece     [2 + 1][6 + 1][square.Total]uint64
	sideBlack uint64
	castle    [4 + 1]uint64
	enPassant [square.MaxComponentScalar]uint64
	startpos  uint64
}

var (
	zobristOnce sync.Once
	zobrist     *zobristTable
)

func zobristKeys() *zobristTable {
	zobristOnce.Do(func() {
		t := &zobristTable{}
		r := NewPseudoRand(zobristSeed)
		for _, s := range Sides {
			for _, p := range Pieces {
				for sq := square.Square(0); sq < square.Total; sq++ {
					t.piece[s][p][sq] = r.Uint64()
				}
			}
		}
		t.sideBlack = r.Uint64()
		for _, d := range castleDirections {
			t.castle[d] = r.Uint64()
		}
		for x := range t.enPassant {
			t.enPassant[x] = r.Uint64()
		}
		var p Position
		p.setStartingPosition()
		t.startpos = t.compute(&p)
		zobrist = t
	})
	return zobrist
}

func (t *zobristTable) castleRights(c CastleRights) uint64 {
	var h uint64
	for _, d := range castleDirections {
		if c.IsAllowed(d) {
			h ^= t.castle[d]
		}
	}
	return h
}

// enPassantKey is non-zero only after a double step pawn advance.
func (t *zobristTable) enPassantKey(last Move) uint64 {
	if !last.IsDoubleStep() {
		return 0
	}
	return t.enPassant[last.To.X()]
}

// ComputeHash hashes p from scratch. It must agree with the incrementally maintained p.Hash().
func ComputeHash(p *Position) uint64 {
	return zobristKeys().compute(p)
}

func (t *zobristTable) compute(p *Position) uint64 {
	var h uint64
	for _, s := range Sides {
		for _, pc := range Pieces {
			bm := p.bitmaps[s][pc]
			for bm != 0 {
				h ^= t.piece[s][pc][bm.PopLS1B()]
			}
		}
	}
	if p.turn == SideBlack {
		h ^= t.sideBlack
	}
	h ^= t.castleRights(p.castleRights)
	h ^= t.enPassantKey(p.lastMove)
	return h
}
