package board

import (
	"fmt"

	"github.com/lucidfusion/chess/square"
)

// ApplyValidatedMove plays a move known to be legal, typically one returned by GenerateMoves.
func (p *Position) ApplyValidatedMove(mv Move) {
	p.applyMove(p.turn, mv)
}

// applyMove plays mv for side s and keeps the hash in step with every change.
func (p *Position) applyMove(s Side, mv Move) {
	z := zobristKeys()
	opponent := s.Opposite()

	p.hash ^= z.enPassantKey(p.lastMove)
	p.hash ^= z.castleRights(p.castleRights)

	p.clear(s, mv.Piece, mv.From)
	if mv.IsCapture() {
		p.clear(opponent, mv.Captured, mv.CaptureSquare())
	}
	if mv.IsCastle() {
		hops := posCastling[castleDirectionOf(mv.From, mv.To)][PieceRook]
		p.clear(s, PieceRook, hops[0])
		p.put(s, PieceRook, hops[1])
	}
	placed := mv.Piece
	if mv.IsPromote() {
		placed = mv.Promotion
	}
	p.put(s, placed, mv.To)
	assert(p.bitmaps[s][placed].Has(mv.To), "%s %s missing on %s after %s", s, placed, mv.To, mv.UCI())

	p.ply++
	if p.turn != opponent {
		p.turn = opponent
		p.hash ^= z.sideBlack
	}
	p.castleRights &= castleRightsKept[mv.From] & castleRightsKept[mv.To]
	if mv.Piece == PiecePawn || mv.IsCapture() {
		p.halfMoveClock = 0
	} else if p.halfMoveClock < 255 {
		p.halfMoveClock++
	}
	p.lastMove = mv

	p.hash ^= z.castleRights(p.castleRights)
	p.hash ^= z.enPassantKey(p.lastMove)
}

// PlayerMakeMove validates a move built from user input and plays it only if it is legal.
// A missing promotion piece on the last rank defaults to a queen.
// On error the position is left untouched.
func (p *Position) PlayerMakeMove(pc Piece, from, to square.Square, promotion Piece) (Move, error) {
	s := p.turn
	if !from.Valid() || !to.Valid() {
		return Move{}, fmt.Errorf("%w: square out of board", ErrIllegalMove)
	}
	if side, got := p.GetSquare(from); side != s || got != pc {
		return Move{}, fmt.Errorf("%w: no %s %s on %s", ErrIllegalMove, s, pc, from)
	}
	if !p.PieceMoves(pc, from, s).Has(to) {
		return Move{}, fmt.Errorf("%w: %s cannot reach %s from %s", ErrIllegalMove, pc, to, from)
	}

	mv := Move{From: from, To: to, Piece: pc}
	_, mv.Captured = p.GetSquare(to)
	switch pc {
	case PiecePawn:
		if p.PawnEnPassant(from, s).Has(to) {
			mv.Captured = PiecePawn
			mv.Flags |= FlagEnPassant
		}
		if to-from == 16 || from-to == 16 {
			mv.Flags |= FlagDoubleStep
		}
		if to.Y() == square.Rank1 || to.Y() == square.Rank8 {
			if promotion == PieceUnknown {
				promotion = PieceQueen
			}
			if promotion == PiecePawn || promotion == PieceKing {
				return Move{}, fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, promotion)
			}
			mv.Promotion = promotion
		} else if promotion != PieceUnknown {
			return Move{}, fmt.Errorf("%w: promotion before last rank", ErrIllegalMove)
		}
	case PieceKing:
		if castleDirectionOf(from, to) != CastleDirectionUnknown && p.castleMoves(from, s).Has(to) {
			mv.Flags |= FlagCastle
		}
	}

	child := *p
	child.applyMove(s, mv)
	if child.IsKingChecked(s) {
		return Move{}, fmt.Errorf("%w: %s leaves king in check", ErrIllegalMove, mv.UCI())
	}
	if child.IsKingChecked(s.Opposite()) {
		mv.Flags |= FlagCheck
		child.lastMove = mv
	}
	*p = child
	return mv, nil
}

// ParseMove resolves a long algebraic move, e.g. "e2e4" or "a7a8q", against the legal moves of the side to move.
func (p *Position) ParseMove(text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	from, err := square.Parse(text[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, text, err)
	}
	to, err := square.Parse(text[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, text, err)
	}
	promotion := PieceUnknown
	if len(text) == 5 {
		if _, promotion = ParseSymbol(text[4]); promotion == PieceUnknown {
			return Move{}, fmt.Errorf("%w: %q: unknown promotion", ErrInvalidMove, text)
		}
	}
	for _, mv := range p.GenerateMoves(p.turn) {
		if mv.From == from && mv.To == to && mv.Promotion == promotion {
			return mv, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, text)
}
