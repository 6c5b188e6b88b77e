package board

import "github.com/lucidfusion/chess/square"

func (t *attackTables) rookAttacks(sq square.Square, occupied Bitmap) Bitmap {
	m := &t.rook[sq]
	return m.Attacks[m.GetIndex(occupied)]
}

func (t *attackTables) bishopAttacks(sq square.Square, occupied Bitmap) Bitmap {
	m := &t.bishop[sq]
	return m.Attacks[m.GetIndex(occupied)]
}

// PawnAdvances returns the push destinations of a pawn of s on sq, including the
// two square advance from its starting rank when both squares are empty.
func (p *Position) PawnAdvances(sq square.Square, s Side) Bitmap {
	t := attacks()
	occupied := p.Occupied()
	one := t.pawnAdvance[s][sq] &^ occupied
	if one == 0 {
		return 0
	}
	if (s == SideWhite && sq.Y() == square.Rank2) || (s == SideBlack && sq.Y() == square.Rank7) {
		return one | t.pawnAdvance[s][one.LS1B()]&^occupied
	}
	return one
}

func (p *Position) PawnCaptures(sq square.Square, s Side) Bitmap {
	return attacks().pawnAttack[s][sq] & p.bitmaps[s.Opposite()][pieceAll]
}

// PawnEnPassant returns the en passant destination of a pawn of s on sq. It is
// non-empty only right after an opponent pawn double step landing beside sq.
func (p *Position) PawnEnPassant(sq square.Square, s Side) Bitmap {
	last := p.lastMove
	if !last.IsDoubleStep() || !p.bitmaps[s.Opposite()][PiecePawn].Has(last.To) {
		return 0
	}
	if last.To.Y() != sq.Y() || (last.To.X()-sq.X() != 1 && sq.X()-last.To.X() != 1) {
		return 0
	}
	var bm Bitmap
	bm.Set(square.FromXY(last.To.X(), (last.From.Y()+last.To.Y())/2))
	return bm &^ p.Occupied()
}

func (p *Position) KnightMoves(sq square.Square, s Side) Bitmap {
	return attacks().knight[sq] &^ p.bitmaps[s][pieceAll]
}

func (p *Position) BishopMoves(sq square.Square, s Side) Bitmap {
	return attacks().bishopAttacks(sq, p.Occupied()) &^ p.bitmaps[s][pieceAll]
}

func (p *Position) RookMoves(sq square.Square, s Side) Bitmap {
	return attacks().rookAttacks(sq, p.Occupied()) &^ p.bitmaps[s][pieceAll]
}

func (p *Position) QueenMoves(sq square.Square, s Side) Bitmap {
	return p.RookMoves(sq, s) | p.BishopMoves(sq, s)
}

// KingMoves includes castle destinations.
func (p *Position) KingMoves(sq square.Square, s Side) Bitmap {
	return attacks().king[sq]&^p.bitmaps[s][pieceAll] | p.castleMoves(sq, s)
}

// castleMoves requires the right, an empty path, the rook at home and no attacked square
// between the king origin and destination.
func (p *Position) castleMoves(sq square.Square, s Side) Bitmap {
	if !p.castleRights.IsSideAllowed(s) {
		return 0
	}
	var bm Bitmap
	var opponentAttacks Bitmap
	computed := false
	occupied := p.Occupied()
	for _, d := range castleDirections {
		hops := posCastling[d]
		if !p.castleRights.IsAllowed(d) || d.IsWhite() != (s == SideWhite) || hops[PieceKing][0] != sq {
			continue
		}
		if occupied&maskCastlingEmpty[d] != 0 || !p.bitmaps[s][PieceRook].Has(hops[PieceRook][0]) {
			continue
		}
		if !computed {
			opponentAttacks = p.AllAttacks(s.Opposite())
			computed = true
		}
		if opponentAttacks&maskCastlingSafe[d] == 0 {
			bm.Set(hops[PieceKing][1])
		}
	}
	return bm
}

// PieceMoves returns the pseudo-legal destinations of pc of side s on sq.
func (p *Position) PieceMoves(pc Piece, sq square.Square, s Side) Bitmap {
	switch pc {
	case PiecePawn:
		return p.PawnAdvances(sq, s) | p.PawnCaptures(sq, s) | p.PawnEnPassant(sq, s)
	case PieceKnight:
		return p.KnightMoves(sq, s)
	case PieceBishop:
		return p.BishopMoves(sq, s)
	case PieceRook:
		return p.RookMoves(sq, s)
	case PieceQueen:
		return p.QueenMoves(sq, s)
	case PieceKing:
		return p.KingMoves(sq, s)
	default:
		return 0
	}
}

// AllAttacks returns every square attacked by s, defended own pieces included.
func (p *Position) AllAttacks(s Side) Bitmap {
	t := attacks()
	occupied := p.Occupied()
	pieces := &p.bitmaps[s]

	var attack Bitmap
	if s == SideWhite {
		attack = ShiftNE(pieces[PiecePawn]) | ShiftNW(pieces[PiecePawn])
	} else {
		attack = ShiftSE(pieces[PiecePawn]) | ShiftSW(pieces[PiecePawn])
	}
	for bm := pieces[PieceKnight]; bm != 0; {
		attack |= t.knight[bm.PopLS1B()]
	}
	for bm := pieces[PieceBishop] | pieces[PieceQueen]; bm != 0; {
		attack |= t.bishopAttacks(bm.PopLS1B(), occupied)
	}
	for bm := pieces[PieceRook] | pieces[PieceQueen]; bm != 0; {
		attack |= t.rookAttacks(bm.PopLS1B(), occupied)
	}
	for bm := pieces[PieceKing]; bm != 0; {
		attack |= t.king[bm.PopLS1B()]
	}
	return attack
}

// InCheck reports whether the king of s stands on one of the given attacked squares.
func (p *Position) InCheck(s Side, attacks Bitmap) bool {
	return p.bitmaps[s][PieceKing]&attacks != 0
}

func (p *Position) IsKingChecked(s Side) bool {
	return p.InCheck(s, p.AllAttacks(s.Opposite()))
}
