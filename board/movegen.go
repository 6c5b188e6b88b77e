package board

import "github.com/lucidfusion/chess/square"

// Child is a legal move together with the position it produces.
type Child struct {
	Move     Move
	Position Position
}

// GenerateMoves returns every legal move of s. It is the single source of truth for legality.
func (p *Position) GenerateMoves(s Side) []Move {
	mvs := make([]Move, 0, 48)
	p.generate(s, func(mv Move, _ *Position) {
		mvs = append(mvs, mv)
	})
	return mvs
}

// GenerateChildren is GenerateMoves that also keeps each resulting position.
func (p *Position) GenerateChildren(s Side) []Child {
	children := make([]Child, 0, 48)
	p.generate(s, func(mv Move, child *Position) {
		children = append(children, Child{Move: mv, Position: *child})
	})
	return children
}

// HasLegalMove stops at the first legal move of s.
func (p *Position) HasLegalMove(s Side) bool {
	found := false
	p.generateUntil(s, func(Move, *Position) bool {
		found = true
		return false
	})
	return found
}

func (p *Position) generate(s Side, yield func(Move, *Position)) {
	p.generateUntil(s, func(mv Move, child *Position) bool {
		yield(mv, child)
		return true
	})
}

// generateUntil walks the candidate destinations of every piece of s, plays each
// on a copy and yields the ones that do not leave the king of s attacked.
// It stops once yield returns false.
func (p *Position) generateUntil(s Side, yield func(Move, *Position) bool) {
	opponent := s.Opposite()
	pieces := p.bitmaps[s]
	var child Position

	try := func(mv Move) bool {
		child = *p
		child.applyMove(s, mv)
		if child.InCheck(s, child.AllAttacks(opponent)) {
			return true
		}
		if child.InCheck(opponent, child.AllAttacks(s)) {
			mv.Flags |= FlagCheck
			child.lastMove = mv
		}
		return yield(mv, &child)
	}

	for _, pc := range Pieces {
		for from := pieces[pc]; from != 0; {
			fromSq := from.PopLS1B()
			switch pc {
			case PiecePawn:
				for to := p.PawnAdvances(fromSq, s) | p.PawnCaptures(fromSq, s); to != 0; {
					toSq := to.PopLS1B()
					mv := Move{From: fromSq, To: toSq, Piece: pc}
					_, mv.Captured = p.GetSquare(toSq)
					if toSq-fromSq == 16 || fromSq-toSq == 16 {
						mv.Flags |= FlagDoubleStep
					}
					if toSq.Y() == square.Rank1 || toSq.Y() == square.Rank8 {
						for _, prom := range PawnPromoteCandidates {
							mv.Promotion = prom
							if !try(mv) {
								return
							}
						}
						continue
					}
					if !try(mv) {
						return
					}
				}
				for to := p.PawnEnPassant(fromSq, s); to != 0; {
					mv := Move{From: fromSq, To: to.PopLS1B(), Piece: pc, Captured: PiecePawn, Flags: FlagEnPassant}
					if !try(mv) {
						return
					}
				}
			case PieceKing:
				for to := attacks().king[fromSq] &^ pieces[pieceAll]; to != 0; {
					toSq := to.PopLS1B()
					mv := Move{From: fromSq, To: toSq, Piece: pc}
					_, mv.Captured = p.GetSquare(toSq)
					if !try(mv) {
						return
					}
				}
				for to := p.castleMoves(fromSq, s); to != 0; {
					mv := Move{From: fromSq, To: to.PopLS1B(), Piece: pc, Flags: FlagCastle}
					if !try(mv) {
						return
					}
				}
			default:
				for to := p.PieceMoves(pc, fromSq, s); to != 0; {
					toSq := to.PopLS1B()
					mv := Move{From: fromSq, To: toSq, Piece: pc}
					_, mv.Captured = p.GetSquare(toSq)
					if !try(mv) {
						return
					}
				}
			}
		}
	}
}
