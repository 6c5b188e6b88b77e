package board

import (
	"github.com/lucidfusion/chess/square"
)

// MoveFlag marks the special properties of a move.
type MoveFlag uint8

const (
	FlagDoubleStep MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastle
	FlagCheck
	// FlagKiller is reserved for move ordering and never set by the generator.
	FlagKiller
)

// PackedMove layout, from the least significant bit:
//
//	from:6 to:6 piece:3 captured:3 promotion:3 flags:5
type PackedMove uint32

const (
	packFromShift      = 0
	packToShift        = 6
	packPieceShift     = 12
	packCapturedShift  = 15
	packPromotionShift = 18
	packFlagShift      = 21

	packSquareMask = 0x3F
	packPieceMask  = 0x7
	packFlagMask   = 0x1F
)

type Move struct {
	From, To  square.Square
	Piece     Piece
	Captured  Piece
	Promotion Piece
	Flags     MoveFlag
}

func (m Move) Pack() PackedMove {
	return PackedMove(uint32(m.From)&packSquareMask<<packFromShift |
		uint32(m.To)&packSquareMask<<packToShift |
		uint32(m.Piece)&packPieceMask<<packPieceShift |
		uint32(m.Captured)&packPieceMask<<packCapturedShift |
		uint32(m.Promotion)&packPieceMask<<packPromotionShift |
		uint32(m.Flags)&packFlagMask<<packFlagShift)
}

func (p PackedMove) Unpack() Move {
	return Move{
		From:      square.Square(uint32(p) >> packFromShift & packSquareMask),
		To:        square.Square(uint32(p) >> packToShift & packSquareMask),
		Piece:     Piece(uint32(p) >> packPieceShift & packPieceMask),
		Captured:  Piece(uint32(p) >> packCapturedShift & packPieceMask),
		Promotion: Piece(uint32(p) >> packPromotionShift & packPieceMask),
		Flags:     MoveFlag(uint32(p) >> packFlagShift & packFlagMask),
	}
}

func (m Move) IsNull() bool {
	return m.Piece == PieceUnknown
}

// Equals compares the squares, piece and promotion. Annotation flags are ignored.
func (m Move) Equals(n Move) bool {
	return m.From == n.From && m.To == n.To && m.Piece == n.Piece && m.Promotion == n.Promotion
}

func (m Move) IsCapture() bool {
	return m.Captured != PieceUnknown
}

func (m Move) IsDoubleStep() bool {
	return m.Flags&FlagDoubleStep != 0
}

func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

func (m Move) IsCastle() bool {
	return m.Flags&FlagCastle != 0
}

func (m Move) IsCheck() bool {
	return m.Flags&FlagCheck != 0
}

func (m Move) IsPromote() bool {
	return m.Promotion != PieceUnknown
}

// CaptureSquare is where the captured piece stands; it differs from To only for en passant.
func (m Move) CaptureSquare() square.Square {
	if !m.IsEnPassant() {
		return m.To
	}
	return square.FromXY(m.To.X(), m.From.Y())
}

func (m Move) String() string {
	return m.Algebra()
}

func (m Move) Algebra() string {
	if m.IsCastle() {
		if m.To.X() == square.FileG {
			return "0-0"
		}
		return "0-0-0"
	}
	nt := m.Piece.SymbolAlgebra(SideWhite) // SideWhite because it returns capital symbols
	if m.IsCapture() {
		if m.Piece == PiecePawn {
			nt += m.From.X().NotationComponentX()
		} else {
			nt += m.From.Notation()
		}
		nt += "x"
	}
	nt += m.To.Notation()
	if m.IsPromote() {
		nt += m.Promotion.SymbolAlgebra(SideWhite)
	}
	if m.IsCheck() {
		nt += "+"
	}
	if m.IsEnPassant() {
		nt += " e.p."
	}
	return nt
}

// UCI returns the long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	return m.From.Notation() + m.To.Notation() + m.Promotion.SymbolAlgebra(SideBlack)
}
