package board

type Piece uint8

const (
	PieceUnknown Piece = iota
	PiecePawn
	PieceKnight
	PieceBishop
	PieceRook
	PieceQueen
	PieceKing
)

// pieceAll indexes the union bitmap of a side. It shares its slot with PieceUnknown.
const pieceAll = PieceUnknown

var (
	// Pieces lists every piece type in ascending value.
	Pieces = [6]Piece{PiecePawn, PieceKnight, PieceBishop, PieceRook, PieceQueen, PieceKing}

	// PawnPromoteCandidates represents the candidates for pawn promotion, strongest first.
	PawnPromoteCandidates = [4]Piece{PieceQueen, PieceRook, PieceBishop, PieceKnight}
)

func (p Piece) String() string {
	return p.Name()
}

func (p Piece) Name() string {
	switch p {
	case PiecePawn:
		return "Pawn"
	case PieceKnight:
		return "Knight"
	case PieceBishop:
		return "Bishop"
	case PieceRook:
		return "Rook"
	case PieceQueen:
		return "Queen"
	case PieceKing:
		return "King"
	default:
		return ""
	}
}

func (p Piece) SymbolAlgebra(s Side) string {
	if p == PiecePawn {
		return ""
	}
	return p.SymbolFEN(s)
}

func (p Piece) SymbolFEN(s Side) string {
	var sym rune
	switch p {
	case PiecePawn:
		sym = 'P'
	case PieceKnight:
		sym = 'N'
	case PieceBishop:
		sym = 'B'
	case PieceRook:
		sym = 'R'
	case PieceQueen:
		sym = 'Q'
	case PieceKing:
		sym = 'K'
	default:
		return ""
	}
	if s == SideBlack {
		sym |= 0x20 // lowercase is +32 uppercase
	}
	return string(sym)
}

// ParseSymbol is the inverse of SymbolFEN.
func ParseSymbol(sym byte) (Side, Piece) {
	s := SideWhite
	if sym >= 'a' && sym <= 'z' {
		s = SideBlack
		sym &^= 0x20
	}
	switch sym {
	case 'P':
		return s, PiecePawn
	case 'N':
		return s, PieceKnight
	case 'B':
		return s, PieceBishop
	case 'R':
		return s, PieceRook
	case 'Q':
		return s, PieceQueen
	case 'K':
		return s, PieceKing
	default:
		return SideUnknown, PieceUnknown
	}
}

var unicodeSymbols = [3][6 + 1]string{
	SideWhite: {PiecePawn: "♙", PieceKnight: "♘", PieceBishop: "♗", PieceRook: "♖", PieceQueen: "♕", PieceKing: "♔"},
	SideBlack: {PiecePawn: "♟", PieceKnight: "♞", PieceBishop: "♝", PieceRook: "♜", PieceQueen: "♛", PieceKing: "♚"},
}

// SymbolUnicode returns the chess glyph of p. invert swaps the colours for dark backgrounds.
func (p Piece) SymbolUnicode(s Side, invert bool) string {
	if invert {
		s = s.Opposite()
	}
	if int(s) >= len(unicodeSymbols) || int(p) >= len(unicodeSymbols[s]) {
		return ""
	}
	return unicodeSymbols[s][p]
}
