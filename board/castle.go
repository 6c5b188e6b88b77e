package board

import "github.com/lucidfusion/chess/square"

type CastleDirection uint8

const (
	CastleDirectionUnknown CastleDirection = iota
	CastleDirectionWhiteRight
	CastleDirectionWhiteLeft
	CastleDirectionBlackRight
	CastleDirectionBlackLeft
)

var castleDirections = [4]CastleDirection{
	CastleDirectionWhiteRight,
	CastleDirectionWhiteLeft,
	CastleDirectionBlackRight,
	CastleDirectionBlackLeft,
}

var (
	maskCastleRights = [4 + 1]CastleRights{
		CastleDirectionWhiteRight: 0b1000,
		CastleDirectionWhiteLeft:  0b0100,
		CastleDirectionBlackRight: 0b0010,
		CastleDirectionBlackLeft:  0b0001,
	}

	// castleRightsKept[sq] is cleared from the rights whenever a move leaves or lands on sq.
	castleRightsKept [square.Total]CastleRights

	// posCastling holds the king and rook hops of each castle.
	posCastling = [4 + 1][6 + 1][2]square.Square{
		CastleDirectionWhiteRight: {
			PieceKing: {square.E1, square.G1},
			PieceRook: {square.H1, square.F1},
		},
		CastleDirectionWhiteLeft: {
			PieceKing: {square.E1, square.C1},
			PieceRook: {square.A1, square.D1},
		},
		CastleDirectionBlackRight: {
			PieceKing: {square.E8, square.G8},
			PieceRook: {square.H8, square.F8},
		},
		CastleDirectionBlackLeft: {
			PieceKing: {square.E8, square.C8},
			PieceRook: {square.A8, square.D8},
		},
	}

	// maskCastlingEmpty must be unoccupied, maskCastlingSafe must not be attacked.
	maskCastlingEmpty [4 + 1]Bitmap
	maskCastlingSafe  [4 + 1]Bitmap
)

func init() {
	for sq := range castleRightsKept {
		castleRightsKept[sq] = castleRightsAll
	}
	castleRightsKept[square.E1] &^= maskCastleRights[CastleDirectionWhiteRight] | maskCastleRights[CastleDirectionWhiteLeft]
	castleRightsKept[square.H1] &^= maskCastleRights[CastleDirectionWhiteRight]
	castleRightsKept[square.A1] &^= maskCastleRights[CastleDirectionWhiteLeft]
	castleRightsKept[square.E8] &^= maskCastleRights[CastleDirectionBlackRight] | maskCastleRights[CastleDirectionBlackLeft]
	castleRightsKept[square.H8] &^= maskCastleRights[CastleDirectionBlackRight]
	castleRightsKept[square.A8] &^= maskCastleRights[CastleDirectionBlackLeft]

	maskCastlingEmpty = [4 + 1]Bitmap{
		CastleDirectionWhiteRight: squares(square.F1, square.G1),
		CastleDirectionWhiteLeft:  squares(square.B1, square.C1, square.D1),
		CastleDirectionBlackRight: squares(square.F8, square.G8),
		CastleDirectionBlackLeft:  squares(square.B8, square.C8, square.D8),
	}
	maskCastlingSafe = [4 + 1]Bitmap{
		CastleDirectionWhiteRight: squares(square.E1, square.F1, square.G1),
		CastleDirectionWhiteLeft:  squares(square.E1, square.D1, square.C1),
		CastleDirectionBlackRight: squares(square.E8, square.F8, square.G8),
		CastleDirectionBlackLeft:  squares(square.E8, square.D8, square.C8),
	}
}

func (d CastleDirection) String() string {
	switch d {
	case CastleDirectionWhiteRight:
		return "White 0-0"
	case CastleDirectionWhiteLeft:
		return "White 0-0-0"
	case CastleDirectionBlackRight:
		return "Black 0-0"
	case CastleDirectionBlackLeft:
		return "Black 0-0-0"
	default:
		return ""
	}
}

func (d CastleDirection) IsWhite() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionWhiteLeft
}

func (d CastleDirection) IsRight() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionBlackRight
}

// castleDirectionOf resolves the castle a king hop from -> to performs.
func castleDirectionOf(from, to square.Square) CastleDirection {
	for _, d := range castleDirections {
		if posCastling[d][PieceKing][0] == from && posCastling[d][PieceKing][1] == to {
			return d
		}
	}
	return CastleDirectionUnknown
}

// CastleRights holds one bit per castle still available.
type CastleRights uint8

const castleRightsAll CastleRights = 0b1111

func (c *CastleRights) Set(d CastleDirection, allow bool) {
	if allow {
		*c |= maskCastleRights[d]
	} else {
		*c &^= maskCastleRights[d]
	}
}

func (c CastleRights) IsAllowed(d CastleDirection) bool {
	return c&maskCastleRights[d] != 0
}

func (c CastleRights) IsSideAllowed(s Side) bool {
	if s == SideWhite {
		return c&(maskCastleRights[CastleDirectionWhiteLeft]|maskCastleRights[CastleDirectionWhiteRight]) != 0
	}
	return c&(maskCastleRights[CastleDirectionBlackLeft]|maskCastleRights[CastleDirectionBlackRight]) != 0
}

// String returns the FEN castling field, "-" when no castle is available.
func (c CastleRights) String() string {
	if c == 0 {
		return "-"
	}
	var b []byte
	for i, sym := range []byte("KQkq") {
		if c.IsAllowed(castleDirections[i]) {
			b = append(b, sym)
		}
	}
	return string(b)
}
