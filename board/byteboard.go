package board

import (
	"fmt"
	"strings"

	"github.com/lucidfusion/chess/square"
)

const byteBoardEmpty = '-'

// LoadByteBoard replaces the position with an 8x8 grid of '-' and FEN piece letters,
// rank 8 first. Ranks are separated by newlines or any other whitespace.
// The grid carries no metadata: White moves first, clocks start at zero and a castle
// is allowed whenever its king and rook stand on their home squares.
// On error the position is reset to the starting position.
func (p *Position) LoadByteBoard(b string) error {
	if err := p.loadByteBoard(b); err != nil {
		p.Reset()
		return err
	}
	return nil
}

func (p *Position) loadByteBoard(b string) error {
	rows := strings.Fields(b)
	if len(rows) != int(square.MaxComponentScalar) {
		return fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidByteBoard, square.MaxComponentScalar, len(rows))
	}

	*p = Position{turn: SideWhite}
	for i, row := range rows {
		y := square.Rank8 - square.Square(i)
		if len(row) != int(square.MaxComponentScalar) {
			return fmt.Errorf("%w: rank %d has %d cells", ErrInvalidByteBoard, y+1, len(row))
		}
		for x := 0; x < len(row); x++ {
			if row[x] == byteBoardEmpty {
				continue
			}
			s, pc := ParseSymbol(row[x])
			if pc == PieceUnknown {
				return fmt.Errorf("%w: unknown symbol '%c'", ErrInvalidByteBoard, row[x])
			}
			p.bitmaps[s][pc].Set(square.FromXY(square.Square(x), y))
		}
	}
	p.bitmaps[SideWhite][pieceAll] = unionOf(p.bitmaps[SideWhite])
	p.bitmaps[SideBlack][pieceAll] = unionOf(p.bitmaps[SideBlack])

	for _, d := range castleDirections {
		s := SideBlack
		if d.IsWhite() {
			s = SideWhite
		}
		hops := posCastling[d]
		if p.bitmaps[s][PieceKing].Has(hops[PieceKing][0]) && p.bitmaps[s][PieceRook].Has(hops[PieceRook][0]) {
			p.castleRights.Set(d, true)
		}
	}

	p.hash = ComputeHash(p)
	return nil
}

// ByteBoard is the inverse of LoadByteBoard, one newline terminated line per rank.
func (p *Position) ByteBoard() string {
	builder := strings.Builder{}
	for y := square.Rank8; y >= square.Rank1; y-- {
		for x := square.FileA; x <= square.FileH; x++ {
			s, pc := p.GetSquare(square.FromXY(x, y))
			if pc == PieceUnknown {
				_ = builder.WriteByte(byteBoardEmpty)
				continue
			}
			_, _ = builder.WriteString(pc.SymbolFEN(s))
		}
		_ = builder.WriteByte('\n')
	}
	return builder.String()
}
