package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucidfusion/chess/square"
)

// LoadFEN replaces the position with the one described by fen.
// On error the position is reset to the starting position.
func (p *Position) LoadFEN(fen string) error {
	if err := p.loadFEN(fen); err != nil {
		p.Reset()
		return err
	}
	return nil
}

func (p *Position) loadFEN(fen string) error {
	segments := strings.Split(fen, " ")
	if len(segments) != 6 {
		return fmt.Errorf("%w: incorrect number of segments", ErrInvalidFEN)
	}

	*p = Position{}
	rows := strings.Split(segments[0], "/")
	if len(rows) != int(square.MaxComponentScalar) {
		return fmt.Errorf("%w: invalid board configuration", ErrInvalidFEN)
	}
	for i, row := range rows {
		y := square.Rank8 - square.Square(i)
		x := square.FileA
		for j := 0; j < len(row); j++ {
			cell := row[j]
			if cell >= '1' && cell <= '8' {
				x += square.Square(cell - '0')
				if x > square.MaxComponentScalar {
					return fmt.Errorf("%w: skip out of bounds on rank %d", ErrInvalidFEN, y+1)
				}
				continue
			}
			s, pc := ParseSymbol(cell)
			if pc == PieceUnknown {
				return fmt.Errorf("%w: unknown symbol '%c'", ErrInvalidFEN, cell)
			}
			if x >= square.MaxComponentScalar {
				return fmt.Errorf("%w: too many cells on rank %d", ErrInvalidFEN, y+1)
			}
			p.bitmaps[s][pc].Set(square.FromXY(x, y))
			x++
		}
		if x != square.MaxComponentScalar {
			return fmt.Errorf("%w: missing cells on rank %d", ErrInvalidFEN, y+1)
		}
	}
	p.bitmaps[SideWhite][pieceAll] = unionOf(p.bitmaps[SideWhite])
	p.bitmaps[SideBlack][pieceAll] = unionOf(p.bitmaps[SideBlack])
	if p.bitmaps[SideWhite][PieceKing].BitCount() != 1 || p.bitmaps[SideBlack][PieceKing].BitCount() != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	turn, err := ParseSide(segments[1])
	if err != nil {
		return err
	}
	p.turn = turn

	if len(segments[2]) == 0 || len(segments[2]) > 4 {
		return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
	}
crLoop:
	for i, e := range segments[2] {
		switch e {
		case 'K':
			p.castleRights.Set(CastleDirectionWhiteRight, true)
		case 'k':
			p.castleRights.Set(CastleDirectionBlackRight, true)
		case 'Q':
			p.castleRights.Set(CastleDirectionWhiteLeft, true)
		case 'q':
			p.castleRights.Set(CastleDirectionBlackLeft, true)
		default:
			if i == 0 && e == '-' && len(segments[2]) == 1 {
				break crLoop
			}
			return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
		}
	}

	if segments[3] != "-" {
		target, err := square.Parse(segments[3])
		if err != nil {
			return fmt.Errorf("%w: invalid enpassant position: %v", ErrInvalidFEN, err)
		}
		last, err := p.doubleStepInto(target)
		if err != nil {
			return err
		}
		p.lastMove = last
	}

	halfMoveClock, err := strconv.ParseUint(segments[4], 10, 8)
	if err != nil {
		return fmt.Errorf("%w: invalid half move clock", ErrInvalidFEN)
	}
	p.halfMoveClock = uint8(halfMoveClock)

	fullMoveClock, err := strconv.ParseUint(segments[5], 10, 15)
	if err != nil {
		return fmt.Errorf("%w: invalid full move clock", ErrInvalidFEN)
	}
	if fullMoveClock == 0 {
		fullMoveClock = 1
	}
	p.ply = uint16(fullMoveClock-1) * 2
	if p.turn == SideBlack {
		p.ply++
	}

	p.hash = ComputeHash(p)
	return nil
}

// doubleStepInto rebuilds the pawn double step that left target as the en passant square.
func (p *Position) doubleStepInto(target square.Square) (Move, error) {
	mover := p.turn.Opposite()
	var from, to square.Square
	switch {
	case mover == SideWhite && target.Y() == square.Rank3:
		from, to = square.FromXY(target.X(), square.Rank2), square.FromXY(target.X(), square.Rank4)
	case mover == SideBlack && target.Y() == square.Rank6:
		from, to = square.FromXY(target.X(), square.Rank7), square.FromXY(target.X(), square.Rank5)
	default:
		return Move{}, fmt.Errorf("%w: enpassant square %s on the wrong rank", ErrInvalidFEN, target)
	}
	if !p.bitmaps[mover][PiecePawn].Has(to) || p.Occupied().Has(target) || p.Occupied().Has(from) {
		return Move{}, fmt.Errorf("%w: no double step pawn behind %s", ErrInvalidFEN, target)
	}
	return Move{From: from, To: to, Piece: PiecePawn, Flags: FlagDoubleStep}, nil
}

// FEN serializes the position. The en passant field is derived from the last move.
func (p *Position) FEN() string {
	builder := strings.Builder{}
	for y := square.Rank8; y >= square.Rank1; y-- {
		skip := 0
		for x := square.FileA; x <= square.FileH; x++ {
			s, pc := p.GetSquare(square.FromXY(x, y))
			if pc == PieceUnknown {
				skip++
				continue
			}
			if skip != 0 {
				_ = builder.WriteByte(byte('0' + skip))
				skip = 0
			}
			_, _ = builder.WriteString(pc.SymbolFEN(s))
		}
		if skip != 0 {
			_ = builder.WriteByte(byte('0' + skip))
		}
		if y > square.Rank1 {
			_ = builder.WriteByte('/')
		}
	}

	_ = builder.WriteByte(' ')
	_, _ = builder.WriteString(p.turn.Symbol())
	_ = builder.WriteByte(' ')

	_, _ = builder.WriteString(p.castleRights.String())
	_ = builder.WriteByte(' ')

	if last := p.lastMove; last.IsDoubleStep() {
		_, _ = builder.WriteString(square.FromXY(last.To.X(), (last.From.Y()+last.To.Y())/2).Notation())
	} else {
		_ = builder.WriteByte('-')
	}

	_, _ = builder.WriteString(fmt.Sprintf(" %d %d", p.halfMoveClock, p.FullMoveClock()))
	return builder.String()
}
