package board

import (
	"errors"
	"fmt"

	"github.com/lucidfusion/chess/square"
)

const (
	DefaultStartingPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

var (
	ErrInvalidFEN       = errors.New("invalid fen")
	ErrInvalidByteBoard = errors.New("invalid byteboard")
	ErrInvalidMove      = errors.New("invalid move notation")
	ErrIllegalMove      = errors.New("illegal move")

	// Debug turns internal consistency checks into panics.
	Debug = false

	initialBitmaps = [2 + 1][6 + 1]Bitmap{
		SideWhite: {
			PiecePawn:   0x_00_00_00_00_00_00_FF_00,
			PieceKnight: 0x_00_00_00_00_00_00_00_42,
			PieceBishop: 0x_00_00_00_00_00_00_00_24,
			PieceRook:   0x_00_00_00_00_00_00_00_81,
			PieceQueen:  0x_00_00_00_00_00_00_00_08,
			PieceKing:   0x_00_00_00_00_00_00_00_10,
		},
		SideBlack: {
			PiecePawn:   0x_00_FF_00_00_00_00_00_00,
			PieceKnight: 0x_42_00_00_00_00_00_00_00,
			PieceBishop: 0x_24_00_00_00_00_00_00_00,
			PieceRook:   0x_81_00_00_00_00_00_00_00,
			PieceQueen:  0x_08_00_00_00_00_00_00_00,
			PieceKing:   0x_10_00_00_00_00_00_00_00,
		},
	}
)

// Position is a value type: copying it forks the game without sharing state.
type Position struct {
	// bitmaps[s][pieceAll] is the union of the six piece bitmaps of s
	bitmaps [2 + 1][6 + 1]Bitmap

	turn          Side
	castleRights  CastleRights
	halfMoveClock uint8
	ply           uint16
	lastMove      Move
	hash          uint64
}

type positionConfig struct {
	fen          string
	byteBoard    string
	hasByteBoard bool
}

type PositionOption func(*positionConfig)

func WithFEN(fen string) PositionOption {
	return func(cfg *positionConfig) {
		cfg.fen = fen
	}
}

// WithByteBoard loads an 8x8 '-'/letter grid. Castle rights and clocks are defaulted.
func WithByteBoard(b string) PositionOption {
	return func(cfg *positionConfig) {
		cfg.byteBoard = b
		cfg.hasByteBoard = true
	}
}

func NewPosition(opts ...PositionOption) (*Position, error) {
	cfg := &positionConfig{fen: DefaultStartingPositionFEN}
	for _, f := range opts {
		f(cfg)
	}
	p := &Position{}
	p.Reset()
	if cfg.hasByteBoard {
		if err := p.LoadByteBoard(cfg.byteBoard); err != nil {
			return nil, err
		}
		return p, nil
	}
	if err := p.LoadFEN(cfg.fen); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset restores the standard starting position.
func (p *Position) Reset() {
	z := zobristKeys()
	p.setStartingPosition()
	p.hash = z.startpos
}

func (p *Position) setStartingPosition() {
	*p = Position{
		bitmaps:      initialBitmaps,
		turn:         SideWhite,
		castleRights: castleRightsAll,
	}
	p.bitmaps[SideWhite][pieceAll] = unionOf(p.bitmaps[SideWhite])
	p.bitmaps[SideBlack][pieceAll] = unionOf(p.bitmaps[SideBlack])
}

func unionOf(bms [6 + 1]Bitmap) Bitmap {
	var u Bitmap
	for _, pc := range Pieces {
		u |= bms[pc]
	}
	return u
}

func (p *Position) Clone() *Position {
	c := *p
	return &c
}

func (p *Position) Turn() Side {
	return p.turn
}

// Ply is the number of half moves played since the start of the game.
func (p *Position) Ply() uint16 {
	return p.ply
}

func (p *Position) FullMoveClock() uint16 {
	return p.ply/2 + 1
}

func (p *Position) HalfMoveClock() uint8 {
	return p.halfMoveClock
}

func (p *Position) CastleRights() CastleRights {
	return p.castleRights
}

func (p *Position) LastMove() Move {
	return p.lastMove
}

func (p *Position) Hash() uint64 {
	return p.hash
}

func (p *Position) GetBitmap(s Side, pc Piece) Bitmap {
	return p.bitmaps[s][pc]
}

func (p *Position) Occupied() Bitmap {
	return p.bitmaps[SideWhite][pieceAll] | p.bitmaps[SideBlack][pieceAll]
}

// Equal compares the board, flags, move counter and last move. The hash is derived and not compared.
func (p *Position) Equal(o *Position) bool {
	return p.bitmaps == o.bitmaps &&
		p.turn == o.turn &&
		p.castleRights == o.castleRights &&
		p.halfMoveClock == o.halfMoveClock &&
		p.ply == o.ply &&
		p.lastMove.IsDoubleStep() == o.lastMove.IsDoubleStep() &&
		(!p.lastMove.IsDoubleStep() || p.lastMove.To == o.lastMove.To)
}

// GetSquare returns the piece on sq, or SideUnknown and PieceUnknown when empty.
func (p *Position) GetSquare(sq square.Square) (Side, Piece) {
	for _, s := range Sides {
		if !p.bitmaps[s][pieceAll].Has(sq) {
			continue
		}
		for _, pc := range Pieces {
			if p.bitmaps[s][pc].Has(sq) {
				return s, pc
			}
		}
	}
	return SideUnknown, PieceUnknown
}

// SetSquare places a piece on sq, replacing whatever stood there.
func (p *Position) SetSquare(sq square.Square, s Side, pc Piece) {
	p.ClearSquare(sq, true, true)
	if pc == PieceUnknown || s == SideUnknown {
		return
	}
	p.put(s, pc, sq)
}

// ClearSquare removes the piece on sq if it belongs to a side selected by white or black,
// and returns what was removed.
func (p *Position) ClearSquare(sq square.Square, white, black bool) (Side, Piece) {
	s, pc := p.GetSquare(sq)
	if pc == PieceUnknown || (s == SideWhite && !white) || (s == SideBlack && !black) {
		return SideUnknown, PieceUnknown
	}
	p.clear(s, pc, sq)
	return s, pc
}

func (p *Position) put(s Side, pc Piece, sq square.Square) {
	assert(!p.Occupied().Has(sq), "put on occupied square %s", sq)
	p.bitmaps[s][pc].Set(sq)
	p.bitmaps[s][pieceAll].Set(sq)
	p.hash ^= zobristKeys().piece[s][pc][sq]
}

func (p *Position) clear(s Side, pc Piece, sq square.Square) {
	assert(p.bitmaps[s][pc].Has(sq), "clear of missing %s %s on %s", s, pc, sq)
	p.bitmaps[s][pc].Unset(sq)
	p.bitmaps[s][pieceAll].Unset(sq)
	p.hash ^= zobristKeys().piece[s][pc][sq]
}

func assert(cond bool, format string, a ...any) {
	if Debug && !cond {
		panic(fmt.Sprintf("board: "+format, a...))
	}
}
