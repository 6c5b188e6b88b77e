package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/square"
)

var (
	ErrInvalidUpdate = errors.New("invalid update")
	ErrUnknownMove   = errors.New("unknown move")
)

const (
	style12Prefix = "<12>"
	style12Fields = 8 + 22
	noDoublePush  = -1
)

// Update is one board snapshot pushed by a chess server.
type Update struct {
	GameNumber int

	// ByteBoard holds 8 whitespace separated rows, rank 8 first, '-' for an empty square.
	ByteBoard      string
	Turn           board.Side
	CastleRights   board.CastleRights
	DoublePushFile int8 // file of the last double step, -1 if none
	HalfMoveClock  uint8

	// MoveNumber is the full move number of the move about to be played.
	MoveNumber uint16
	White      string
	Black      string
	WhiteTime  time.Duration
	BlackTime  time.Duration

	// Move is the last move in server form: "P/e2-e4", "o-o", "o-o-o", "none", with an optional "=Q" suffix.
	Move string

	// Notation is the last move in short algebraic form, e.g. "exd5".
	Notation string
}

// ParseStyle12 decodes a style 12 board line:
//
//	<12> rnbqkbnr pppppppp -------- -------- ----P--- -------- PPPP-PPP RNBQKBNR B 4 1 1 1 1 0 7 Newton Einstein 1 2 12 39 39 119 122 1 P/e2-e4 (0:06) e4 0
func ParseStyle12(line string) (Update, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), style12Prefix))
	if len(fields) < style12Fields {
		return Update{}, fmt.Errorf("%w: %d fields", ErrInvalidUpdate, len(fields))
	}
	rows, args := fields[:8], fields[8:]

	u := Update{
		ByteBoard: strings.Join(rows, "\n"),
		White:     args[8],
		Black:     args[9],
		Move:      args[18],
		Notation:  args[20],
	}
	switch args[0] {
	case "W":
		u.Turn = board.SideWhite
	case "B":
		u.Turn = board.SideBlack
	default:
		return Update{}, fmt.Errorf("%w: side to move %q", ErrInvalidUpdate, args[0])
	}

	ints := make([]int, len(args))
	for _, i := range []int{1, 2, 3, 4, 5, 6, 7, 15, 16, 17} {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return Update{}, fmt.Errorf("%w: field %d: %v", ErrInvalidUpdate, i, err)
		}
		ints[i] = n
	}
	if ints[1] < noDoublePush || ints[1] > int(square.FileH) {
		return Update{}, fmt.Errorf("%w: double push file %d", ErrInvalidUpdate, ints[1])
	}
	if ints[6] < 0 || ints[17] < 1 {
		return Update{}, fmt.Errorf("%w: move counters %d %d", ErrInvalidUpdate, ints[6], ints[17])
	}
	u.DoublePushFile = int8(ints[1])
	u.CastleRights.Set(board.CastleDirectionWhiteRight, ints[2] == 1)
	u.CastleRights.Set(board.CastleDirectionWhiteLeft, ints[3] == 1)
	u.CastleRights.Set(board.CastleDirectionBlackRight, ints[4] == 1)
	u.CastleRights.Set(board.CastleDirectionBlackLeft, ints[5] == 1)
	u.HalfMoveClock = uint8(min(ints[6], 255))
	u.GameNumber = ints[7]
	u.WhiteTime = time.Duration(ints[15]) * time.Second
	u.BlackTime = time.Duration(ints[16]) * time.Second
	u.MoveNumber = uint16(ints[17])
	return u, nil
}

// FEN renders the snapshot as a FEN record.
func (u Update) FEN() (string, error) {
	rows := strings.Fields(u.ByteBoard)
	if len(rows) != int(square.MaxComponentScalar) {
		return "", fmt.Errorf("%w: %d rows", ErrInvalidUpdate, len(rows))
	}

	builder := strings.Builder{}
	for i, row := range rows {
		if len(row) != int(square.MaxComponentScalar) {
			return "", fmt.Errorf("%w: row %q", ErrInvalidUpdate, row)
		}
		skip := 0
		for j := 0; j < len(row); j++ {
			if row[j] == '-' {
				skip++
				continue
			}
			if _, pc := board.ParseSymbol(row[j]); pc == board.PieceUnknown {
				return "", fmt.Errorf("%w: unknown piece %q", ErrInvalidUpdate, row[j])
			}
			if skip != 0 {
				_ = builder.WriteByte(byte('0' + skip))
				skip = 0
			}
			_ = builder.WriteByte(row[j])
		}
		if skip != 0 {
			_ = builder.WriteByte(byte('0' + skip))
		}
		if i < len(rows)-1 {
			_ = builder.WriteByte('/')
		}
	}

	var turn, ep string
	switch u.Turn {
	case board.SideWhite:
		turn = "w"
	case board.SideBlack:
		turn = "b"
	default:
		return "", fmt.Errorf("%w: no side to move", ErrInvalidUpdate)
	}
	ep = "-"
	if u.DoublePushFile >= 0 && u.DoublePushFile <= int8(square.FileH) {
		rank := square.Rank6
		if u.Turn == board.SideBlack {
			rank = square.Rank3
		}
		ep = square.FromXY(square.Square(u.DoublePushFile), rank).Notation()
	}
	return fmt.Sprintf("%s %s %s %s %d %d", builder.String(), turn, u.CastleRights, ep, u.HalfMoveClock, max(u.MoveNumber, 1)), nil
}

// parseServerMove decodes a move played by mover. The null move "none" yields a zero Move.
func parseServerMove(text string, mover board.Side) (board.Move, error) {
	home := square.Rank1
	if mover == board.SideBlack {
		home = square.Rank8
	}
	switch text {
	case "none":
		return board.Move{}, nil
	case "o-o":
		return board.Move{
			From:  square.FromXY(square.FileE, home),
			To:    square.FromXY(square.FileG, home),
			Piece: board.PieceKing,
			Flags: board.FlagCastle,
		}, nil
	case "o-o-o":
		return board.Move{
			From:  square.FromXY(square.FileE, home),
			To:    square.FromXY(square.FileC, home),
			Piece: board.PieceKing,
			Flags: board.FlagCastle,
		}, nil
	}

	if len(text) < 7 || text[1] != '/' || text[4] != '-' {
		return board.Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, text)
	}
	_, pc := board.ParseSymbol(text[0])
	from, errFrom := square.Parse(text[2:4])
	to, errTo := square.Parse(text[5:7])
	if pc == board.PieceUnknown || errFrom != nil || errTo != nil {
		return board.Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, text)
	}
	mv := board.Move{From: from, To: to, Piece: pc}
	if n := len(text); text[n-2] == '=' {
		if _, mv.Promotion = board.ParseSymbol(text[n-1]); mv.Promotion == board.PieceUnknown {
			return board.Move{}, fmt.Errorf("%w: promotion in %q", ErrUnknownMove, text)
		}
	}
	if pc == board.PiecePawn && (to-from == 16 || from-to == 16) {
		mv.Flags |= board.FlagDoubleStep
	}
	return mv, nil
}
