package square

import (
	"errors"
)

const (
	// MaxComponentScalar is the number of files and ranks on the board.
	MaxComponentScalar Square = 8

	// Total is the number of squares on the board.
	Total = MaxComponentScalar * MaxComponentScalar

	// None is returned when a notation does not name a square.
	None Square = -1
)

var (
	// ErrInvalidNotation represents an invalid notation error.
	ErrInvalidNotation = errors.New("invalid notation")
)

// Square indexes the board in little-endian rank-file order: a1=0, b1=1, ..., h8=63.
type Square int8

const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 8*iota + 0, 8*iota + 1, 8*iota + 2, 8*iota + 3, 8*iota + 4, 8*iota + 5, 8*iota + 6, 8*iota + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8
)

const (
	FileA Square = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Square = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

var names [Total]string

func init() {
	for s := Square(0); s < Total; s++ {
		names[s] = string(rune('a'+s.X())) + string(rune('1'+s.Y()))
	}
}

// Parse returns the square named by n, e.g. "e4". Unknown names yield None.
func Parse(n string) (Square, error) {
	x, y, err := notationToXY(n)
	if err != nil {
		return None, err
	}
	return FromXY(x, y), nil
}

// ID is Parse without the error, for callers that only check the sentinel.
func ID(n string) Square {
	s, _ := Parse(n)
	return s
}

// FromXY returns the square on file x and rank y, or None when off the board.
func FromXY(x, y Square) Square {
	if x < 0 || y < 0 || x >= MaxComponentScalar || y >= MaxComponentScalar {
		return None
	}
	return MaxComponentScalar*y + x
}

func (s Square) String() string {
	return s.Notation()
}

func (s Square) Notation() string {
	if !s.Valid() {
		return ""
	}
	return names[s]
}

func (s Square) Valid() bool {
	return s >= 0 && s < Total
}

// X returns the file, 0 for the a-file.
func (s Square) X() Square {
	return s % MaxComponentScalar
}

// Y returns the rank, 0 for the first rank.
func (s Square) Y() Square {
	return s / MaxComponentScalar
}

func notationToXY(n string) (Square, Square, error) {
	if len(n) != 2 {
		return 0, 0, ErrInvalidNotation
	}
	x, err := notationToX(n[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := notationToY(n[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func notationToX(x byte) (Square, error) {
	if x < 'a' || x > 'h' {
		return 0, ErrInvalidNotation
	}
	return Square(x - 'a'), nil
}

func notationToY(y byte) (Square, error) {
	if y < '1' || y > '8' {
		return 0, ErrInvalidNotation
	}
	return Square(y - '1'), nil
}

func (s Square) NotationComponentX() string {
	if s < 0 || MaxComponentScalar <= s {
		return ""
	}
	return string(rune('a' + s))
}

func (s Square) NotationComponentY() string {
	if s < 0 || MaxComponentScalar <= s {
		return ""
	}
	return string(rune('1' + s))
}
