package board

import "fmt"

type Side uint8

const (
	SideUnknown Side = iota
	SideWhite
	SideBlack
)

// Sides lists both colours, white first.
var Sides = [2]Side{SideWhite, SideBlack}

var sideNames = [...]string{
	SideWhite: "White",
	SideBlack: "Black",
}

func (s Side) String() string {
	if int(s) >= len(sideNames) {
		return ""
	}
	return sideNames[s]
}

func (s Side) Opposite() Side {
	switch s {
	case SideWhite:
		return SideBlack
	case SideBlack:
		return SideWhite
	default:
		return SideUnknown
	}
}

// Symbol is the FEN side to move field.
func (s Side) Symbol() string {
	if s == SideBlack {
		return "b"
	}
	return "w"
}

// ParseSide is the inverse of Symbol.
func ParseSide(sym string) (Side, error) {
	switch sym {
	case "w":
		return SideWhite, nil
	case "b":
		return SideBlack, nil
	default:
		return SideUnknown, fmt.Errorf("%w: side %q", ErrInvalidFEN, sym)
	}
}
