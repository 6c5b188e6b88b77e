package board

// State classifies a position from the side to move's point of view.
type State uint8

const (
	StateUnknown State = iota
	StateRunning
	StateCheckWhite
	StateCheckBlack
	// StateCheckmateWhite means white is mated.
	StateCheckmateWhite
	StateCheckmateBlack
	// StateStalemate means the side to move has no legal move and is not in check.
	StateStalemate
	// StateFiftyMoveViolated means a hundred plies went by without a capture or pawn move.
	StateFiftyMoveViolated
)

var stateNames = [...]string{
	StateUnknown:           "unknown",
	StateRunning:           "running",
	StateCheckWhite:        "white in check",
	StateCheckBlack:        "black in check",
	StateCheckmateWhite:    "white checkmated",
	StateCheckmateBlack:    "black checkmated",
	StateStalemate:         "stalemate",
	StateFiftyMoveViolated: "fifty-move rule",
}

// fiftyMoveRule is counted in half moves.
const fiftyMoveRule = 100

// State classifies the position for the side to move.
func (p *Position) State() State {
	s := p.turn
	checked := p.IsKingChecked(s)
	if !p.HasLegalMove(s) {
		switch {
		case !checked:
			return StateStalemate
		case s == SideWhite:
			return StateCheckmateWhite
		default:
			return StateCheckmateBlack
		}
	}
	if p.halfMoveClock >= fiftyMoveRule {
		return StateFiftyMoveViolated
	}
	switch {
	case checked && s == SideWhite:
		return StateCheckWhite
	case checked:
		return StateCheckBlack
	default:
		return StateRunning
	}
}

func (s State) IsRunning() bool {
	switch s {
	case StateRunning, StateCheckWhite, StateCheckBlack:
		return true
	default:
		return false
	}
}

func (s State) IsCheck() bool {
	switch s {
	case StateCheckWhite, StateCheckBlack:
		return true
	default:
		return false
	}
}

func (s State) IsCheckmate() bool {
	switch s {
	case StateCheckmateWhite, StateCheckmateBlack:
		return true
	default:
		return false
	}
}

func (s State) IsDraw() bool {
	switch s {
	case StateStalemate, StateFiftyMoveViolated:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return ""
	}
	return stateNames[s]
}
