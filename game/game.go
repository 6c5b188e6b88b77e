package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/square"
)

var ErrNotYourMove = errors.New("not your move")

var DefaultLogger = func(a ...any) {
	fmt.Println(a...)
}

// Collaborator is the outside world of a game: the connection moves are sent through,
// and the view that redraws on change. Both are called without the game lock held.
type Collaborator interface {
	// MakeMove sends a move, e.g. "Pe2e4", to the server.
	MakeMove(move string) error
	// GameUpdated reports a new displayed position. from and to name the move to animate,
	// square.None when there is nothing to animate.
	GameUpdated(g *Game, from, to square.Square)
}

type Config struct {
	// Player is the local player's name, matched against the names sent in updates.
	Player       string
	Collaborator Collaborator
	Logger       func(...any)
}

// Record is one ply of history, with the position after the move.
type Record struct {
	Ply      uint16
	Move     board.Move
	Capture  bool
	Text     string
	Notation string
	Position board.Position
}

// Premove is a move queued while waiting for the opponent.
type Premove struct {
	Piece    board.Piece
	From, To square.Square
	Text     string
}

type Game struct {
	mu           sync.Mutex
	player       string
	collaborator Collaborator
	logger       func(...any)
	now          func() time.Time

	number       int
	active       bool
	result       string
	white, black string
	whiteTime    time.Duration
	blackTime    time.Duration
	updated      time.Time
	position     *board.Position
	previous     *board.Position
	history      []Record
	historyIndex int
	premoves     []Premove
}

func New(cfg Config) *Game {
	if cfg.Logger == nil {
		cfg.Logger = DefaultLogger
	}
	if cfg.Collaborator == nil {
		cfg.Collaborator = nopCollaborator{}
	}
	p, _ := board.NewPosition()
	return &Game{
		player:       cfg.Player,
		collaborator: cfg.Collaborator,
		logger:       cfg.Logger,
		now:          time.Now,
		position:     p,
	}
}

// ApplyUpdate replaces the position with a server snapshot and records the move that led to it.
// Once it is the local player's turn the oldest premove is sent.
// An unknown move still updates the position but is left out of the history.
func (g *Game) ApplyUpdate(u Update) error {
	fen, err := u.FEN()
	if err != nil {
		return err
	}
	p, err := board.NewPosition(
		board.WithFEN(fen),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	g.mu.Lock()
	if g.number != u.GameNumber {
		g.history, g.premoves, g.result = nil, nil, ""
	}
	prev := g.position
	g.number = u.GameNumber
	g.active = true
	g.updated = g.now()
	g.historyIndex = 0
	g.white, g.black = u.White, u.Black
	g.whiteTime, g.blackTime = u.WhiteTime, u.BlackTime
	g.position = p

	ply := p.Ply()
	newMove := len(g.history) == 0 || g.history[len(g.history)-1].Ply != ply
	mv, err := parseServerMove(u.Move, p.Turn().Opposite())
	if err != nil {
		g.mu.Unlock()
		g.logger("game", u.GameNumber, err)
		return err
	}

	if ply > 0 {
		rec := Record{
			Ply:      ply,
			Move:     mv,
			Capture:  strings.Contains(u.Notation, "x"),
			Text:     u.Move,
			Notation: u.Notation,
			Position: *p.Clone(),
		}
		if rec.Capture && !mv.IsNull() && prev.Ply()+1 == ply {
			if _, rec.Move.Captured = prev.GetSquare(mv.To); rec.Move.Captured == board.PieceUnknown && mv.Piece == board.PiecePawn {
				rec.Move.Captured = board.PiecePawn
				rec.Move.Flags |= board.FlagEnPassant
			}
		}
		if newMove {
			g.previous = prev
			g.history = append(g.history, rec)
		} else {
			g.history[len(g.history)-1] = rec
		}
	}

	color := g.color()
	myMoveNow := color != board.SideUnknown && p.Turn() == color
	from, to := square.None, square.None
	if newMove && !mv.IsNull() && (color == board.SideUnknown || myMoveNow) {
		from, to = mv.From, mv.To
	}
	var send string
	if myMoveNow && len(g.premoves) > 0 {
		send = g.premoves[0].Text
		g.premoves = g.premoves[1:]
	}
	g.mu.Unlock()

	g.collaborator.GameUpdated(g, from, to)
	if send != "" {
		if err := g.collaborator.MakeMove(send); err != nil {
			g.logger("game", u.GameNumber, "premove", send, err)
		}
	}
	return nil
}

// MakeMove sends a local move, or queues it as a premove when it is the opponent's turn.
// The piece must belong to the local player on the displayed board.
func (g *Game) MakeMove(pc board.Piece, from, to square.Square) error {
	if !from.Valid() || !to.Valid() || from == to {
		return fmt.Errorf("%w: %s-%s", board.ErrIllegalMove, from, to)
	}

	g.mu.Lock()
	color := g.color()
	if color == board.SideUnknown {
		g.mu.Unlock()
		return fmt.Errorf("%w: not playing game %d", ErrNotYourMove, g.number)
	}
	if s, got := g.displayed().GetSquare(from); s != color || got != pc {
		g.mu.Unlock()
		return fmt.Errorf("%w: no %s %s on %s", ErrNotYourMove, color, pc, from)
	}

	text := pc.SymbolFEN(board.SideWhite) + from.Notation() + to.Notation()
	if g.position.Turn() != color {
		g.premoves = append(g.premoves, Premove{Piece: pc, From: from, To: to, Text: text})
		g.historyIndex = 0
		g.mu.Unlock()
		g.collaborator.GameUpdated(g, square.None, square.None)
		return nil
	}
	g.mu.Unlock()
	return g.collaborator.MakeMove(text)
}

// UndoPremove drops the newest premove. It reports whether there was one.
func (g *Game) UndoPremove() bool {
	g.mu.Lock()
	g.historyIndex = 0
	if len(g.premoves) == 0 {
		g.mu.Unlock()
		return false
	}
	g.premoves = g.premoves[:len(g.premoves)-1]
	g.mu.Unlock()

	g.collaborator.GameUpdated(g, square.None, square.None)
	return true
}

// Walk moves the displayed position one ply back or forward through the history.
// It reports whether the displayed position changed.
func (g *Game) Walk(backwards bool) bool {
	g.mu.Lock()
	if len(g.history) == 0 {
		g.mu.Unlock()
		return false
	}
	last := g.historyIndex
	if backwards {
		g.historyIndex = min(len(g.history)-1, g.historyIndex+1)
	} else {
		g.historyIndex = max(0, g.historyIndex-1)
	}
	if g.historyIndex == last {
		g.mu.Unlock()
		return false
	}
	// Forward replays the move now shown, backward undoes the move no longer shown.
	from, to := square.None, square.None
	if rec := g.history[len(g.history)-1-last]; backwards && !rec.Move.IsNull() {
		from, to = rec.Move.To, rec.Move.From
	}
	if rec := g.history[len(g.history)-1-g.historyIndex]; !backwards && !rec.Move.IsNull() {
		from, to = rec.Move.From, rec.Move.To
	}
	g.mu.Unlock()

	g.collaborator.GameUpdated(g, from, to)
	return true
}

// End marks the game finished with the server's result, e.g. "1-0".
func (g *Game) End(result string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = false
	g.result = result
	g.premoves = nil
}

// Position returns a copy of the displayed position: the history entry being walked,
// or the current position with the premoves laid over it.
func (g *Game) Position() *board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.displayed()
}

func (g *Game) displayed() *board.Position {
	if g.historyIndex > 0 {
		rec := g.history[len(g.history)-1-g.historyIndex]
		return rec.Position.Clone()
	}
	p := g.position.Clone()
	for _, pm := range g.premoves {
		s, _ := p.ClearSquare(pm.From, true, true)
		p.SetSquare(pm.To, s, pm.Piece)
	}
	return p
}

// Current returns a copy of the last position sent by the server.
func (g *Game) Current() *board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position.Clone()
}

// Previous returns a copy of the position before the last recorded move, nil before the first one.
func (g *Game) Previous() *board.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.previous == nil {
		return nil
	}
	return g.previous.Clone()
}

func (g *Game) HistoryLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history)
}

// HistoryAt returns the i-th recorded ply, oldest first.
func (g *Game) HistoryAt(i int) (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i < 0 || i >= len(g.history) {
		return Record{}, false
	}
	return g.history[i], true
}

func (g *Game) Premoves() []Premove {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Premove(nil), g.premoves...)
}

// Clock returns the time left to s. The side to move is charged for the time since the last update.
func (g *Game) Clock(s board.Side) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	left := g.whiteTime
	if s == board.SideBlack {
		left = g.blackTime
	}
	if g.active && g.position.Turn() == s {
		left -= g.now().Sub(g.updated)
	}
	return max(left, 0)
}

func (g *Game) Number() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.number
}

func (g *Game) Players() (white, black string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.white, g.black
}

func (g *Game) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *Game) Result() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Color is the local player's side, SideUnknown when only observing.
func (g *Game) Color() board.Side {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.color()
}

func (g *Game) color() board.Side {
	switch {
	case g.player == "":
		return board.SideUnknown
	case g.player == g.white:
		return board.SideWhite
	case g.player == g.black:
		return board.SideBlack
	default:
		return board.SideUnknown
	}
}

type nopCollaborator struct{}

func (nopCollaborator) MakeMove(string) error { return nil }
func (nopCollaborator) GameUpdated(*Game, square.Square, square.Square) {}
