package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lucidfusion/chess/board"
)

const (
	ScoreInfinite = math.MaxFloat64

	// fiftyMoveRule is counted in half moves.
	fiftyMoveRule = 100
)

var ErrNoMove = errors.New("no legal move")

func DefaultLogger(a ...any) {
	fmt.Println(a...)
}

type EngineConfig struct {
	HashTableSize uint32
	Logger        func(...any)
}

type SearchConfig struct {
	ClockConfig ClockConfig
	Debug       bool
}

type Engine struct {
	tt      *HashMoveTable
	killers [MaxDepth + 1][2]board.Move
	path    [MaxDepth + 1]uint64
	clock   *Clock

	nodes       uint32
	elapsedTime time.Duration
	logger      func(...any)
}

func NewEngine(cfg *EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = DefaultLogger
	}

	return &Engine{
		tt:     NewHashMoveTable(cfg.HashTableSize),
		clock:  NewClock(),
		logger: cfg.Logger,
	}
}

// Nodes is the number of positions visited by the last search.
func (e *Engine) Nodes() uint32 {
	return e.nodes
}

// Reset forgets everything learnt from previous searches.
func (e *Engine) Reset() {
	e.tt.Clear()
	e.killers = [MaxDepth + 1][2]board.Move{}
}

// Search deepens one ply at a time until the clock runs out, returning the best move of the
// last fully searched depth and its score for the side to move.
func (e *Engine) Search(ctx context.Context, p *board.Position, cfg *SearchConfig) (board.Move, float64, error) {
	root := p.GenerateMoves(p.Turn())
	if len(root) == 0 {
		return board.Move{}, 0, ErrNoMove
	}
	bestMove, bestScore := root[0], 0.0
	e.nodes = 0
	e.elapsedTime = 0
	e.tt.ResetStats()

	e.clock.Start(ctx, p.Turn(), p.FullMoveClock(), &cfg.ClockConfig)
	defer e.clock.Stop()

	for d := uint8(1); !e.clock.DoneByDepth(d); d++ {
		startTime := time.Now()
		mv, score := e.negamax(p, d, 0, -ScoreInfinite, ScoreInfinite)
		e.elapsedTime += time.Since(startTime)
		if e.aborted() || mv.IsNull() {
			break
		}
		bestMove, bestScore = mv, score

		pv := e.PrincipalVariation(p, d)
		nps := float64(e.nodes) / (e.elapsedTime + 1).Seconds()
		if cfg.Debug {
			hits, misses, writes := e.tt.Stats()
			e.logger(message.NewPrinter(language.English).
				Sprintf("depth:%d [%s] nodes:%d (%.0fn/s) t:%s tt:%d/%d/%d\n    %s",
					d, formatScoreDebug(bestScore), e.nodes, nps, e.elapsedTime, hits, misses, writes, DumpHistory(p, pv)))
		} else {
			e.logger(fmt.Sprintf("info depth %d score %s time %d nodes %d nps %.0f pv %s",
				d, formatScoreUCI(bestScore), e.elapsedTime.Milliseconds(), e.nodes, nps, formatMovesUCI(pv)))
		}

		if IsMateScore(bestScore) {
			break
		}
	}
	return bestMove, bestScore, nil
}

// AlphaBetaNegamax searches p to a fixed depth. The score is relative to the side to move.
// At depth zero it returns the move that led to p and its static evaluation.
func (e *Engine) AlphaBetaNegamax(p *board.Position, alpha, beta float64, depth uint8) (board.Move, float64) {
	return e.negamax(p, min(depth, MaxDepth), 0, alpha, beta)
}

func (e *Engine) negamax(p *board.Position, depth, ply uint8, alpha, beta float64) (board.Move, float64) {
	e.nodes++

	if e.aborted() {
		return board.Move{}, 0
	}

	if depth == 0 {
		return p.LastMove(), leafScore(p, ply)
	}

	if ply > 0 && (p.HalfMoveClock() >= fiftyMoveRule || e.isRepeated(p.Hash(), ply)) {
		return board.Move{}, 0
	}

	children := p.GenerateChildren(p.Turn())
	if len(children) == 0 {
		if p.IsKingChecked(p.Turn()) {
			return board.Move{}, -ScoreMate + float64(ply)
		}
		return board.Move{}, 0
	}

	hashMove, _, _ := e.tt.Get(p.Hash())
	scores := e.scoreMoves(hashMove, children, ply)

	e.path[ply] = p.Hash()
	var bestMove board.Move
	bestScore := -ScoreInfinite
	for i := range children {
		sortMoves(children, scores, i)
		child := &children[i]

		_, score := e.negamax(&child.Position, depth-1, ply+1, -beta, -alpha)
		score = -score
		if e.aborted() {
			break
		}

		if score > bestScore {
			bestMove = child.Move
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !child.Move.IsCapture() && !child.Move.Equals(e.killers[ply][0]) {
				e.killers[ply][1] = e.killers[ply][0]
				e.killers[ply][0] = child.Move
			}
			break
		}
	}

	e.tt.Set(p.Hash(), bestMove, depth)
	return bestMove, bestScore
}

// leafScore is StaticEvaluation from the side to move, with mates pulled towards the root
// so that shorter mates score higher.
func leafScore(p *board.Position, ply uint8) float64 {
	score := StaticEvaluation(p)
	if p.Turn() == board.SideBlack {
		score = -score
	}
	if score <= -ScoreMate {
		score += float64(ply)
	}
	return score
}

func (e *Engine) aborted() bool {
	return e.clock.DoneByMovetime() || e.clock.DoneByNodes(e.nodes)
}

func (e *Engine) isRepeated(hash uint64, ply uint8) bool {
	count := 0
	for i := uint8(0); i < ply; i++ {
		if e.path[i] == hash {
			if count++; count >= 2 {
				return true
			}
		}
	}
	return false
}

// PrincipalVariation follows the stored hash moves from p for at most depth plies.
func (e *Engine) PrincipalVariation(p *board.Position, depth uint8) []board.Move {
	var pv []board.Move
	pos := *p
	for i := uint8(0); i < depth; i++ {
		mv, _, ok := e.tt.Get(pos.Hash())
		if !ok {
			break
		}
		found := false
		for _, child := range pos.GenerateChildren(pos.Turn()) {
			if child.Move.Equals(mv) {
				pv = append(pv, child.Move)
				pos = child.Position
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return pv
}

// IsMateScore reports whether a search score announces a forced mate for either side.
func IsMateScore(s float64) bool {
	return abs(s) >= ScoreMate-float64(MaxDepth)
}

// MateDistance converts a mate score into moves, negative when the side to move gets mated.
func MateDistance(s float64) int {
	plies := int(ScoreMate - abs(s))
	if s > 0 {
		return (plies + 1) / 2
	}
	return -(plies / 2)
}

// DumpHistory renders mvs played from p in numbered algebraic notation.
func DumpHistory(p *board.Position, mvs []board.Move) string {
	if p == nil || len(mvs) < 1 {
		return ""
	}
	builder := strings.Builder{}
	pos := *p
	fullMoveClock := pos.FullMoveClock()
	if pos.Turn() == board.SideBlack {
		_, _ = builder.WriteString(fmt.Sprintf("%d... ", fullMoveClock))
	}
	for i, mv := range mvs {
		turn := pos.Turn()
		pos.ApplyValidatedMove(mv)
		if turn == board.SideWhite {
			_, _ = builder.WriteString(fmt.Sprintf("%d. %s", fullMoveClock, mv))
		} else {
			_, _ = builder.WriteString(mv.String())
			fullMoveClock++
		}
		state := pos.State()
		if state.IsCheckmate() {
			_, _ = builder.WriteRune('#')
		}
		if state.IsDraw() {
			_, _ = builder.WriteRune('=')
		}
		if i < len(mvs)-1 {
			_, _ = builder.WriteRune(' ')
		}
	}
	return builder.String()
}

func formatMovesUCI(mvs []board.Move) string {
	parts := make([]string, len(mvs))
	for i, mv := range mvs {
		parts[i] = mv.UCI()
	}
	return strings.Join(parts, " ")
}

func max[T constraints.Ordered](x1, x2 T) T {
	if x1 > x2 {
		return x1
	}
	return x2
}

func min[T constraints.Ordered](x1, x2 T) T {
	if x1 < x2 {
		return x1
	}
	return x2
}

func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return x * -1
	}
	return x
}

func formatScoreDebug(s float64) string {
	if IsMateScore(s) {
		if d := MateDistance(s); d < 0 {
			return fmt.Sprintf("#-%d", -d)
		}
		return fmt.Sprintf("#+%d", MateDistance(s))
	}
	if s > 0 {
		return fmt.Sprintf("+%.2f", s)
	}
	if s < 0 {
		return fmt.Sprintf("%.2f", s)
	}
	return "0"
}

func formatScoreUCI(s float64) string {
	if IsMateScore(s) {
		return fmt.Sprintf("mate %d", MateDistance(s))
	}
	return fmt.Sprintf("cp %d", int(math.Round(s*100)))
}
