package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/square"
)

type logCollector struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCollector) log(a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range a {
		if s, ok := v.(string); ok {
			l.lines = append(l.lines, s)
		}
	}
}

func newTestEngine() (*Engine, *logCollector) {
	l := &logCollector{}
	return NewEngine(&EngineConfig{HashTableSize: 1 << 16, Logger: l.log}), l
}

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	return p
}

func isLegal(p *board.Position, mv board.Move) bool {
	for _, legal := range p.GenerateMoves(p.Turn()) {
		if legal.Equals(mv) {
			return true
		}
	}
	return false
}

func TestStaticEvaluation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		fen     string
		wantMin float64
		wantMax float64
	}{
		{name: "symmetric", fen: board.DefaultStartingPositionFEN, wantMin: 0, wantMax: 0},
		{name: "white queen up", fen: "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", wantMin: 9, wantMax: 20},
		{name: "black rook up", fen: "r3k3/8/8/8/8/8/8/4K3 w - - 0 1", wantMin: -10, wantMax: -5},
		{name: "white mated", fen: "6rk/8/8/8/8/8/5PPP/r5K1 w - - 0 1", wantMin: -ScoreMate, wantMax: -ScoreMate},
		{name: "black mated", fen: "R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1", wantMin: ScoreMate, wantMax: ScoreMate},
		{name: "stalemate", fen: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", wantMin: 0, wantMax: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := StaticEvaluation(mustPosition(t, tt.fen))
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("unexpected evaluation: got=%f want=[%f, %f]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestAlphaBetaNegamax(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		fen      string
		depth    uint8
		wantMove string
		wantMate int
	}{
		{
			name:     "back rank mate in 1",
			fen:      "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
			depth:    1,
			wantMove: "a1a8",
			wantMate: 1,
		},
		{
			name:     "knight sacrifice mate in 2",
			fen:      "r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 1 1",
			depth:    3,
			wantMove: "d5f6",
			wantMate: 2,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newTestEngine()
			p := mustPosition(t, tt.fen)
			mv, score := e.AlphaBetaNegamax(p, -ScoreInfinite, ScoreInfinite, tt.depth)
			if mv.UCI() != tt.wantMove {
				t.Errorf("unexpected move: got=%s want=%s", mv.UCI(), tt.wantMove)
			}
			if !IsMateScore(score) || MateDistance(score) != tt.wantMate {
				t.Errorf("unexpected score: got=%f want mate in %d", score, tt.wantMate)
			}
		})
	}
}

func TestAlphaBetaNegamaxDepthZero(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine()
	p := mustPosition(t, "4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	mv, score := e.AlphaBetaNegamax(p, -ScoreInfinite, ScoreInfinite, 0)
	if !mv.IsNull() {
		t.Errorf("unexpected move: got=%s want=null", mv.UCI())
	}
	if want := -StaticEvaluation(p); score != want {
		t.Errorf("unexpected score: got=%f want=%f", score, want)
	}
}

func TestSearchMate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		fen      string
		wantMate int
		wantMove string
		long     bool
	}{
		{name: "king and rook mate in 2", fen: "k7/8/2K5/8/8/8/1R6/8 w - - 0 1", wantMate: 2, wantMove: "c6c7"},
		{name: "knight sacrifice mate in 2", fen: "r2qkb1r/pp2nppp/3p4/2pNN1B1/2BnP3/3P4/PPP2PPP/R2bK2R w KQkq - 1 1", wantMate: 2, wantMove: "d5f6"},
		{name: "back rank mate in 1", fen: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", wantMate: 1, wantMove: "a1a8"},
		{name: "rook ladder mate in 3", fen: "8/8/7k/R7/1R6/8/8/4K3 w - - 0 1", wantMate: 3},
		{name: "rook ladder mate in 4", fen: "8/8/8/7k/R7/1R6/8/4K3 w - - 0 1", wantMate: 4, long: true},
		{name: "defending side", fen: "7k/R7/1R6/8/8/8/8/4K3 b - - 0 1", wantMate: -1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.long && testing.Short() {
				t.Skip("skipping deep mate search in short mode")
			}
			e, logs := newTestEngine()
			p := mustPosition(t, tt.fen)
			depth := uint8(2*abs(tt.wantMate) - 1)
			if tt.wantMate < 0 {
				depth = uint8(2 * -tt.wantMate)
			}
			mv, score, err := e.Search(context.Background(), p, &SearchConfig{ClockConfig: ClockConfig{Depth: depth}})
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if !isLegal(p, mv) {
				t.Errorf("illegal move returned: %s", mv.UCI())
			}
			if tt.wantMove != "" && mv.UCI() != tt.wantMove {
				t.Errorf("unexpected move: got=%s want=%s", mv.UCI(), tt.wantMove)
			}
			got := MateDistance(score)
			if !IsMateScore(score) || (tt.wantMate < 0 && got != tt.wantMate) || (tt.wantMate > 0 && (got < 1 || got > tt.wantMate)) {
				t.Errorf("unexpected score: got=%f want mate %d", score, tt.wantMate)
			}
			if len(logs.lines) == 0 || !strings.HasPrefix(logs.lines[len(logs.lines)-1], "info depth") {
				t.Errorf("missing info line: %v", logs.lines)
			}
		})
	}
}

func TestSearchNoMove(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine()
	_, _, err := e.Search(context.Background(), mustPosition(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1"), &SearchConfig{})
	if !errors.Is(err, ErrNoMove) {
		t.Errorf("unexpected error: got=%v want=%v", err, ErrNoMove)
	}
}

func TestSearchBounded(t *testing.T) {
	t.Parallel()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	tests := []struct {
		name string
		ctx  context.Context
		cfg  SearchConfig
	}{
		{name: "movetime", ctx: context.Background(), cfg: SearchConfig{ClockConfig: ClockConfig{Movetime: 100 * time.Millisecond}}},
		{name: "nodes", ctx: context.Background(), cfg: SearchConfig{ClockConfig: ClockConfig{Nodes: 2000}}},
		{name: "game clock", ctx: context.Background(), cfg: SearchConfig{ClockConfig: ClockConfig{WhiteTime: 2 * time.Second, BlackTime: 2 * time.Second}}},
		{name: "cancelled", ctx: cancelled, cfg: SearchConfig{}},
		{name: "debug depth", ctx: context.Background(), cfg: SearchConfig{ClockConfig: ClockConfig{Depth: 2}, Debug: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newTestEngine()
			p := mustPosition(t, board.DefaultStartingPositionFEN)
			start := time.Now()
			mv, _, err := e.Search(tt.ctx, p, &tt.cfg)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if !isLegal(p, mv) {
				t.Errorf("illegal move returned: %s", mv.UCI())
			}
			if elapsed := time.Since(start); elapsed > 10*time.Second {
				t.Errorf("search not bounded: took %s", elapsed)
			}
		})
	}
}

func TestHashMoveTable(t *testing.T) {
	t.Parallel()
	tt := NewHashMoveTable(1000)
	if got := tt.Len(); got != 512 {
		t.Errorf("unexpected size: got=%d want=512", got)
	}
	mv := board.Move{From: square.E2, To: square.E4, Piece: board.PiecePawn, Flags: board.FlagDoubleStep}
	if _, _, ok := tt.Get(42); ok {
		t.Error("unexpected hit on empty table")
	}
	tt.Set(42, mv, 3)
	tt.Set(42, board.Move{From: square.D2, To: square.D4, Piece: board.PiecePawn}, 1)
	got, depth, ok := tt.Get(42)
	if !ok || got != mv || depth != 3 {
		t.Errorf("unexpected entry: got=%s depth=%d ok=%v want=%s depth=3", got.UCI(), depth, ok, mv.UCI())
	}
	if _, _, ok := tt.Get(42 + 512); ok {
		t.Error("unexpected hit on colliding hash")
	}
	hits, misses, writes := tt.Stats()
	if hits != 1 || misses != 2 || writes != 1 {
		t.Errorf("unexpected stats: got=%d/%d/%d want=1/2/1", hits, misses, writes)
	}
}

func TestMateDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		score float64
		want  int
	}{
		{score: ScoreMate - 1, want: 1},
		{score: ScoreMate - 3, want: 2},
		{score: -(ScoreMate - 2), want: -1},
		{score: -(ScoreMate - 4), want: -2},
	}
	for _, tt := range tests {
		if got := MateDistance(tt.score); got != tt.want {
			t.Errorf("MateDistance(%f): got=%d want=%d", tt.score, got, tt.want)
		}
		if !IsMateScore(tt.score) {
			t.Errorf("IsMateScore(%f): got=false want=true", tt.score)
		}
	}
	if IsMateScore(12.5) {
		t.Error("IsMateScore(12.5): got=true want=false")
	}
}
