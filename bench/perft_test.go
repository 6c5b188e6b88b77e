package bench

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/lucidfusion/chess/board"
)

// maxNodes bounds the perft trees walked by the tests. PERFT_MAX_NODES raises it.
func maxNodes(t *testing.T) uint64 {
	if v := os.Getenv("PERFT_MAX_NODES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			t.Fatalf("invalid PERFT_MAX_NODES %q: %v", v, err)
		}
		return n
	}
	if testing.Short() {
		return 100_000
	}
	return 2_000_000
}

func TestFullSearch(t *testing.T) {
	t.Parallel()

	// Results obtained from https://www.chessprogramming.org/Perft_Results.
	tests := map[string][]struct {
		depth     int
		wantNodes uint64
		onlyNodes bool
		wantCap   uint64
		wantEnp   uint64
		wantCas   uint64
		wantPro   uint64
		wantChk   uint64
		wantMat   uint64
	}{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1": {
			{
				depth:     0,
				wantNodes: 1,
			},
			{
				depth:     1,
				wantNodes: 20,
			},
			{
				depth:     2,
				wantNodes: 400,
			},
			{
				depth:     3,
				wantNodes: 8_902,
				wantCap:   34,
				wantChk:   12,
			},
			{
				depth:     4,
				wantNodes: 197_281,
				wantCap:   1_576,
				wantChk:   469,
				wantMat:   8,
			},
			{
				depth:     5,
				wantNodes: 4_865_609,
				wantCap:   82_719,
				wantEnp:   258,
				wantChk:   27_351,
				wantMat:   347,
			},
			{
				depth:     6,
				wantNodes: 119_060_324,
				wantCap:   2_812_008,
				wantEnp:   5_248,
				wantChk:   809_099,
				wantMat:   10_828,
			},
		},
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1": {
			{
				depth:     1,
				wantNodes: 48,
				wantCap:   8,
				wantCas:   2,
			},
			{
				depth:     2,
				wantNodes: 2_039,
				wantCap:   351,
				wantEnp:   1,
				wantCas:   91,
				wantChk:   3,
			},
			{
				depth:     3,
				wantNodes: 97_862,
				wantCap:   17_102,
				wantEnp:   45,
				wantCas:   3_162,
				wantChk:   993,
				wantMat:   1,
			},
		},
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1": {
			{
				depth:     1,
				wantNodes: 14,
				wantCap:   1,
				wantChk:   2,
			},
			{
				depth:     2,
				wantNodes: 191,
				wantCap:   14,
				wantChk:   10,
			},
			{
				depth:     3,
				wantNodes: 2_812,
				wantCap:   209,
				wantEnp:   2,
				wantChk:   267,
			},
			{
				depth:     4,
				wantNodes: 43_238,
				wantCap:   3_348,
				wantEnp:   123,
				wantChk:   1_680,
				wantMat:   17,
			},
		},
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1": {
			{
				depth:     1,
				wantNodes: 6,
			},
			{
				depth:     2,
				wantNodes: 264,
				wantCap:   87,
				wantCas:   6,
				wantPro:   48,
				wantChk:   10,
			},
			{
				depth:     3,
				wantNodes: 9_467,
				wantCap:   1_021,
				wantEnp:   4,
				wantPro:   120,
				wantChk:   38,
				wantMat:   22,
			},
		},
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8": {
			{
				depth:     1,
				wantNodes: 44,
				onlyNodes: true,
			},
			{
				depth:     2,
				wantNodes: 1_486,
				onlyNodes: true,
			},
			{
				depth:     3,
				wantNodes: 62_379,
				onlyNodes: true,
			},
		},
	}

	limit := maxNodes(t)
	for fen, constraints := range tests {
		fen := fen
		for _, tt := range constraints {
			tt := tt
			t.Run(fmt.Sprintf("perft(%d): %s", tt.depth, fen), func(t *testing.T) {
				t.Parallel()
				if tt.wantNodes > limit {
					t.Skipf("%d nodes over limit %d", tt.wantNodes, limit)
				}
				p, err := board.NewPosition(
					board.WithFEN(fen),
				)
				if err != nil {
					t.Fatal("unexpected error:", err)
				}

				r := FullSearch(p, p.Turn(), tt.depth, false)
				got := r.Leaves()

				if got.Nodes != tt.wantNodes {
					t.Errorf("unexpected nodes: got=%d want=%d", got.Nodes, tt.wantNodes)
				}
				if !tt.onlyNodes {
					if got.Captures != tt.wantCap {
						t.Errorf("unexpected cap: got=%d want=%d", got.Captures, tt.wantCap)
					}
					if got.EnPassants != tt.wantEnp {
						t.Errorf("unexpected enp: got=%d want=%d", got.EnPassants, tt.wantEnp)
					}
					if got.Castles != tt.wantCas {
						t.Errorf("unexpected cas: got=%d want=%d", got.Castles, tt.wantCas)
					}
					if got.Promotions != tt.wantPro {
						t.Errorf("unexpected pro: got=%d want=%d", got.Promotions, tt.wantPro)
					}
					if got.Checks != tt.wantChk {
						t.Errorf("unexpected chk: got=%d want=%d", got.Checks, tt.wantChk)
					}
					if got.Checkmates != tt.wantMat {
						t.Errorf("unexpected mat: got=%d want=%d", got.Checkmates, tt.wantMat)
					}
				}
			})
		}
	}
}

func TestFullSearchPlies(t *testing.T) {
	t.Parallel()

	p, err := board.NewPosition()
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	r := FullSearch(p, p.Turn(), 3, false)
	if len(r.Plies) != 3 {
		t.Fatalf("unexpected plies: got=%d want=3", len(r.Plies))
	}
	for i, want := range []uint64{20, 400, 8_902} {
		if r.Plies[i].Nodes != want {
			t.Errorf("unexpected nodes at ply %d: got=%d want=%d", i+1, r.Plies[i].Nodes, want)
		}
	}
}

func TestFullSearchParallel(t *testing.T) {
	t.Parallel()

	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			t.Parallel()
			p, err := board.NewPosition(
				board.WithFEN(fen),
			)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}

			serial := FullSearch(p, p.Turn(), 3, true)
			parallel := FullSearchParallel(p, p.Turn(), 3, true)
			if !reflect.DeepEqual(serial, parallel) {
				t.Errorf("parallel result differs:\nserial=%+v\nparallel=%+v", serial.Plies, parallel.Plies)
			}
		})
	}
}

func TestFullSearchDivide(t *testing.T) {
	t.Parallel()

	p, err := board.NewPosition(
		board.WithFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"),
	)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	r := FullSearch(p, p.Turn(), 2, true)
	if len(r.Divide) != 48 {
		t.Fatalf("unexpected root moves: got=%d want=48", len(r.Divide))
	}
	var sum uint64
	for _, n := range r.Divide {
		sum += n
	}
	if sum != 2_039 {
		t.Errorf("unexpected divide sum: got=%d want=2039", sum)
	}
	if _, ok := r.Divide["e1g1"]; !ok {
		t.Error("missing castling move e1g1")
	}

	lines := r.DivideLines()
	if len(lines) != 48 || !strings.HasPrefix(lines[0], "a1b1: ") {
		t.Errorf("unexpected divide lines: %v", lines)
	}
}

func TestPerftReport(t *testing.T) {
	t.Parallel()

	out := make(chan string, 64)
	err := Perft(2, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", true, true, out)
	close(out)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	var lines []string
	for line := range out {
		lines = append(lines, line)
	}
	if len(lines) != 21 {
		t.Fatalf("unexpected line count: got=%d want=21", len(lines))
	}
	if lines[0] != "a2a3: 20" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[20], "d=2 nodes=400 ") {
		t.Errorf("unexpected summary: %q", lines[20])
	}

	if err := Perft(1, "bad fen", false, false, out); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("unexpected error: got=%v want=%v", err, board.ErrInvalidFEN)
	}
}

func TestSuite(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/perftsuite.epd")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer f.Close()

	entries, err := ParseSuite(f)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if len(entries) == 0 {
		t.Fatal("empty suite")
	}

	limit := maxNodes(t)
	for _, e := range entries {
		e := e
		t.Run(e.FEN, func(t *testing.T) {
			t.Parallel()
			p, err := board.NewPosition(
				board.WithFEN(e.FEN),
			)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			for i, want := range e.Nodes {
				depth := i + 1
				if want > limit {
					break
				}
				r := FullSearchParallel(p, p.Turn(), depth, false)
				if got := r.Nodes(); got != want {
					t.Errorf("perft(%d): got=%d want=%d", depth, got, want)
				}
			}
		})
	}
}

func TestParseSuite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []SuiteEntry
		wantErr error
	}{
		{
			name:  "comments and blank lines",
			input: "# header\n\n4k3/8/8/8/8/8/8/4K2R w K - 0 1 ;D1 15 ;D2 66\n",
			want: []SuiteEntry{
				{FEN: "4k3/8/8/8/8/8/8/4K2R w K - 0 1", Nodes: []uint64{15, 66}},
			},
		},
		{
			name:    "missing depth",
			input:   "4k3/8/8/8/8/8/8/4K2R w K - 0 1",
			wantErr: ErrInvalidSuite,
		},
		{
			name:    "depth gap",
			input:   "4k3/8/8/8/8/8/8/4K2R w K - 0 1;D1 15;D3 1197",
			wantErr: ErrInvalidSuite,
		},
		{
			name:    "bad count",
			input:   "4k3/8/8/8/8/8/8/4K2R w K - 0 1;D1 x",
			wantErr: ErrInvalidSuite,
		},
		{
			name:    "missing fen",
			input:   ";D1 20",
			wantErr: ErrInvalidSuite,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSuite(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("unexpected entries: got=%+v want=%+v", got, tt.want)
			}
		})
	}
}
