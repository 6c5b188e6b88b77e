package uci

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func run(t *testing.T, script string) []string {
	t.Helper()
	var out bytes.Buffer
	i := NewInterface(&out)
	if err := i.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatal("unexpected error:", err)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func contains(lines []string, prefix string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func TestHandshake(t *testing.T) {
	t.Parallel()

	lines := run(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name " + EngineName, "option name Hash", "uciok", "readyok"} {
		if !contains(lines, want) {
			t.Errorf("missing %q in %q", want, lines)
		}
	}
}

func TestPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		wantFEN string
	}{
		{
			name:    "startpos",
			command: "position startpos",
			wantFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
		{
			name:    "startpos moves",
			command: "position startpos moves e2e4 e7e5 g1f3",
			wantFEN: "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
		},
		{
			name:    "fen moves",
			command: "position fen 4k3/1P6/8/8/8/8/8/4K3 w - - 0 1 moves b7b8n",
			wantFEN: "1N2k3/8/8/8/8/8/8/4K3 b - - 0 1",
		},
		{
			name:    "illegal move keeps position",
			command: "position startpos moves e2e5",
			wantFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
		{
			name:    "invalid fen keeps position",
			command: "position fen 4k3/8 w - - 0 1",
			wantFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines := run(t, tt.command+"\nd\n")
			if !contains(lines, "Fen: "+tt.wantFEN) {
				t.Errorf("missing fen %q in %q", tt.wantFEN, lines)
			}
		})
	}
}

func TestGo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		wantMove string
	}{
		{
			name:     "mate in one",
			script:   "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 2\n",
			wantMove: "bestmove a1a8",
		},
		{
			name:     "default depth option",
			script:   "setoption name Depth value 2\nposition fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo\n",
			wantMove: "bestmove a1a8",
		},
		{
			name:     "zero depth falls back to depth option",
			script:   "setoption name Depth value 2\nposition fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 0\n",
			wantMove: "bestmove a1a8",
		},
		{
			name:     "zero movetime falls back to depth option",
			script:   "setoption name Depth value 2\nposition fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo movetime 0 nodes 0\n",
			wantMove: "bestmove a1a8",
		},
		{
			name:     "no legal move",
			script:   "position fen 7k/5QQ1/8/8/8/8/8/4K3 b - - 0 1\ngo depth 3\n",
			wantMove: "bestmove 0000",
		},
		{
			name:     "nodes",
			script:   "position startpos\ngo nodes 500\n",
			wantMove: "bestmove ",
		},
		{
			name:     "stop",
			script:   "position startpos\ngo infinite\nstop\n",
			wantMove: "bestmove ",
		},
		{
			name:     "quit",
			script:   "position startpos\ngo movetime 60000\nquit\n",
			wantMove: "bestmove ",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines := run(t, tt.script)
			if !contains(lines, tt.wantMove) {
				t.Errorf("missing %q in %q", tt.wantMove, lines)
			}
		})
	}
}

// bestMoveWriter collects output and signals every bestmove line.
type bestMoveWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	bestMove chan string
}

func (w *bestMoveWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(b)
	if line := strings.TrimSpace(string(b)); strings.HasPrefix(line, "bestmove ") {
		w.bestMove <- line
	}
	return len(b), nil
}

func TestGoAfterBestMove(t *testing.T) {
	t.Parallel()

	w := &bestMoveWriter{bestMove: make(chan string, 4)}
	in, script := io.Pipe()
	i := NewInterface(w)
	done := make(chan error, 1)
	go func() {
		done <- i.Run(context.Background(), in)
	}()

	waitBestMove := func(want string) {
		t.Helper()
		select {
		case got := <-w.bestMove:
			if !strings.HasPrefix(got, want) {
				t.Errorf("unexpected bestmove: got=%q want=%q", got, want)
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("no %q received", want)
		}
	}

	for round := 0; round < 20; round++ {
		if _, err := io.WriteString(script, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 1\n"); err != nil {
			t.Fatal("unexpected error:", err)
		}
		waitBestMove("bestmove a1a8")
		// Sent right after bestmove, must not be dropped as if a search were running.
		if _, err := io.WriteString(script, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1 moves g8f8\ngo depth 1\n"); err != nil {
			t.Fatal("unexpected error:", err)
		}
		waitBestMove("bestmove ")
	}

	_ = script.Close()
	if err := <-done; err != nil {
		t.Fatal("unexpected error:", err)
	}
}

func TestGoInfo(t *testing.T) {
	t.Parallel()

	lines := run(t, "position startpos\ngo depth 2\n")
	if !contains(lines, "info depth 1 ") || !contains(lines, "info depth 2 ") {
		t.Errorf("missing info lines in %q", lines)
	}
	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "bestmove ") {
		t.Errorf("unexpected last line: %q", last)
	}
}

func TestGoPerft(t *testing.T) {
	t.Parallel()

	lines := run(t, "position startpos moves e2e4\ngo perft 1\n")
	if len(lines) != 21 {
		t.Fatalf("unexpected line count: got=%d want=21 (%q)", len(lines), lines)
	}
	if lines[0] != "a7a5: 1" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[20], "d=1 nodes=20 ") {
		t.Errorf("unexpected summary: %q", lines[20])
	}
}

func TestSetOption(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	i := NewInterface(&out)
	script := strings.Join([]string{
		"setoption name Debug value true",
		"setoption name Hash value 1024",
		"setoption name Timeout value 50",
		"setoption name Depth value 65",
		"setoption name Depth value 3",
	}, "\n")
	if err := i.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatal("unexpected error:", err)
	}
	want := defaultOptions
	want.debug = true
	want.hashTableSize = 1024
	want.depth = 3
	if i.options != want {
		t.Errorf("unexpected options: got=%+v want=%+v", i.options, want)
	}
}
