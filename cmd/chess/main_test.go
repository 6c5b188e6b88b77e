package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lucidfusion/chess/board"
)

func TestPerftSuiteRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "suite.epd")
	suite := "4k3/8/8/8/8/8/8/4K2R w K - 0 1;D1 15;D2 66;D3 1197\n"
	if err := os.WriteFile(path, []byte(suite), 0o600); err != nil {
		t.Fatal("unexpected error:", err)
	}

	var out bytes.Buffer
	if err := perftSuiteRun(&out, path, 100); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got := strings.Count(out.String(), "ok "); got != 2 {
		t.Errorf("unexpected checked depths: got=%d want=2\n%s", got, out.String())
	}

	bad := "4k3/8/8/8/8/8/8/4K2R w K - 0 1;D1 16\n"
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := perftSuiteRun(&out, path, 100); err == nil {
		t.Error("expected a mismatch error")
	}
}

func TestPerft(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := perft(&out, 2, board.DefaultStartingPositionFEN, false, true); err != nil {
		t.Fatal("unexpected error:", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 21 || !strings.HasPrefix(lines[20], "d=2 nodes=400 ") {
		t.Errorf("unexpected output: %q", lines)
	}
}

func TestMovegen(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := movegen(&out, "4k3/8/8/8/8/8/8/4K2R w K - 0 1", false); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got := strings.Count(out.String(), "option "); got != 15 {
		t.Errorf("unexpected move count: got=%d want=15", got)
	}
	if err := movegen(&out, "bad", false); err == nil {
		t.Error("expected an error for an invalid fen")
	}
}

func TestStep(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := step(&out, board.DefaultStartingPositionFEN, 20, 0); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(out.String(), "genmv:") {
		t.Errorf("missing timing summary:\n%s", out.String())
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := search(context.Background(), &out, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 2, 0, false); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(out.String(), "best: a1a8") || !strings.Contains(out.String(), "mate in 1") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestSelfplay(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := selfplay(context.Background(), &out, board.DefaultStartingPositionFEN, 2, 50*time.Millisecond, 1, 0)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got := strings.Count(out.String(), ">>> "); got != 4 {
		t.Errorf("unexpected ply count: got=%d want=4", got)
	}
}
