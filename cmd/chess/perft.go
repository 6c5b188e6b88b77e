package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lucidfusion/chess/bench"
	"github.com/lucidfusion/chess/board"
)

func perft(w io.Writer, depth int, fen string, parallel, divide bool) error {
	mode := "dfs"
	if parallel {
		mode = "parallel dfs"
	}
	log.Printf("============ perft(%d): %s\n", depth, mode)

	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			_, _ = fmt.Fprintln(w, s)
		}
	}()
	err := bench.Perft(depth, fen, parallel, divide, out)
	close(out)
	<-done
	return err
}

// perftSuiteRun checks every depth of a suite file whose expected count fits under maxNodes.
func perftSuiteRun(w io.Writer, path string, maxNodes uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := bench.ParseSuite(f)
	if err != nil {
		return err
	}

	printer := message.NewPrinter(language.English)
	var failed int
	for _, e := range entries {
		p, err := board.NewPosition(board.WithFEN(e.FEN))
		if err != nil {
			return fmt.Errorf("%s: %w", e.FEN, err)
		}
		for i, want := range e.Nodes {
			if want > maxNodes {
				break
			}
			depth := i + 1
			start := time.Now()
			got := bench.FullSearchParallel(p, p.Turn(), depth, false).Nodes()
			status := "ok"
			if got != want {
				status = "FAIL"
				failed++
			}
			_, _ = printer.Fprintf(w, "%-4s d=%d nodes=%d want=%d (%.3fs) %s\n",
				status, depth, got, want, time.Since(start).Seconds(), e.FEN)
		}
	}
	if failed > 0 {
		return fmt.Errorf("perft suite: %d mismatches", failed)
	}
	return nil
}
