package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/lucidfusion/chess/board"
)

// step plays random legal moves from fen and reports the mean cost of each board operation.
func step(w io.Writer, fen string, count int, delay time.Duration) error {
	log.Println("============ step")
	var (
		timesGenerateMoves []time.Duration
		timesApply         []time.Duration
		timesState         []time.Duration
	)
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		return err
	}
	r := rand.New(rand.NewSource(1))
stepLoop:
	for i := 0; i < count; i++ {
		t1 := time.Now()
		mvs := p.GenerateMoves(p.Turn())
		t2 := time.Now()
		timesGenerateMoves = append(timesGenerateMoves, t2.Sub(t1))
		if len(mvs) == 0 {
			return fmt.Errorf("unexpected move exhaustion: state=%s", p.State())
		}
		mv := mvs[r.Intn(len(mvs))]
		turn := p.Turn()

		t1 = time.Now()
		p.ApplyValidatedMove(mv)
		t2 = time.Now()
		timesApply = append(timesApply, t2.Sub(t1))

		t1 = time.Now()
		st := p.State()
		t2 = time.Now()
		timesState = append(timesState, t2.Sub(t1))

		fmt.Fprintf(w, "\n===== [#%d] %s: %s\n", p.FullMoveClock(), turn, mv)
		fmt.Fprintln(w, p.Draw())
		fmt.Fprintln(w, p.FEN())
		fmt.Fprintln(w, p.DebugString())
		switch {
		case !st.IsRunning():
			break stepLoop
		case st.IsCheck():
			<-time.After(10 * delay)
		default:
			<-time.After(delay)
		}
	}

	avg := func(ds []time.Duration) time.Duration {
		if len(ds) == 0 {
			return 0
		}
		var s time.Duration
		for _, d := range ds {
			s += d
		}
		return s / time.Duration(len(ds))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.State())
	fmt.Fprintln(w, "genmv:", avg(timesGenerateMoves))
	fmt.Fprintln(w, "apply:", avg(timesApply))
	fmt.Fprintln(w, "state:", avg(timesState))
	return nil
}
