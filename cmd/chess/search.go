package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/engine"
)

func newEngine(w io.Writer) *engine.Engine {
	return engine.NewEngine(&engine.EngineConfig{
		HashTableSize: engine.DefaultHashTableSize,
		Logger: func(a ...any) {
			fmt.Fprintln(w, a...)
		},
	})
}

func searchConfig(depth int, movetime time.Duration, debug bool) *engine.SearchConfig {
	cfg := &engine.SearchConfig{Debug: debug}
	switch {
	case movetime > 0:
		cfg.ClockConfig.Movetime = movetime
	case depth > 0:
		cfg.ClockConfig.Depth = uint8(min(depth, int(engine.MaxDepth)))
	default:
		cfg.ClockConfig.Movetime = engine.DefaultMovetime
	}
	return cfg
}

// search runs one search from fen and prints its result.
func search(ctx context.Context, w io.Writer, fen string, depth int, movetime time.Duration, debug bool) error {
	log.Println("============ search")
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, p.Draw())
	fmt.Fprintln(w, p.FEN())

	e := newEngine(w)
	mv, score, err := e.Search(ctx, p, searchConfig(depth, movetime, debug))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "best: %s (%s) score=%.3f nodes=%d\n", mv.UCI(), mv, score, e.Nodes())
	if engine.IsMateScore(score) {
		fmt.Fprintf(w, "mate in %d\n", engine.MateDistance(score))
	}
	return nil
}

// selfplay lets the engine play the side to move of fen against a random mover.
func selfplay(ctx context.Context, w io.Writer, fen string, moves int, movetime time.Duration, seed int64, delay time.Duration) error {
	log.Println("============ selfplay")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		return err
	}
	e := newEngine(io.Discard)
	cfg := searchConfig(0, movetime, false)
	if movetime == 0 {
		cfg.ClockConfig.Movetime = time.Second
	}
	fmt.Fprintln(w, p.Draw())
	fmt.Fprintln(w, p.FEN())

	playingSide := p.Turn()
	var history []board.Move
	for ply := 0; ply < 2*moves && p.State().IsRunning() && ctx.Err() == nil; ply++ {
		var mv board.Move
		if p.Turn() == playingSide {
			mv, _, err = e.Search(ctx, p, cfg)
			if err != nil {
				return err
			}
		} else {
			mvs := p.GenerateMoves(p.Turn())
			mv = mvs[r.Intn(len(mvs))]
		}
		turn := p.Turn()
		p.ApplyValidatedMove(mv)
		history = append(history, mv)

		fmt.Fprintf(w, "\n>>> %s: %s\n", turn, mv)
		fmt.Fprintln(w, p.FEN())
		fmt.Fprintln(w, p.Draw())
		if delay > 0 {
			<-time.After(delay)
		}
	}
	log.Println("=============== game ended:", p.State())
	fmt.Fprintln(w, p.FEN())
	fmt.Fprintln(w, engine.DumpHistory(mustPosition(fen), history))
	return nil
}

func mustPosition(fen string) *board.Position {
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		panic(err)
	}
	return p
}
