package main

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/lucidfusion/chess/board"
)

func movegen(w io.Writer, fen string, draw bool) error {
	log.Println("============ movegen")
	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "to move:", p.Turn())
	fmt.Fprintln(w, p.Dump())
	fmt.Fprintln(w, p.Draw())
	fmt.Fprintln(w, p.State())
	children := p.GenerateChildren(p.Turn())
	dumpMoves(w, children)

	if draw {
		for _, child := range children {
			fmt.Fprintln(w, child.Move)
			fmt.Fprintln(w, child.Position.Draw())
			fmt.Fprintln(w, child.Position.FEN())
		}
	}
	return nil
}

func dumpMoves(w io.Writer, children []board.Child) {
	width := len(strconv.Itoa(len(children)))
	for i, child := range children {
		mv := child.Move
		fmt.Fprintf(w, "option %*d: [%s] [%s] %s %s => %s (cap=%v) (enp=%v) (cas=%v) (pro=%s) (chk=%v)\n",
			width, i+1, mv.UCI(), mv.Algebra(), mv.Piece, mv.From, mv.To,
			mv.IsCapture(), mv.IsEnPassant(), mv.IsCastle(), mv.Promotion, mv.IsCheck())
	}
}
