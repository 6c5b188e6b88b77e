package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/uci"
)

const (
	exitOK = iota
	exitErr
)

var (
	profile = flag.Bool("profile", false, "serve pprof endpoint")

	perftDepth  = flag.Int("perft", 0, "run perft to the given depth")
	perftDivide = flag.Bool("perft.divide", false, "print leaf counts per root move in perft mode")
	perftSerial = flag.Bool("perft.serial", false, "do not split root moves across goroutines in perft mode")
	perftSuite  = flag.String("perft.suite", "", "check every entry of a perft suite file (FEN;D1 n;D2 n...)")
	perftLimit  = flag.Uint64("perft.maxnodes", 10_000_000, "skip suite depths above this many nodes")

	movegenRun  = flag.Bool("movegen", false, "run movegen mode")
	movegenDraw = flag.Bool("movegen.draw", false, "draw applied moves in movegen mode")

	stepRun   = flag.Bool("step", false, "run step mode")
	stepCount = flag.Int("step.count", 5000, "number of random plies in step mode")
	stepDelay = flag.Duration("step.delay", 10*time.Millisecond, "pause between plies in step mode")

	searchRun      = flag.Bool("search", false, "run search mode")
	searchDepth    = flag.Int("search.depth", 0, "search max depth in search mode")
	searchMovetime = flag.Duration("search.movetime", 0, "search time per move in search and selfplay mode")
	searchDebug    = flag.Bool("search.debug", false, "print debug search info")

	selfplayRun   = flag.Int("selfplay", 0, "play the engine against a random mover for the given number of moves")
	selfplaySeed  = flag.Int64("selfplay.seed", 0, "random mover seed in selfplay mode, 0 for time based")
	selfplayDelay = flag.Duration("selfplay.delay", 0, "pause between moves in selfplay mode")
)

func main() {
	flag.Parse()

	if *profile {
		runProfiler()
	}

	err := realMain(flag.Args())
	if err != nil {
		log.Println(err)
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func runProfiler() {
	go func() {
		addr := "localhost:6060"
		log.Printf("starting pprof endpoint: http://%s/debug/pprof\n", addr)
		_ = http.ListenAndServe(addr, nil)
	}()
}

// realMain dispatches on the mode flags. Positional arguments form the FEN to work on.
func realMain(args []string) error {
	fen := board.DefaultStartingPositionFEN
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *perftSuite != "":
		return perftSuiteRun(os.Stdout, *perftSuite, *perftLimit)
	case *perftDepth > 0:
		return perft(os.Stdout, *perftDepth, fen, !*perftSerial, *perftDivide)
	case *movegenRun:
		return movegen(os.Stdout, fen, *movegenDraw)
	case *stepRun:
		return step(os.Stdout, fen, *stepCount, *stepDelay)
	case *searchRun:
		return search(ctx, os.Stdout, fen, *searchDepth, *searchMovetime, *searchDebug)
	case *selfplayRun > 0:
		return selfplay(ctx, os.Stdout, fen, *selfplayRun, *searchMovetime, *selfplaySeed, *selfplayDelay)
	}

	return uci.NewInterface(os.Stdout).Run(ctx, os.Stdin)
}
