package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lucidfusion/chess/bench"
	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/engine"
)

var (
	EngineName   = "Lucid"
	EngineAuthor = "Lucid Fusion Labs"

	defaultOptions = options{
		debug:         false,
		timeout:       engine.DefaultMovetime,
		hashTableSize: engine.DefaultHashTableSize,
		depth:         0,
		parallelPerft: true,
	}
)

const maxHashTableSize = 1 << 24

type options struct {
	debug         bool
	timeout       time.Duration
	hashTableSize uint32
	depth         uint8
	parallelPerft bool
}

type Interface struct {
	out     io.Writer
	outMu   sync.Mutex
	options options

	position *board.Position
	engine   *engine.Engine

	searchMu     sync.Mutex
	searchWG     sync.WaitGroup
	searchCancel context.CancelFunc
}

func NewInterface(out io.Writer) *Interface {
	return &Interface{
		out:     out,
		options: defaultOptions,
	}
}

// Run reads commands from in until "quit" or end of input. A search still running at end of
// input is allowed to finish, "quit" stops it.
func (i *Interface) Run(ctx context.Context, in io.Reader) error {
	i.reset(ctx)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "uci":
			i.commandUCI(ctx)
		case "ucinewgame":
			i.reset(ctx)
		case "isready":
			i.commandReady(ctx)
		case "setoption":
			i.commandSetOption(ctx, args[1:])
		case "position":
			i.commandPosition(ctx, args[1:])
		case "d":
			i.commandDraw(ctx)
		case "go":
			i.commandGo(ctx, args[1:])
		case "stop":
			i.commandStop(ctx)
		case "quit":
			i.commandStop(ctx)
			return nil
		default:
			i.println("info string unknown command", args[0])
		}
	}
	i.searchWG.Wait()
	return scanner.Err()
}

func (i *Interface) commandUCI(_ context.Context) {
	i.println(fmt.Sprintf("id name %s", EngineName))
	i.println(fmt.Sprintf("id author %s", EngineAuthor))
	i.println(fmt.Sprintf("option name Debug type check default %v", defaultOptions.debug))
	i.println(fmt.Sprintf("option name Timeout type spin default %d min 100 max 3600000", defaultOptions.timeout.Milliseconds()))
	i.println(fmt.Sprintf("option name Hash type spin default %d min 0 max %d", defaultOptions.hashTableSize, maxHashTableSize))
	i.println(fmt.Sprintf("option name Depth type spin default %d min 0 max %d", defaultOptions.depth, engine.MaxDepth))
	i.println("uciok")
}

func (i *Interface) commandReady(_ context.Context) {
	if i.position != nil && i.engine != nil {
		i.println("readyok")
	}
}

func (i *Interface) commandSetOption(_ context.Context, args []string) {
	if i.running() || len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return
	}
	switch name, valueStr := strings.ToLower(args[1]), args[3]; name {
	case "debug":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return
		}
		i.options.debug = value
	case "timeout":
		value, err := strconv.ParseUint(valueStr, 10, 64)
		if err != nil || value < 100 || value > 3600000 {
			return
		}
		i.options.timeout = time.Duration(value * uint64(time.Millisecond))
	case "hash":
		value, err := strconv.ParseUint(valueStr, 10, 32)
		if err != nil || value > maxHashTableSize {
			return
		}
		i.options.hashTableSize = uint32(value)
		i.engine = i.newEngine()
	case "depth":
		value, err := strconv.ParseUint(valueStr, 10, 8)
		if err != nil || value > uint64(engine.MaxDepth) {
			return
		}
		i.options.depth = uint8(value)
	}
}

// commandPosition handles "startpos|fen <fen> [moves <move>...]". The position is left
// unchanged when the FEN or any of the moves is rejected.
func (i *Interface) commandPosition(_ context.Context, args []string) {
	if i.running() || len(args) == 0 {
		return
	}

	var fen string
	var moves []string
	for j, arg := range args {
		if arg == "moves" {
			moves = args[j+1:]
			args = args[:j]
			break
		}
	}
	switch args[0] {
	case "fen":
		fen = strings.Join(args[1:], " ")
	case "startpos":
		fen = board.DefaultStartingPositionFEN
	default:
		return
	}

	p, err := board.NewPosition(board.WithFEN(fen))
	if err != nil {
		i.println("info string", err)
		return
	}
	for _, text := range moves {
		mv, err := p.ParseMove(text)
		if err != nil {
			i.println("info string", err)
			return
		}
		p.ApplyValidatedMove(mv)
	}
	i.position = p
}

func (i *Interface) commandDraw(_ context.Context) {
	i.println(i.position.Draw())
	i.println(fmt.Sprintf("Fen: %s", i.position.FEN()))
	i.println(fmt.Sprintf("Key: %016X", i.position.Hash()))
	i.println(fmt.Sprintf("State: %s", i.position.State()))
}

func (i *Interface) commandGo(ctx context.Context, args []string) {
	if i.running() {
		return
	}

	cfg := engine.ClockConfig{}
	limited := false
	for j := 0; j < len(args); j++ {
		switch args[j] {
		case "perft":
			if j+1 >= len(args) {
				return
			}
			depth, err := strconv.Atoi(args[j+1])
			if err != nil || depth < 0 {
				return
			}
			i.perft(depth)
			return
		case "infinite":
			limited = true
			continue
		}

		if j+1 >= len(args) {
			break
		}
		value, err := strconv.ParseUint(args[j+1], 10, 32)
		if err != nil {
			continue
		}
		switch args[j] {
		case "depth":
			cfg.Depth = uint8(min(value, uint64(engine.MaxDepth)))
		case "nodes":
			cfg.Nodes = uint32(value)
		case "movetime":
			cfg.Movetime = time.Duration(value) * time.Millisecond
		case "wtime":
			cfg.WhiteTime = time.Duration(value) * time.Millisecond
		case "btime":
			cfg.BlackTime = time.Duration(value) * time.Millisecond
		case "winc":
			cfg.WhiteIncrement = time.Duration(value) * time.Millisecond
		case "binc":
			cfg.BlackIncrement = time.Duration(value) * time.Millisecond
		default:
			continue
		}
		// A zero limit is the same as leaving it out.
		if value != 0 {
			limited = true
		}
		j++
	}
	if !limited {
		if i.options.depth != 0 {
			cfg.Depth = i.options.depth
		} else {
			cfg.Movetime = i.options.timeout
		}
	}

	engineCtx, engineCancel := context.WithCancel(ctx)
	i.searchMu.Lock()
	i.searchCancel = engineCancel
	i.searchMu.Unlock()

	p, e, debug := i.position.Clone(), i.engine, i.options.debug
	i.searchWG.Add(1)
	go func() {
		defer i.searchWG.Done()
		defer engineCancel()

		bestMove, _, err := e.Search(engineCtx, p, &engine.SearchConfig{
			ClockConfig: cfg,
			Debug:       debug,
		})
		if err != nil && !errors.Is(err, engine.ErrNoMove) {
			i.println("info string", err)
		}

		// A GUI may send the next command as soon as it reads bestmove.
		i.searchMu.Lock()
		i.searchCancel = nil
		i.searchMu.Unlock()

		i.println(fmt.Sprintf("bestmove %s", bestMove.UCI()))
	}()
}

func (i *Interface) perft(depth int) {
	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			i.println(s)
		}
	}()

	err := bench.Perft(depth, i.position.FEN(), i.options.parallelPerft, true, out)
	close(out)
	<-done
	if err != nil {
		i.println("info string", err)
	}
}

// commandStop cancels the running search and waits for its bestmove.
func (i *Interface) commandStop(_ context.Context) {
	i.searchMu.Lock()
	if i.searchCancel != nil {
		i.searchCancel()
	}
	i.searchMu.Unlock()
	i.searchWG.Wait()
}

func (i *Interface) running() bool {
	i.searchMu.Lock()
	defer i.searchMu.Unlock()
	return i.searchCancel != nil
}

func (i *Interface) reset(ctx context.Context) {
	i.commandStop(ctx)
	i.commandPosition(ctx, []string{"startpos"})
	i.engine = i.newEngine()
}

func (i *Interface) newEngine() *engine.Engine {
	return engine.NewEngine(&engine.EngineConfig{
		HashTableSize: i.options.hashTableSize,
		Logger:        i.println,
	})
}

func (i *Interface) println(a ...any) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	_, _ = fmt.Fprintln(i.out, a...)
}
