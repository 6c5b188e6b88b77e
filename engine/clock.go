package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/lucidfusion/chess/board"
)

const (
	DefaultMovetime = 10 * time.Second

	MaxMovetime       = 24 * time.Hour
	MaxDepth    uint8 = 64
	MaxNodes          = math.MaxUint32

	minMovetime = 50 * time.Millisecond

	expectedGameMoves         uint16 = 40
	movetimeAccumulationRatio        = 0.8
	movetimeMargin                   = 20 * time.Millisecond
)

type ClockMode uint8

const (
	ClockModeInfinite ClockMode = iota
	ClockModeMovetime
	ClockModeDepth
	ClockModeNodes
)

func (m ClockMode) String() string {
	switch m {
	case ClockModeInfinite:
		return "infinite"
	case ClockModeMovetime:
		return "movetime"
	case ClockModeDepth:
		return "depth"
	case ClockModeNodes:
		return "nodes"
	default:
		return ""
	}
}

// Clock bounds a search. It is started and polled by the searching goroutine only;
// the deadline watcher communicates through an atomic flag.
type Clock struct {
	mode           ClockMode
	targetMovetime time.Duration
	targetDepth    uint8
	targetNodes    uint32

	done   *atomic.Bool
	cancel context.CancelFunc
}

func NewClock() *Clock {
	return &Clock{
		targetMovetime: MaxMovetime,
		targetDepth:    MaxDepth,
		targetNodes:    MaxNodes,
	}
}

type ClockConfig struct {
	WhiteTime      time.Duration
	BlackTime      time.Duration
	WhiteIncrement time.Duration
	BlackIncrement time.Duration

	Movetime time.Duration

	Depth uint8

	Nodes uint32
}

// Start arms the clock for one search. Cancelling ctx stops the search like an expired movetime.
func (c *Clock) Start(ctx context.Context, turn board.Side, fullMoveClock uint16, cfg *ClockConfig) {
	c.Stop()
	c.targetMovetime = MaxMovetime
	c.targetDepth = MaxDepth
	c.targetNodes = MaxNodes

	switch {
	case cfg.Movetime != 0 || cfg.WhiteTime != 0 || cfg.BlackTime != 0:
		c.mode = ClockModeMovetime
		if cfg.Movetime != 0 {
			c.targetMovetime = cfg.Movetime
		} else {
			phase := max(int64(expectedGameMoves)-int64(fullMoveClock), 1)
			if turn == board.SideWhite {
				c.targetMovetime = time.Duration(float64(cfg.WhiteTime)/float64(phase)) + time.Duration(float64(cfg.WhiteIncrement)*(1-movetimeAccumulationRatio))
			} else {
				c.targetMovetime = time.Duration(float64(cfg.BlackTime)/float64(phase)) + time.Duration(float64(cfg.BlackIncrement)*(1-movetimeAccumulationRatio))
			}
		}
		c.targetMovetime = min(max(c.targetMovetime, minMovetime), MaxMovetime)
	case cfg.Depth != 0:
		c.mode = ClockModeDepth
		c.targetDepth = min(cfg.Depth, MaxDepth)
	case cfg.Nodes != 0:
		c.mode = ClockModeNodes
		c.targetNodes = cfg.Nodes
	default:
		c.mode = ClockModeInfinite
	}

	var cancel context.CancelFunc
	if c.mode == ClockModeMovetime {
		ctx, cancel = context.WithTimeout(ctx, c.targetMovetime-min(movetimeMargin, c.targetMovetime/2))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	done := &atomic.Bool{}
	c.done, c.cancel = done, cancel
	go func() {
		<-ctx.Done()
		done.Store(true)
	}()
}

// Stop releases the deadline watcher of the running search, if any, and leaves the clock unbounded.
func (c *Clock) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.done = nil
	c.mode = ClockModeInfinite
	c.targetMovetime = MaxMovetime
	c.targetDepth = MaxDepth
	c.targetNodes = MaxNodes
}

func (c *Clock) Mode() ClockMode {
	return c.mode
}

func (c *Clock) DoneByMovetime() bool {
	return c.done != nil && c.done.Load()
}

func (c *Clock) DoneByDepth(depth uint8) bool {
	return depth > c.targetDepth
}

func (c *Clock) DoneByNodes(nodes uint32) bool {
	return nodes > c.targetNodes
}
