package bench

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lucidfusion/chess/board"
)

// Stats counts the moves generated at one ply of a perft tree, by the flags they carry.
type Stats struct {
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Checkmates uint64
}

func (s *Stats) record(child *board.Child) {
	mv := child.Move
	s.Nodes++
	if mv.IsCapture() {
		s.Captures++
	}
	if mv.IsEnPassant() {
		s.EnPassants++
	}
	if mv.IsCastle() {
		s.Castles++
	}
	if mv.IsPromote() {
		s.Promotions++
	}
	if mv.IsCheck() {
		s.Checks++
		if !child.Position.HasLegalMove(child.Position.Turn()) {
			s.Checkmates++
		}
	}
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Captures += o.Captures
	s.EnPassants += o.EnPassants
	s.Castles += o.Castles
	s.Promotions += o.Promotions
	s.Checks += o.Checks
	s.Checkmates += o.Checkmates
}

// Result of a perft run. Plies[i] describes the moves played at ply i+1, so the
// last entry describes the leaves.
type Result struct {
	Plies  []Stats
	Divide map[string]uint64
}

// Nodes returns the number of leaves, 1 for a depth zero search.
func (r *Result) Nodes() uint64 {
	if len(r.Plies) == 0 {
		return 1
	}
	return r.Plies[len(r.Plies)-1].Nodes
}

// Leaves returns the stats of the deepest ply.
func (r *Result) Leaves() Stats {
	if len(r.Plies) == 0 {
		return Stats{Nodes: 1}
	}
	return r.Plies[len(r.Plies)-1]
}

// DivideLines lists the leaf count under each root move, sorted by move.
func (r *Result) DivideLines() []string {
	lines := make([]string, 0, len(r.Divide))
	for mv, n := range r.Divide {
		lines = append(lines, fmt.Sprintf("%s: %d", mv, n))
	}
	sort.Strings(lines)
	return lines
}

// FullSearch walks every legal line of s from p down to depth plies.
// Root moves are split out into Divide when divide is set.
func FullSearch(p *board.Position, s board.Side, depth int, divide bool) *Result {
	depth = max(depth, 0)
	r := &Result{Plies: make([]Stats, depth)}
	if divide {
		r.Divide = make(map[string]uint64)
	}
	if depth <= 0 {
		return r
	}
	for _, child := range p.GenerateChildren(s) {
		child := child
		r.Plies[0].record(&child)
		var leaves uint64 = 1
		if depth > 1 {
			leaves = fullSearch(&child.Position, s.Opposite(), depth, 1, r.Plies)
		}
		if divide {
			r.Divide[child.Move.UCI()] = leaves
		}
	}
	return r
}

// FullSearchParallel is FullSearch with one goroutine per root move.
func FullSearchParallel(p *board.Position, s board.Side, depth int, divide bool) *Result {
	depth = max(depth, 0)
	r := &Result{Plies: make([]Stats, depth)}
	if divide {
		r.Divide = make(map[string]uint64)
	}
	if depth <= 0 {
		return r
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, child := range p.GenerateChildren(s) {
		child := child
		wg.Add(1)
		go func() {
			defer wg.Done()
			plies := make([]Stats, depth)
			plies[0].record(&child)
			var leaves uint64 = 1
			if depth > 1 {
				leaves = fullSearch(&child.Position, s.Opposite(), depth, 1, plies)
			}

			mu.Lock()
			defer mu.Unlock()
			for i := range plies {
				r.Plies[i].add(plies[i])
			}
			if divide {
				r.Divide[child.Move.UCI()] = leaves
			}
		}()
	}
	wg.Wait()
	return r
}

func fullSearch(p *board.Position, s board.Side, depth, ply int, plies []Stats) uint64 {
	children := p.GenerateChildren(s)
	st := &plies[ply]
	if ply == depth-1 {
		for i := range children {
			st.record(&children[i])
		}
		return uint64(len(children))
	}
	var sum uint64
	for i := range children {
		st.record(&children[i])
		sum += fullSearch(&children[i].Position, s.Opposite(), depth, ply+1, plies)
	}
	return sum
}

// Perft runs a perft from fen and reports on out: the divide lines when verbose, then a summary.
func Perft(depth int, fen string, parallel, verbose bool, out chan string) error {
	p, err := board.NewPosition(
		board.WithFEN(fen),
	)
	if err != nil {
		return err
	}

	run := FullSearch
	if parallel {
		run = FullSearchParallel
	}

	start := time.Now()
	r := run(p, p.Turn(), depth, verbose)
	elapsed := time.Since(start)

	if verbose {
		for _, line := range r.DivideLines() {
			out <- line
		}
	}
	leaves := r.Leaves()
	out <- message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d enp=%d cas=%d pro=%d chk=%d mat=%d (%.3fs elapsed)",
			depth, leaves.Nodes, int(float64(leaves.Nodes)/(elapsed+1).Seconds()),
			leaves.Captures, leaves.EnPassants, leaves.Castles, leaves.Promotions, leaves.Checks, leaves.Checkmates,
			elapsed.Seconds())

	return nil
}
