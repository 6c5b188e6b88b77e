package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/lucidfusion/chess/square"
)

var (
	drawLabel     = color.New(color.Bold)
	drawCellDark  = color.New(38, 5, 233, 48, 5, 77)
	drawCellLight = color.New(38, 5, 233, 48, 5, 194)
)

// Dump renders the position as plain ASCII with FEN letters.
func (p *Position) Dump() string {
	builder := strings.Builder{}
	for y := square.Rank8; y >= square.Rank1; y-- {
		_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := square.FileA; x <= square.FileH; x++ {
			s, pc := p.GetSquare(square.FromXY(x, y))
			sym := pc.SymbolFEN(s)
			if pc == PieceUnknown {
				sym = " "
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %s |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n   ")
	for x := square.FileA; x <= square.FileH; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", x.NotationComponentX()))
	}
	return builder.String()
}

// Draw renders the position with unicode pieces on a coloured board.
// Colours are dropped when the output is not a terminal.
func (p *Position) Draw() string {
	builder := strings.Builder{}
	for y := square.Rank8; y >= square.Rank1; y-- {
		_, _ = builder.WriteString(drawLabel.Sprintf(" %d ", y+1))
		for x := square.FileA; x <= square.FileH; x++ {
			s, pc := p.GetSquare(square.FromXY(x, y))
			sym := pc.SymbolUnicode(s, false)
			if pc == PieceUnknown {
				sym = " "
			}
			cell := drawCellLight
			if x%2^y%2 == 0 {
				cell = drawCellDark
			}
			_, _ = builder.WriteString(cell.Sprintf(" %s ", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := square.FileA; x <= square.FileH; x++ {
		_, _ = builder.WriteString(drawLabel.Sprintf(" %s ", x.NotationComponentX()))
	}
	return builder.String()
}

func (p *Position) DebugString() string {
	return fmt.Sprintf("cast: %04b\nhalf: %4d\nfull: %4d\nhash: %016x\nstat: %s",
		p.castleRights, p.halfMoveClock, p.FullMoveClock(), p.hash, p.State())
}
