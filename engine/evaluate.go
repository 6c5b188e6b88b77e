package engine

import (
	"github.com/lucidfusion/chess/board"
	"github.com/lucidfusion/chess/square"
)

const (
	// ScoreMate is the evaluation of a checkmated side. Search scores within MaxDepth of it are mates.
	ScoreMate = 100000.0

	weightMobility = 0.1

	// weightPiecePosition turns the centipawn tables below into a small tie breaker.
	weightPiecePosition = 0.001
)

var (
	weightMaterial = [6 + 1]float64{
		board.PiecePawn:   1,
		board.PieceKnight: 3,
		board.PieceBishop: 3,
		board.PieceRook:   5,
		board.PieceQueen:  9,
		board.PieceKing:   200,
	}

	// PST table taken from https://www.chessprogramming.org/Simplified_Evaluation_Function,
	// from White's side with a8 first.
	scorePiecePosition = [6 + 1][square.Total]int16{
		board.PiecePawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			50, 50, 50, 50, 50, 50, 50, 50,
			10, 10, 20, 30, 30, 20, 10, 10,
			5, 5, 10, 25, 25, 10, 5, 5,
			0, 0, 0, 20, 20, 0, 0, 0,
			5, -5, -10, 0, 0, -10, -5, 5,
			5, 10, 10, -20, -20, 10, 10, 5,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.PieceKnight: {
			-50, -40, -30, -30, -30, -30, -40, -50,
			-40, -20, 0, 0, 0, 0, -20, -40,
			-30, 0, 10, 15, 15, 10, 0, -30,
			-30, 5, 15, 20, 20, 15, 5, -30,
			-30, 0, 15, 20, 20, 15, 0, -30,
			-30, 5, 10, 15, 15, 10, 5, -30,
			-40, -20, 0, 5, 5, 0, -20, -40,
			-50, -40, -30, -30, -30, -30, -40, -50,
		},
		board.PieceBishop: {
			-20, -10, -10, -10, -10, -10, -10, -20,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-10, 5, 5, 10, 10, 5, 5, -10,
			-10, 0, 10, 10, 10, 10, 0, -10,
			-10, 10, 10, 10, 10, 10, 10, -10,
			-10, 5, 0, 0, 0, 0, 5, -10,
			-20, -10, -10, -10, -10, -10, -10, -20,
		},
		board.PieceRook: {
			0, 0, 0, 0, 0, 0, 0, 0,
			5, 10, 10, 10, 10, 10, 10, 5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			0, 0, 0, 5, 5, 0, 0, 0,
		},
		board.PieceQueen: {
			-20, -10, -10, -5, -5, -10, -10, -20,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-10, 0, 5, 5, 5, 5, 0, -10,
			-5, 0, 5, 5, 5, 5, 0, -5,
			0, 0, 5, 5, 5, 5, 0, -5,
			-10, 5, 5, 5, 5, 5, 0, -10,
			-10, 0, 5, 0, 0, 0, 0, -10,
			-20, -10, -10, -5, -5, -10, -10, -20,
		},
		board.PieceKing: {
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-20, -30, -30, -40, -40, -30, -30, -20,
			-10, -20, -20, -20, -20, -20, -20, -10,
			20, 20, 0, 0, 0, 0, 20, 20,
			20, 30, 10, 0, 0, 10, 30, 20,
		},
	}

	offsetPV     uint8 = 255
	offsetMVVLVA uint8 = offsetPV - 64
	scoreMVVLVA        = [6 + 1][6 + 1]uint8{
		//                     P   N   B   R   Q
		board.PiecePawn:   {0, 15, 25, 35, 45, 55},
		board.PieceKnight: {0, 14, 24, 34, 44, 54},
		board.PieceBishop: {0, 13, 23, 33, 43, 53},
		board.PieceRook:   {0, 12, 22, 32, 42, 52},
		board.PieceQueen:  {0, 11, 21, 31, 41, 51},
		board.PieceKing:   {0, 10, 20, 30, 40, 50},
	}
	scorePromotion uint8 = 60
	scoreKiller    uint8 = 10
)

// StaticEvaluation scores p from White's side: material and mobility differences plus a
// small piece-square term. A side to move without legal moves is mated (±ScoreMate) or stalemated (0).
func StaticEvaluation(p *board.Position) float64 {
	turn := p.Turn()
	white := len(p.GenerateMoves(board.SideWhite))
	black := len(p.GenerateMoves(board.SideBlack))
	if (turn == board.SideWhite && white == 0) || (turn == board.SideBlack && black == 0) {
		if !p.IsKingChecked(turn) {
			return 0
		}
		if turn == board.SideWhite {
			return -ScoreMate
		}
		return ScoreMate
	}

	var score float64
	var position int32
	for _, pc := range board.Pieces {
		bmWhite, bmBlack := p.GetBitmap(board.SideWhite, pc), p.GetBitmap(board.SideBlack, pc)
		score += weightMaterial[pc] * float64(int(bmWhite.BitCount())-int(bmBlack.BitCount()))
		for bmWhite != 0 {
			sq := bmWhite.PopLS1B()
			position += int32(scorePiecePosition[pc][(square.Rank8-sq.Y())*square.MaxComponentScalar+sq.X()])
		}
		for bmBlack != 0 {
			sq := bmBlack.PopLS1B()
			position -= int32(scorePiecePosition[pc][sq.Y()*square.MaxComponentScalar+sq.X()])
		}
	}
	score += weightMobility * float64(white-black)
	score += weightPiecePosition * float64(position)
	return score
}

func (e *Engine) scoreMoves(hashMove board.Move, children []board.Child, ply uint8) []uint8 {
	scores := make([]uint8, len(children))
	for i := range children {
		mv := children[i].Move
		var score uint8
		switch {
		case !hashMove.IsNull() && mv.Equals(hashMove):
			score = offsetPV
		case mv.IsCapture():
			score = offsetMVVLVA + scoreMVVLVA[mv.Piece][mv.Captured]
		case mv.IsPromote():
			score = offsetMVVLVA + scorePromotion
		default:
			for k, killer := range e.killers[ply] {
				if mv.Equals(killer) {
					score = offsetMVVLVA - uint8(k+1)*scoreKiller
					break
				}
			}
		}
		scores[i] = score
	}
	return scores
}

// sortMoves brings the best scored remaining child to index.
func sortMoves(children []board.Child, scores []uint8, index int) {
	bestIndex, bestScore := index, scores[index]
	for i := index + 1; i < len(children); i++ {
		if scores[i] > bestScore {
			bestIndex = i
			bestScore = scores[i]
		}
	}
	children[index], children[bestIndex] = children[bestIndex], children[index]
	scores[index], scores[bestIndex] = scores[bestIndex], scores[index]
}
