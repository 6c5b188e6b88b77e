package board

import (
	"sync"

	"github.com/lucidfusion/chess/square"
)

const (
	magicSeedRook   uint64 = 0x2F5A_9C41_7E3B_D601
	magicSeedBishop uint64 = 0x6C07_8E2B_15F9_A3D7

	// a candidate must spread at least this many bits into the top byte of mask*magic
	magicMinTopBits = 6
)

type Magic struct {
	Attacks []Bitmap
	Magic   Bitmap
	Mask    Bitmap
	Shift   uint8
}

func (m *Magic) GetIndex(occupancy Bitmap) uint16 {
	return uint16(((occupancy & m.Mask) * m.Magic) >> m.Shift)
}

// attackTables is built once per process and read-only afterwards.
type attackTables struct {
	knight      [square.Total]Bitmap
	king        [square.Total]Bitmap
	pawnAttack  [2 + 1][square.Total]Bitmap
	pawnAdvance [2 + 1][square.Total]Bitmap

	rookMask   [square.Total]Bitmap
	bishopMask [square.Total]Bitmap
	rook       [square.Total]Magic
	bishop     [square.Total]Magic
}

var (
	tablesOnce sync.Once
	tables     *attackTables
)

func attacks() *attackTables {
	tablesOnce.Do(func() {
		tables = newAttackTables()
	})
	return tables
}

var (
	directionsRook   = [4][2]square.Square{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	directionsBishop = [4][2]square.Square{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	directionsKnight = [8][2]square.Square{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	directionsKing   = [8][2]square.Square{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
)

func newAttackTables() *attackTables {
	t := &attackTables{}
	for sq := square.Square(0); sq < square.Total; sq++ {
		x, y := sq.X(), sq.Y()
		for _, d := range directionsKnight {
			if to := square.FromXY(x+d[0], y+d[1]); to != square.None {
				t.knight[sq].Set(to)
			}
		}
		for _, d := range directionsKing {
			if to := square.FromXY(x+d[0], y+d[1]); to != square.None {
				t.king[sq].Set(to)
			}
		}
		for _, dx := range []square.Square{-1, 1} {
			if to := square.FromXY(x+dx, y+1); to != square.None {
				t.pawnAttack[SideWhite][sq].Set(to)
			}
			if to := square.FromXY(x+dx, y-1); to != square.None {
				t.pawnAttack[SideBlack][sq].Set(to)
			}
		}
		if to := square.FromXY(x, y+1); to != square.None {
			t.pawnAdvance[SideWhite][sq].Set(to)
		}
		if to := square.FromXY(x, y-1); to != square.None {
			t.pawnAdvance[SideBlack][sq].Set(to)
		}
		t.rookMask[sq] = occupancyMask(sq, directionsRook[:])
		t.bishopMask[sq] = occupancyMask(sq, directionsBishop[:])
	}

	r := NewPseudoRand(magicSeedRook)
	for sq := square.Square(0); sq < square.Total; sq++ {
		t.rook[sq] = findMagic(sq, t.rookMask[sq], directionsRook[:], r)
	}
	r.Seed(magicSeedBishop)
	for sq := square.Square(0); sq < square.Total; sq++ {
		t.bishop[sq] = findMagic(sq, t.bishopMask[sq], directionsBishop[:], r)
	}
	return t
}

// occupancyMask returns the squares whose occupancy can block a slider on sq.
// The last square of each ray is left out since nothing stands behind it.
func occupancyMask(sq square.Square, directions [][2]square.Square) Bitmap {
	var mask Bitmap
	for _, d := range directions {
		x, y := sq.X()+d[0], sq.Y()+d[1]
		for square.FromXY(x+d[0], y+d[1]) != square.None {
			mask.Set(square.FromXY(x, y))
			x, y = x+d[0], y+d[1]
		}
	}
	return mask
}

// slidingAttacks walks each ray from sq until it leaves the board or hits a blocker (included).
func slidingAttacks(sq square.Square, occupied Bitmap, directions [][2]square.Square) Bitmap {
	var attack Bitmap
	for _, d := range directions {
		x, y := sq.X()+d[0], sq.Y()+d[1]
		for to := square.FromXY(x, y); to != square.None; to = square.FromXY(x, y) {
			attack.Set(to)
			if occupied.Has(to) {
				break
			}
			x, y = x+d[0], y+d[1]
		}
	}
	return attack
}

// findMagic searches for a multiplier that hashes every blocker subset of mask
// without two different attack sets sharing an index.
func findMagic(sq square.Square, mask Bitmap, directions [][2]square.Square, r *PseudoRand) Magic {
	bitCount := mask.BitCount()
	size := 1 << bitCount
	occupancies := make([]Bitmap, 0, size)
	attackSets := make([]Bitmap, 0, size)
	// carry-rippler enumeration of every subset of mask
	for sub := Bitmap(0); ; {
		occupancies = append(occupancies, sub)
		attackSets = append(attackSets, slidingAttacks(sq, sub, directions))
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}

	used := make([]Bitmap, size)
	m := Magic{
		Mask:  mask,
		Shift: 64 - bitCount,
	}
	for {
		m.Magic = Bitmap(r.SparseUint64())
		if ((mask * m.Magic) & 0xFF_00_00_00_00_00_00_00).BitCount() < magicMinTopBits {
			continue
		}
		for i := range used {
			used[i] = 0
		}
		ok := true
		for i, occ := range occupancies {
			idx := m.GetIndex(occ)
			if used[idx] == 0 {
				used[idx] = attackSets[i]
			} else if used[idx] != attackSets[i] {
				ok = false
				break
			}
		}
		if ok {
			m.Attacks = used
			return m
		}
	}
}
