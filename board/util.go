package board

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/lucidfusion/chess/square"
)

// Bitmap holds one bit per square, bit i for square i.
type Bitmap uint64

const (
	maskFileA Bitmap = 0x_01_01_01_01_01_01_01_01
	maskFileB Bitmap = 0x_02_02_02_02_02_02_02_02
	maskFileG Bitmap = 0x_40_40_40_40_40_40_40_40
	maskFileH Bitmap = 0x_80_80_80_80_80_80_80_80
	maskRank1 Bitmap = 0x_00_00_00_00_00_00_00_FF
	maskRank2 Bitmap = 0x_00_00_00_00_00_00_FF_00
	maskRank3 Bitmap = 0x_00_00_00_00_00_FF_00_00
	maskRank6 Bitmap = 0x_00_00_FF_00_00_00_00_00
	maskRank7 Bitmap = 0x_00_FF_00_00_00_00_00_00
	maskRank8 Bitmap = 0x_FF_00_00_00_00_00_00_00
)

func squares(sqs ...square.Square) Bitmap {
	var bm Bitmap
	for _, sq := range sqs {
		bm |= 1 << sq
	}
	return bm
}

func ShiftNW(bm Bitmap) Bitmap {
	return (bm &^ maskFileA) << 7
}

func ShiftN(bm Bitmap) Bitmap {
	return bm << 8
}

func ShiftNE(bm Bitmap) Bitmap {
	return (bm &^ maskFileH) << 9
}

func ShiftE(bm Bitmap) Bitmap {
	return (bm &^ maskFileH) << 1
}

func ShiftSE(bm Bitmap) Bitmap {
	return (bm &^ maskFileH) >> 7
}

func ShiftS(bm Bitmap) Bitmap {
	return bm >> 8
}

func ShiftSW(bm Bitmap) Bitmap {
	return (bm &^ maskFileA) >> 9
}

func ShiftW(bm Bitmap) Bitmap {
	return (bm &^ maskFileA) >> 1
}

func (bm *Bitmap) Set(sq square.Square) {
	*bm |= 1 << sq
}

func (bm *Bitmap) Unset(sq square.Square) {
	*bm &^= 1 << sq
}

func (bm Bitmap) Has(sq square.Square) bool {
	return bm&(1<<sq) != 0
}

// LS1B returns the least significant set square. It is square.Total for an empty bitmap.
func (bm Bitmap) LS1B() square.Square {
	return square.Square(bits.TrailingZeros64(uint64(bm)))
}

// PopLS1B clears and returns the least significant set square.
func (bm *Bitmap) PopLS1B() square.Square {
	sq := bm.LS1B()
	*bm &= *bm - 1
	return sq
}

func (bm Bitmap) BitCount() uint8 {
	return uint8(bits.OnesCount64(uint64(bm)))
}

// Dump renders the bitmap as 8 rows of '1'/'0', rank 8 first, a-file leftmost.
func (bm Bitmap) Dump() string {
	builder := strings.Builder{}
	for y := square.Rank8; y >= square.Rank1; y-- {
		for x := square.FileA; x <= square.FileH; x++ {
			if bm.Has(square.FromXY(x, y)) {
				_ = builder.WriteByte('1')
			} else {
				_ = builder.WriteByte('0')
			}
		}
		_ = builder.WriteByte('\n')
	}
	return builder.String()
}

// ParseBitmap is the inverse of Dump. Characters equal to set mark occupied squares.
func ParseBitmap(s string, set byte) (Bitmap, error) {
	rows := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(rows) != int(square.MaxComponentScalar) {
		return 0, fmt.Errorf("bitmap: want %d rows, got %d", square.MaxComponentScalar, len(rows))
	}
	var bm Bitmap
	for i, row := range rows {
		if len(row) != int(square.MaxComponentScalar) {
			return 0, fmt.Errorf("bitmap: row %d has %d cells", i+1, len(row))
		}
		y := square.Rank8 - square.Square(i)
		for x := 0; x < len(row); x++ {
			if row[x] == set {
				bm.Set(square.FromXY(square.Square(x), y))
			}
		}
	}
	return bm, nil
}
