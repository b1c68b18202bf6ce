// Package maze decodes the packed cell bitmaps found in Maze log records.
//
// Bit layout, least significant bit first:
//
//	bits 0-2   coin value
//	bits 3-5   danger value
//	bit  6     north wall (inverted: 0 means a wall is present)
//	bit  7     west wall  (inverted)
//	bit  8     south wall (inverted)
//	bit  9     east wall  (inverted)
//	bit  10    possession by team 1
//	bit  11    possession by team 2
//	bit  12    bomb
//
// Bits above 12 are ignored.
package maze

import "github.com/justapithecus/arenaviz/types"

const (
	coinShift   = 0
	dangerShift = 3
	northBit    = 6
	westBit     = 7
	southBit    = 8
	eastBit     = 9
	poss1Bit    = 10
	poss2Bit    = 11
	bombBit     = 12

	valueMask = 0b111
)

// Decode unpacks a cell bitmap. The returned cell never carries bomb data;
// that is attached later from a Bomb record.
func Decode(bitmap uint32) types.Cell {
	return types.Cell{
		CoinValue:   uint8((bitmap >> coinShift) & valueMask),
		DangerValue: uint8((bitmap >> dangerShift) & valueMask),
		NorthWall:   !bit(bitmap, northBit),
		WestWall:    !bit(bitmap, westBit),
		SouthWall:   !bit(bitmap, southBit),
		EastWall:    !bit(bitmap, eastBit),
		Possession1: bit(bitmap, poss1Bit),
		Possession2: bit(bitmap, poss2Bit),
		IsBomb:      bit(bitmap, bombBit),
	}
}

// Encode packs the bitmap fields of c. It is the inverse of Decode for the
// 13 encoded bits; coin and danger values are truncated to 3 bits and bomb
// data is not represented.
func Encode(c types.Cell) uint32 {
	var b uint32
	b |= uint32(c.CoinValue&valueMask) << coinShift
	b |= uint32(c.DangerValue&valueMask) << dangerShift
	b |= flag(!c.NorthWall, northBit)
	b |= flag(!c.WestWall, westBit)
	b |= flag(!c.SouthWall, southBit)
	b |= flag(!c.EastWall, eastBit)
	b |= flag(c.Possession1, poss1Bit)
	b |= flag(c.Possession2, poss2Bit)
	b |= flag(c.IsBomb, bombBit)
	return b
}

// DecodeRow decodes one full maze row.
func DecodeRow(bitmaps [types.GridCells]uint32) [types.GridCells]types.Cell {
	var row [types.GridCells]types.Cell
	for i, b := range bitmaps {
		row[i] = Decode(b)
	}
	return row
}

func bit(b uint32, n uint) bool {
	return (b>>n)&1 == 1
}

func flag(set bool, n uint) uint32 {
	if set {
		return 1 << n
	}
	return 0
}
