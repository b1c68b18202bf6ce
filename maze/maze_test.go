package maze

import (
	"testing"

	"github.com/justapithecus/arenaviz/types"
)

func TestDecode_Fields(t *testing.T) {
	tests := []struct {
		name   string
		bitmap uint32
		want   types.Cell
	}{
		{
			name:   "zero has all walls",
			bitmap: 0,
			want: types.Cell{
				NorthWall: true, WestWall: true, SouthWall: true, EastWall: true,
			},
		},
		{
			name:   "open cell",
			bitmap: 0b1111 << 6,
			want:   types.Cell{},
		},
		{
			name:   "coins and danger",
			bitmap: 5 | 3<<3 | 0b1111<<6,
			want:   types.Cell{CoinValue: 5, DangerValue: 3},
		},
		{
			name:   "north wall only",
			bitmap: 0b1110 << 6,
			want:   types.Cell{NorthWall: true},
		},
		{
			name:   "east wall only",
			bitmap: 0b0111 << 6,
			want:   types.Cell{EastWall: true},
		},
		{
			name:   "possession 2 and bomb",
			bitmap: 0b1111<<6 | 1<<11 | 1<<12,
			want:   types.Cell{Possession2: true, IsBomb: true},
		},
		{
			name:   "high bits ignored",
			bitmap: 0b1111<<6 | 1<<13 | 1<<20,
			want:   types.Cell{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.bitmap)
			if got != tt.want {
				t.Errorf("Decode(%#b) = %+v, want %+v", tt.bitmap, got, tt.want)
			}
		})
	}
}

// Every 13-bit value: bomb and wall bits follow the layout and decoding is
// deterministic.
func TestDecode_AllBitmaps(t *testing.T) {
	for b := uint32(0); b < 1<<13; b++ {
		c := Decode(b)
		if c.IsBomb != ((b>>12)&1 == 1) {
			t.Fatalf("bitmap %d: IsBomb = %v", b, c.IsBomb)
		}
		walls := []bool{c.NorthWall, c.WestWall, c.SouthWall, c.EastWall}
		for i, w := range walls {
			if w == ((b>>(6+i))&1 == 1) {
				t.Fatalf("bitmap %d: wall %d = %v, want negation of bit %d", b, i, w, 6+i)
			}
		}
		if c.Bomb != nil {
			t.Fatalf("bitmap %d: decoded cell carries bomb data", b)
		}
		if again := Decode(b); again != c {
			t.Fatalf("bitmap %d: Decode not deterministic", b)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for b := uint32(0); b < 1<<13; b++ {
		c := Decode(b)
		if got := Encode(c); got != b {
			t.Fatalf("Encode(Decode(%d)) = %d", b, got)
		}
		if again := Decode(Encode(c)); again != c {
			t.Fatalf("Decode(Encode(%+v)) = %+v", c, again)
		}
	}
}

func TestDecodeRow(t *testing.T) {
	var bitmaps [types.GridCells]uint32
	for i := range bitmaps {
		bitmaps[i] = uint32(i%8) | 0b1111<<6
	}
	row := DecodeRow(bitmaps)
	for i, c := range row {
		if int(c.CoinValue) != i%8 {
			t.Errorf("col %d: CoinValue = %d, want %d", i, c.CoinValue, i%8)
		}
		if c.NorthWall || c.WestWall || c.SouthWall || c.EastWall {
			t.Errorf("col %d: unexpected wall %+v", i, c)
		}
	}
}
