package generator

import (
	"testing"

	"sectors-server/internal/entity"
)

func TestHexLabel(t *testing.T) {
	tests := []struct {
		hex  Hex
		want string
	}{
		{Hex{Column: 0, Row: 0}, "0000"},
		{Hex{Column: 7, Row: 9}, "0709"},
		{Hex{Column: 12, Row: 3}, "1203"},
	}
	for _, tt := range tests {
		if got := tt.hex.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
		parsed, err := ParseHex(tt.want)
		if err != nil {
			t.Fatalf("ParseHex(%q) error = %v", tt.want, err)
		}
		if parsed != tt.hex {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.want, parsed, tt.hex)
		}
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, label := range []string{"", "123", "12345", "ab01", "01cd", "-101"} {
		if _, err := ParseHex(label); err == nil {
			t.Errorf("ParseHex(%q) succeeded", label)
		}
	}
}

func TestHexNeighbors(t *testing.T) {
	tests := []struct {
		name string
		hex  Hex
		want int
	}{
		{name: "corner", hex: Hex{Column: 0, Row: 0}, want: 2},
		{name: "interior even column", hex: Hex{Column: 2, Row: 4}, want: 6},
		{name: "interior odd column", hex: Hex{Column: 3, Row: 4}, want: 6},
		{name: "bottom of odd column", hex: Hex{Column: 1, Row: 9}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.hex.Neighbors(10, 8)
			if len(got) != tt.want {
				t.Errorf("Neighbors() = %v, want %d hexes", got, tt.want)
			}
			for _, n := range got {
				back := false
				for _, m := range n.Neighbors(10, 8) {
					if m == tt.hex {
						back = true
					}
				}
				if !back {
					t.Errorf("%+v lists %+v but not the reverse", tt.hex, n)
				}
			}
		})
	}
}

func TestGrid(t *testing.T) {
	grid := Grid(10, 8)
	if len(grid) != 80 {
		t.Fatalf("len = %d, want 80", len(grid))
	}
	if grid[0] != (Hex{}) || grid[79] != (Hex{Column: 7, Row: 9}) {
		t.Errorf("grid bounds = %+v .. %+v", grid[0], grid[79])
	}
}

func TestNames_ForType(t *testing.T) {
	g := newTestGenerator(10)
	for _, typ := range entity.NewRegistry().Types() {
		name := g.names.forType(typ)
		if name == "" {
			t.Errorf("empty name for %s", typ)
		}
		if name[0] < 'A' || name[0] > 'Z' {
			t.Errorf("name %q for %s is not capitalised", name, typ)
		}
	}
}
