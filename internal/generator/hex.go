package generator

import (
	"fmt"
	"strconv"
)

// Hex is a cell of a flat-topped sector grid using odd-q offset
// coordinates: odd columns sit half a hex lower than even ones.
type Hex struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Label returns the CCRR location used on printed sector maps.
func (h Hex) Label() string {
	return fmt.Sprintf("%02d%02d", h.Column, h.Row)
}

// ParseHex reads a CCRR label.
func ParseHex(label string) (Hex, error) {
	if len(label) != 4 {
		return Hex{}, fmt.Errorf("invalid hex label %q", label)
	}
	col, err := strconv.Atoi(label[:2])
	if err != nil {
		return Hex{}, fmt.Errorf("invalid hex column in %q: %w", label, err)
	}
	row, err := strconv.Atoi(label[2:])
	if err != nil {
		return Hex{}, fmt.Errorf("invalid hex row in %q: %w", label, err)
	}
	if col < 0 || row < 0 {
		return Hex{}, fmt.Errorf("invalid hex label %q", label)
	}
	return Hex{Column: col, Row: row}, nil
}

var evenColumnNeighbors = [6]Hex{
	{Column: 1, Row: -1}, {Column: 1, Row: 0}, {Column: 0, Row: -1},
	{Column: 0, Row: 1}, {Column: -1, Row: -1}, {Column: -1, Row: 0},
}

var oddColumnNeighbors = [6]Hex{
	{Column: 1, Row: 0}, {Column: 1, Row: 1}, {Column: 0, Row: -1},
	{Column: 0, Row: 1}, {Column: -1, Row: 0}, {Column: -1, Row: 1},
}

// Neighbors returns the adjacent hexes that lie inside a grid of the given
// size.
func (h Hex) Neighbors(rows, columns int) []Hex {
	offsets := evenColumnNeighbors
	if h.Column%2 != 0 {
		offsets = oddColumnNeighbors
	}

	out := make([]Hex, 0, len(offsets))
	for _, o := range offsets {
		n := Hex{Column: h.Column + o.Column, Row: h.Row + o.Row}
		if n.Column < 0 || n.Row < 0 || n.Column >= columns || n.Row >= rows {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Grid returns every hex of a grid in column-major order.
func Grid(rows, columns int) []Hex {
	out := make([]Hex, 0, rows*columns)
	for c := 0; c < columns; c++ {
		for r := 0; r < rows; r++ {
			out = append(out, Hex{Column: c, Row: r})
		}
	}
	return out
}
