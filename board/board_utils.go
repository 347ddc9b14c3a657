package board

import (
	"fmt"
	"strings"

	"github.com/domino14/reversi/move"
)

// ToDisplayText renders the board with column letters and 1-based row
// numbers, followed by the disc counts.
func (b *Board) ToDisplayText() string {
	var str strings.Builder
	str.WriteString("   ")
	for x := 0; x < b.dim; x++ {
		fmt.Fprintf(&str, " %c", 'a'+rune(x))
	}
	str.WriteString("\n")
	for y := 0; y < b.dim; y++ {
		fmt.Fprintf(&str, "%3d", y+1)
		for x := 0; x < b.dim; x++ {
			str.WriteString(" ")
			str.WriteString(b.squares[y*b.dim+x].String())
		}
		str.WriteString("\n")
	}
	black, white := b.Score()
	fmt.Fprintf(&str, "Black (B): %d  White (W): %d\n", black, white)
	return str.String()
}

// Rows is the inverse of FromRows.
func (b *Board) Rows() []string {
	rows := make([]string, b.dim)
	for y := 0; y < b.dim; y++ {
		var row strings.Builder
		for x := 0; x < b.dim; x++ {
			row.WriteString(b.squares[y*b.dim+x].String())
		}
		rows[y] = row.String()
	}
	return rows
}

// String is a compact single-line form, rows separated by slashes.
func (b *Board) String() string {
	return strings.Join(b.Rows(), "/")
}

// FromString parses the String form.
func FromString(s string) (*Board, error) {
	return FromRows(strings.Split(strings.TrimSpace(s), "/"))
}

// IsCorner returns true if (x, y) is one of the four corners.
func (b *Board) IsCorner(x, y int) bool {
	last := b.dim - 1
	return (x == 0 || x == last) && (y == 0 || y == last)
}

// IsEdge returns true for squares on the outer ring, corners included.
func (b *Board) IsEdge(x, y int) bool {
	last := b.dim - 1
	return x == 0 || x == last || y == 0 || y == last
}

// Corners returns the four corner squares.
func (b *Board) Corners() [4]move.Move {
	last := b.dim - 1
	return [4]move.Move{{X: 0, Y: 0}, {X: last, Y: 0}, {X: 0, Y: last}, {X: last, Y: last}}
}

// AdjacentCorner returns the corner that (x, y) touches (orthogonally or
// diagonally), if any.
func (b *Board) AdjacentCorner(x, y int) (move.Move, bool) {
	for _, c := range b.Corners() {
		dx, dy := x-c.X, y-c.Y
		if dx == 0 && dy == 0 {
			continue
		}
		if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 {
			return c, true
		}
	}
	return move.PassMove, false
}

// HasEmptyNeighbor returns true if any of the eight squares around (x, y)
// is on the board and empty.
func (b *Board) HasEmptyNeighbor(x, y int) bool {
	for _, d := range directions {
		nx, ny := x+d[0], y+d[1]
		if b.inBounds(nx, ny) && b.squares[ny*b.dim+nx] == Empty {
			return true
		}
	}
	return false
}

// HasNeighbor returns true if any of the eight squares around (x, y) holds
// color c.
func (b *Board) HasNeighbor(x, y int, c Color) bool {
	for _, d := range directions {
		nx, ny := x+d[0], y+d[1]
		if b.inBounds(nx, ny) && b.squares[ny*b.dim+nx] == c {
			return true
		}
	}
	return false
}
