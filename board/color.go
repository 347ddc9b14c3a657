package board

import (
	"errors"
	"fmt"
	"strings"
)

// Color is the state of a square, and also the side to move. Only Black and
// White are valid sides; Empty marks an unoccupied square.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

var ErrBadColor = errors.New("bad color")

// Opponent returns the other side. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// Valid returns true for the two playing colors.
func (c Color) Valid() bool {
	return c == Black || c == White
}

func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return "."
}

// Name is the long, human-readable name of the color.
func (c Color) Name() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	}
	return "Empty"
}

// ColorFromString parses a side to move: B / W, or black / white.
func ColorFromString(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// squareFromRune parses a single square of a board row. A space is accepted
// as empty since that is how exported grids mark empty squares.
func squareFromRune(r rune) (Color, bool) {
	switch r {
	case 'B', 'b', 'X', 'x':
		return Black, true
	case 'W', 'w', 'O', 'o':
		return White, true
	case '.', ' ', '-':
		return Empty, true
	}
	return Empty, false
}
