// Package move contains the coordinate type used for a single Reversi
// placement, plus its text forms.
package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxDim is the largest board dimension a move can be written for; columns
// are written as a single letter.
const MaxDim = 26

var (
	ErrBadCoords = errors.New("bad move coordinates")
)

// Move is a placement at column X, row Y. Both are zero-based.
type Move struct {
	X int
	Y int
}

// PassMove is the sentinel for "no legal move"; an agent returning it
// passes its turn.
var PassMove = Move{X: -1, Y: -1}

var reAlgebraic, reNumeric *regexp.Regexp

func init() {
	reAlgebraic = regexp.MustCompile(`^(?P<col>[a-z])(?P<row>[0-9]+)$`)
	reNumeric = regexp.MustCompile(`^(?P<x>-?[0-9]+)\s*,\s*(?P<y>-?[0-9]+)$`)
}

// New creates a move at column x, row y.
func New(x, y int) Move {
	return Move{X: x, Y: y}
}

// IsPass returns true if this is the pass sentinel (or any off-board
// negative coordinate).
func (m Move) IsPass() bool {
	return m.X < 0 || m.Y < 0
}

// Index returns the row-major square index for a board of the given
// dimension.
func (m Move) Index(dim int) int {
	return m.Y*dim + m.X
}

// FromIndex is the inverse of Index.
func FromIndex(idx, dim int) Move {
	return Move{X: idx % dim, Y: idx / dim}
}

// InBounds returns true if the move lies on a board of dimension dim.
func (m Move) InBounds(dim int) bool {
	return m.X >= 0 && m.X < dim && m.Y >= 0 && m.Y < dim
}

// ShortDescription is the algebraic form: a column letter and a 1-based
// row, e.g. d3 for (3,2).
func (m Move) ShortDescription() string {
	if m.IsPass() {
		return "pass"
	}
	if m.X >= MaxDim {
		return fmt.Sprintf("%d,%d", m.X, m.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+rune(m.X), m.Y+1)
}

func (m Move) String() string {
	return m.ShortDescription()
}

// FromString parses a move in algebraic form (d3), numeric x,y form, or the
// word "pass".
func FromString(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "pass" || s == "-" {
		return PassMove, nil
	}
	if sm := reAlgebraic.FindStringSubmatch(s); sm != nil {
		row, err := strconv.Atoi(sm[2])
		if err != nil {
			return PassMove, fmt.Errorf("%w: %v", ErrBadCoords, s)
		}
		if row < 1 {
			return PassMove, fmt.Errorf("%w: row must be positive: %v", ErrBadCoords, s)
		}
		return Move{X: int(sm[1][0] - 'a'), Y: row - 1}, nil
	}
	if sm := reNumeric.FindStringSubmatch(s); sm != nil {
		x, err := strconv.Atoi(sm[1])
		if err != nil {
			return PassMove, fmt.Errorf("%w: %v", ErrBadCoords, s)
		}
		y, err := strconv.Atoi(sm[2])
		if err != nil {
			return PassMove, fmt.Errorf("%w: %v", ErrBadCoords, s)
		}
		return Move{X: x, Y: y}, nil
	}
	return PassMove, fmt.Errorf("%w: %v", ErrBadCoords, s)
}
