// Package board contains the Reversi board: legality checks, move
// generation and move application. It knows nothing about search.
package board

import (
	"errors"
	"fmt"

	"github.com/domino14/reversi/move"
)

const (
	MinDim     = 4
	MaxDim     = move.MaxDim
	DefaultDim = 8
)

var (
	ErrBadDimension = errors.New("board dimension must be even and between 4 and 26")
	ErrBadRow       = errors.New("bad board row")
)

// The eight rays, as (dx, dy) pairs.
var directions = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Board is a square Reversi board. Squares are stored row-major, so the
// square at column x, row y lives at index y*dim+x.
type Board struct {
	dim     int
	squares []Color
	// counts is indexed by Color and is kept in sync with squares.
	counts [3]int
}

func validDim(dim int) bool {
	return dim >= MinDim && dim <= MaxDim && dim%2 == 0
}

// NewEmptyBoard creates a board with no discs on it.
func NewEmptyBoard(dim int) (*Board, error) {
	if !validDim(dim) {
		return nil, fmt.Errorf("%w: %d", ErrBadDimension, dim)
	}
	b := &Board{dim: dim, squares: make([]Color, dim*dim)}
	b.counts[Empty] = dim * dim
	return b, nil
}

// NewBoard creates a board with the standard four-disc opening.
func NewBoard(dim int) (*Board, error) {
	b, err := NewEmptyBoard(dim)
	if err != nil {
		return nil, err
	}
	m := dim/2 - 1
	b.Set(m, m, White)
	b.Set(m+1, m, Black)
	b.Set(m+1, m+1, White)
	b.Set(m, m+1, Black)
	return b, nil
}

// FromRows builds a board from its rows, top to bottom. Each row has one
// character per square: B or W for discs, '.' or a space for empty.
func FromRows(rows []string) (*Board, error) {
	b, err := NewEmptyBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != b.dim {
			return nil, fmt.Errorf("%w: row %d has %d squares, want %d",
				ErrBadRow, y, len(runes), b.dim)
		}
		for x, r := range runes {
			c, ok := squareFromRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: row %d has unknown square %q", ErrBadRow, y, r)
			}
			b.Set(x, y, c)
		}
	}
	return b, nil
}

func (b *Board) Dim() int {
	return b.dim
}

// Squares returns the underlying row-major squares. Callers must not modify
// the returned slice.
func (b *Board) Squares() []Color {
	return b.squares
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.dim && y >= 0 && y < b.dim
}

// At returns the square at column x, row y. Off-board squares are Empty.
func (b *Board) At(x, y int) Color {
	if !b.inBounds(x, y) {
		return Empty
	}
	return b.squares[y*b.dim+x]
}

// Set puts a color on a square unconditionally. It is meant for setting up
// positions, not for playing moves. Off-board squares and colors other than
// Empty, Black and White are ignored.
func (b *Board) Set(x, y int, c Color) {
	if !b.inBounds(x, y) || c > White {
		return
	}
	idx := y*b.dim + x
	b.counts[b.squares[idx]]--
	b.squares[idx] = c
	b.counts[c]++
}

// run returns the number of opponent discs bounded by a disc of color c
// along the ray starting next to (x, y) in direction (dx, dy). An unbounded
// run counts as zero.
func (b *Board) run(x, y, dx, dy int, c, opp Color) int {
	n := 0
	x, y = x+dx, y+dy
	for x >= 0 && x < b.dim && y >= 0 && y < b.dim {
		switch b.squares[y*b.dim+x] {
		case opp:
			n++
		case c:
			return n
		default:
			return 0
		}
		x, y = x+dx, y+dy
	}
	return 0
}

// LegalMove returns true if color c may place a disc at (x, y): the square
// is on the board and empty, and at least one ray holds a run of opponent
// discs closed off by one of c's discs.
func (b *Board) LegalMove(c Color, x, y int) bool {
	if !c.Valid() || !b.inBounds(x, y) || b.squares[y*b.dim+x] != Empty {
		return false
	}
	opp := c.Opponent()
	for _, d := range directions {
		if b.run(x, y, d[0], d[1], c, opp) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves returns every legal move for c, in row-major order.
func (b *Board) ValidMoves(c Color) []move.Move {
	return b.AppendValidMoves(nil, c)
}

// AppendValidMoves appends the legal moves for c to dst in row-major order.
func (b *Board) AppendValidMoves(dst []move.Move, c Color) []move.Move {
	for y := 0; y < b.dim; y++ {
		for x := 0; x < b.dim; x++ {
			if b.LegalMove(c, x, y) {
				dst = append(dst, move.Move{X: x, Y: y})
			}
		}
	}
	return dst
}

// NumValidMoves counts legal moves without building a list.
func (b *Board) NumValidMoves(c Color) int {
	n := 0
	for y := 0; y < b.dim; y++ {
		for x := 0; x < b.dim; x++ {
			if b.LegalMove(c, x, y) {
				n++
			}
		}
	}
	return n
}

// CanPlay returns true as soon as any legal move for c is found.
func (b *Board) CanPlay(c Color) bool {
	if b.counts[Empty] == 0 {
		return false
	}
	for y := 0; y < b.dim; y++ {
		for x := 0; x < b.dim; x++ {
			if b.LegalMove(c, x, y) {
				return true
			}
		}
	}
	return false
}

// IsTerminal returns true if neither side can move.
func (b *Board) IsTerminal() bool {
	return !b.CanPlay(Black) && !b.CanPlay(White)
}

// Apply places a disc of color c at (x, y) and flips every bounded
// opponent run. It returns false, leaving the board untouched, if the
// square is off the board or occupied, or if the placement flips nothing.
func (b *Board) Apply(x, y int, c Color) bool {
	_, ok := b.ApplyFlips(x, y, c, nil)
	return ok
}

// PlayMove is Apply for a move value.
func (b *Board) PlayMove(m move.Move, c Color) bool {
	return b.Apply(m.X, m.Y, c)
}

// ApplyFlips is Apply, but it also appends the index of every flipped
// square to dst.
func (b *Board) ApplyFlips(x, y int, c Color, dst []int) ([]int, bool) {
	if !c.Valid() || !b.inBounds(x, y) || b.squares[y*b.dim+x] != Empty {
		return dst, false
	}
	opp := c.Opponent()
	var runs [8]int
	total := 0
	for i, d := range directions {
		runs[i] = b.run(x, y, d[0], d[1], c, opp)
		total += runs[i]
	}
	if total == 0 {
		return dst, false
	}
	idx := y*b.dim + x
	b.squares[idx] = c
	b.counts[Empty]--
	b.counts[c]++
	for i, d := range directions {
		cx, cy := x, y
		for k := 0; k < runs[i]; k++ {
			cx, cy = cx+d[0], cy+d[1]
			fidx := cy*b.dim + cx
			b.squares[fidx] = c
			dst = append(dst, fidx)
		}
	}
	b.counts[c] += total
	b.counts[opp] -= total
	return dst, true
}

// Count returns the number of squares holding c.
func (b *Board) Count(c Color) int {
	return b.counts[c]
}

// Empties returns the number of empty squares.
func (b *Board) Empties() int {
	return b.counts[Empty]
}

// Score is a simple disc tally.
func (b *Board) Score() (black, white int) {
	return b.counts[Black], b.counts[White]
}

// Winner returns the color with more discs, or Empty on a draw. It does not
// check that the game is over.
func (b *Board) Winner() Color {
	black, white := b.Score()
	switch {
	case black > white:
		return Black
	case white > black:
		return White
	}
	return Empty
}

// Clone returns a fully independent copy.
func (b *Board) Clone() *Board {
	n := &Board{dim: b.dim, squares: make([]Color, len(b.squares)), counts: b.counts}
	copy(n.squares, b.squares)
	return n
}

// CopyFrom overwrites b with the contents of src, reusing b's storage when
// the dimensions match.
func (b *Board) CopyFrom(src *Board) {
	if cap(b.squares) < len(src.squares) {
		b.squares = make([]Color, len(src.squares))
	}
	b.squares = b.squares[:len(src.squares)]
	copy(b.squares, src.squares)
	b.dim = src.dim
	b.counts = src.counts
}

// Equals returns true if both boards have the same size and discs.
func (b *Board) Equals(other *Board) bool {
	if other == nil || b.dim != other.dim {
		return false
	}
	for i := range b.squares {
		if b.squares[i] != other.squares[i] {
			return false
		}
	}
	return true
}
