package board

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/reversi/move"
)

func mustRows(t testing.TB, rows ...string) *Board {
	b, err := FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(8)
	is.NoErr(err)
	is.Equal(b.At(3, 3), White)
	is.Equal(b.At(4, 3), Black)
	is.Equal(b.At(4, 4), White)
	is.Equal(b.At(3, 4), Black)

	moves := b.ValidMoves(Black)
	// row-major order
	is.Equal(moves, []move.Move{{X: 3, Y: 2}, {X: 2, Y: 3}, {X: 5, Y: 4}, {X: 4, Y: 5}})
	is.Equal(len(b.ValidMoves(White)), 4)
	is.Equal(b.NumValidMoves(Black), 4)
}

func TestBadDimension(t *testing.T) {
	is := is.New(t)
	for _, dim := range []int{0, 2, 7, 28} {
		_, err := NewBoard(dim)
		is.True(errors.Is(err, ErrBadDimension))
	}
	_, err := FromRows([]string{"....", "..Q.", "....", "...."})
	is.True(errors.Is(err, ErrBadRow))
	_, err = FromRows([]string{"....", "...", "....", "...."})
	is.True(errors.Is(err, ErrBadRow))
}

func TestApplyOccupiedNeverMutates(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	before := b.Clone()
	for _, c := range []Color{Black, White} {
		for _, sq := range []move.Move{{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 3, Y: 4}} {
			is.True(!b.Apply(sq.X, sq.Y, c))
			is.True(b.Equals(before))
		}
	}
	// off the board
	is.True(!b.Apply(-1, 0, Black))
	is.True(!b.Apply(8, 8, Black))
	// empty, but flips nothing
	is.True(!b.Apply(0, 0, Black))
	// Empty is not a side.
	is.True(!b.Apply(3, 2, Empty))
	is.True(b.Equals(before))
}

func TestFlipsOnlyBoundedRuns(t *testing.T) {
	is := is.New(t)
	b := mustRows(t,
		".WWBW...",
		"WW......",
		"W.B.....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	flipped, ok := b.ApplyFlips(0, 0, Black, nil)
	is.True(ok)
	is.Equal(len(flipped), 3)
	is.Equal(b.At(0, 0), Black)
	is.Equal(b.At(1, 0), Black)
	is.Equal(b.At(2, 0), Black)
	is.Equal(b.At(1, 1), Black)
	// beyond the anchor
	is.Equal(b.At(4, 0), White)
	// unbounded run down the first column
	is.Equal(b.At(0, 1), White)
	is.Equal(b.At(0, 2), White)
	black, white := b.Score()
	is.Equal(black, 6)
	is.Equal(white, 3)
	is.Equal(b.Empties(), 64-9)
}

func TestPassScenario(t *testing.T) {
	is := is.New(t)
	b := mustRows(t,
		"BW..",
		"....",
		"....",
		"....",
	)
	is.True(!b.CanPlay(White))
	is.True(b.CanPlay(Black))
	is.True(!b.IsTerminal())
	is.Equal(b.ValidMoves(Black), []move.Move{{X: 2, Y: 0}})
}

func TestTerminalScenarios(t *testing.T) {
	is := is.New(t)
	b := mustRows(t,
		"BBBB",
		"BBBB",
		"WWWW",
		"WWWW",
	)
	is.True(b.IsTerminal())
	is.Equal(b.Winner(), Empty)

	b = mustRows(t,
		"BB..",
		"....",
		"..B.",
		"....",
	)
	is.True(b.IsTerminal())
	is.Equal(b.Winner(), Black)
	black, white := b.Score()
	is.Equal(black, 3)
	is.Equal(white, 0)
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	c := b.Clone()
	is.True(c.Apply(3, 2, Black))
	is.Equal(b.At(3, 2), Empty)
	is.Equal(b.At(3, 3), White)
	is.Equal(b.Count(Black), 2)
	is.Equal(c.Count(Black), 4)

	var scratch Board
	scratch.CopyFrom(c)
	is.True(scratch.Equals(c))
	is.True(scratch.Apply(2, 2, White))
	is.True(!scratch.Equals(c))
}

func TestSetIgnoresBadSquares(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(6)
	b.Set(0, 0, Color(3))
	b.Set(6, 0, Black)
	b.Set(-1, 2, White)
	is.Equal(b.At(0, 0), Empty)
	is.Equal(b.Count(Black), 2)
	is.Equal(b.Count(White), 2)
	is.Equal(b.Empties(), 32)

	b.Set(0, 0, Black)
	is.Equal(b.Count(Black), 3)
	b.Set(0, 0, Empty)
	is.Equal(b.Count(Black), 2)
	is.Equal(b.Empties(), 32)
}

func TestStringRoundTrip(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(6)
	s := b.String()
	is.Equal(s, "....../....../..WB../..BW../....../......")
	b2, err := FromString(s)
	is.NoErr(err)
	is.True(b.Equals(b2))
	is.True(strings.Contains(b.ToDisplayText(), "Black (B): 2  White (W): 2"))
}

// Random playouts: every generated move must pass LegalMove and Apply, and
// every square that passes LegalMove must be generated.
func TestValidMovesMatchesLegalMove(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewPCG(7, 11))
	for _, dim := range []int{4, 6, 8, 10} {
		for game := 0; game < 20; game++ {
			b, err := NewBoard(dim)
			is.NoErr(err)
			toMove := Black
			for !b.IsTerminal() {
				moves := b.ValidMoves(toMove)
				legal := map[move.Move]bool{}
				for y := 0; y < dim; y++ {
					for x := 0; x < dim; x++ {
						if b.LegalMove(toMove, x, y) {
							legal[move.Move{X: x, Y: y}] = true
						}
						c := b.Clone()
						is.Equal(c.Apply(x, y, toMove), b.LegalMove(toMove, x, y))
					}
				}
				is.Equal(len(moves), len(legal))
				for _, m := range moves {
					is.True(legal[m])
				}
				is.Equal(b.CanPlay(toMove), len(moves) > 0)
				if len(moves) > 0 {
					m := moves[rng.IntN(len(moves))]
					is.True(b.PlayMove(m, toMove))
				}
				toMove = toMove.Opponent()
			}
			black, white := b.Score()
			is.Equal(black+white+b.Empties(), dim*dim)
		}
	}
}

func TestColors(t *testing.T) {
	is := is.New(t)
	is.Equal(Black.Opponent(), White)
	is.Equal(White.Opponent(), Black)
	is.Equal(Black.Opponent().Opponent(), Black)
	is.Equal(Empty.Opponent(), Empty)
	c, err := ColorFromString("white")
	is.NoErr(err)
	is.Equal(c, White)
	_, err = ColorFromString("red")
	is.True(errors.Is(err, ErrBadColor))
}

func BenchmarkClone(b *testing.B) {
	bd, _ := NewBoard(8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.Clone()
	}
}

func BenchmarkValidMoves(b *testing.B) {
	bd, _ := NewBoard(8)
	moves := make([]move.Move, 0, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moves = bd.AppendValidMoves(moves[:0], Black)
	}
}
