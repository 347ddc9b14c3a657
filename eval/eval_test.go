package eval

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

func mustRows(t testing.TB, rows ...string) *board.Board {
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEvaluateIsAntisymmetric(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewPCG(3, 5))
	for name, w := range Presets() {
		ev := NewEvaluator(w)
		for _, dim := range []int{4, 6, 8} {
			for game := 0; game < 5; game++ {
				b, err := board.NewBoard(dim)
				is.NoErr(err)
				toMove := board.Black
				for {
					if ev.Evaluate(b, board.Black) != -ev.Evaluate(b, board.White) {
						t.Fatalf("%v: not antisymmetric on %v", name, b)
					}
					if b.IsTerminal() {
						break
					}
					moves := b.ValidMoves(toMove)
					if len(moves) > 0 {
						is.True(b.PlayMove(moves[rng.IntN(len(moves))], toMove))
					}
					toMove = toMove.Opponent()
				}
			}
		}
	}
}

func TestTerminalScores(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(Presets()[DefaultWeightSet])

	won := mustRows(t,
		"BB..",
		"....",
		"..B.",
		"....",
	)
	is.Equal(ev.Evaluate(won, board.Black), WinScore+3)
	is.Equal(ev.Evaluate(won, board.White), -WinScore-3)

	drawn := mustRows(t,
		"BBBB",
		"BBBB",
		"WWWW",
		"WWWW",
	)
	is.Equal(ev.Evaluate(drawn, board.Black), 0)
	is.Equal(ev.Evaluate(drawn, board.White), 0)
}

func TestWinDominatesHeuristics(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(Presets()[DefaultWeightSet])
	b, _ := board.NewBoard(8)
	is.True(ev.Evaluate(b, board.Black) < WinScore/2)
	is.True(ev.Evaluate(b, board.Black) > -WinScore/2)
}

func TestCornerIsWorthMore(t *testing.T) {
	is := is.New(t)
	ev := NewEvaluator(Presets()[DefaultWeightSet])
	b := mustRows(t,
		"........",
		".W......",
		"..WB....",
		"...BB...",
		"...BW...",
		"........",
		"........",
		"........",
	)
	// a1 takes the corner; f6 is an interior move.
	corner, ok := ev.MoveScore(b, move.New(0, 0), board.Black)
	is.True(ok)
	interior, ok := ev.MoveScore(b, move.New(5, 5), board.Black)
	is.True(ok)
	is.True(corner > interior)

	_, ok = ev.MoveScore(b, move.New(7, 7), board.Black)
	is.True(!ok)
}

func TestQuadrants(t *testing.T) {
	is := is.New(t)
	b := mustRows(t,
		"BB......",
		"BB......",
		"........",
		"........",
		"........",
		"........",
		"......WW",
		"......W.",
	)
	is.Equal(Quadrants(b, board.Black), 0)
	b.Set(7, 0, board.Black)
	is.Equal(Quadrants(b, board.Black), 1)
	is.Equal(Quadrants(b, board.White), -1)
	is.Equal(Frontier(b, board.White), 3)
}

func TestLoadWeightSets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	err := os.WriteFile(path, []byte(`
standard:
  disc-style: raw
  discs: 7
aggressive:
  mobility-early: 90
  mobility-late: 10
`), 0o644)
	require.NoError(t, err)

	sets, err := LoadWeightSets(path)
	require.NoError(t, err)
	assert.Equal(t, 7, sets["standard"].Discs)
	assert.Equal(t, 90, sets["aggressive"].MobilityEarly)
	assert.Contains(t, WeightSetNames(sets), "classic")

	_, err = Lookup(sets, "nope")
	assert.ErrorIs(t, err, ErrUnknownWeightSet)

	err = os.WriteFile(path, []byte("bad:\n  disc-style: cubic\n"), 0o644)
	require.NoError(t, err)
	_, err = LoadWeightSets(path)
	assert.Error(t, err)
}

func TestPresetNames(t *testing.T) {
	is := is.New(t)
	is.Equal(WeightSetNames(Presets()), []string{"classic", "discs", "greedy", "standard"})
}
