package agent

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMoveTimeCap, 30*time.Millisecond)
	cfg.Set(config.ConfigSafetyMargin, 5*time.Millisecond)
	cfg.Set(config.ConfigEndgameEmpties, 6)
	cfg.Set(config.ConfigTTMinPow, 10)
	cfg.Set(config.ConfigTTMaxPow, 14)
	return cfg
}

func mustRows(t testing.TB, rows ...string) *board.Board {
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEveryAgentPlaysLegalGames(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	for _, name := range Names() {
		for _, oppName := range []string{NameRandom, NameGreedy} {
			a, err := New(name, cfg)
			is.NoErr(err)
			opp, err := New(oppName, cfg)
			is.NoErr(err)
			players := map[board.Color]Agent{board.Black: a, board.White: opp}

			b, err := board.NewBoard(6)
			is.NoErr(err)
			toMove := board.Black
			for !b.IsTerminal() {
				m := players[toMove].Decide(context.Background(), Perception{
					Color:             toMove,
					Board:             b.Clone(),
					Remaining:         10 * time.Second,
					OpponentRemaining: 10 * time.Second,
				})
				if b.CanPlay(toMove) {
					if !b.PlayMove(m, toMove) {
						t.Fatalf("%v played illegal move %v on %v", players[toMove].Name(), m, b)
					}
				} else {
					is.True(m.IsPass())
				}
				toMove = toMove.Opponent()
			}
		}
	}
}

func TestCornerFirst(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
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
	for _, name := range []string{NameAlphaBeta, NameMTDF, NameMinimax, NameGreedy} {
		a, err := New(name, cfg)
		is.NoErr(err)
		m := a.Decide(context.Background(), Perception{Color: board.Black, Board: b.Clone()})
		is.Equal(m, move.New(0, 0))
	}
}

func TestGameEndingMove(t *testing.T) {
	is := is.New(t)
	b := mustRows(t,
		"BW..",
		"....",
		"....",
		"....",
	)
	m, ok := GameEndingMove(b, board.Black, b.ValidMoves(board.Black))
	is.True(ok)
	is.Equal(m, move.New(2, 0))

	b, _ = board.NewBoard(8)
	_, ok = GameEndingMove(b, board.Black, b.ValidMoves(board.Black))
	is.True(!ok)
}

func TestBadPerceptionPasses(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	b, _ := board.NewBoard(8)
	for _, name := range Names() {
		a, err := New(name, cfg)
		is.NoErr(err)
		is.True(a.Decide(context.Background(), Perception{Color: board.Black}).IsPass())
		is.True(a.Decide(context.Background(), Perception{Color: board.Empty, Board: b}).IsPass())
	}
}

func TestNoMovesPasses(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	b := mustRows(t,
		"BW..",
		"....",
		"....",
		"....",
	)
	for _, name := range Names() {
		a, err := New(name, cfg)
		is.NoErr(err)
		is.True(a.Decide(context.Background(), Perception{Color: board.White, Board: b}).IsPass())
	}
}

func TestExpiredContextStillMoves(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	b, _ := board.NewBoard(8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range Names() {
		a, err := New(name, cfg)
		is.NoErr(err)
		m := a.Decide(ctx, Perception{Color: board.Black, Board: b, Remaining: time.Millisecond})
		is.True(b.LegalMove(board.Black, m.X, m.Y))
	}
}

func decideAndPanic(p Perception, ev *eval.Evaluator) (m move.Move) {
	defer recoverDecision("panicky", p, ev, &m)
	panic("search blew up")
}

func TestPanicFallsBack(t *testing.T) {
	is := is.New(t)
	b, _ := board.NewBoard(8)
	ev := eval.NewEvaluator(eval.Presets()["greedy"])
	m := decideAndPanic(Perception{Color: board.Black, Board: b}, ev)
	is.True(b.LegalMove(board.Black, m.X, m.Y))
}

func TestFallback(t *testing.T) {
	is := is.New(t)
	b, _ := board.NewBoard(8)
	m := Fallback(b, board.Black, nil)
	is.True(b.LegalMove(board.Black, m.X, m.Y))
	is.True(Fallback(nil, board.Black, nil).IsPass())
}

func TestRestrictiveMoves(t *testing.T) {
	is := is.New(t)
	b, _ := board.NewBoard(8)
	moves := b.ValidMoves(board.Black)
	// every opening move leaves White three replies
	is.Equal(RestrictiveMoves(b, board.Black, moves), moves)
}

func TestBudget(t *testing.T) {
	bu := Budget{
		MoveTimeCap:    2 * time.Second,
		SafetyMargin:   50 * time.Millisecond,
		EndgameEmpties: 12,
	}
	b, err := board.NewBoard(8)
	require.NoError(t, err)
	// 60 empties: 31 moves left, 31s / 31 = 1s
	assert.Equal(t, 950*time.Millisecond, bu.MoveTime(b, 31*time.Second))
	assert.Equal(t, 1950*time.Millisecond, bu.MoveTime(b, 10*time.Minute))
	assert.Equal(t, 1950*time.Millisecond, bu.MoveTime(b, 0))
	assert.Equal(t, time.Duration(0), bu.MoveTime(b, 31*time.Millisecond))

	assert.Equal(t, 60, bu.Depth(b, time.Second))
	assert.Equal(t, BaseDepth(8), bu.Depth(b, 10*time.Millisecond))
	bu.MaxDepth = 5
	assert.Equal(t, 5, bu.Depth(b, time.Second))

	endgame := mustRows(t,
		"BBBBWWWW",
		"BBBBWWWW",
		"BBBBWWWW",
		"BBBB....",
		"BBBB....",
		"BBBB..WW",
		"BBBBWWWW",
		"BBBBWWWW",
	)
	assert.Equal(t, 10, bu.Depth(endgame, time.Second))

	assert.Equal(t, 5, BaseDepth(8))
	assert.Equal(t, 3, BaseDepth(26))
}

func TestUnknownAgent(t *testing.T) {
	_, err := New("deepblue", testConfig())
	assert.True(t, errors.Is(err, ErrUnknownAgent))
	_, err = New("alphabeta:nope", testConfig())
	assert.True(t, errors.Is(err, eval.ErrUnknownWeightSet))
	a, err := New("greedy:discs", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "greedy:discs", a.Name())
}
