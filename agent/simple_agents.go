package agent

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
)

// RandomAgent plays a uniformly random legal move.
type RandomAgent struct {
	name string
}

func NewRandomAgent(name string) *RandomAgent {
	return &RandomAgent{name: name}
}

func (a *RandomAgent) Name() string {
	return a.name
}

func (a *RandomAgent) Decide(ctx context.Context, p Perception) move.Move {
	if !validate(p) {
		return move.PassMove
	}
	moves := p.Board.ValidMoves(p.Color)
	if len(moves) == 0 {
		return move.PassMove
	}
	return moves[frand.Intn(len(moves))]
}

// GreedyAgent does not search. It takes a corner if it can; otherwise it
// keeps the moves that leave the opponent the fewest replies (edges first
// among those) and plays the one with the best one-ply score.
type GreedyAgent struct {
	name string
	ev   *eval.Evaluator
}

func NewGreedyAgent(name string, ev *eval.Evaluator) *GreedyAgent {
	return &GreedyAgent{name: name, ev: ev}
}

func (a *GreedyAgent) Name() string {
	return a.name
}

func (a *GreedyAgent) Decide(ctx context.Context, p Perception) (m move.Move) {
	if !validate(p) {
		return Fallback(p.Board, p.Color, a.ev)
	}
	defer recoverDecision(a.name, p, a.ev, &m)
	b, c := p.Board, p.Color
	moves := b.ValidMoves(c)
	switch len(moves) {
	case 0:
		return move.PassMove
	case 1:
		return moves[0]
	}
	if m, ok := CornerMove(b, c, moves, a.ev); ok {
		return m
	}
	candidates := RestrictiveMoves(b, c, moves)
	best := lo.MaxBy(candidates, func(x, y move.Move) bool {
		if ctx.Err() != nil {
			return false
		}
		sx, _ := a.ev.MoveScore(b, x, c)
		sy, _ := a.ev.MoveScore(b, y, c)
		return sx > sy
	})
	log.Debug().Str("agent", a.name).Int("candidates", len(candidates)).
		Str("move", best.ShortDescription()).Msg("decided")
	return best
}

// RestrictiveMoves returns the moves that leave the opponent the fewest
// legal replies. If some of those are on the edge, only the edge moves are
// returned.
func RestrictiveMoves(b *board.Board, c board.Color, moves []move.Move) []move.Move {
	opp := c.Opponent()
	after := b.Clone()
	replies := lo.Map(moves, func(m move.Move, _ int) int {
		after.CopyFrom(b)
		after.PlayMove(m, c)
		return after.NumValidMoves(opp)
	})
	fewest := lo.Min(replies)
	best := lo.Filter(moves, func(_ move.Move, i int) bool {
		return replies[i] == fewest
	})
	if len(best) > 1 {
		edges := lo.Filter(best, func(m move.Move, _ int) bool {
			return b.IsEdge(m.X, m.Y)
		})
		if len(edges) > 0 {
			return edges
		}
	}
	return best
}
