// Package agent holds the move-choosing strategies. Every agent takes a
// Perception and always answers with a move: a legal one, or move.PassMove
// when there is none. Agents never return errors; anything that goes wrong
// inside a decision falls back to a static ranking of the legal moves.
package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/search"
)

// Perception is what an agent is told when it is its turn.
type Perception struct {
	Color             board.Color
	Board             *board.Board
	Remaining         time.Duration
	OpponentRemaining time.Duration
}

type Agent interface {
	Name() string
	// Decide picks a move for p.Color. It must return before ctx is done,
	// and it owns p.Board for the duration of the call.
	Decide(ctx context.Context, p Perception) move.Move
}

// validate returns false for a perception no agent can act on.
func validate(p Perception) bool {
	return p.Board != nil && p.Color.Valid()
}

// Fallback ranks the legal moves by their one-ply static score and returns
// the best, or move.PassMove. It never panics.
func Fallback(b *board.Board, c board.Color, ev *eval.Evaluator) (m move.Move) {
	if b == nil || !c.Valid() {
		return move.PassMove
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("fallback-panicked")
			m = move.PassMove
			if moves := b.ValidMoves(c); len(moves) > 0 {
				m = moves[0]
			}
		}
	}()
	moves := b.ValidMoves(c)
	if len(moves) == 0 {
		return move.PassMove
	}
	if ev == nil {
		return lo.MaxBy(moves, func(a, best move.Move) bool {
			return search.StaticClass(b, a) > search.StaticClass(b, best)
		})
	}
	scores := lo.SliceToMap(moves, func(m move.Move) (move.Move, int) {
		s, _ := ev.MoveScore(b, m, c)
		return m, s
	})
	return lo.MaxBy(moves, func(a, best move.Move) bool {
		return scores[a] > scores[best]
	})
}

// recoverDecision turns a panic during a decision into the fallback move.
// It must be deferred directly.
func recoverDecision(name string, p Perception, ev *eval.Evaluator, m *move.Move) {
	if r := recover(); r != nil {
		log.Error().Str("agent", name).Interface("panic", r).Msg("decide-panicked")
		*m = Fallback(p.Board, p.Color, ev)
	}
}

// GameEndingMove finds a move after which the opponent has no reply while
// c can still move, or after which the game is over with c ahead.
func GameEndingMove(b *board.Board, c board.Color, moves []move.Move) (move.Move, bool) {
	opp := c.Opponent()
	after := b.Clone()
	for _, m := range moves {
		after.CopyFrom(b)
		if !after.PlayMove(m, c) {
			continue
		}
		if after.CanPlay(opp) {
			continue
		}
		if after.CanPlay(c) || after.Count(c) > after.Count(opp) {
			return m, true
		}
	}
	return move.PassMove, false
}

// CornerMove returns the best-scoring corner among moves.
func CornerMove(b *board.Board, c board.Color, moves []move.Move, ev *eval.Evaluator) (move.Move, bool) {
	corners := lo.Filter(moves, func(m move.Move, _ int) bool {
		return b.IsCorner(m.X, m.Y)
	})
	if len(corners) == 0 {
		return move.PassMove, false
	}
	if ev == nil {
		return corners[0], true
	}
	return lo.MaxBy(corners, func(a, best move.Move) bool {
		sa, _ := ev.MoveScore(b, a, c)
		sb, _ := ev.MoveScore(b, best, c)
		return sa > sb
	}), true
}

type solveFunc func(ctx context.Context, b *board.Board, c board.Color, maxDepth int) (search.Result, error)

// searchPipeline is the decision shared by the searching agents: a
// game-ending move, then a corner, then a timed search, then the
// fallback.
func searchPipeline(ctx context.Context, name string, p Perception, ev *eval.Evaluator,
	budget Budget, solve solveFunc) move.Move {

	b, c := p.Board, p.Color
	moves := b.ValidMoves(c)
	switch len(moves) {
	case 0:
		return move.PassMove
	case 1:
		return moves[0]
	}
	if m, ok := GameEndingMove(b, c, moves); ok {
		log.Debug().Str("agent", name).Str("move", m.ShortDescription()).Msg("game-ending-move")
		return m
	}
	if m, ok := CornerMove(b, c, moves, ev); ok {
		log.Debug().Str("agent", name).Str("move", m.ShortDescription()).Msg("corner-move")
		return m
	}

	moveTime := budget.MoveTime(b, p.Remaining)
	depth := budget.Depth(b, moveTime)
	sctx, cancel := context.WithTimeout(ctx, moveTime)
	defer cancel()
	res, err := solve(sctx, b, c, depth)
	if err != nil {
		log.Err(err).Str("agent", name).Msg("search-failed")
		return Fallback(b, c, ev)
	}
	if res.Move.IsPass() || !b.LegalMove(c, res.Move.X, res.Move.Y) {
		log.Warn().Str("agent", name).Str("move", res.Move.ShortDescription()).Msg("search-returned-bad-move")
		return Fallback(b, c, ev)
	}
	log.Debug().Str("agent", name).
		Str("move", res.Move.ShortDescription()).
		Int("value", res.Value).
		Int("depth", res.Depth).
		Bool("complete", res.Complete).
		Uint64("nodes", res.Nodes).
		Dur("budget", moveTime).
		Msg("decided")
	return res.Move
}
