package search

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

// SolveMTDF is Solve, but each depth is searched with a series of null
// window probes (MTD(f)), seeded with the value of the previous depth.
// See Plaat et al., "Best-first fixed-depth minimax algorithms".
func (s *Solver) SolveMTDF(ctx context.Context, b *board.Board, c board.Color, maxDepth int) (Result, error) {
	return s.solve(ctx, b, c, maxDepth, "mtdf", func(key uint64, depth int, prev Result) (int, move.Move) {
		guess := prev.Value
		if !prev.Complete {
			guess = s.ev.Evaluate(b, c)
		}
		return s.mtdf(ctx, b, c, key, depth, guess, prev.Move)
	})
}

func (s *Solver) mtdf(ctx context.Context, b *board.Board, c board.Color, key uint64,
	depth, guess int, hint move.Move) (int, move.Move) {

	g := guess
	lower, upper := -Infinity, Infinity
	bestMove := move.PassMove
	lastMove := hint
	probes := 0
	for lower < upper && probes < s.maxProbes {
		β := g
		if g == lower {
			β = g + 1
		}
		if !bestMove.IsPass() {
			s.rootHint = bestMove
		}
		val, m := s.negamax(ctx, b, c, key, depth, 0, β-1, β)
		if s.timedOut {
			return 0, move.PassMove
		}
		probes++
		s.probes = probes
		g = val
		lastMove = m
		if g < β {
			upper = g
		} else {
			lower = g
			// A fail high proves m reaches at least g.
			bestMove = m
		}
	}
	log.Debug().Int("depth", depth).Int("probes", probes).Int("lower", lower).
		Int("upper", upper).Msg("mtdf-converged")
	if bestMove.IsPass() {
		if !hint.IsPass() {
			return g, hint
		}
		return g, lastMove
	}
	return g, bestMove
}
