package search

import (
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
)

// Minimax is a plain fixed-depth negamax with no pruning, no ordering and
// no table. It is slow, and only meant as a reference for the real search.
// A side with no moves passes without using up depth.
func Minimax(b *board.Board, c board.Color, depth int, ev *eval.Evaluator) (int, move.Move) {
	if depth == 0 {
		return ev.Evaluate(b, c), move.PassMove
	}
	moves := b.ValidMoves(c)
	if len(moves) == 0 {
		if !b.CanPlay(c.Opponent()) {
			return eval.FinalScore(b, c), move.PassMove
		}
		v, _ := Minimax(b, c.Opponent(), depth, ev)
		return -v, move.PassMove
	}
	best, bestMove := -Infinity, move.PassMove
	for _, m := range moves {
		child := b.Clone()
		child.PlayMove(m, c)
		v, _ := Minimax(child, c.Opponent(), depth-1, ev)
		if -v > best {
			best, bestMove = -v, m
		}
	}
	return best, bestMove
}
