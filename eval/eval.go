// Package eval scores Reversi positions statically. Every term is the
// difference between the side to move and its opponent, so
// Evaluate(b, Black) == -Evaluate(b, White) for any board, which is what
// a negamax search needs.
package eval

import (
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

// WinScore is added to the disc differential of a finished game, so that a
// won game outscores every heuristic position.
const WinScore = 1 << 24

type Evaluator struct {
	w Weights
}

func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{w: w}
}

func (e *Evaluator) Weights() Weights {
	return e.w
}

// diff returns (mine - theirs), or 100*(mine-theirs)/(mine+theirs) in the
// normalized style.
func diff(style string, mine, theirs int) int {
	d := mine - theirs
	if style != StyleNormalized {
		return d
	}
	total := mine + theirs
	if total == 0 {
		return 0
	}
	return 100 * d / total
}

// FinalScore scores a finished game for c.
func FinalScore(b *board.Board, c board.Color) int {
	d := b.Count(c) - b.Count(c.Opponent())
	switch {
	case d > 0:
		return WinScore + d
	case d < 0:
		return -WinScore + d
	}
	return 0
}

// Evaluate scores b from c's point of view.
func (e *Evaluator) Evaluate(b *board.Board, c board.Color) int {
	opp := c.Opponent()
	myMoves := b.NumValidMoves(c)
	oppMoves := b.NumValidMoves(opp)
	if myMoves == 0 && oppMoves == 0 {
		return FinalScore(b, c)
	}
	w := &e.w
	score := 0
	if w.Discs != 0 {
		score += w.Discs * diff(w.DiscStyle, b.Count(c), b.Count(opp))
	}
	mobility := w.MobilityLate
	if 2*b.Empties() > b.Dim()*b.Dim() {
		mobility = w.MobilityEarly
	}
	if mobility != 0 {
		score += mobility * diff(w.MobilityStyle, myMoves, oppMoves)
	}
	score += e.squareTerms(b, c)
	if w.Quadrant != 0 {
		score += w.Quadrant * Quadrants(b, c)
	}
	return score
}

// squareTerms sums every per-square term in one pass over the board.
func (e *Evaluator) squareTerms(b *board.Board, c board.Color) int {
	w := &e.w
	if w.Corner == 0 && w.XSquare == 0 && w.Stability == 0 && w.Frontier == 0 &&
		w.Potential == 0 && w.Positional == (Positional{}) {
		return 0
	}
	opp := c.Opponent()
	dim := b.Dim()
	score := 0
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			sq := b.At(x, y)
			if sq == board.Empty {
				if w.Potential != 0 {
					// Empty squares next to the opponent are our future moves.
					if b.HasNeighbor(x, y, opp) {
						score += w.Potential
					}
					if b.HasNeighbor(x, y, c) {
						score -= w.Potential
					}
				}
				continue
			}
			sign := 1
			if sq != c {
				sign = -1
			}
			v := e.positional(b, x, y)
			if b.IsCorner(x, y) {
				v += w.Corner
			} else if corner, ok := b.AdjacentCorner(x, y); ok && b.At(corner.X, corner.Y) == board.Empty {
				v += w.XSquare
			}
			if b.IsEdge(x, y) {
				v += w.Stability
			}
			if w.Frontier != 0 && b.HasEmptyNeighbor(x, y) {
				v += w.Frontier
			}
			score += sign * v
		}
	}
	return score
}

func (e *Evaluator) positional(b *board.Board, x, y int) int {
	p := &e.w.Positional
	switch {
	case b.IsCorner(x, y):
		return p.Corner
	case isNearCorner(b, x, y):
		return p.NearCorner
	case b.IsEdge(x, y):
		return p.Edge
	}
	return 0
}

func isNearCorner(b *board.Board, x, y int) bool {
	_, ok := b.AdjacentCorner(x, y)
	return ok
}

// PositionalValue is the positional table value of a single square.
func (e *Evaluator) PositionalValue(b *board.Board, m move.Move) int {
	return e.positional(b, m.X, m.Y)
}

// quadrantSide is the side of a quadrant block on a board of dimension dim.
func quadrantSide(dim int) int {
	return max(2, dim/4)
}

// Quadrants splits the board into square blocks and returns the number of
// blocks where c holds more discs minus the number where the opponent does.
func Quadrants(b *board.Board, c board.Color) int {
	dim := b.Dim()
	q := quadrantSide(dim)
	score := 0
	for qy := 0; qy < dim; qy += q {
		for qx := 0; qx < dim; qx += q {
			mine, theirs := 0, 0
			for y := qy; y < min(qy+q, dim); y++ {
				for x := qx; x < min(qx+q, dim); x++ {
					switch b.At(x, y) {
					case c:
						mine++
					case c.Opponent():
						theirs++
					}
				}
			}
			switch {
			case mine > theirs:
				score++
			case theirs > mine:
				score--
			}
		}
	}
	return score
}

// Frontier counts c's discs that touch at least one empty square.
func Frontier(b *board.Board, c board.Color) int {
	n := 0
	dim := b.Dim()
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if b.At(x, y) == c && b.HasEmptyNeighbor(x, y) {
				n++
			}
		}
	}
	return n
}

// outerBlock returns true for a move in the outer ring of quadrant blocks.
// Central blocks are worth less.
func outerBlock(dim int, m move.Move) bool {
	q := quadrantSide(dim)
	last := (dim - 1) / q
	qx, qy := m.X/q, m.Y/q
	return qx == 0 || qy == 0 || qx == last || qy == last
}

// MoveScore is a one-ply static value of c playing m: the square's
// positional value, the mobility differential after the move and a bonus
// for outer blocks. It returns false if m is not legal.
func (e *Evaluator) MoveScore(b *board.Board, m move.Move, c board.Color) (int, bool) {
	after := b.Clone()
	if !after.PlayMove(m, c) {
		return 0, false
	}
	w := &e.w
	score := e.positional(b, m.X, m.Y)
	mobility := w.MobilityEarly
	if mobility == 0 {
		mobility = w.MobilityLate
	}
	score += mobility * (after.NumValidMoves(c) - after.NumValidMoves(c.Opponent()))
	if outerBlock(b.Dim(), m) {
		score += w.Quadrant
	} else {
		score -= w.Quadrant
	}
	return score, true
}
