package search

import (
	"cmp"
	"slices"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

const MaxKillers = 2

// Ordering tiers; a higher tier is searched first.
const (
	tierPlain = iota
	tierKiller1
	tierKiller0
	tierHashMove
)

// Static square classes, best first.
const (
	classNearEmptyCorner = iota
	classInterior
	classEdge
	classCorner
)

type scoredMove struct {
	m       move.Move
	tier    int
	history int
	class   int
	// oppMobility is only filled in when mobility ordering is on.
	oppMobility int
}

// Orderer sorts moves so that the ones most likely to cause a cutoff are
// searched first. Killer moves are kept per remaining depth; the history
// table is per square.
type Orderer struct {
	dim     int
	killers [][MaxKillers]move.Move
	history []int

	useKillers bool
	useHistory bool

	scored  []scoredMove
	scratch *board.Board
}

func NewOrderer(dim int, useKillers, useHistory bool) *Orderer {
	o := &Orderer{useKillers: useKillers, useHistory: useHistory}
	o.resize(dim)
	return o
}

func (o *Orderer) resize(dim int) {
	o.dim = dim
	o.killers = make([][MaxKillers]move.Move, dim*dim+1)
	o.history = make([]int, dim*dim)
	o.Clear()
}

// Clear forgets all killer moves and history scores.
func (o *Orderer) Clear() {
	for d := range o.killers {
		for k := range o.killers[d] {
			o.killers[d][k] = move.PassMove
		}
	}
	clear(o.history)
}

// RecordCutoff remembers m as a killer for this depth and bumps its
// history score by depth squared.
func (o *Orderer) RecordCutoff(m move.Move, depth int) {
	if m.IsPass() || !m.InBounds(o.dim) {
		return
	}
	if o.useKillers && depth >= 0 && depth < len(o.killers) {
		if o.killers[depth][0] != m {
			o.killers[depth][1] = o.killers[depth][0]
			o.killers[depth][0] = m
		}
	}
	if o.useHistory {
		o.history[m.Index(o.dim)] += depth * depth
	}
}

// Killers returns the killer moves for a depth.
func (o *Orderer) Killers(depth int) [MaxKillers]move.Move {
	if depth < 0 || depth >= len(o.killers) {
		return [MaxKillers]move.Move{move.PassMove, move.PassMove}
	}
	return o.killers[depth]
}

func (o *Orderer) History(m move.Move) int {
	if !m.InBounds(o.dim) {
		return 0
	}
	return o.history[m.Index(o.dim)]
}

// StaticClass ranks a square: corners, then edges, then the interior, and
// last the squares next to a corner that is still empty.
func StaticClass(b *board.Board, m move.Move) int {
	if b.IsCorner(m.X, m.Y) {
		return classCorner
	}
	if c, ok := b.AdjacentCorner(m.X, m.Y); ok && b.At(c.X, c.Y) == board.Empty {
		return classNearEmptyCorner
	}
	if b.IsEdge(m.X, m.Y) {
		return classEdge
	}
	return classInterior
}

// Order sorts moves in place. hashMove (from the transposition table or the
// previous iteration) goes first, then this depth's killers, then moves by
// history score and static class. With byMobility, moves that leave the
// opponent fewer replies win ties in the same class. The sort is stable,
// so otherwise equal moves keep their scan order.
func (o *Orderer) Order(b *board.Board, moves []move.Move, c board.Color, depth int,
	hashMove move.Move, byMobility bool) {

	if b.Dim() != o.dim {
		o.resize(b.Dim())
	}
	killers := o.Killers(depth)
	o.scored = o.scored[:0]
	for _, m := range moves {
		sm := scoredMove{m: m, class: StaticClass(b, m)}
		switch {
		case !hashMove.IsPass() && m == hashMove:
			sm.tier = tierHashMove
		case o.useKillers && m == killers[0]:
			sm.tier = tierKiller0
		case o.useKillers && m == killers[1]:
			sm.tier = tierKiller1
		}
		if o.useHistory {
			sm.history = o.history[m.Index(o.dim)]
		}
		if byMobility {
			sm.oppMobility = o.opponentMobility(b, m, c)
		}
		o.scored = append(o.scored, sm)
	}
	slices.SortStableFunc(o.scored, func(x, y scoredMove) int {
		if n := cmp.Compare(y.tier, x.tier); n != 0 {
			return n
		}
		if n := cmp.Compare(y.history, x.history); n != 0 {
			return n
		}
		if n := cmp.Compare(y.class, x.class); n != 0 {
			return n
		}
		return cmp.Compare(x.oppMobility, y.oppMobility)
	})
	for i := range o.scored {
		moves[i] = o.scored[i].m
	}
}

func (o *Orderer) opponentMobility(b *board.Board, m move.Move, c board.Color) int {
	if o.scratch == nil {
		o.scratch = b.Clone()
	} else {
		o.scratch.CopyFrom(b)
	}
	if !o.scratch.PlayMove(m, c) {
		return 0
	}
	return o.scratch.NumValidMoves(c.Opponent())
}
