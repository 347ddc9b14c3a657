// Package search picks moves by looking ahead: negamax with alpha-beta
// pruning and iterative deepening, and MTD(f) on top of the same search
// with a transposition table.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/zobrist"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// Infinity is larger than any evaluation, won games included.
const Infinity = 1 << 30

const DefaultMaxProbes = 64

var ErrInvalidPosition = errors.New("invalid position")

// Result is the outcome of a search. Value is from the point of view of
// the color that was searched for. Complete is false if no depth finished
// before the deadline; Move is then just the best-ordered legal move.
type Result struct {
	Value    int
	Move     move.Move
	Depth    int
	Nodes    uint64
	Complete bool
	// Probes is the number of null-window searches MTD(f) needed at the
	// deepest completed depth. Zero for plain alpha-beta.
	Probes int
}

type Options struct {
	IterativeDeepening bool
	TranspositionTable bool
	Killers            bool
	History            bool
	// MobilityOrdering orders root moves by the opponent's reply count
	// within a static class.
	MobilityOrdering bool
	MaxProbes        int
}

func DefaultOptions() Options {
	return Options{
		IterativeDeepening: true,
		TranspositionTable: true,
		Killers:            true,
		History:            true,
		MobilityOrdering:   true,
		MaxProbes:          DefaultMaxProbes,
	}
}

// Solver searches positions for one agent. It is not safe for concurrent
// use; the transposition table persists across calls to Solve.
type Solver struct {
	ev      *eval.Evaluator
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable
	orderer *Orderer

	iterativeDeepeningOptim bool
	transpositionTableOptim bool
	mobilityOrderingOptim   bool
	maxProbes               int

	// Scratch space, indexed by ply from the root.
	boards   []*board.Board
	moveBufs [][]move.Move
	flipBufs [][]int

	// rootHint is searched first at the root.
	rootHint move.Move
	timedOut bool
	nodes    uint64
	probes   int
}

// NewSolver creates a solver. tt may be nil, which turns the transposition
// table off.
func NewSolver(ev *eval.Evaluator, tt *TranspositionTable, opts Options) *Solver {
	s := &Solver{
		ev:                      ev,
		zobrist:                 &zobrist.Zobrist{},
		ttable:                  tt,
		orderer:                 NewOrderer(board.DefaultDim, opts.Killers, opts.History),
		iterativeDeepeningOptim: opts.IterativeDeepening,
		transpositionTableOptim: opts.TranspositionTable && tt != nil,
		mobilityOrderingOptim:   opts.MobilityOrdering,
		maxProbes:               opts.MaxProbes,
		rootHint:                move.PassMove,
	}
	if s.maxProbes <= 0 {
		s.maxProbes = DefaultMaxProbes
	}
	return s
}

func (s *Solver) Evaluator() *eval.Evaluator {
	return s.ev
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

func (s *Solver) Orderer() *Orderer {
	return s.orderer
}

// prepare checks the position and resets per-decision state.
func (s *Solver) prepare(b *board.Board, c board.Color) error {
	if b == nil || s.ev == nil {
		return ErrInvalidPosition
	}
	if !c.Valid() {
		return errors.Join(ErrInvalidPosition, board.ErrBadColor)
	}
	if s.zobrist.BoardDim() != b.Dim() {
		s.zobrist.Initialize(b.Dim())
		if s.ttable != nil && s.ttable.Size() > 0 {
			s.ttable.resize(s.ttable.sizePowerOf2)
		}
	}
	if s.transpositionTableOptim && s.ttable.Size() == 0 {
		s.ttable.ResetPow(16)
	}
	s.orderer.Clear()
	s.timedOut = false
	s.nodes = 0
	s.rootHint = move.PassMove
	return nil
}

// rootMoves orders the root moves the way the search will first try them.
// The first one is the move of last resort when no depth completes.
func (s *Solver) rootMoves(b *board.Board, c board.Color) []move.Move {
	moves := b.ValidMoves(c)
	s.orderer.Order(b, moves, c, 0, move.PassMove, s.mobilityOrderingOptim)
	return moves
}

func clampDepth(maxDepth int, b *board.Board) int {
	return max(1, min(maxDepth, b.Empties()))
}

func (s *Solver) expired(ctx context.Context) bool {
	if s.timedOut {
		return true
	}
	if ctx.Err() != nil {
		s.timedOut = true
	}
	return s.timedOut
}

func (s *Solver) scratch(ply int, like *board.Board) *board.Board {
	for len(s.boards) <= ply {
		s.boards = append(s.boards, like.Clone())
		s.moveBufs = append(s.moveBufs, make([]move.Move, 0, like.Dim()*2))
		s.flipBufs = append(s.flipBufs, make([]int, 0, like.Dim()*2))
	}
	return s.boards[ply]
}

// negamax returns the value of b for c, and the best move found. On a
// timeout it returns 0, and nothing it saw is stored.
func (s *Solver) negamax(ctx context.Context, b *board.Board, c board.Color, nodeKey uint64,
	depth, ply, α, β int) (int, move.Move) {

	if s.expired(ctx) {
		return 0, move.PassMove
	}
	s.nodes++
	dim := b.Dim()
	alphaOrig := α
	hashMove := move.PassMove

	if s.transpositionTableOptim {
		ttEntry := s.ttable.lookup(nodeKey)
		if ttEntry.valid() {
			if int(ttEntry.depth) >= depth {
				score := int(ttEntry.score)
				switch ttEntry.flag {
				case TTExact:
					return score, ttEntry.move(dim)
				case TTLower:
					α = max(α, score)
				case TTUpper:
					β = min(β, score)
				}
				if α >= β {
					return score, ttEntry.move(dim)
				}
			}
			// search hash move first.
			hashMove = ttEntry.move(dim)
		}
	}
	if ply == 0 && !s.rootHint.IsPass() {
		hashMove = s.rootHint
	}

	if depth == 0 {
		return s.ev.Evaluate(b, c), move.PassMove
	}

	opp := c.Opponent()
	child := s.scratch(ply, b)
	children := b.AppendValidMoves(s.moveBufs[ply][:0], c)
	s.moveBufs[ply] = children
	if len(children) == 0 {
		if !b.CanPlay(opp) {
			return eval.FinalScore(b, c), move.PassMove
		}
		// Passing does not use up depth.
		value, _ := s.negamax(ctx, b, opp, s.zobrist.AddMove(nodeKey, move.PassMove, c, nil),
			depth, ply+1, -β, -α)
		if s.timedOut {
			return 0, move.PassMove
		}
		bestValue := -value
		s.storeEntry(nodeKey, bestValue, alphaOrig, β, depth, move.PassMove, dim)
		return bestValue, move.PassMove
	}
	s.orderer.Order(b, children, c, depth, hashMove, ply == 0 && s.mobilityOrderingOptim)

	bestValue := -Infinity
	bestMove := children[0]
	for _, m := range children {
		if s.expired(ctx) {
			return 0, bestMove
		}
		child.CopyFrom(b)
		flipped, _ := child.ApplyFlips(m.X, m.Y, c, s.flipBufs[ply][:0])
		s.flipBufs[ply] = flipped
		childKey := s.zobrist.AddMove(nodeKey, m, c, flipped)
		value, _ := s.negamax(ctx, child, opp, childKey, depth-1, ply+1, -β, -α)
		if s.timedOut {
			return 0, bestMove
		}
		if -value > bestValue {
			bestValue = -value
			bestMove = m
		}
		α = max(α, bestValue)
		if α >= β {
			s.orderer.RecordCutoff(m, depth)
			break // beta cut-off
		}
	}
	s.storeEntry(nodeKey, bestValue, alphaOrig, β, depth, bestMove, dim)
	return bestValue, bestMove
}

func (s *Solver) storeEntry(nodeKey uint64, bestValue, alphaOrig, β, depth int, bestMove move.Move, dim int) {
	if !s.transpositionTableOptim {
		return
	}
	entry := TableEntry{
		score: int32(bestValue),
		play:  packMove(bestMove, dim),
		depth: uint8(min(depth, 255)),
	}
	if bestValue <= alphaOrig {
		entry.flag = TTUpper
	} else if bestValue >= β {
		entry.flag = TTLower
	} else {
		entry.flag = TTExact
	}
	s.ttable.store(nodeKey, entry)
}

// Solve runs an iteratively deepening alpha-beta search for c, up to
// maxDepth plies or until ctx is done, whichever comes first. The result of
// the deepest completed depth is returned. Running out of time is not an
// error.
func (s *Solver) Solve(ctx context.Context, b *board.Board, c board.Color, maxDepth int) (Result, error) {
	return s.solve(ctx, b, c, maxDepth, "alphabeta", func(key uint64, depth int, prev Result) (int, move.Move) {
		return s.negamax(ctx, b, c, key, depth, 0, -Infinity, Infinity)
	})
}

type depthSearch func(key uint64, depth int, prev Result) (int, move.Move)

func (s *Solver) solve(ctx context.Context, b *board.Board, c board.Color, maxDepth int,
	algo string, searchDepth depthSearch) (Result, error) {

	if err := s.prepare(b, c); err != nil {
		return Result{Move: move.PassMove}, err
	}
	tstart := time.Now()
	moves := s.rootMoves(b, c)
	if len(moves) == 0 {
		return Result{Move: move.PassMove, Value: s.ev.Evaluate(b, c), Complete: true}, nil
	}
	best := Result{Move: moves[0]}
	maxDepth = clampDepth(maxDepth, b)
	start := 1
	if !s.iterativeDeepeningOptim {
		start = maxDepth
	}
	initialHashKey := s.zobrist.Hash(b, c)
	log.Debug().Str("algo", algo).Int("max-depth", maxDepth).Msg("solve-config")

	for p := start; p <= maxDepth; p++ {
		log.Debug().Int("plies", p).Msg("deepening-iteratively")
		s.rootHint = best.Move
		if !best.Complete {
			s.rootHint = move.PassMove
		}
		s.probes = 0
		val, m := searchDepth(initialHashKey, p, best)
		if s.timedOut {
			break
		}
		if m.IsPass() || !b.LegalMove(c, m.X, m.Y) {
			// Only possible after a hash collision at the root.
			m = moves[0]
		}
		best = Result{Value: val, Move: m, Depth: p, Complete: true, Probes: s.probes}
		log.Debug().Int("value", val).Int("ply", p).Str("move", m.ShortDescription()).Msg("best-val")
	}
	best.Nodes = s.nodes

	ev := log.Debug().
		Str("algo", algo).
		Int("value", best.Value).
		Str("move", best.Move.ShortDescription()).
		Int("depth", best.Depth).
		Bool("complete", best.Complete).
		Uint64("nodes", s.nodes).
		Dur("elapsed", time.Since(tstart))
	if s.ttable != nil {
		stats := s.ttable.Stats()
		ev = ev.Uint64("ttable-created", stats.Created).
			Uint64("ttable-lookups", stats.Lookups).
			Uint64("ttable-hits", stats.Hits).
			Uint64("ttable-t2collisions", stats.T2Collisions)
	}
	ev.Msg("solve-returning")
	return best, nil
}
