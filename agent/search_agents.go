package agent

import (
	"context"
	"time"

	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/search"
)

// MinimaxDepth is the fixed depth of the minimax agent.
const MinimaxDepth = 3

// AlphaBetaAgent takes a game-ending move or a corner when it can, and
// otherwise runs an iteratively deepening alpha-beta search.
type AlphaBetaAgent struct {
	name   string
	ev     *eval.Evaluator
	solver *search.Solver
	budget Budget
}

func NewAlphaBetaAgent(name string, ev *eval.Evaluator, tt *search.TranspositionTable,
	opts search.Options, budget Budget) *AlphaBetaAgent {

	return &AlphaBetaAgent{
		name:   name,
		ev:     ev,
		solver: search.NewSolver(ev, tt, opts),
		budget: budget,
	}
}

func (a *AlphaBetaAgent) Name() string {
	return a.name
}

func (a *AlphaBetaAgent) Decide(ctx context.Context, p Perception) (m move.Move) {
	if !validate(p) {
		return Fallback(p.Board, p.Color, a.ev)
	}
	defer recoverDecision(a.name, p, a.ev, &m)
	return searchPipeline(ctx, a.name, p, a.ev, a.budget, a.solver.Solve)
}

// MTDFAgent is AlphaBetaAgent with MTD(f) as its search.
type MTDFAgent struct {
	name   string
	ev     *eval.Evaluator
	solver *search.Solver
	budget Budget
}

func NewMTDFAgent(name string, ev *eval.Evaluator, tt *search.TranspositionTable,
	opts search.Options, budget Budget) *MTDFAgent {

	// MTD(f) is only fast with a memory of earlier probes.
	opts.TranspositionTable = true
	if tt == nil {
		tt = &search.TranspositionTable{}
	}
	return &MTDFAgent{
		name:   name,
		ev:     ev,
		solver: search.NewSolver(ev, tt, opts),
		budget: budget,
	}
}

func (a *MTDFAgent) Name() string {
	return a.name
}

func (a *MTDFAgent) Decide(ctx context.Context, p Perception) (m move.Move) {
	if !validate(p) {
		return Fallback(p.Board, p.Color, a.ev)
	}
	defer recoverDecision(a.name, p, a.ev, &m)
	return searchPipeline(ctx, a.name, p, a.ev, a.budget, a.solver.SolveMTDF)
}

// MinimaxAgent searches a fixed number of plies with plain alpha-beta:
// no iterative deepening, no table and no killer or history ordering.
type MinimaxAgent struct {
	name   string
	ev     *eval.Evaluator
	solver *search.Solver
	budget Budget
	depth  int
}

func NewMinimaxAgent(name string, ev *eval.Evaluator, budget Budget) *MinimaxAgent {
	return &MinimaxAgent{
		name:   name,
		ev:     ev,
		solver: search.NewSolver(ev, nil, search.Options{}),
		budget: budget,
		depth:  MinimaxDepth,
	}
}

func (a *MinimaxAgent) Name() string {
	return a.name
}

func (a *MinimaxAgent) Decide(ctx context.Context, p Perception) (m move.Move) {
	if !validate(p) {
		return Fallback(p.Board, p.Color, a.ev)
	}
	defer recoverDecision(a.name, p, a.ev, &m)
	budget := a.budget
	budget.MaxDepth = a.depth
	// The fixed depth holds at the end of the game too.
	budget.EndgameEmpties = 0
	if budget.MoveTimeCap <= 0 {
		budget.MoveTimeCap = time.Second
	}
	return searchPipeline(ctx, a.name, p, a.ev, budget, a.solver.Solve)
}
