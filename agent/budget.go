package agent

import (
	"time"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
)

// Budget decides how long and how deep an agent may search for one move.
type Budget struct {
	MoveTimeCap    time.Duration
	SafetyMargin   time.Duration
	MaxDepth       int
	EndgameEmpties int
}

func DefaultBudget() Budget {
	return Budget{
		MoveTimeCap:    2 * time.Second,
		SafetyMargin:   50 * time.Millisecond,
		EndgameEmpties: 12,
	}
}

func BudgetFromConfig(cfg *config.Config) Budget {
	return Budget{
		MoveTimeCap:    cfg.GetDuration(config.ConfigMoveTimeCap),
		SafetyMargin:   cfg.GetDuration(config.ConfigSafetyMargin),
		MaxDepth:       cfg.GetInt(config.ConfigMaxDepth),
		EndgameEmpties: cfg.GetInt(config.ConfigEndgameEmpties),
	}
}

// MoveTime splits the remaining clock evenly over the moves we still expect
// to make, caps it, and holds back the safety margin. A remaining time of
// zero or less means the caller runs without a clock (the shell's think,
// or Decide called directly), and the cap applies. A game never gets here
// with an empty clock: Step forfeits that side before asking its agent.
func (bu Budget) MoveTime(b *board.Board, remaining time.Duration) time.Duration {
	t := bu.MoveTimeCap
	if remaining > 0 {
		movesLeft := b.Empties()/2 + 1
		t = min(t, remaining/time.Duration(max(1, movesLeft)))
	}
	return max(0, t-bu.SafetyMargin)
}

// BaseDepth is the depth for a board of dimension dim when there is little
// time to deepen further.
func BaseDepth(dim int) int {
	return max(3, 6-dim/8)
}

// Depth is the depth cap handed to the search. Near the end of the game the
// search may run to the last empty square. Otherwise a configured cap wins;
// failing that, iterative deepening runs as long as moveTime allows unless
// the budget is tight, in which case BaseDepth is the cap.
func (bu Budget) Depth(b *board.Board, moveTime time.Duration) int {
	empties := b.Empties()
	if empties <= bu.EndgameEmpties {
		return empties
	}
	if bu.MaxDepth > 0 {
		return min(bu.MaxDepth, empties)
	}
	if moveTime < 4*bu.SafetyMargin {
		return min(BaseDepth(b.Dim()), empties)
	}
	return empties
}
