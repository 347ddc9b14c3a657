// Package game drives a Reversi game between two agents. It owns the real
// board and the clocks; agents only ever see a copy of the board.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/agent"
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
)

// EndReason says how a game ended.
type EndReason int

const (
	EndBoard EndReason = iota
	EndIllegalMove
	EndTimeout
)

func (r EndReason) String() string {
	switch r {
	case EndIllegalMove:
		return "illegal-move"
	case EndTimeout:
		return "timeout"
	}
	return "board"
}

// Turn is one entry of the game history.
type Turn struct {
	Color   board.Color
	Move    move.Move
	Elapsed time.Duration
	// Skipped turns are the ones where Color had no legal move; the agent
	// was not asked.
	Skipped bool
}

type Result struct {
	// Winner is board.Empty for a draw.
	Winner board.Color
	Reason EndReason
	// Disc counts when the game ended.
	Black int
	White int
	// Offender is the color that forfeited, if any.
	Offender  board.Color
	BadMove   move.Move
	BlackName string
	WhiteName string
	BlackUsed time.Duration
	WhiteUsed time.Duration
	Turns     int
}

// Margin is the disc margin from Black's point of view.
func (r *Result) Margin() int {
	return r.Black - r.White
}

func (r *Result) String() string {
	names := map[board.Color]string{board.Black: r.BlackName, board.White: r.WhiteName}
	switch r.Reason {
	case EndIllegalMove:
		return fmt.Sprintf("%v (%v) wins since %v (%v) played an illegal move %v",
			r.Winner.Name(), names[r.Winner], r.Offender.Name(), names[r.Offender], r.BadMove)
	case EndTimeout:
		return fmt.Sprintf("%v (%v) wins since %v (%v) ran out of time",
			r.Winner.Name(), names[r.Winner], r.Offender.Name(), names[r.Offender])
	}
	if r.Winner == board.Empty {
		return fmt.Sprintf("draw, %d-%d", r.Black, r.White)
	}
	return fmt.Sprintf("%v (%v) wins %d-%d", r.Winner.Name(), names[r.Winner], r.Black, r.White)
}

type player struct {
	agent     agent.Agent
	remaining time.Duration
	used      time.Duration
}

// Game is a single game. It is not safe for concurrent use, and neither
// are its agents: an agent must not play two games at once.
type Game struct {
	board   *board.Board
	players [2]*player
	onturn  board.Color
	history []Turn
	result  *Result
}

func colorIdx(c board.Color) int {
	if c == board.White {
		return 1
	}
	return 0
}

// NewGame sets up the standard opening on a dim×dim board. Each side gets
// clock of thinking time; Black moves first.
func NewGame(dim int, black, white agent.Agent, clock time.Duration) (*Game, error) {
	b, err := board.NewBoard(dim)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(b, black, white, clock), nil
}

// NewGameFromBoard starts a game from any position, with Black on turn.
// The game takes ownership of b.
func NewGameFromBoard(b *board.Board, black, white agent.Agent, clock time.Duration) *Game {
	g := &Game{
		board:  b,
		onturn: board.Black,
		players: [2]*player{
			{agent: black, remaining: clock},
			{agent: white, remaining: clock},
		},
	}
	g.checkEnd()
	return g
}

// Board returns the game board. Callers must not modify it.
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Color {
	return g.onturn
}

func (g *Game) SetPlayerOnTurn(c board.Color) {
	g.onturn = c
}

// SetAgent hands c's side to a, or to a human if a is nil.
func (g *Game) SetAgent(c board.Color, a agent.Agent) {
	g.players[colorIdx(c)].agent = a
}

func (g *Game) AgentFor(c board.Color) agent.Agent {
	return g.players[colorIdx(c)].agent
}

// Remaining is the thinking time c has left.
func (g *Game) Remaining(c board.Color) time.Duration {
	return g.players[colorIdx(c)].remaining
}

func (g *Game) Playing() bool {
	return g.result == nil
}

// Result is nil while the game is going on.
func (g *Game) Result() *Result {
	return g.result
}

func (g *Game) History() []Turn {
	return g.history
}

func (g *Game) finish(winner board.Color, reason EndReason, offender board.Color, bad move.Move) {
	black, white := g.board.Score()
	r := &Result{
		Winner:    winner,
		Reason:    reason,
		Black:     black,
		White:     white,
		Offender:  offender,
		BadMove:   bad,
		BlackUsed: g.players[0].used,
		WhiteUsed: g.players[1].used,
		Turns:     len(g.history),
	}
	if a := g.players[0].agent; a != nil {
		r.BlackName = a.Name()
	}
	if a := g.players[1].agent; a != nil {
		r.WhiteName = a.Name()
	}
	g.result = r
	log.Debug().Str("result", r.String()).Int("turns", r.Turns).Msg("game-over")
}

// checkEnd ends the game if neither side can move.
func (g *Game) checkEnd() bool {
	if g.result != nil {
		return true
	}
	if !g.board.IsTerminal() {
		return false
	}
	g.finish(g.board.Winner(), EndBoard, board.Empty, move.PassMove)
	return true
}

// Step plays one turn: the side to move is skipped if it cannot play, and
// otherwise its agent is asked for a move. The agent's clock runs for as
// long as it thinks; running out of time or answering with an illegal move
// loses the game on the spot.
func (g *Game) Step(ctx context.Context) (Turn, error) {
	if g.checkEnd() {
		return Turn{}, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	c := g.onturn
	if !g.board.CanPlay(c) {
		t := Turn{Color: c, Move: move.PassMove, Skipped: true}
		g.history = append(g.history, t)
		g.onturn = c.Opponent()
		return t, nil
	}
	p := g.players[colorIdx(c)]
	opp := g.players[colorIdx(c.Opponent())]
	if p.agent == nil {
		return Turn{}, fmt.Errorf("no agent for %v", c.Name())
	}
	if p.remaining <= 0 {
		// the flag fell before the agent was asked
		g.finish(c.Opponent(), EndTimeout, c, move.PassMove)
		return Turn{Color: c, Move: move.PassMove}, nil
	}
	percept := agent.Perception{
		Color:             c,
		Board:             g.board.Clone(),
		Remaining:         p.remaining,
		OpponentRemaining: opp.remaining,
	}
	dctx, cancel := context.WithTimeout(ctx, p.remaining)
	start := time.Now()
	m := p.agent.Decide(dctx, percept)
	elapsed := time.Since(start)
	cancel()

	p.remaining -= elapsed
	p.used += elapsed
	t := Turn{Color: c, Move: m, Elapsed: elapsed}
	g.history = append(g.history, t)

	if p.remaining <= 0 {
		g.finish(c.Opponent(), EndTimeout, c, m)
		return t, nil
	}
	if !g.board.PlayMove(m, c) {
		log.Debug().Str("agent", p.agent.Name()).Str("move", m.ShortDescription()).Msg("illegal-move")
		g.finish(c.Opponent(), EndIllegalMove, c, m)
		return t, nil
	}
	g.onturn = c.Opponent()
	g.checkEnd()
	return t, nil
}

// PlayMove plays m for the side to move without asking its agent, e.g. for
// a human at the shell. Unlike an agent's move, an illegal move here is
// returned as an error and the game goes on.
func (g *Game) PlayMove(m move.Move) error {
	if g.checkEnd() {
		return ErrGameOver
	}
	c := g.onturn
	if m.IsPass() {
		if g.board.CanPlay(c) {
			return fmt.Errorf("%w: %v cannot pass with a legal move available", ErrIllegalMove, c.Name())
		}
		g.history = append(g.history, Turn{Color: c, Move: m, Skipped: true})
		g.onturn = c.Opponent()
		return nil
	}
	if !g.board.PlayMove(m, c) {
		return fmt.Errorf("%w: %v for %v", ErrIllegalMove, m, c.Name())
	}
	g.history = append(g.history, Turn{Color: c, Move: m})
	g.onturn = c.Opponent()
	g.checkEnd()
	return nil
}

// Play steps until the game is over or ctx is done.
func (g *Game) Play(ctx context.Context) (*Result, error) {
	for g.Playing() {
		_, err := g.Step(ctx)
		if errors.Is(err, ErrGameOver) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return g.result, nil
}

// ToDisplayText renders the board, the clocks and the side to move.
func (g *Game) ToDisplayText() string {
	var str strings.Builder
	str.WriteString(g.board.ToDisplayText())
	for _, c := range []board.Color{board.Black, board.White} {
		name := "-"
		if a := g.AgentFor(c); a != nil {
			name = a.Name()
		}
		marker := " "
		if g.Playing() && g.onturn == c {
			marker = "*"
		}
		fmt.Fprintf(&str, "%s %-5s %-16s %v\n", marker, c.Name(), name,
			g.Remaining(c).Round(time.Millisecond))
	}
	if g.result != nil {
		str.WriteString(g.result.String())
		str.WriteString("\n")
	}
	return str.String()
}
