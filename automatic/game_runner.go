// Package automatic plays computer-vs-computer matches and analyzes their
// results.
package automatic

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/agent"
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
)

// GameRecord is one finished game, as written to the match log.
type GameRecord struct {
	GameID    string
	Black     string
	White     string
	BlackDisc int
	WhiteDisc int
	Winner    string
	Reason    string
	Turns     int
	BlackTime time.Duration
	WhiteTime time.Duration
	Dim       int
}

// Margin is Black's disc margin.
func (r GameRecord) Margin() int {
	return r.BlackDisc - r.WhiteDisc
}

// WinnerName is the agent that won, or "" for a draw.
func (r GameRecord) WinnerName() string {
	switch r.Winner {
	case "black":
		return r.Black
	case "white":
		return r.White
	}
	return ""
}

// GameRunner plays games between two agent kinds. Fresh agents are made
// for every game, so a runner may be used from several goroutines.
type GameRunner struct {
	config  *config.Config
	players [2]string
	dim     int
	clock   time.Duration
	// runID keeps game IDs from different matches apart.
	runID string
}

// NewGameRunner makes a runner for player1 vs player2; see agent.New for
// the names.
func NewGameRunner(cfg *config.Config, player1, player2 string) (*GameRunner, error) {
	for _, p := range []string{player1, player2} {
		if _, err := agent.New(p, cfg); err != nil {
			return nil, err
		}
	}
	return &GameRunner{
		config:  cfg,
		players: [2]string{player1, player2},
		dim:     cfg.GetInt(config.ConfigBoardSize),
		clock:   cfg.GetDuration(config.ConfigClock),
		runID:   time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// GameID is a short stable ID for game number n of this run.
func (r *GameRunner) GameID(n int) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%s/%s/%s/%d",
		r.runID, r.players[0], r.players[1], n)))
}

// PlayGame plays game number n. Colors alternate: player 1 has Black in
// even-numbered games.
func (r *GameRunner) PlayGame(ctx context.Context, n int) (GameRecord, error) {
	black, white := r.players[0], r.players[1]
	if n%2 == 1 {
		black, white = white, black
	}
	ba, err := agent.New(black, r.config)
	if err != nil {
		return GameRecord{}, err
	}
	wa, err := agent.New(white, r.config)
	if err != nil {
		return GameRecord{}, err
	}
	g, err := game.NewGame(r.dim, ba, wa, r.clock)
	if err != nil {
		return GameRecord{}, err
	}
	res, err := g.Play(ctx)
	if err != nil {
		return GameRecord{}, err
	}
	rec := GameRecord{
		GameID:    r.GameID(n),
		Black:     black,
		White:     white,
		BlackDisc: res.Black,
		WhiteDisc: res.White,
		Winner:    winnerString(res.Winner),
		Reason:    res.Reason.String(),
		Turns:     res.Turns,
		BlackTime: res.BlackUsed,
		WhiteTime: res.WhiteUsed,
		Dim:       r.dim,
	}
	log.Debug().Str("game-id", rec.GameID).Str("result", res.String()).Msg("game-finished")
	return rec, nil
}

func winnerString(c board.Color) string {
	switch c {
	case board.Black:
		return "black"
	case board.White:
		return "white"
	}
	return "draw"
}
