package automatic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id      TEXT PRIMARY KEY,
	black        TEXT NOT NULL,
	white        TEXT NOT NULL,
	black_discs  INTEGER NOT NULL,
	white_discs  INTEGER NOT NULL,
	winner       TEXT NOT NULL,
	reason       TEXT NOT NULL,
	turns        INTEGER NOT NULL,
	black_millis INTEGER NOT NULL,
	white_millis INTEGER NOT NULL,
	dim          INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS games_black ON games(black);
CREATE INDEX IF NOT EXISTS games_white ON games(white);
`

// ResultsStore keeps match results in a SQLite database, so that results
// from many runs can be queried together.
type ResultsStore struct {
	db *sql.DB
}

func OpenResultsStore(path string) (*ResultsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %v: %w", path, err)
	}
	return &ResultsStore{db: db}, nil
}

func (s *ResultsStore) Close() error {
	return s.db.Close()
}

func (s *ResultsStore) Save(ctx context.Context, r GameRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO games
		(game_id, black, white, black_discs, white_discs, winner, reason, turns,
		 black_millis, white_millis, dim, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Black, r.White, r.BlackDisc, r.WhiteDisc, r.Winner, r.Reason,
		r.Turns, r.BlackTime.Milliseconds(), r.WhiteTime.Milliseconds(), r.Dim,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// Standing is one agent's record over every stored game it played.
type Standing struct {
	Agent  string
	Games  int
	Wins   int
	Draws  int
	Losses int
	// MeanMargin is the mean disc margin from the agent's side.
	MeanMargin float64
}

// Standings returns every agent's record, best win count first.
func (s *ResultsStore) Standings(ctx context.Context) ([]Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agent,
		       COUNT(*),
		       SUM(CASE WHEN margin > 0 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN margin = 0 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN margin < 0 THEN 1 ELSE 0 END),
		       AVG(margin)
		FROM (
			SELECT black AS agent,
			       CASE WHEN reason = 'board' THEN black_discs - white_discs
			            WHEN winner = 'black' THEN 1 ELSE -1 END AS margin
			FROM games
			UNION ALL
			SELECT white AS agent,
			       CASE WHEN reason = 'board' THEN white_discs - black_discs
			            WHEN winner = 'white' THEN 1 ELSE -1 END AS margin
			FROM games
		)
		GROUP BY agent
		ORDER BY 3 DESC, agent`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var standings []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Agent, &st.Games, &st.Wins, &st.Draws, &st.Losses, &st.MeanMargin); err != nil {
			return nil, err
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}
