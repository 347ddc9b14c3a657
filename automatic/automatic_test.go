package automatic

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/reversi/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigBoardSize, 6)
	cfg.Set(config.ConfigClock, 10*time.Second)
	cfg.Set(config.ConfigMoveTimeCap, 20*time.Millisecond)
	cfg.Set(config.ConfigSafetyMargin, 5*time.Millisecond)
	cfg.Set(config.ConfigTTMinPow, 10)
	cfg.Set(config.ConfigTTMaxPow, 12)
	return cfg
}

func TestPlayMatches(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	store, err := OpenResultsStore(filepath.Join(t.TempDir(), "results.db"))
	is.NoErr(err)
	defer store.Close()

	var buf bytes.Buffer
	n, err := PlayMatches(context.Background(), cfg, MatchOptions{
		Player1:  "random",
		Player2:  "greedy",
		NumGames: 6,
		Threads:  3,
		Store:    store,
	}, &buf)
	is.NoErr(err)
	is.Equal(n, 6)

	rows, err := csv.NewReader(&buf).ReadAll()
	is.NoErr(err)
	is.Equal(len(rows), 7)
	is.Equal(rows[0], csvHeader)
	ids := map[string]bool{}
	for _, row := range rows[1:] {
		is.Equal(len(row), len(csvHeader))
		is.Equal(row[6], "board")
		is.Equal(row[10], "6")
		ids[row[0]] = true
	}
	is.Equal(len(ids), 6)

	standings, err := store.Standings(context.Background())
	is.NoErr(err)
	is.Equal(len(standings), 2)
	total := 0
	for _, st := range standings {
		is.Equal(st.Games, 6)
		is.Equal(st.Wins+st.Draws+st.Losses, 6)
		total += st.Wins
	}
	is.True(total <= 6)
	is.Equal(standings[0].Wins+standings[0].Draws, standings[1].Losses+standings[1].Draws)
}

func TestPlayMatchesCanceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	n, err := PlayMatches(ctx, testConfig(), MatchOptions{
		Player1: "random", Player2: "random", NumGames: 10, Threads: 2,
	}, &buf)
	is.NoErr(err)
	is.Equal(n, 0)
	// header only
	is.Equal(strings.Count(buf.String(), "\n"), 1)
}

func TestUnknownPlayer(t *testing.T) {
	is := is.New(t)
	_, err := NewGameRunner(testConfig(), "random", "deepblue")
	is.True(err != nil)
}

func TestGameIDAndColors(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(testConfig(), "random", "greedy")
	is.NoErr(err)
	is.Equal(r.GameID(3), r.GameID(3))
	is.True(r.GameID(3) != r.GameID(4))
	is.Equal(len(r.GameID(0)), 16)

	rec, err := r.PlayGame(context.Background(), 1)
	is.NoErr(err)
	is.Equal(rec.Black, "greedy")
	is.Equal(rec.White, "random")
	is.Equal(rec.GameID, r.GameID(1))
	switch {
	case rec.Margin() > 0:
		is.Equal(rec.WinnerName(), "greedy")
	case rec.Margin() < 0:
		is.Equal(rec.WinnerName(), "random")
	default:
		is.Equal(rec.WinnerName(), "")
	}
}

func TestAnalyzeLogFile(t *testing.T) {
	is := is.New(t)
	log := strings.Join(csvHeader, ",") + "\n" +
		"a,greedy,random,20,16,black,board,30,100,10,6\n" +
		"b,random,greedy,10,26,white,board,30,12,110,6\n" +
		"c,greedy,random,18,18,draw,board,32,90,11,6\n" +
		"d,random,greedy,4,5,black,timeout,9,400,500,6\n"
	path := filepath.Join(t.TempDir(), "games.txt")
	is.NoErr(os.WriteFile(path, []byte(log), 0o644))

	out, err := AnalyzeLogFile(path)
	is.NoErr(err)
	is.True(strings.Contains(out, "Games played: 4"))
	is.True(strings.Contains(out, "greedy wins: 2  draws: 1  losses: 1 (62.500%)"))
	is.True(strings.Contains(out, "Forfeits: 1 (25.000%)"))
	is.True(strings.Contains(out, "greedy Mean Margin: 4.750000"))
	is.True(strings.Contains(out, "margin histogram"))
}

func TestAnalyzeEmptyLog(t *testing.T) {
	is := is.New(t)
	_, err := AnalyzeLog(strings.NewReader(strings.Join(csvHeader, ",") + "\n"))
	is.Equal(err, ErrEmptyLog)
}
