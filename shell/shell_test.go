package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testController() *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigBoardSize, 6)
	cfg.Set(config.ConfigMoveTimeCap, 20*time.Millisecond)
	cfg.Set(config.ConfigSafetyMargin, 5*time.Millisecond)
	cfg.Set(config.ConfigTTMinPow, 10)
	cfg.Set(config.ConfigTTMaxPow, 12)
	return newController(cfg, "", "test")
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"file": {"/path/to/log.txt"}}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, CmdOptions{}},
			nil},
		{"autoplay mtdf greedy -games 10 ",
			&shellcmd{"autoplay",
				[]string{"mtdf", "greedy"},
				CmdOptions{"games": {"10"}}},
			nil,
		},
		{`think -time "1s"`,
			&shellcmd{"think", nil, CmdOptions{"time": {"1s"}}},
			nil},
		{"set depth -3",
			&shellcmd{"set", []string{"depth", "-3"}, CmdOptions{}},
			nil},
		{"autoplay mtdf greedy -file",
			nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestHumanAgainstBot(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.standardModeSwitch("show", nil)
	is.Equal(err, errNoGame)

	resp, err := sc.standardModeSwitch("bot white greedy", nil)
	is.NoErr(err)
	is.Equal(resp.message, "White is now played by greedy")

	_, err = sc.standardModeSwitch("new", nil)
	is.NoErr(err)
	is.Equal(sc.game.Board().Dim(), 6)
	is.Equal(sc.game.PlayerOnTurn(), board.Black)

	_, err = sc.standardModeSwitch("play a1", nil)
	is.True(err != nil)

	_, err = sc.standardModeSwitch("play c2", nil)
	is.NoErr(err)
	// greedy answered right away
	is.Equal(len(sc.game.History()), 2)
	is.Equal(sc.game.PlayerOnTurn(), board.Black)

	_, err = sc.standardModeSwitch("play", nil)
	is.True(err != nil)
}

func TestBotsPlayEachOther(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.standardModeSwitch("bot black random", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("bot white greedy", nil)
	is.NoErr(err)
	resp, err := sc.standardModeSwitch("new 4", nil)
	is.NoErr(err)
	is.True(!sc.game.Playing())
	is.True(strings.Contains(resp.message, sc.game.Result().String()))

	resp, err = sc.standardModeSwitch("bot", nil)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "black: random"))
}

func TestGenAndThink(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.standardModeSwitch("new 8", nil)
	is.NoErr(err)

	resp, err := sc.standardModeSwitch("gen", nil)
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "4 legal moves for Black"))

	is.True(!strings.Contains(resp.message, "ends game"))

	resp, err = sc.standardModeSwitch("gen 2 -weights discs", nil)
	is.NoErr(err)
	is.Equal(strings.Count(resp.message, "\n"), 4)

	for _, algo := range []string{"alphabeta", "mtdf"} {
		resp, err = sc.standardModeSwitch("think -algo "+algo+" -depth 3 -time 5s", nil)
		is.NoErr(err)
		is.True(strings.Contains(resp.message, "depth 3 (complete)"))
	}
	_, err = sc.standardModeSwitch("think -algo minimax", nil)
	is.True(err != nil)
	// thinking does not move
	is.Equal(len(sc.game.History()), 0)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := sc.standardModeSwitch("set board 10", nil)
	is.NoErr(err)
	is.Equal(sc.config.GetInt(config.ConfigBoardSize), 10)
	_, err = sc.standardModeSwitch("set board 7", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("set clock 5s", nil)
	is.NoErr(err)
	is.Equal(sc.config.GetDuration(config.ConfigClock), 5*time.Second)
	_, err = sc.standardModeSwitch("set colour blue", nil)
	is.True(err != nil)

	_, err = sc.standardModeSwitch("setconfig max-probes 9", nil)
	is.NoErr(err)
	is.Equal(sc.config.GetInt(config.ConfigMaxProbes), 9)
	_, err = sc.standardModeSwitch("setconfig nonsense 1", nil)
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := testController()
	path := filepath.Join(t.TempDir(), "game.lua")
	script := `
reversi_bot("white random")
reversi_new("6")
local moves = reversi_gen("")
assert(string.find(moves, "legal moves for Black"))
local r = reversi_play("a1")
assert(string.find(r, "^ERROR:"))
reversi_play("c2")
`
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := sc.standardModeSwitch("script "+path, nil)
	is.NoErr(err)
	is.True(sc.game != nil)
	is.Equal(len(sc.game.History()), 2)
}

func TestAutoplayAndAnalyze(t *testing.T) {
	is := is.New(t)
	sc := testController()
	logfile := filepath.Join(t.TempDir(), "games.txt")
	_, err := sc.standardModeSwitch("autoplay random greedy -games 4 -threads 2 -file "+logfile, nil)
	is.NoErr(err)
	<-sc.autoplayDone
	is.True(!sc.autoplaying())

	resp, err := sc.standardModeSwitch("analyze "+logfile, nil)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Games played: 4"))

	_, err = sc.standardModeSwitch("autoplay stop", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("autoplay random nobody", nil)
	is.True(err != nil)
}

func TestHelpAndUnknown(t *testing.T) {
	is := is.New(t)
	sc := testController()
	resp, err := sc.standardModeSwitch("help", nil)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "autoplay"))
	_, err = sc.standardModeSwitch("help think", nil)
	is.NoErr(err)
	_, err = sc.standardModeSwitch("help nothing", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("frobnicate", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("exit", nil)
	is.Equal(err, errQuit)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(testController())
	matches, n := c.Do([]rune("thi"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("nk")})

	line := []rune("think -algo m")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("tdf")})

	line = []rune("bot white gr")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("eedy")})
}

func TestEndsGame(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows([]string{
		"BW..",
		"....",
		"....",
		"....",
	})
	is.NoErr(err)
	after := b.Clone()
	is.True(endsGame(after, b, move.New(2, 0), board.Black))
	// an illegal move ends nothing
	is.True(!endsGame(after, b, move.New(3, 3), board.Black))

	b, err = board.NewBoard(8)
	is.NoErr(err)
	after = b.Clone()
	for _, m := range b.ValidMoves(board.Black) {
		is.True(!endsGame(after, b, m, board.Black))
	}
}
