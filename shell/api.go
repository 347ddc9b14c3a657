package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/reversi/agent"
	"github.com/domino14/reversi/automatic"
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/eval"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/search"
)

const defaultAutoplayLog = "/tmp/reversi_autoplay.txt"

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) DurationDefault(key string, defaultD time.Duration) (time.Duration, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultD, nil
	}
	return time.ParseDuration(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func colorIdx(c board.Color) int {
	if c == board.White {
		return 1
	}
	return 0
}

func (sc *ShellController) autoplaying() bool {
	if sc.autoplayDone == nil {
		return false
	}
	select {
	case <-sc.autoplayDone:
		return false
	default:
		return true
	}
}

// makeAgent returns nil for a human seat.
func (sc *ShellController) makeAgent(name string) (agent.Agent, error) {
	if name == "" {
		return nil, nil
	}
	return agent.New(name, sc.config)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	dim := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		dim, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	var players [2]agent.Agent
	for i, name := range sc.bots {
		a, err := sc.makeAgent(name)
		if err != nil {
			return nil, err
		}
		players[i] = a
	}
	g, err := game.NewGame(dim, players[0], players[1], sc.config.GetDuration(config.ConfigClock))
	if err != nil {
		return nil, err
	}
	sc.game = g
	log.Debug().Int("dim", dim).Msg("new-game")
	if err := sc.runBots(context.Background()); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) evaluator(name string) (*eval.Evaluator, error) {
	return agent.Evaluator(sc.config, name)
}

type scoredMove struct {
	m      move.Move
	score  int
	class  int
	ending bool
}

// generate lists the legal moves of the side to move with their one-ply
// scores.
func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	numPlays := 15
	if len(cmd.args) > 0 {
		var err error
		numPlays, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	ev, err := sc.evaluator(cmd.options.String("weights"))
	if err != nil {
		return nil, err
	}
	b, c := sc.game.Board(), sc.game.PlayerOnTurn()
	moves := b.ValidMoves(c)
	if len(moves) == 0 {
		return msg(c.Name() + " has no legal moves and must pass"), nil
	}
	after := b.Clone()
	scored := lo.Map(moves, func(m move.Move, _ int) scoredMove {
		s, _ := ev.MoveScore(b, m, c)
		return scoredMove{m: m, score: s, class: search.StaticClass(b, m), ending: endsGame(after, b, m, c)}
	})
	slices.SortStableFunc(scored, func(x, y scoredMove) int {
		return y.score - x.score
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d legal moves for %v\n", len(moves), c.Name())
	sb.WriteString("     Move  Score  Class\n")
	for i, s := range lo.Subset(scored, 0, uint(numPlays)) {
		flag := ""
		if s.ending {
			flag = "  ends game"
		}
		fmt.Fprintf(&sb, "%3d: %-5s %6d  %5d%s\n", i+1, s.m.ShortDescription(), s.score, s.class, flag)
	}
	return msg(sb.String()), nil
}

// endsGame reports whether neither side can move once c plays m. after is
// scratch space.
func endsGame(after, b *board.Board, m move.Move, c board.Color) bool {
	after.CopyFrom(b)
	if !after.PlayMove(m, c) {
		return false
	}
	return after.IsTerminal()
}

// runBots lets bots move until it is a human's turn or the game is over.
func (sc *ShellController) runBots(ctx context.Context) error {
	for sc.game.Playing() {
		c := sc.game.PlayerOnTurn()
		if sc.game.AgentFor(c) == nil && sc.game.Board().CanPlay(c) {
			return nil
		}
		if sc.game.AgentFor(c) == nil {
			// a human with nothing to play passes automatically
			if err := sc.game.PlayMove(move.PassMove); err != nil {
				return err
			}
			sc.showMessage(c.Name() + " has no moves and passes")
			continue
		}
		t, err := sc.game.Step(ctx)
		if err != nil {
			return err
		}
		if !t.Skipped {
			sc.showMessage(fmt.Sprintf("%v (%v) plays %v in %v", c.Name(),
				sc.game.AgentFor(c).Name(), t.Move, t.Elapsed.Round(time.Millisecond)))
		}
	}
	return nil
}

// play plays a move for a human, or lets the bot on turn move if no move is
// given.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if !sc.game.Playing() {
		return nil, game.ErrGameOver
	}
	if len(cmd.args) == 0 {
		c := sc.game.PlayerOnTurn()
		if sc.game.AgentFor(c) == nil {
			return nil, fmt.Errorf("%v is not a bot; give a move to play", c.Name())
		}
		if _, err := sc.game.Step(context.Background()); err != nil {
			return nil, err
		}
		return msg(sc.game.ToDisplayText()), nil
	}
	m, err := move.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	if err := sc.runBots(context.Background()); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

// think searches the current position without playing the result.
func (sc *ShellController) think(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	ev, err := sc.evaluator(cmd.options.String("weights"))
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", 0)
	if err != nil {
		return nil, err
	}
	maxTime, err := cmd.options.DurationDefault("time", sc.config.GetDuration(config.ConfigMoveTimeCap))
	if err != nil {
		return nil, err
	}
	algo := cmd.options.String("algo")
	if algo == "" {
		algo = agent.NameAlphaBeta
	}
	if algo != agent.NameAlphaBeta && algo != agent.NameMTDF {
		return nil, fmt.Errorf("algo must be %v or %v", agent.NameAlphaBeta, agent.NameMTDF)
	}
	b, c := sc.game.Board().Clone(), sc.game.PlayerOnTurn()
	if depth <= 0 {
		depth = b.Empties()
	}

	tt := &search.TranspositionTable{}
	tt.Reset(sc.config.GetFloat64(config.ConfigTTFractionOfMemory),
		sc.config.GetInt(config.ConfigTTMinPow), sc.config.GetInt(config.ConfigTTMaxPow))
	opts := search.DefaultOptions()
	opts.MobilityOrdering = sc.config.GetBool(config.ConfigMobilityOrdering)
	opts.MaxProbes = sc.config.GetInt(config.ConfigMaxProbes)
	solver := search.NewSolver(ev, tt, opts)

	ctx, cancel := context.WithTimeout(context.Background(), maxTime)
	defer cancel()
	start := time.Now()
	var res search.Result
	if algo == agent.NameMTDF {
		res, err = solver.SolveMTDF(ctx, b, c, depth)
	} else {
		res, err = solver.Solve(ctx, b, c, depth)
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	status := "incomplete"
	if res.Complete {
		status = "complete"
	}
	value := strconv.Itoa(res.Value)
	if res.Value >= eval.WinScore {
		value = fmt.Sprintf("win by %d", res.Value-eval.WinScore)
	} else if res.Value <= -eval.WinScore {
		value = fmt.Sprintf("loss by %d", -eval.WinScore-res.Value)
	}
	pv := solver.PrincipalVariation(b, c, res, res.Depth)
	return msg(fmt.Sprintf("%v best move %v, value %v, depth %d (%v), %d nodes in %v\n%v",
		c.Name(), res.Move, value, res.Depth, status, res.Nodes, elapsed.Round(time.Millisecond),
		pv.NLBString())), nil
}

// bot shows or assigns the agents behind each color.
func (sc *ShellController) bot(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("black: %v\nwhite: %v\navailable: %v",
			lo.Ternary(sc.bots[0] == "", "human", sc.bots[0]),
			lo.Ternary(sc.bots[1] == "", "human", sc.bots[1]),
			strings.Join(agent.Names(), ", "))), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: bot <black|white> <agent|human>")
	}
	c, err := board.ColorFromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	name := cmd.args[1]
	if name == "human" {
		name = ""
	}
	a, err := sc.makeAgent(name)
	if err != nil {
		return nil, err
	}
	sc.bots[colorIdx(c)] = name
	if sc.game != nil {
		sc.game.SetAgent(c, a)
		if err := sc.runBots(context.Background()); err != nil {
			return nil, err
		}
	}
	return msg(fmt.Sprintf("%v is now played by %v", c.Name(), cmd.args[1])), nil
}

// autoplay runs a bot match in the background, logging every game.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if !sc.autoplaying() {
			return nil, errors.New("autoplay is not running")
		}
		sc.autoplayCancel()
		<-sc.autoplayDone
		return msg("autoplay stopped"), nil
	}
	if sc.autoplaying() {
		return nil, errAutoplaying
	}
	p1, p2 := agent.NameAlphaBeta, agent.NameGreedy
	if len(cmd.args) == 2 {
		p1, p2 = cmd.args[0], cmd.args[1]
	} else if len(cmd.args) != 0 {
		return nil, errors.New("usage: autoplay [player1 player2] [-games n] [-threads n] [-file path]")
	}
	numGames, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", 1)
	if err != nil {
		return nil, err
	}
	logfile := cmd.options.String("file")
	if logfile == "" {
		logfile = defaultAutoplayLog
	}
	opts := automatic.MatchOptions{
		Player1:  p1,
		Player2:  p2,
		NumGames: numGames,
		Threads:  threads,
	}
	if dbPath := sc.config.GetString(config.ConfigResultsDB); dbPath != "" {
		store, err := automatic.OpenResultsStore(dbPath)
		if err != nil {
			return nil, err
		}
		opts.Store = store
	}
	// Catch bad agent names before going to the background.
	if _, err := automatic.NewGameRunner(sc.config, p1, p2); err != nil {
		if opts.Store != nil {
			opts.Store.Close()
		}
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.autoplayCancel = cancel
	sc.autoplayDone = done
	go func() {
		defer close(done)
		if opts.Store != nil {
			defer opts.Store.Close()
		}
		n, err := automatic.StartCompVComp(ctx, sc.config, opts, logfile)
		if err != nil {
			log.Err(err).Msg("autoplay-error")
			return
		}
		log.Info().Int("games", n).Str("logfile", logfile).Msg("autoplay-finished")
	}()
	return msg(fmt.Sprintf("autoplay started: %v vs %v, %d games, logging to %v",
		p1, p2, numGames, logfile)), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	logfile := defaultAutoplayLog
	if len(cmd.args) > 0 {
		logfile = cmd.args[0]
	}
	out, err := automatic.AnalyzeLogFile(logfile)
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

func (sc *ShellController) standings(cmd *shellcmd) (*Response, error) {
	dbPath := cmd.options.String("db")
	if dbPath == "" {
		dbPath = sc.config.GetString(config.ConfigResultsDB)
	}
	if dbPath == "" {
		return nil, errors.New("no results database; use -db or setconfig results-db")
	}
	store, err := automatic.OpenResultsStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	st, err := store.Standings(context.Background())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("Agent                 Games   Wins  Draws Losses  Margin\n")
	for _, s := range st {
		fmt.Fprintf(&sb, "%-20s %6d %6d %6d %6d %7.2f\n",
			s.Agent, s.Games, s.Wins, s.Draws, s.Losses, s.MeanMargin)
	}
	return msg(sb.String()), nil
}

// shellOptions are the short names `set` knows, and the config keys they
// stand for.
var shellOptions = map[string]string{
	"board":    config.ConfigBoardSize,
	"clock":    config.ConfigClock,
	"movetime": config.ConfigMoveTimeCap,
	"depth":    config.ConfigMaxDepth,
	"weights":  config.ConfigWeightsFile,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	names := lo.Keys(shellOptions)
	slices.Sort(names)
	if len(cmd.args) == 0 {
		var sb strings.Builder
		for _, n := range names {
			fmt.Fprintf(&sb, "%-9s %v\n", n, sc.config.Get(shellOptions[n]))
		}
		return msg(sb.String()), nil
	}
	key, ok := shellOptions[cmd.args[0]]
	if !ok {
		return nil, fmt.Errorf("option %v not recognized; choose from %v",
			cmd.args[0], strings.Join(names, ", "))
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprint(sc.config.Get(key))), nil
	}
	val := cmd.args[1]
	switch key {
	case config.ConfigBoardSize, config.ConfigMaxDepth:
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if key == config.ConfigBoardSize && (n < 4 || n > move.MaxDim || n%2 != 0) {
			return nil, fmt.Errorf("%w: %d", board.ErrBadDimension, n)
		}
		sc.config.Set(key, n)
	case config.ConfigClock, config.ConfigMoveTimeCap:
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, d)
	default:
		sc.config.Set(key, val)
	}
	return msg("set " + cmd.args[0] + " to " + val), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	if !lo.Contains(sc.config.AllKeys(), key) {
		return nil, fmt.Errorf("unknown config key %v", key)
	}
	sc.config.Set(key, value)

	path := sc.config.GetString(config.ConfigConfigFile)
	if path == "" {
		return msg(fmt.Sprintf("set config %s to %s", key, value)), nil
	}
	if err := sc.config.WriteConfigAs(path); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return msg(fmt.Sprintf("set config %s to %s and saved to %s", key, value, path)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}
