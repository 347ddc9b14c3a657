// Command arena plays a match between two agents and logs every game.
//
//	arena [flags] player1 player2
//	arena --analyze games.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/agent"
	"github.com/domino14/reversi/automatic"
	"github.com/domino14/reversi/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	if path := cfg.GetString(config.ConfigAnalyze); path != "" {
		out, err := automatic.AnalyzeLogFile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("analyze-failed")
		}
		fmt.Println(out)
		return
	}

	args := cfg.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: arena [flags] player1 player2\nplayers: %v\n",
			strings.Join(agent.Names(), ", "))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := automatic.MatchOptions{
		Player1:  args[0],
		Player2:  args[1],
		NumGames: cfg.GetInt(config.ConfigGames),
		Threads:  cfg.GetInt(config.ConfigThreads),
	}
	if dbPath := cfg.GetString(config.ConfigResultsDB); dbPath != "" {
		store, err := automatic.OpenResultsStore(dbPath)
		if err != nil {
			log.Fatal().Err(err).Msg("results-db")
		}
		defer store.Close()
		opts.Store = store
	}
	logfile := cfg.GetString(config.ConfigOutput)
	n, err := automatic.StartCompVComp(ctx, cfg, opts, logfile)
	if err != nil {
		log.Error().Err(err).Msg("match-failed")
		os.Exit(1)
	}
	log.Info().Int("games", n).Str("output", logfile).Msg("match-done")

	out, err := automatic.AnalyzeLogFile(logfile)
	if errors.Is(err, automatic.ErrEmptyLog) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("analyze-failed")
		os.Exit(1)
	}
	fmt.Println(out)
}
