package automatic

// Data collection for automatic games: play many computer vs computer
// games and log every result.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/reversi/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

var csvHeader = []string{
	"gameID", "black", "white", "blackDiscs", "whiteDiscs", "winner", "reason",
	"turns", "blackMillis", "whiteMillis", "dim",
}

func (r GameRecord) csvRow() []string {
	return []string{
		r.GameID, r.Black, r.White,
		strconv.Itoa(r.BlackDisc), strconv.Itoa(r.WhiteDisc),
		r.Winner, r.Reason, strconv.Itoa(r.Turns),
		strconv.FormatInt(r.BlackTime.Milliseconds(), 10),
		strconv.FormatInt(r.WhiteTime.Milliseconds(), 10),
		strconv.Itoa(r.Dim),
	}
}

// MatchOptions configure PlayMatches.
type MatchOptions struct {
	Player1  string
	Player2  string
	NumGames int
	Threads  int
	// Store, if not nil, gets every record as well.
	Store *ResultsStore
}

// PlayMatches plays opts.NumGames games, opts.Threads at a time, and writes
// a CSV line per game to w. It stops early when ctx is done; games already
// finished are still written.
func PlayMatches(ctx context.Context, cfg *config.Config, opts MatchOptions, w io.Writer) (int, error) {
	if IsPlaying.Value() > 0 {
		return 0, ErrAlreadyPlaying
	}
	runner, err := NewGameRunner(cfg, opts.Player1, opts.Player2)
	if err != nil {
		return 0, err
	}
	threads := max(1, opts.Threads)
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, threads)
	CVCCounter.Set(0)
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	records := make(chan GameRecord, 100)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	logDone := make(chan error, 1)
	written := 0
	go func() {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			logDone <- err
			return
		}
		var werr error
		for rec := range records {
			if werr != nil {
				continue
			}
			if werr = cw.Write(rec.csvRow()); werr != nil {
				continue
			}
			if opts.Store != nil {
				werr = opts.Store.Save(context.Background(), rec)
			}
			written++
		}
		cw.Flush()
		if werr == nil {
			werr = cw.Error()
		}
		logDone <- werr
	}()

gameLoop:
	for i := 0; i < opts.NumGames; i++ {
		select {
		case <-gctx.Done():
			log.Info().Msg("Got stop signal, exiting soon...")
			break gameLoop
		default:
		}
		n := i
		g.Go(func() error {
			rec, err := runner.PlayGame(gctx, n)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if err != nil {
				return err
			}
			records <- rec
			CVCCounter.Add(1)
			if c := CVCCounter.Value(); c%100 == 0 {
				log.Info().Int64("games", c).Msg("games-played")
			}
			return nil
		})
	}
	err = g.Wait()
	close(records)
	if lerr := <-logDone; lerr != nil && err == nil {
		err = lerr
	}
	log.Info().Int("games", written).Msg("All games finished.")
	return written, err
}

// StartCompVComp plays a match into a new CSV file.
func StartCompVComp(ctx context.Context, cfg *config.Config, opts MatchOptions, outputFilename string) (int, error) {
	logfile, err := os.Create(outputFilename)
	if err != nil {
		return 0, err
	}
	n, err := PlayMatches(ctx, cfg, opts, logfile)
	if cerr := logfile.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing %v: %w", outputFilename, cerr)
	}
	return n, err
}
