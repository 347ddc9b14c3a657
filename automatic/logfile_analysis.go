package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/domino14/reversi/stats"
)

var ErrEmptyLog = errors.New("no games in log")

// AnalyzeLogFile analyzes the given match CSV file and spits out a bunch of
// statistics.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

// AnalyzeLog is AnalyzeLogFile for any reader.
func AnalyzeLog(rd io.Reader) (string, error) {
	r := csv.NewReader(rd)

	// Record looks like:
	// gameID,black,white,blackDiscs,whiteDiscs,winner,reason,turns,blackMillis,whiteMillis,dim
	p1margins := &stats.Statistic{}
	p1times := &stats.Statistic{}
	p2times := &stats.Statistic{}
	p1wl := &stats.WinRate{}
	blackWL := &stats.WinRate{}
	var margins []float64
	forfeits := 0
	var p1Name, p2Name string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		if len(record) < len(csvHeader) {
			return "", fmt.Errorf("short record for game %v", record[0])
		}
		nums := make([]int, 0, 5)
		for _, idx := range []int{3, 4, 7, 8, 9} {
			n, err := strconv.Atoi(record[idx])
			if err != nil {
				return "", fmt.Errorf("game %v: %w", record[0], err)
			}
			nums = append(nums, n)
		}
		black, white := record[1], record[2]
		blackDiscs, whiteDiscs := nums[0], nums[1]
		blackMillis, whiteMillis := nums[3], nums[4]
		winner, reason := record[5], record[6]
		if p1Name == "" {
			p1Name, p2Name = black, white
		}
		p1IsBlack := black == p1Name
		margin := blackDiscs - whiteDiscs
		if !p1IsBlack {
			margin = -margin
			p1times.Push(float64(whiteMillis))
			p2times.Push(float64(blackMillis))
		} else {
			p1times.Push(float64(blackMillis))
			p2times.Push(float64(whiteMillis))
		}
		if reason != "board" {
			// A forfeit counts as a one-disc margin, whatever the board says.
			forfeits++
			margin = 1
			if (winner == "black") != p1IsBlack {
				margin = -1
			}
		}
		p1margins.Push(float64(margin))
		margins = append(margins, float64(margin))

		switch winner {
		case "draw":
			p1wl.PushDraw()
			blackWL.PushDraw()
		case "black":
			blackWL.PushWin()
			if p1IsBlack {
				p1wl.PushWin()
			} else {
				p1wl.PushLoss()
			}
		case "white":
			blackWL.PushLoss()
			if p1IsBlack {
				p1wl.PushLoss()
			} else {
				p1wl.PushWin()
			}
		default:
			return "", fmt.Errorf("game %v: unknown winner %q", record[0], winner)
		}
	}
	if p1wl.Games() == 0 {
		return "", ErrEmptyLog
	}

	games := float64(p1wl.Games())
	lo, hi := p1wl.ConfidenceInterval(95)
	// build stats string
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", p1wl.Games())
	fmt.Fprintf(&sb, "%v wins: %d  draws: %d  losses: %d (%.3f%%)\n",
		p1Name, p1wl.Wins, p1wl.Draws, p1wl.Losses, 100.0*p1wl.Rate())
	fmt.Fprintf(&sb, "%v win rate 95%% interval: %.3f%% - %.3f%%", p1Name, 100*lo, 100*hi)
	if p1wl.Significant(95) {
		sb.WriteString(" (significant)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Black wins: %.1f (%.3f%%)\n",
		float64(blackWL.Wins)+0.5*float64(blackWL.Draws), 100.0*blackWL.Rate())
	fmt.Fprintf(&sb, "Forfeits: %d (%.3f%%)\n", forfeits, 100.0*float64(forfeits)/games)
	fmt.Fprintf(&sb, "%v Mean Margin: %.6f  Stdev: %.6f  Min: %.0f  Max: %.0f\n",
		p1Name, p1margins.Mean(), p1margins.Stdev(), p1margins.Min(), p1margins.Max())
	fmt.Fprintf(&sb, "%v Mean Time (ms): %.3f\n", p1Name, p1times.Mean())
	fmt.Fprintf(&sb, "%v Mean Time (ms): %.3f\n", p2Name, p2times.Mean())
	if len(margins) > 1 {
		fmt.Fprintf(&sb, "%v margin histogram:\n", p1Name)
		hist := histogram.Hist(min(15, len(margins)), margins)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
