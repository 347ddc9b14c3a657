// Package stats keeps running statistics over match results.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance of a series of samples, such as
// disc margins or think times.
type Statistic struct {
	totalIterations int
	last            float64
	min, max        float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min, s.max = val, val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the statistic.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// WinRate tallies game outcomes from one side's point of view. A draw
// counts as half a win.
type WinRate struct {
	Wins   int
	Draws  int
	Losses int
	// points holds 1, 0.5 or 0 per game.
	points Statistic
}

func (w *WinRate) PushWin() {
	w.Wins++
	w.points.Push(1)
}

func (w *WinRate) PushDraw() {
	w.Draws++
	w.points.Push(0.5)
}

func (w *WinRate) PushLoss() {
	w.Losses++
	w.points.Push(0)
}

func (w *WinRate) Games() int {
	return w.Wins + w.Draws + w.Losses
}

// Rate is the fraction of points won, between 0 and 1.
func (w *WinRate) Rate() float64 {
	return w.points.Mean()
}

// ConfidenceInterval returns the low and high ends of the interval around
// Rate at the given confidence, in percent.
func (w *WinRate) ConfidenceInterval(confidence float64) (float64, float64) {
	half := ZVal(confidence) * w.points.StandardError()
	return math.Max(0, w.Rate()-half), math.Min(1, w.Rate()+half)
}
