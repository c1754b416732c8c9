package tracker

import (
	"fmt"
	"io"
	"math"

	"github.com/logrusorgru/aurora"
)

// Log writes each report as a single coloured line. Rewards are
// printed in green, losses and action values in blue, and undefined
// values in grey.
type Log struct {
	out io.Writer
	au  aurora.Aurora
}

// NewLog returns a new Log Tracker writing to out. If colors is false,
// no terminal escape codes are written.
func NewLog(out io.Writer, colors bool) *Log {
	return &Log{
		out: out,
		au:  aurora.NewAurora(colors),
	}
}

// Track writes the report
func (l *Log) Track(r Report) error {
	_, err := fmt.Fprintf(l.out, "step %d | avg_r: %v, avg_l: %v, "+
		"avg_q: %v, max_ep_r: %v, min_ep_r: %v, # game: %d, eps: %.4f\n",
		r.Step,
		l.value(r.AvgReward, "%.4f", l.au.Green),
		l.value(r.AvgLoss, "%.6f", l.au.Blue),
		l.value(r.AvgQ, "%3.6f", l.au.Blue),
		l.value(r.MaxEpReward, "%.4f", l.au.Green),
		l.value(r.MinEpReward, "%.4f", l.au.Green),
		r.NumGames, r.Epsilon,
	)
	if err != nil {
		return fmt.Errorf("track: could not write report: %w", err)
	}
	return nil
}

// Save is a no-op, reports are written as they are tracked
func (l *Log) Save() error {
	return nil
}

func (l *Log) value(v float64, format string,
	colour func(interface{}) aurora.Value) aurora.Value {
	if math.IsNaN(v) {
		return l.au.Gray(12, "n/a")
	}
	return colour(fmt.Sprintf(format, v))
}
