// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	initialProgress float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is width
// characters wide, writes to out, and reaches 100% after max
// iterations. The bar starts at initial, so that resumed runs show
// their overall progress.
func NewManualProgressBar(out io.Writer, width, initial,
	max int) *ManualProgressBar {
	if max < 1 {
		max = 1
	}
	if initial > max {
		initial = max
	}

	return &ManualProgressBar{
		out:             out,
		width:           float64(width),
		initialProgress: float64(initial),
		maxProgress:     float64(max),
		currentProgress: float64(initial),
		startTime:       time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the number of iterations performed, including the
// initial progress
func (p *ManualProgressBar) Progress() int {
	return int(p.currentProgress)
}

// Display overwrites the current terminal line with the progress bar
func (p *ManualProgressBar) Display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}

	elapsed := time.Since(p.startTime).Truncate(time.Second)
	p.bar.WriteString(fmt.Sprintf("| %d/%d [%.2f%v | elapsed: %v | %.1f it/s]",
		int(p.currentProgress), int(p.maxProgress),
		p.currentProgress/p.maxProgress*100, "%", elapsed, p.rate()))

	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.bar.String())
}

// Close moves the cursor past the progress bar
func (p *ManualProgressBar) Close() {
	fmt.Fprintln(p.out)
}

// rate returns the number of iterations performed per second since the
// bar was created
func (p *ManualProgressBar) rate() float64 {
	seconds := time.Since(p.startTime).Seconds()
	if seconds == 0 {
		return 0
	}
	return (p.currentProgress - p.initialProgress) / seconds
}
