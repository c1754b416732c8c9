package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Gob caches all reports in RAM and gob-encodes them to a file on
// Save. The saved reports can be loaded with LoadReports.
type Gob struct {
	filename string
	reports  []Report
}

// NewGob returns a new Gob Tracker saving to filename
func NewGob(filename string) *Gob {
	return &Gob{filename: filename}
}

// Track caches the report
func (g *Gob) Track(r Report) error {
	g.reports = append(g.reports, r)
	return nil
}

// Reports returns the reports tracked so far
func (g *Gob) Reports() []Report {
	return g.reports
}

// Save saves the tracked reports to disk
func (g *Gob) Save() error {
	file, err := os.Create(g.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(g.reports); err != nil {
		return fmt.Errorf("save: could not encode reports: %w", err)
	}
	return file.Close()
}
