package tracker

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// series is a named value of a Report that is drawn as a single line
type series struct {
	name  string
	value func(Report) float64
}

var curves = []series{
	{"avg reward", func(r Report) float64 { return r.AvgReward }},
	{"avg loss", func(r Report) float64 { return r.AvgLoss }},
	{"avg q", func(r Report) float64 { return r.AvgQ }},
	{"max ep reward", func(r Report) float64 { return r.MaxEpReward }},
	{"min ep reward", func(r Report) float64 { return r.MinEpReward }},
}

// Plot draws the training curves of all tracked reports to a PNG
// file on Save. Undefined values are skipped.
type Plot struct {
	filename string
	title    string
	reports  []Report
}

// NewPlot returns a new Plot Tracker saving to filename
func NewPlot(filename, title string) *Plot {
	return &Plot{filename: filename, title: title}
}

// Track caches the report
func (p *Plot) Track(r Report) error {
	p.reports = append(p.reports, r)
	return nil
}

// Save draws and saves the plot
func (p *Plot) Save() error {
	plt := plot.New()
	plt.Title.Text = p.title
	plt.X.Label.Text = "Step"
	plt.Y.Label.Text = "Value"

	for i, c := range curves {
		points := make(plotter.XYs, 0, len(p.reports))
		for _, r := range p.reports {
			v := c.value(r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			points = append(points, plotter.XY{X: float64(r.Step), Y: v})
		}
		if len(points) == 0 {
			continue
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("save: could not create line %v: %w", c.name,
				err)
		}
		line.Color = plotutil.Color(i)
		plt.Add(line)
		plt.Legend.Add(c.name, line)
	}

	if err := plt.Save(8*vg.Inch, 8*vg.Inch, p.filename); err != nil {
		return fmt.Errorf("save: could not save plot: %w", err)
	}
	return nil
}
