package tracker

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart renders the training curves of all tracked reports to an
// interactive HTML page on Save
type Chart struct {
	filename string
	title    string
	reports  []Report
}

// NewChart returns a new Chart Tracker saving to filename
func NewChart(filename, title string) *Chart {
	return &Chart{filename: filename, title: title}
}

// Track caches the report
func (c *Chart) Track(r Report) error {
	c.reports = append(c.reports, r)
	return nil
}

// Save renders and saves the chart
func (c *Chart) Save() error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: c.title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, len(c.reports))
	for i, r := range c.reports {
		steps[i] = strconv.Itoa(r.Step)
	}
	line = line.SetXAxis(steps)

	for _, s := range curves {
		items := make([]opts.LineData, len(c.reports))
		for i, r := range c.reports {
			v := s.value(r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				// A gap in the line
				items[i] = opts.LineData{Value: "-"}
				continue
			}
			items[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(c.filename)
	if err != nil {
		return fmt.Errorf("save: could not create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("save: could not render chart: %w", err)
	}
	return f.Close()
}
