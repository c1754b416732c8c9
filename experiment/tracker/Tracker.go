// Package tracker implements Trackers, which receive the periodic
// training reports of an agent and store, display, or publish them
package tracker

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Report is a summary of a window of training steps. Averages that are
// undefined for the window, for example the average loss of a window in
// which no learning step was taken, are NaN.
type Report struct {
	RunID string
	Step  int

	Epsilon   float64
	AvgReward float64
	AvgLoss   float64
	AvgQ      float64

	// MaxEpReward and MinEpReward are the largest and smallest episodic
	// returns of the episodes that finished in the window
	MaxEpReward float64
	MinEpReward float64

	NumGames int
	Updates  int
}

// String returns the string representation of the Report
func (r Report) String() string {
	return fmt.Sprintf("step %d | avg_r: %.4f, avg_l: %.6f, avg_q: %3.6f, "+
		"max_ep_r: %.4f, min_ep_r: %.4f, # game: %d", r.Step, r.AvgReward,
		r.AvgLoss, r.AvgQ, r.MaxEpReward, r.MinEpReward, r.NumGames)
}

// reportJSON is the JSON representation of a Report. NaN is not valid
// JSON, so undefined values are omitted instead.
type reportJSON struct {
	RunID       string   `json:"run_id,omitempty"`
	Step        int      `json:"step"`
	Epsilon     *float64 `json:"epsilon,omitempty"`
	AvgReward   *float64 `json:"avg_reward,omitempty"`
	AvgLoss     *float64 `json:"avg_loss,omitempty"`
	AvgQ        *float64 `json:"avg_q,omitempty"`
	MaxEpReward *float64 `json:"max_ep_reward,omitempty"`
	MinEpReward *float64 `json:"min_ep_reward,omitempty"`
	NumGames    int      `json:"num_games"`
	Updates     int      `json:"updates"`
}

// MarshalJSON implements the json.Marshaler interface
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		RunID:       r.RunID,
		Step:        r.Step,
		Epsilon:     defined(r.Epsilon),
		AvgReward:   defined(r.AvgReward),
		AvgLoss:     defined(r.AvgLoss),
		AvgQ:        defined(r.AvgQ),
		MaxEpReward: defined(r.MaxEpReward),
		MinEpReward: defined(r.MinEpReward),
		NumGames:    r.NumGames,
		Updates:     r.Updates,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. Missing
// values are decoded as NaN.
func (r *Report) UnmarshalJSON(data []byte) error {
	var in reportJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = Report{
		RunID:       in.RunID,
		Step:        in.Step,
		Epsilon:     undefined(in.Epsilon),
		AvgReward:   undefined(in.AvgReward),
		AvgLoss:     undefined(in.AvgLoss),
		AvgQ:        undefined(in.AvgQ),
		MaxEpReward: undefined(in.MaxEpReward),
		MinEpReward: undefined(in.MinEpReward),
		NumGames:    in.NumGames,
		Updates:     in.Updates,
	}
	return nil
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func undefined(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Tracker receives the reports of a training run and saves them
// after the run has finished
type Tracker interface {
	Track(r Report) error
	Save() error
}

// LoadReports loads and returns the reports saved by a Gob Tracker
func LoadReports(filename string) ([]Report, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadReports: could not open data file: %w",
			err)
	}
	defer file.Close()

	var reports []Report
	if err := gob.NewDecoder(file).Decode(&reports); err != nil {
		return nil, fmt.Errorf("loadReports: could not decode data: %w", err)
	}
	return reports, nil
}
