package deepq

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/godqn/exploration"
)

// Config implements a configuration of a DeepQ agent. Every field is
// JSON serializable and can be overridden independently.
type Config struct {
	// Number of frames stacked into a single state
	HistoryLength int

	// Experience replay
	MemoryCapacity int
	BatchSize      int

	Discount float64

	// Exploration and learning schedules. No learning happens until
	// the step counter exceeds LearnStart.
	LearnStart int
	EpsStart   float64
	EpsEnd     float64
	EpsEndStep int

	TrainFrequency   int // Steps between learning steps
	TargetUpdateStep int // Steps between target synchronizations
	TestStep         int // Steps between reports
	SaveStep         int // Steps between checkpoints

	// Rewards are clipped to [MinReward, MaxReward] before being stored
	MinReward float64
	MaxReward float64

	// The Bellman error is clipped to [MinDelta, MaxDelta] by the
	// action-value function
	MinDelta float64
	MaxDelta float64

	MaxStep int

	Seed       uint64
	Progress   bool // Whether to display a progress bar while training
	SaveMemory bool // Whether to checkpoint the replay memory
}

// DefaultConfig returns the default configuration of a DeepQ agent
func DefaultConfig() Config {
	return Config{
		HistoryLength:    4,
		MemoryCapacity:   1_000_000,
		BatchSize:        32,
		Discount:         0.99,
		LearnStart:       50_000,
		EpsStart:         1.0,
		EpsEnd:           0.1,
		EpsEndStep:       1_000_000,
		TrainFrequency:   4,
		TargetUpdateStep: 10_000,
		TestStep:         50_000,
		SaveStep:         500_000,
		MinReward:        -1,
		MaxReward:        1,
		MinDelta:         -1,
		MaxDelta:         1,
		MaxStep:          50_000_000,
		Progress:         true,
	}
}

// Schedule returns the exploration schedule of the configuration
func (c Config) Schedule() exploration.LinearDecay {
	return exploration.LinearDecay{
		Start:      c.EpsStart,
		End:        c.EpsEnd,
		EndStep:    c.EpsEndStep,
		LearnStart: c.LearnStart,
	}
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent. The returned error is a *ConfigurationError.
func (c Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"HistoryLength", c.HistoryLength},
		{"MemoryCapacity", c.MemoryCapacity},
		{"BatchSize", c.BatchSize},
		{"TrainFrequency", c.TrainFrequency},
		{"TargetUpdateStep", c.TargetUpdateStep},
		{"TestStep", c.TestStep},
		{"SaveStep", c.SaveStep},
		{"MaxStep", c.MaxStep},
	}
	for _, p := range positive {
		if p.value < 1 {
			return &ConfigurationError{p.field, p.value, "must be positive"}
		}
	}

	if c.MemoryCapacity <= c.HistoryLength {
		return &ConfigurationError{"MemoryCapacity", c.MemoryCapacity,
			fmt.Sprintf("must exceed the history length %v", c.HistoryLength)}
	}

	if math.IsNaN(c.Discount) || c.Discount < 0 || c.Discount > 1 {
		return &ConfigurationError{"Discount", c.Discount,
			"must be in [0, 1]"}
	}

	if c.LearnStart < 0 {
		return &ConfigurationError{"LearnStart", c.LearnStart,
			"cannot be negative"}
	}

	if err := c.Schedule().Validate(); err != nil {
		return &ConfigurationError{"EpsStart/EpsEnd/EpsEndStep",
			c.Schedule(), err.Error()}
	}

	if !(c.MinReward <= c.MaxReward) {
		return &ConfigurationError{"MinReward", c.MinReward,
			fmt.Sprintf("must not exceed MaxReward %v", c.MaxReward)}
	}
	if !(c.MinDelta <= c.MaxDelta) {
		return &ConfigurationError{"MinDelta", c.MinDelta,
			fmt.Sprintf("must not exceed MaxDelta %v", c.MaxDelta)}
	}

	return nil
}
