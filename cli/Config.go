package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/godqn/agent/deepq"
	"github.com/samuelfneumann/godqn/network"
	"github.com/spf13/pflag"
)

// EnvConfig describes the gridworld environment. It is ignored for Gym
// environments.
type EnvConfig struct {
	Rows, Cols     int
	GoalX, GoalY   []int
	TimestepReward float64
	GoalReward     float64
	StepLimit      int  // Episode cutoff, not positive for none
	RandomStart    bool // Whether to start episodes at random cells
}

// RunConfig is the configuration of a training or playing run
type RunConfig struct {
	Agent   deepq.Config
	Network network.Config
	Env     EnvConfig
}

// DefaultRunConfig returns the default run configuration
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Agent:   deepq.DefaultConfig(),
		Network: network.DefaultConfig(),
		Env: EnvConfig{
			Rows:           5,
			Cols:           5,
			GoalX:          []int{4},
			GoalY:          []int{4},
			TimestepReward: -0.1,
			GoalReward:     1,
			StepLimit:      100,
		},
	}
}

// Validate checks the run configuration
func (r RunConfig) Validate() error {
	if err := r.Agent.Validate(); err != nil {
		return err
	}
	if err := r.Network.Validate(); err != nil {
		return fmt.Errorf("network %w", err)
	}
	return nil
}

// loadRunConfig returns the default configuration overridden by the JSON
// file at path, if path is not empty
func loadRunConfig(path string) (RunConfig, error) {
	c := DefaultRunConfig()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("could not read config file: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("could not parse config file %v: %w", path, err)
	}
	return c, nil
}

// intOption is an integer agent option that can be set from the
// command line
type intOption struct {
	name, usage string
	field       func(*deepq.Config) *int
}

type floatOption struct {
	name, usage string
	field       func(*deepq.Config) *float64
}

var intOptions = []intOption{
	{"history-length", "frames stacked into a state",
		func(c *deepq.Config) *int { return &c.HistoryLength }},
	{"memory-capacity", "transitions held in the replay memory",
		func(c *deepq.Config) *int { return &c.MemoryCapacity }},
	{"batch-size", "transitions per learning step",
		func(c *deepq.Config) *int { return &c.BatchSize }},
	{"learn-start", "steps before learning starts",
		func(c *deepq.Config) *int { return &c.LearnStart }},
	{"eps-end-step", "steps over which epsilon decays",
		func(c *deepq.Config) *int { return &c.EpsEndStep }},
	{"train-frequency", "steps between learning steps",
		func(c *deepq.Config) *int { return &c.TrainFrequency }},
	{"target-update-step", "steps between target synchronizations",
		func(c *deepq.Config) *int { return &c.TargetUpdateStep }},
	{"test-step", "steps between reports",
		func(c *deepq.Config) *int { return &c.TestStep }},
	{"save-step", "steps between checkpoints",
		func(c *deepq.Config) *int { return &c.SaveStep }},
	{"max-step", "step at which training stops",
		func(c *deepq.Config) *int { return &c.MaxStep }},
}

var floatOptions = []floatOption{
	{"discount", "discount factor",
		func(c *deepq.Config) *float64 { return &c.Discount }},
	{"eps-start", "initial exploration rate",
		func(c *deepq.Config) *float64 { return &c.EpsStart }},
	{"eps-end", "final exploration rate",
		func(c *deepq.Config) *float64 { return &c.EpsEnd }},
	{"min-reward", "lower reward clip",
		func(c *deepq.Config) *float64 { return &c.MinReward }},
	{"max-reward", "upper reward clip",
		func(c *deepq.Config) *float64 { return &c.MaxReward }},
	{"min-delta", "lower Bellman error clip",
		func(c *deepq.Config) *float64 { return &c.MinDelta }},
	{"max-delta", "upper Bellman error clip",
		func(c *deepq.Config) *float64 { return &c.MaxDelta }},
}

// addAgentFlags adds a flag for each agent option to fs
func addAgentFlags(fs *pflag.FlagSet) {
	defaults := deepq.DefaultConfig()
	for _, o := range intOptions {
		fs.Int(o.name, *o.field(&defaults), o.usage)
	}
	for _, o := range floatOptions {
		fs.Float64(o.name, *o.field(&defaults), o.usage)
	}
	fs.Uint64("seed", defaults.Seed, "random seed")
	fs.Bool("progress", defaults.Progress, "display a progress bar")
	fs.Bool("save-memory", defaults.SaveMemory,
		"checkpoint the replay memory")
}

// applyAgentFlags overwrites the options of c that were set on the
// command line
func applyAgentFlags(fs *pflag.FlagSet, c *deepq.Config) error {
	var err error
	for _, o := range intOptions {
		if fs.Changed(o.name) {
			if *o.field(c), err = fs.GetInt(o.name); err != nil {
				return err
			}
		}
	}
	for _, o := range floatOptions {
		if fs.Changed(o.name) {
			if *o.field(c), err = fs.GetFloat64(o.name); err != nil {
				return err
			}
		}
	}

	if fs.Changed("seed") {
		if c.Seed, err = fs.GetUint64("seed"); err != nil {
			return err
		}
	}
	if fs.Changed("progress") {
		if c.Progress, err = fs.GetBool("progress"); err != nil {
			return err
		}
	}
	if fs.Changed("save-memory") {
		if c.SaveMemory, err = fs.GetBool("save-memory"); err != nil {
			return err
		}
	}
	return nil
}
