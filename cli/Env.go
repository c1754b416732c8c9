package cli

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/gridworld"
)

// gymPrefix prefixes the names of Gym environments on the command line
const gymPrefix = "gym:"

// makeEnv creates the environment named name: either "gridworld" or
// "gym:<environment id>"
func makeEnv(name string, c EnvConfig, seed uint64) (environment.Environment,
	error) {
	switch {
	case name == "gridworld":
		return makeGridWorld(c, seed)

	case strings.HasPrefix(name, gymPrefix):
		id := strings.TrimPrefix(name, gymPrefix)
		if id == "" {
			return nil, fmt.Errorf("makeEnv: missing gym environment id")
		}
		return makeGym(id, seed)
	}

	return nil, fmt.Errorf("makeEnv: no such environment %q", name)
}

func makeGridWorld(c EnvConfig, seed uint64) (environment.Environment,
	error) {
	task, err := gridworld.NewGoal(c.GoalX, c.GoalY, c.Rows, c.Cols,
		c.TimestepReward, c.GoalReward)
	if err != nil {
		return nil, fmt.Errorf("makeGridWorld: %w", err)
	}

	var start environment.Starter
	if c.RandomStart {
		start = gridworld.NewRandomStart(c.Rows, c.Cols, seed)
	} else {
		start, err = gridworld.NewSingleStart(0, 0, c.Rows, c.Cols)
		if err != nil {
			return nil, fmt.Errorf("makeGridWorld: %w", err)
		}
	}

	g, err := gridworld.New(c.Rows, c.Cols, task, start,
		environment.NewStepLimit(c.StepLimit))
	if err != nil {
		return nil, fmt.Errorf("makeGridWorld: %w", err)
	}
	return g, nil
}
