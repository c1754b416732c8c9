// Package environment outlines the interfaces needed to implement
// concrete environments that produce frame observations with discrete
// actions
package environment

import (
	"github.com/samuelfneumann/godqn/timestep"
)

// Environment implements a simulated environment with a discrete action
// space. Observations are fixed-shape frames stored in the Observation
// field of the returned TimeSteps.
type Environment interface {
	// NewEpisode starts a new episode and returns its first TimeStep.
	// The first TimeStep always has zero reward, and the action which
	// led to it is taken to be action 0.
	NewEpisode() (timestep.TimeStep, error)

	// Step takes action in the environment. The training argument
	// tells the environment whether the step is part of training or of
	// evaluation. An episode ends when the returned TimeStep is Last().
	Step(action int, training bool) (timestep.TimeStep, error)

	// NumActions returns the number of actions, enumerated from 0
	NumActions() int

	// FrameShape returns the shape of each frame observation
	FrameShape() (rows, cols int)
}

// Renderer is an Environment which can display its current state
type Renderer interface {
	Render() error
}

// Evaluator is an Environment which must be informed when a run of
// evaluation episodes begins and ends
type Evaluator interface {
	StartEval() error
	EndEval() error
}

// Starter samples starting positions for environments
type Starter interface {
	Start() []int
}

// Ender determines when episodes should be cut off
type Ender interface {
	End(*timestep.TimeStep) bool
}
