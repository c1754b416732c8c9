//go:build gogym

// Package gym provides access to OpenAI Gym environments with discrete
// action spaces.
//
// Vector observations are returned as single row frames. All
// environments only work with their default tasks and episode cutoffs.
//
// This is made possible through the Go bindings for OpenAI Gym,
// found at https://github.com/samuelfneumann/GoGym. Since these bindings
// require a Python installation with Gym, the package is only built
// with the gogym build tag.
package gym

import (
	"fmt"

	"github.com/samuelfneumann/gogym"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// GymEnv implements access to an OpenAI Gym environment using GoGym
type GymEnv struct {
	gogym.Environment

	numActions  int
	features    int
	currentStep ts.TimeStep
}

// New returns a new GymEnv with the given name, which must be a legal
// name from the OpenAI Gym suite of an environment with discrete
// actions.
func New(name string, seed uint64) (*GymEnv, error) {
	goGymEnv, err := gogym.Make(name)
	if err != nil {
		return nil, fmt.Errorf("new: could not create environment: %v", err)
	}
	goGymEnv.Seed(int(seed))

	actions, ok := goGymEnv.ActionSpace().(*gogym.DiscreteSpace)
	if !ok {
		goGymEnv.Close()
		return nil, fmt.Errorf("new: environment %v does not have discrete "+
			"actions", name)
	}
	numActions := int(actions.High()[0].AtVec(0)) + 1

	var features int
	switch space := goGymEnv.ObservationSpace().(type) {
	case *gogym.BoxSpace, *gogym.DiscreteSpace:
		features = space.Low()[0].Len()
	default:
		goGymEnv.Close()
		return nil, fmt.Errorf("new: invalid observation space type %T, "+
			"package gym supports only GoGym's BoxSpace or DiscreteSpace",
			space)
	}

	return &GymEnv{
		Environment: goGymEnv,
		numActions:  numActions,
		features:    features,
	}, nil
}

// NewEpisode resets the environment to some starting state
func (g *GymEnv) NewEpisode() (ts.TimeStep, error) {
	obs, err := g.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("newepisode: could not reset "+
			"environment: %v", err)
	}

	g.currentStep = ts.New(ts.First, 0, g.frame(obs), 0)
	return g.currentStep, nil
}

// Step takes a single environmental step
func (g *GymEnv) Step(action int, _ bool) (ts.TimeStep, error) {
	if action < 0 || action >= g.numActions {
		return ts.TimeStep{}, fmt.Errorf("step: invalid action "+
			"\n\twant([0, %v)) \n\thave(%v)", g.numActions, action)
	}

	a := mat.NewVecDense(1, []float64{float64(action)})
	obs, reward, done, err := g.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("step: could not step "+
			"GoGym environment: %v", err)
	}

	t := ts.New(ts.Mid, reward, g.frame(obs), g.currentStep.Number+1)
	if done {
		t.StepType = ts.Last
	}
	g.currentStep = t

	return t, nil
}

// frame converts an observation vector to a single row frame
func (g *GymEnv) frame(obs *mat.VecDense) *mat.Dense {
	data := make([]float64, g.features)
	for i := range data {
		data[i] = obs.AtVec(i)
	}
	return mat.NewDense(1, g.features, data)
}

// NumActions returns the number of discrete actions
func (g *GymEnv) NumActions() int {
	return g.numActions
}

// FrameShape returns the shape of the frames observed
func (g *GymEnv) FrameShape() (rows, cols int) {
	return 1, g.features
}

// Close performs resource cleanup after the environment is no longer
// needed
func (g *GymEnv) Close() error {
	g.Environment.Close()
	return nil
}
