// Package network implements a multi-layered perceptron action-value
// function with a frozen target copy, built with Gorgonia.
package network

import (
	"fmt"

	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/solver"
)

// Config implements a configuration of a QNetwork
type Config struct {
	HiddenSizes []int         // Layer sizes in neural net
	Activations []*Activation // Activation of each hidden layer
	Solver      *solver.Solver
	InitWFn     *initwfn.InitWFn

	// Checkpoints are written to CheckpointDir if it is not empty. Only
	// the KeepCheckpoints most recent checkpoints are kept; if it is not
	// positive all are kept.
	CheckpointDir   string
	KeepCheckpoints int
}

// DefaultConfig returns the default QNetwork configuration: two hidden
// ReLU layers of 64 units trained with RMSProp.
func DefaultConfig() Config {
	rmsprop, err := solver.NewDefaultRMSProp(0.00025)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}

	return Config{
		HiddenSizes: []int{64, 64},
		Activations: []*Activation{ReLU(), ReLU()},
		Solver:      rmsprop,
		InitWFn:     initwfn.New(initwfn.GlorotUConfig{Gain: 1.0}),

		KeepCheckpoints: 5,
	}
}

// Validate checks a Config to ensure it is a valid configuration of a
// QNetwork
func (c Config) Validate() error {
	if len(c.HiddenSizes) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.HiddenSizes),
			len(c.Activations))
	}

	for i, size := range c.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %v must have positive "+
				"size \n\thave(%v)", i, size)
		}
		if c.Activations[i] == nil {
			return fmt.Errorf("validate: hidden layer %v has no activation", i)
		}
	}

	if c.Solver == nil || c.Solver.Solver == nil {
		return fmt.Errorf("validate: a solver is required")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: a weight initializer is required")
	}

	return nil
}
