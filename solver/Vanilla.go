package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// VanillaConfig describes stochastic gradient descent with a fixed step
// size. Gradients are divided by Batch and, if Clip is positive,
// clipped to [-Clip, Clip] before each step.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(stepSize float64, batchScale int,
	clip float64) (*Solver, error) {
	return newSolver(Vanilla, VanillaConfig{
		StepSize: stepSize,
		Batch:    batchScale,
		Clip:     clip,
	})
}

// Create returns a Gorgonia Vanilla Solver as described by the
// VanillaConfig
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}

	return G.NewVanillaSolver(opts...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}

// BatchScale returns the number of samples gradients are averaged over
func (v VanillaConfig) BatchScale() int {
	return v.Batch
}

// Validate checks the hyperparameters of the VanillaConfig
func (v VanillaConfig) Validate() error {
	if v.StepSize <= 0 {
		return fmt.Errorf("validate: vanilla step size must be positive "+
			"\n\thave(%v)", v.StepSize)
	}
	if v.Batch < 1 {
		return fmt.Errorf("validate: vanilla batch must be positive "+
			"\n\thave(%v)", v.Batch)
	}
	return nil
}
