package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AdamConfig describes a configuration of the Adam solver. Gradients
// are divided by Batch before each step and, if Clip is positive,
// clipped to [-Clip, Clip].
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64
	Beta2    float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewDefaultAdam returns a new Adam Solver with the usual moment decay
// rates. Gradients are not rescaled since the Q-network loss is already
// a mean over the batch.
func NewDefaultAdam(stepSize float64) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, 1, -1)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchScale int,
	clip float64) (*Solver, error) {
	return newSolver(Adam, AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchScale,
		Clip:     clip,
	})
}

// Create returns a new Gorgonia Adam Solver as described by the
// AdamConfig
func (a AdamConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	}
	if a.Clip > 0 {
		opts = append(opts, G.WithClip(a.Clip))
	}

	return G.NewAdamSolver(opts...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}

// BatchScale returns the number of samples gradients are averaged over
func (a AdamConfig) BatchScale() int {
	return a.Batch
}

// Validate checks the hyperparameters of the AdamConfig
func (a AdamConfig) Validate() error {
	if a.StepSize <= 0 {
		return fmt.Errorf("validate: adam step size must be positive "+
			"\n\thave(%v)", a.StepSize)
	}
	if a.Epsilon <= 0 {
		return fmt.Errorf("validate: adam epsilon must be positive "+
			"\n\thave(%v)", a.Epsilon)
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 || a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("validate: adam betas must be in [0, 1) "+
			"\n\thave(%v, %v)", a.Beta1, a.Beta2)
	}
	if a.Batch < 1 {
		return fmt.Errorf("validate: adam batch must be positive "+
			"\n\thave(%v)", a.Batch)
	}
	return nil
}
