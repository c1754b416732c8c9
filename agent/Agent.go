// Package agent defines the interfaces shared by value-based agents and
// the function approximators they learn with.
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// QFunction is an action-value function approximator with a frozen
// target copy. It is the contract between a learning algorithm, which
// decides what to learn from, and an estimator, which decides how.
//
// States are stacked frames flattened to a single []float64. Batches of
// states are stored one state per row.
type QFunction interface {
	// Predict returns the action values of the online estimator in a
	// single state
	Predict(state []float64) ([]float64, error)

	// TargetPredict returns the action values of the target estimator
	// for a batch of states, one row per state
	TargetPredict(states *mat.Dense) (*mat.Dense, error)

	// TrainStep performs a single update of the online estimator towards
	// the target values of the given actions and returns the loss
	// before the update
	TrainStep(states *mat.Dense, actions []int, targets []float64) (float64,
		error)

	// SyncTarget overwrites the target estimator's parameters with the
	// online estimator's parameters
	SyncTarget() error

	// Save checkpoints the parameters together with the step at which
	// training should resume
	Save(step int) error

	// Load restores the latest checkpoint and returns the step to resume
	// at. If no checkpoint exists, Load returns 0 and a nil error.
	Load() (int, error)
}

// Batch is a mini-batch of transitions sampled from a replay buffer.
// All fields are parallel: row i of States and NextStates and element i
// of each slice describe the same transition.
type Batch struct {
	States     *mat.Dense
	Actions    []int
	Rewards    []float64
	NextStates *mat.Dense
	Terminals  []bool
}

// Len returns the number of transitions in the batch
func (b Batch) Len() int {
	return len(b.Actions)
}
