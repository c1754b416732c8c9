package network

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/utils/matutils"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// checkpointPrefix prefixes the filenames of QNetwork checkpoints
const checkpointPrefix = "qnetwork"

// QNetwork implements an action-value function approximated by an MLP,
// with a frozen target copy used to compute bootstrap targets.
//
// Three copies of the network are kept, each on its own graph: an
// online network taking a single state for action selection, a training
// network taking batches of states whose weights are learned, and a
// target network taking batches of states. The online network always
// holds the training network's weights; the target network holds them
// only as of the last call to SyncTarget.
//
// The training loss is the mean squared clipped Bellman error
//
//	mean[clip(target - Q(s, a), minDelta, maxDelta)²]
type QNetwork struct {
	numInputs  int
	numActions int
	batchSize  int

	online   *mlp
	onlineVM G.VM

	train   *mlp
	trainVM G.VM
	solver  G.Solver

	// Nodes of the training graph which are given the actions taken,
	// as one-hot rows, and the update targets
	selectedActions *G.Node
	targets         *G.Node
	lossVal         G.Value

	target   *mlp
	targetVM G.VM

	checkpointer *checkpointer.Checkpointer
}

// New returns a new QNetwork for states of size features with
// numActions actions, trained on batches of batchSize states with
// Bellman errors clipped to [minDelta, maxDelta].
func New(c Config, features, numActions, batchSize int, minDelta,
	maxDelta float64) (*QNetwork, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if features < 1 || numActions < 1 || batchSize < 1 {
		return nil, fmt.Errorf("new: features (%v), actions (%v), and batch "+
			"size (%v) must be positive", features, numActions, batchSize)
	}
	if err := c.Solver.CheckBatch(batchSize); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if minDelta > maxDelta {
		return nil, fmt.Errorf("new: minimum delta cannot exceed maximum "+
			"delta \n\twant(<=%v) \n\thave(%v)", maxDelta, minDelta)
	}

	init := c.InitWFn.InitWFn()

	// Network for selecting actions
	gOnline := G.NewGraph()
	online, err := newMLP(gOnline, 1, features, numActions, c.HiddenSizes,
		c.Activations, init)
	if err != nil {
		return nil, fmt.Errorf("new: could not create online network: %v",
			err)
	}

	// Network which provides the update target
	gTarget := G.NewGraph()
	target, err := newMLP(gTarget, batchSize, features, numActions,
		c.HiddenSizes, c.Activations, init)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %v",
			err)
	}

	// Network whose weights are learned
	gTrain := G.NewGraph()
	train, err := newMLP(gTrain, batchSize, features, numActions,
		c.HiddenSizes, c.Activations, init)
	if err != nil {
		return nil, fmt.Errorf("new: could not create training network: %v",
			err)
	}

	// Action selected in each state, needed to compute the loss using
	// the correct action value since the network outputs one action
	// value per action
	selectedActions := G.NewMatrix(gTrain, tensor.Float64,
		G.WithShape(batchSize, numActions), G.WithName("actionSelected"),
		G.WithInit(G.Zeroes()))
	targets := G.NewVector(gTrain, tensor.Float64, G.WithShape(batchSize),
		G.WithName("updateTarget"), G.WithInit(G.Zeroes()))

	selectedActionValues := G.Must(G.HadamardProd(train.prediction,
		selectedActions))
	selectedActionValues = G.Must(G.Sum(selectedActionValues, 1))

	// Clip the Bellman error: clip(δ) = δ - relu(δ - max) + relu(min - δ)
	delta := G.Must(G.Sub(targets, selectedActionValues))
	maxNode := G.NewConstant(maxDelta, G.WithName("maxDelta"))
	minNode := G.NewConstant(minDelta, G.WithName("minDelta"))
	above := G.Must(G.Rectify(G.Must(G.Sub(delta, maxNode))))
	below := G.Must(G.Rectify(G.Must(G.Sub(minNode, delta))))
	clipped := G.Must(G.Add(G.Must(G.Sub(delta, above)), below))

	cost := G.Must(G.Mean(G.Must(G.Square(clipped))))

	q := &QNetwork{
		numInputs:       features,
		numActions:      numActions,
		batchSize:       batchSize,
		online:          online,
		train:           train,
		solver:          c.Solver.Config.Create(),
		selectedActions: selectedActions,
		targets:         targets,
		target:          target,
	}
	G.Read(cost, &q.lossVal)

	if _, err := G.Grad(cost, train.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	q.trainVM = G.NewTapeMachine(gTrain,
		G.BindDualValues(train.Learnables()...))
	q.onlineVM = G.NewTapeMachine(gOnline)
	q.targetVM = G.NewTapeMachine(gTarget)

	// All networks start with the same weights
	if err := online.set(train); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if err := target.set(train); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	if c.CheckpointDir != "" {
		q.checkpointer, err = checkpointer.New(c.CheckpointDir,
			checkpointPrefix, c.KeepCheckpoints)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	return q, nil
}

// NumActions returns the number of actions
func (q *QNetwork) NumActions() int {
	return q.numActions
}

// BatchSize returns the number of states in a training batch
func (q *QNetwork) BatchSize() int {
	return q.batchSize
}

// Predict returns the online network's action values in state
func (q *QNetwork) Predict(state []float64) ([]float64, error) {
	input := append([]float64(nil), state...)
	if err := q.online.setInput(input); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	defer q.onlineVM.Reset()
	if err := q.onlineVM.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	return q.online.output(), nil
}

// TargetPredict returns the target network's action values for a
// batch of states, one row per state
func (q *QNetwork) TargetPredict(states *mat.Dense) (*mat.Dense, error) {
	rows, _ := states.Dims()
	if err := q.target.setInput(matutils.Flatten(states)); err != nil {
		return nil, fmt.Errorf("targetpredict: %v", err)
	}

	defer q.targetVM.Reset()
	if err := q.targetVM.RunAll(); err != nil {
		return nil, fmt.Errorf("targetpredict: %v", err)
	}

	return mat.NewDense(rows, q.numActions, q.target.output()), nil
}

// TrainStep takes one solver step on the training network towards
// targets for the given states and actions, and returns the loss
// before the step
func (q *QNetwork) TrainStep(states *mat.Dense, actions []int,
	targets []float64) (float64, error) {
	if len(actions) != q.batchSize || len(targets) != q.batchSize {
		return 0, fmt.Errorf("trainstep: invalid batch size\n\twant(%v)"+
			"\n\thave(%v actions, %v targets)", q.batchSize, len(actions),
			len(targets))
	}

	if err := q.train.setInput(matutils.Flatten(states)); err != nil {
		return 0, fmt.Errorf("trainstep: %v", err)
	}

	oneHot := make([]float64, q.batchSize*q.numActions)
	for i, a := range actions {
		if a < 0 || a >= q.numActions {
			return 0, fmt.Errorf("trainstep: invalid action %v", a)
		}
		oneHot[i*q.numActions+a] = 1.0
	}
	actionTensor := tensor.New(
		tensor.WithShape(q.batchSize, q.numActions),
		tensor.WithBacking(oneHot),
	)
	if err := G.Let(q.selectedActions, actionTensor); err != nil {
		return 0, fmt.Errorf("trainstep: could not set actions: %v", err)
	}

	targetTensor := tensor.New(
		tensor.WithShape(q.batchSize),
		tensor.WithBacking(append([]float64(nil), targets...)),
	)
	if err := G.Let(q.targets, targetTensor); err != nil {
		return 0, fmt.Errorf("trainstep: could not set targets: %v", err)
	}

	// Run the learning step
	if err := q.trainVM.RunAll(); err != nil {
		q.trainVM.Reset()
		return 0, fmt.Errorf("trainstep: %v", err)
	}
	loss := q.lossVal.Data().(float64)

	if err := q.solver.Step(q.train.Model()); err != nil {
		q.trainVM.Reset()
		return 0, fmt.Errorf("trainstep: could not step solver: %v", err)
	}
	q.trainVM.Reset()

	if err := q.online.set(q.train); err != nil {
		return 0, fmt.Errorf("trainstep: %v", err)
	}

	return loss, nil
}

// SyncTarget sets the target network's weights to the training
// network's weights
func (q *QNetwork) SyncTarget() error {
	if err := q.target.set(q.train); err != nil {
		return fmt.Errorf("synctarget: %v", err)
	}
	return nil
}

// Save checkpoints the learned weights together with the step to
// resume training at. If the QNetwork has no checkpoint directory, Save
// does nothing.
func (q *QNetwork) Save(step int) error {
	if q.checkpointer == nil {
		return nil
	}
	if err := q.checkpointer.Save(step, step, q.train.weights()); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// Load restores the most recent checkpoint and returns the step to
// resume training at. If no checkpoint exists, Load returns 0.
func (q *QNetwork) Load() (int, error) {
	if q.checkpointer == nil {
		return 0, nil
	}

	var step int
	var weights [][]float64
	_, err := q.checkpointer.Latest(&step, &weights)
	if errors.Is(err, checkpointer.ErrNoCheckpoint) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("load: %v", err)
	}

	if err := q.train.setWeights(weights); err != nil {
		return 0, fmt.Errorf("load: %v", err)
	}
	if err := q.online.set(q.train); err != nil {
		return 0, fmt.Errorf("load: %v", err)
	}

	return step, nil
}
