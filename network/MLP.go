package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlp implements a multi-layered perceptron with one output per action
// on its own computational graph
type mlp struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numInputs  int
	numOutputs int
	batchSize  int

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// newMLP creates and returns a new multi-layered perceptron on graph g
// taking batches of batch inputs of size features and producing outputs
// predictions for each.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// linear layer with no activation is always added so that the network
// produces outputs values. For index i, hiddenSizes[i] is the number of
// nodes in hidden layer i and activations[i] is its activation.
func newMLP(g *G.ExprGraph, batch, features, outputs int, hiddenSizes []int,
	activations []*Activation, init G.InitWFn) (*mlp, error) {
	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newmlp: invalid number of activations\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	sizes := append(append([]int(nil), hiddenSizes...), outputs)
	layers := make([]*fcLayer, len(sizes))
	in := features
	for i, out := range sizes {
		act := Identity()
		if i < len(activations) {
			act = activations[i]
		}
		layers[i] = newFCLayer(g, in, out, i, init, act)
		in = out
	}

	net := &mlp{
		g:          g,
		layers:     layers,
		input:      input,
		numInputs:  features,
		numOutputs: outputs,
		batchSize:  batch,
	}

	if _, err := net.fwd(input); err != nil {
		return nil, fmt.Errorf("newmlp: could not compute forward pass: %v",
			err)
	}

	return net, nil
}

// setInput sets the value of the input node before running the forward
// pass
func (m *mlp) setInput(input []float64) error {
	if len(input) != m.numInputs*m.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", m.numInputs*m.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.batchSize, m.numInputs),
	)
	return G.Let(m.input, inputTensor)
}

// output returns a copy of the most recent prediction of the network,
// row-major with one row per input in the batch
func (m *mlp) output() []float64 {
	data := m.predVal.Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}

// set sets the weights of the mlp to be equal to the weights of source.
// Weights are copied, so later updates of source do not affect m.
func (m *mlp) set(source *mlp) error {
	sourceNodes := source.Learnables()
	for i, dest := range m.Learnables() {
		weights, ok := sourceNodes[i].Value().(*tensor.Dense)
		if !ok {
			return fmt.Errorf("set: learnable %v is not dense",
				sourceNodes[i].Name())
		}
		if err := G.Let(dest, weights.Clone().(*tensor.Dense)); err != nil {
			return fmt.Errorf("set: %v", err)
		}
	}
	return nil
}

// weights returns a copy of each learnable parameter's data
func (m *mlp) weights() [][]float64 {
	learnables := m.Learnables()
	weights := make([][]float64, len(learnables))
	for i, node := range learnables {
		data := node.Value().Data().([]float64)
		weights[i] = append([]float64(nil), data...)
	}
	return weights
}

// setWeights sets each learnable parameter from weights, which must be
// in the order returned by the weights method
func (m *mlp) setWeights(weights [][]float64) error {
	learnables := m.Learnables()
	if len(weights) != len(learnables) {
		return fmt.Errorf("setweights: invalid number of parameters"+
			"\n\twant(%v)\n\thave(%v)", len(learnables), len(weights))
	}

	for i, node := range learnables {
		shape := node.Shape()
		if len(weights[i]) != shape.TotalSize() {
			return fmt.Errorf("setweights: invalid size for %v"+
				"\n\twant(%v)\n\thave(%v)", node.Name(), shape.TotalSize(),
				len(weights[i]))
		}
		value := tensor.New(
			tensor.WithShape(shape.Clone()...),
			tensor.WithBacking(append([]float64(nil), weights[i]...)),
		)
		if err := G.Let(node, value); err != nil {
			return fmt.Errorf("setweights: %v", err)
		}
	}
	return nil
}

// Learnables returns the learnable nodes in the mlp
func (m *mlp) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(m.layers))
		for _, layer := range m.layers {
			learnables = append(learnables, layer.learnables()...)
		}
		m.learnables = learnables
	}
	return m.learnables
}

// Model returns the learnables nodes with their gradients.
func (m *mlp) Model() []G.ValueGrad {
	// Lazy instantiation
	if m.model == nil {
		model := make([]G.ValueGrad, 0, len(m.Learnables()))
		for _, node := range m.Learnables() {
			model = append(model, node)
		}
		m.model = model
	}
	return m.model
}

// fwd performs the forward pass of the mlp on the input node
func (m *mlp) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}
