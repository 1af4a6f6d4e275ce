package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlp implements a multi-layered perceptron. Unlike builders that
// append an output layer automatically, every layer of an mlp is
// specified by the caller, the last entry of the layer sizes being
// the number of network outputs. This allows output layers without
// bias units and with bounded activations, as needed by policies
// whose actions live in a closed interval.
type mlp struct {
	g          *G.ExprGraph
	layers     []Layer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron and
// populates the graph g with its forward pass.
//
// The MLP has len(layerSizes) fully connected layers, where
// layerSizes[i] is the number of units in layer i; biases[i] is true
// if layer i has a bias unit; and activations[i] is the activation
// function of layer i. The last layer is the output layer, so the
// network predicts layerSizes[len(layerSizes)-1] values per input
// vector. The parameter init determines the weight initialization
// scheme.
func NewMLP(features, batch int, g *G.ExprGraph, layerSizes []int,
	biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	if len(layerSizes) == 0 {
		return nil, fmt.Errorf("newMLP: networks need at least one layer")
	}

	// Ensure one activation per layer
	if len(layerSizes) != len(activations) {
		return nil, fmt.Errorf("newMLP: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(layerSizes), len(activations))
	}

	// Ensure one bias flag per layer
	if len(layerSizes) != len(biases) {
		return nil, fmt.Errorf("newMLP: invalid number of biases"+
			"\n\twant(%d)\n\thave(%d)", len(layerSizes), len(biases))
	}

	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]Layer, len(layerSizes))
	in := features
	for i, out := range layerSizes {
		name := fmt.Sprintf("L%d", i)
		layers[i] = newFCLayer(g, in, out, biases[i], init,
			activations[i], name)
		in = out
	}

	network := mlp{
		g:          g,
		layers:     layers,
		input:      input,
		numOutputs: layerSizes[len(layerSizes)-1],
		numInputs:  features,
		batchSize:  batch,
	}

	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newMLP: could not compute forward "+
			"pass: %v", err)
	}

	return &network, nil
}

// Graph returns the computational graph of the mlp
func (e *mlp) Graph() *G.ExprGraph {
	return e.g
}

// BatchSize returns the batch size of inputs to the mlp
func (e *mlp) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single input vector
// that the mlp takes as input
func (e *mlp) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs from the mlp
func (e *mlp) Outputs() int {
	return e.numOutputs
}

// SetInput sets the value of the input node before running the
// forward pass
func (e *mlp) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs"+
			"\n\twant(%v)\n\thave(%v)", e.numInputs*e.batchSize,
			len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Learnables returns the learnable nodes in the mlp
func (e *mlp) Learnables() G.Nodes {
	// Lazy instantiation
	if e.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(e.layers))
		for i := range e.layers {
			learnables = append(learnables, e.layers[i].Weights())
			if bias := e.layers[i].Bias(); bias != nil {
				learnables = append(learnables, bias)
			}
		}
		e.learnables = G.Nodes(learnables)
	}
	return e.learnables
}

// Model returns the learnable nodes with their gradients
func (e *mlp) Model() []G.ValueGrad {
	// Lazy instantiation
	if e.model == nil {
		model := make([]G.ValueGrad, 0, 2*len(e.layers))
		for _, node := range e.Learnables() {
			model = append(model, node)
		}
		e.model = model
	}
	return e.model
}

// fwd adds the forward pass of the mlp on the input node to the
// computational graph
func (e *mlp) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			return nil, fmt.Errorf("fwd: could not compute forward "+
				"pass of layer %v: %v", i, err)
		}
	}

	e.prediction = pred
	G.Read(e.prediction, &e.predVal)

	return pred, nil
}

// Output returns the value of the mlp's output node as of the last
// VM run
func (e *mlp) Output() G.Value {
	return e.predVal
}

// Prediction returns the node of the computational graph that stores
// the output of the mlp
func (e *mlp) Prediction() *G.Node {
	return e.prediction
}
