// Package network implements neural network function approximators
// using Gorgonia
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network whose forward pass has been
// added to a Gorgonia computational graph. The graph must be run by an
// external G.VM for Output to hold a value.
type NeuralNet interface {
	// Graph returns the computational graph that holds the network
	Graph() *G.ExprGraph

	// BatchSize returns the number of rows in the network's input
	// matrix
	BatchSize() int

	// Features returns the number of features in a single input
	// vector to the network
	Features() int

	// Outputs returns the number of values the network predicts for
	// each input vector
	Outputs() int

	// SetInput sets the value of the network's input node before a VM
	// runs the graph. The input is given in row major order and must
	// have BatchSize() * Features() elements.
	SetInput([]float64) error

	// Learnables returns the learnable nodes of the network
	Learnables() G.Nodes

	// Model returns the learnable nodes of the network with their
	// gradients
	Model() []G.ValueGrad

	// Prediction returns the node of the computational graph that
	// holds the network's output
	Prediction() *G.Node

	// Output returns the value of the Prediction node as of the last
	// VM run
	Output() G.Value
}
