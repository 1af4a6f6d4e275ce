// Package agent implements the trainable components of the REINFORCE
// algorithm: the policy and the (stub) state value function.
package agent

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreinforce/network"
	"github.com/samuelfneumann/goreinforce/solver"
	"github.com/samuelfneumann/goreinforce/utils/floatutils"
)

const (
	// ObservationDims and ActionDims fix the I/O shapes of the policy
	// network
	ObservationDims int = 2
	ActionDims      int = 1

	// HiddenSize is the width of each of the two hidden layers
	HiddenSize int = 100

	// MinAction and MaxAction bound the policy's outputs
	MinAction float64 = -1.0
	MaxAction float64 = 1.0

	// policyStd is the fixed standard deviation of the Gaussian
	// likelihood used by the GaussianLoss construction
	policyStd float64 = 1.0
)

// Loss selects the loss construction a Policy is trained with
type Loss int

const (
	// GaussianLoss trains the policy with the negative log likelihood
	// of the taken action under a Gaussian centred on the policy's
	// output with fixed standard deviation. This is the numerically
	// sound construction and the default.
	GaussianLoss Loss = iota

	// SurrogateLoss trains the policy with
	// -log(exp(softmax(output)) - exp(action)). It exists for
	// compatibility with earlier experiments and is numerically
	// fragile: it readily evaluates to NaN, in which case Update
	// returns a NumericError without touching the parameters.
	SurrogateLoss
)

func (l Loss) String() string {
	switch l {
	case GaussianLoss:
		return "Gaussian"
	case SurrogateLoss:
		return "Surrogate"
	default:
		return "Unknown"
	}
}

// Policy is a deterministic neural network policy mapping
// 2-dimensional observations to 1-dimensional actions in
// [MinAction, MaxAction]. The network is a fixed stack of two
// hidden fully connected layers of width HiddenSize without bias
// units, followed by a 1-dimensional output layer whose output is
// clipped to the action bounds.
//
// A Policy owns its computational graph and virtual machine
// explicitly: no state is shared between Policy instances, and two
// policies may be trained side by side in one process. A Policy is
// not safe for concurrent use; in particular ComputeAction must not
// be called while an Update is in flight.
type Policy struct {
	graph *G.ExprGraph
	net   network.NeuralNet
	vm    G.VM

	actions *G.Node // Input node holding the taken action
	loss    *G.Node
	lossVal G.Value

	solver   *solver.Solver
	lossType Loss
}

// NewPolicy creates a new Policy trained by the given solver type with
// the given learning rate and loss construction.
func NewPolicy(learningRate float64, lossType Loss,
	solverType solver.Type) (*Policy, error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("newPolicy: learning rate must be "+
			"positive, got %v", learningRate)
	}

	g := G.NewGraph()

	net, err := network.NewMLP(
		ObservationDims,
		1, // Updates use a batch of a single step's data
		g,
		[]int{HiddenSize, HiddenSize, ActionDims},
		[]bool{false, false, false},
		G.GlorotU(1.0),
		[]*network.Activation{
			network.Identity(),
			network.Identity(),
			network.Clip(MinAction, MaxAction),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("newPolicy: could not create policy "+
			"network: %v", err)
	}

	actions := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, ActionDims),
		G.WithName("actions"),
		G.WithInit(G.Zeroes()),
	)

	policy := &Policy{
		graph:    g,
		net:      net,
		actions:  actions,
		lossType: lossType,
	}

	switch lossType {
	case GaussianLoss:
		policy.loss, err = gaussianLoss(net.Prediction(), actions)
	case SurrogateLoss:
		policy.loss, err = surrogateLoss(net.Prediction(), actions)
	default:
		return nil, fmt.Errorf("newPolicy: no such loss type: %v",
			lossType)
	}
	if err != nil {
		return nil, fmt.Errorf("newPolicy: could not construct loss: %v",
			err)
	}
	G.Read(policy.loss, &policy.lossVal)

	if _, err := G.Grad(policy.loss, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("newPolicy: could not compute gradient: %v",
			err)
	}

	policy.vm = G.NewTapeMachine(g,
		G.BindDualValues(net.Learnables()...))

	policy.solver, err = newStepSolver(solverType, learningRate)
	if err != nil {
		return nil, fmt.Errorf("newPolicy: could not create solver: %v",
			err)
	}

	return policy, nil
}

// newStepSolver builds the solver that trainable components step their
// parameters with. Updates always use a batch of a single step's data.
func newStepSolver(t solver.Type, learningRate float64) (*solver.Solver,
	error) {
	switch t {
	case solver.Vanilla:
		return solver.NewVanilla(learningRate, 1, -1.0)
	case solver.Adam:
		return solver.NewDefaultAdam(learningRate, 1)
	default:
		return nil, fmt.Errorf("newStepSolver: no such solver type: %v", t)
	}
}

// gaussianLoss adds the negative log likelihood of action under
// N(prediction, policyStd²) to the computational graph of prediction
// and actions, reduced to a scalar by the mean over the batch.
func gaussianLoss(prediction, actions *G.Node) (*G.Node, error) {
	diff, err := G.Sub(actions, prediction)
	if err != nil {
		return nil, fmt.Errorf("gaussianLoss: %v", err)
	}
	sq, err := G.Square(diff)
	if err != nil {
		return nil, fmt.Errorf("gaussianLoss: %v", err)
	}

	scale := G.NewConstant(1.0 / (2.0 * policyStd * policyStd))
	scaled, err := G.Mul(sq, scale)
	if err != nil {
		return nil, fmt.Errorf("gaussianLoss: %v", err)
	}

	loss, err := G.Mean(scaled)
	if err != nil {
		return nil, fmt.Errorf("gaussianLoss: %v", err)
	}

	// log(σ) + (1/2)log(2π), so the reported loss is the full NLL
	norm := G.NewConstant(math.Log(policyStd) +
		0.5*math.Log(2.0*math.Pi))
	loss, err = G.Add(loss, norm)
	if err != nil {
		return nil, fmt.Errorf("gaussianLoss: %v", err)
	}

	return loss, nil
}

// surrogateLoss adds the legacy softmax surrogate loss to the
// computational graph of prediction and actions. The log argument is
// not bounded away from 0, so the loss can evaluate to NaN.
func surrogateLoss(prediction, actions *G.Node) (*G.Node, error) {
	prob, err := G.SoftMax(prediction)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}

	expProb, err := G.Exp(prob)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}
	expAction, err := G.Exp(actions)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}
	diff, err := G.Sub(expProb, expAction)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}

	logProb, err := G.Log(diff)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}
	logProb, err = G.Neg(logProb)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}

	loss, err := G.Mean(logProb)
	if err != nil {
		return nil, fmt.Errorf("surrogateLoss: %v", err)
	}

	return loss, nil
}

// ComputeAction computes the policy's action for a single
// observation. The observation must have exactly ObservationDims
// elements, otherwise a ShapeError is returned. If the network output
// is not finite, for example because the observation itself contained
// a NaN, a NumericError is returned. ComputeAction reads but never
// mutates the policy's parameters, and its output is componentwise
// within [MinAction, MaxAction].
func (p *Policy) ComputeAction(observation *mat.VecDense) (*mat.VecDense,
	error) {
	if observation.Len() != ObservationDims {
		return nil, &ShapeError{
			Op:   "computeAction",
			Want: ObservationDims,
			Have: observation.Len(),
		}
	}

	if err := p.run(observation); err != nil {
		return nil, fmt.Errorf("computeAction: %v", err)
	}
	defer p.vm.Reset()

	out := p.outputData()
	if !floatutils.AllFinite(out...) {
		return nil, &NumericError{Op: "computeAction", Value: out[0]}
	}
	action := mat.NewVecDense(ActionDims, nil)
	for i := 0; i < ActionDims; i++ {
		action.SetVec(i, out[i])
	}
	return action, nil
}

// Update performs a single gradient descent step on the policy's
// parameters using one (observation, action) pair as a batch of size
// one, and returns the loss of the pair as evaluated before the step.
// If the loss evaluates to NaN or an infinity, Update returns a
// NumericError and the parameters are left untouched.
func (p *Policy) Update(observation, action *mat.VecDense) (float64,
	error) {
	if observation.Len() != ObservationDims {
		return 0, &ShapeError{
			Op:   "update",
			Want: ObservationDims,
			Have: observation.Len(),
		}
	}
	if action.Len() != ActionDims {
		return 0, &ShapeError{
			Op:   "update",
			Want: ActionDims,
			Have: action.Len(),
		}
	}

	actionData := make([]float64, ActionDims)
	for i := 0; i < ActionDims; i++ {
		actionData[i] = action.AtVec(i)
	}
	actionTensor := tensor.New(
		tensor.WithBacking(actionData),
		tensor.WithShape(1, ActionDims),
	)
	if err := G.Let(p.actions, actionTensor); err != nil {
		return 0, fmt.Errorf("update: could not set action input: %v", err)
	}

	if err := p.run(observation); err != nil {
		return 0, fmt.Errorf("update: %v", err)
	}
	defer p.vm.Reset()

	loss := p.lossData()
	if !floatutils.Finite(loss) {
		return 0, &NumericError{Op: "update", Value: loss}
	}

	if err := p.solver.Step(p.net.Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}

	return loss, nil
}

// LossType returns the loss construction the Policy was built with
func (p *Policy) LossType() Loss {
	return p.lossType
}

// Network returns the policy's neural network
func (p *Policy) Network() network.NeuralNet {
	return p.net
}

// Close cleans up the policy's virtual machine
func (p *Policy) Close() error {
	return p.vm.Close()
}

// run sets the network input to the observation and runs the
// computational graph
func (p *Policy) run(observation *mat.VecDense) error {
	input := make([]float64, ObservationDims)
	for i := 0; i < ObservationDims; i++ {
		input[i] = observation.AtVec(i)
	}

	if err := p.net.SetInput(input); err != nil {
		return err
	}
	return p.vm.RunAll()
}

// outputData returns the network's output as a flat slice
func (p *Policy) outputData() []float64 {
	switch out := p.net.Output().Data().(type) {
	case []float64:
		return out
	case float64:
		return []float64{out}
	default:
		panic(fmt.Sprintf("outputData: unexpected output type %T", out))
	}
}

// lossData returns the scalar value of the loss node
func (p *Policy) lossData() float64 {
	switch l := p.lossVal.Data().(type) {
	case float64:
		return l
	case []float64:
		return l[0]
	default:
		panic(fmt.Sprintf("lossData: unexpected loss type %T", l))
	}
}
