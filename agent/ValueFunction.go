package agent

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goreinforce/solver"
)

// ValueFunction is the interface slot for a state value baseline. It
// mirrors the Policy's optimizer wiring, but no forward computation
// has been implemented yet: Available reports false and Value always
// returns ErrNotAvailable. Callers must check Available before
// invoking Value.
type ValueFunction struct {
	solver       *solver.Solver
	learningRate float64
}

// NewValueFunction creates a new ValueFunction slot with its solver
// wired for the given learning rate.
func NewValueFunction(learningRate float64,
	solverType solver.Type) (*ValueFunction, error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("newValueFunction: learning rate must "+
			"be positive, got %v", learningRate)
	}

	sol, err := newStepSolver(solverType, learningRate)
	if err != nil {
		return nil, fmt.Errorf("newValueFunction: could not create "+
			"solver: %v", err)
	}

	return &ValueFunction{solver: sol, learningRate: learningRate}, nil
}

// Available returns whether the value function can compute state
// values. It currently always returns false.
func (v *ValueFunction) Available() bool {
	return false
}

// Value returns the estimated value of an observation. Until a
// forward computation is implemented, it always returns
// ErrNotAvailable.
func (v *ValueFunction) Value(observation *mat.VecDense) (float64, error) {
	return 0, ErrNotAvailable
}
