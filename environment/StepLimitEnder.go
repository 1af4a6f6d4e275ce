package environment

import (
	"gonum.org/v1/gonum/mat"
)

// StepLimit implements the Ender interface to end episodes at a
// specific timestep limit
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// End returns whether the current episode should be ended because the
// step limit has been reached
func (s StepLimit) End(_ *mat.VecDense, stepNumber int) bool {
	return stepNumber >= s.episodeSteps
}
