// Package environment outlines the interfaces needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Environment implements a simulated environment that an agent
// interacts with sequentially. An Environment is a single mutable
// resource: each Step depends on the internal state left behind by
// the previous Reset or Step, so interactions must be strictly
// sequential, and implementations are not required to be safe for
// concurrent use.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// starting observation.
	Reset() (*mat.VecDense, error)

	// Step takes one environmental step given an action. It returns
	// the next observation, the reward for the transition, whether
	// the episode has ended, and an opaque value carrying any
	// environment-specific diagnostic information.
	Step(action *mat.VecDense) (*mat.VecDense, float64, bool,
		interface{}, error)
}

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines whether an environment's episode has ended, given
// the current state and the number of steps taken so far in the
// episode.
type Ender interface {
	End(state *mat.VecDense, stepNumber int) bool
}
