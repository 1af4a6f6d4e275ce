// Package timestep implements the per-step records of the
// agent-environment interaction
package timestep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unset is the marker value held by any scalar field of a Trajectory
// that was never given a value. Use Has* methods to check for it
// instead of comparing directly, since Unset is NaN.
var Unset float64 = math.NaN()

// Trajectory packages together the data recorded on a single
// environmental step: the observation the action was computed from,
// the action, the (filtered) reward, the next observation, and the
// running raw and discounted returns accumulated within the episode
// up to and including this step.
//
// A Trajectory is immutable once created. Fields may be left unset
// when constructing partial records: vector fields are then nil and
// scalar fields hold Unset. An episode is an ordered []Trajectory
// whose final element has Done() == true.
type Trajectory struct {
	observation     *mat.VecDense
	reward          float64
	done            bool
	action          *mat.VecDense
	nextObservation *mat.VecDense
	rawReturn       float64
	discountedRet   float64
}

// New creates a fully populated Trajectory.
func New(observation *mat.VecDense, reward float64, done bool,
	action, nextObservation *mat.VecDense, rawReturn,
	discountedReturn float64) Trajectory {
	return Trajectory{
		observation:     observation,
		reward:          reward,
		done:            done,
		action:          action,
		nextObservation: nextObservation,
		rawReturn:       rawReturn,
		discountedRet:   discountedReturn,
	}
}

// Empty creates a Trajectory with every field unset. Vector fields
// are nil and scalar fields hold Unset.
func Empty() Trajectory {
	return Trajectory{
		reward:        Unset,
		rawReturn:     Unset,
		discountedRet: Unset,
	}
}

// Observation returns the observation the step's action was computed
// from, or nil if unset. The returned vector must not be modified.
func (t Trajectory) Observation() *mat.VecDense { return t.observation }

// Action returns the action taken on this step, or nil if unset.
func (t Trajectory) Action() *mat.VecDense { return t.action }

// NextObservation returns the observation produced by taking the
// step's action, or nil if unset.
func (t Trajectory) NextObservation() *mat.VecDense {
	return t.nextObservation
}

// Reward returns the step's reward after reward filtering.
func (t Trajectory) Reward() float64 { return t.reward }

// RawReturn returns the undiscounted cumulative reward within the
// episode up to and including this step.
func (t Trajectory) RawReturn() float64 { return t.rawReturn }

// DiscountedReturn returns the cumulative reward within the episode
// up to and including this step, with each step's reward weighted by
// discount^t.
func (t Trajectory) DiscountedReturn() float64 { return t.discountedRet }

// Done returns whether this step terminated the episode.
func (t Trajectory) Done() bool { return t.done }

// HasObservation returns whether the observation field is set
func (t Trajectory) HasObservation() bool { return t.observation != nil }

// HasAction returns whether the action field is set
func (t Trajectory) HasAction() bool { return t.action != nil }

// HasNextObservation returns whether the next observation field is set
func (t Trajectory) HasNextObservation() bool {
	return t.nextObservation != nil
}

// HasReward returns whether the reward field is set
func (t Trajectory) HasReward() bool { return !math.IsNaN(t.reward) }

// HasRawReturn returns whether the raw return field is set
func (t Trajectory) HasRawReturn() bool { return !math.IsNaN(t.rawReturn) }

// HasDiscountedReturn returns whether the discounted return field is
// set
func (t Trajectory) HasDiscountedReturn() bool {
	return !math.IsNaN(t.discountedRet)
}

// WithObservation returns a copy of the Trajectory with its
// observation field set
func (t Trajectory) WithObservation(o *mat.VecDense) Trajectory {
	t.observation = o
	return t
}

// WithAction returns a copy of the Trajectory with its action field
// set
func (t Trajectory) WithAction(a *mat.VecDense) Trajectory {
	t.action = a
	return t
}

// WithNextObservation returns a copy of the Trajectory with its next
// observation field set
func (t Trajectory) WithNextObservation(o *mat.VecDense) Trajectory {
	t.nextObservation = o
	return t
}

// WithReward returns a copy of the Trajectory with its reward field
// set
func (t Trajectory) WithReward(r float64) Trajectory {
	t.reward = r
	return t
}

// WithDone returns a copy of the Trajectory with its done flag set
func (t Trajectory) WithDone(done bool) Trajectory {
	t.done = done
	return t
}

// WithReturns returns a copy of the Trajectory with its raw and
// discounted return fields set
func (t Trajectory) WithReturns(raw, discounted float64) Trajectory {
	t.rawReturn = raw
	t.discountedRet = discounted
	return t
}

func (t Trajectory) String() string {
	str := "Trajectory | Reward: %.4f  |  Done: %v  |  Raw Return: " +
		"%.4f  |  Discounted Return: %.4f"

	return fmt.Sprintf(str, t.reward, t.done, t.rawReturn, t.discountedRet)
}
