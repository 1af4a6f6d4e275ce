// Package mountaincar implements the continuous-action Mountain Car
// environment
package mountaincar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/utils/floatutils"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	MinAction float64 = -1.0
	MaxAction float64 = 1.0

	// GoalPosition is the x position the car must reach to solve the
	// task
	GoalPosition float64 = 0.45

	// GoalReward is the reward given for the transition into the goal
	// state
	GoalReward float64 = 100.0

	// ActionCost scales the quadratic action penalty applied on every
	// step
	ActionCost float64 = 0.1

	// EpisodeSteps is the default step limit after which episodes are
	// cut off
	EpisodeSteps int = 999

	// ObservationDims and ActionDims describe the shapes of the
	// environment's observation and action vectors
	ObservationDims int = 2
	ActionDims      int = 1
)

// Name is the name under which the environment is registered with
// environment.Make
const Name string = "MountainCarContinuous-v0"

func init() {
	env.Register(Name, func(seed uint64) (env.Environment, error) {
		return New(seed)
	})
}

// MountainCar implements the classic control Mountain Car environment
// with continuous actions. The agent controls a car in a valley
// between two hills. The car is underpowered and cannot drive up the
// hill unless it rocks back and forth from hill to hill, using its
// momentum to gradually climb higher.
//
// State observations are 2-dimensional and consist of the x position
// of the car and its velocity. The sign of the velocity feature
// denotes direction, with negative meaning that the car is travelling
// left and positive meaning that the car is travelling right. Upon
// reaching the minimum position, the velocity of the car is set to 0.
//
// Actions are 1-dimensional and continuous, determining the force to
// apply to the car and in which direction to apply it. Actions are
// clipped to [MinAction, MaxAction] before being applied.
//
// Rewards follow the continuous Mountain Car task: every step costs
// ActionCost * action², and the transition into the goal state earns
// an additional GoalReward. Episodes end when the car reaches
// GoalPosition or after the step limit.
//
// MountainCar implements the environment.Environment interface.
type MountainCar struct {
	starter        env.Starter
	goalEnder      env.Ender
	stepEnder      env.Ender
	positionBounds r1.Interval
	speedBounds    r1.Interval

	state      *mat.VecDense
	stepNumber int
}

// New creates a new continuous-action Mountain Car environment with
// the default start distribution, goal position, and step limit. The
// seed determines the starting states sampled on each Reset.
func New(seed uint64) (*MountainCar, error) {
	starter := env.NewUniformStarter([]r1.Interval{
		{Min: -0.6, Max: -0.4},
		{Min: 0.0, Max: 0.0},
	}, seed)

	return NewWith(starter, GoalPosition, EpisodeSteps)
}

// NewWith creates a new continuous-action Mountain Car environment
// with the given start-state distribution, goal x position, and step
// limit.
func NewWith(starter env.Starter, goalX float64,
	episodeSteps int) (*MountainCar, error) {
	if goalX < MinPosition || goalX > MaxPosition {
		return nil, fmt.Errorf("newWith: goal position %v ∉ [%v, "+
			"%v]", goalX, MinPosition, MaxPosition)
	}

	m := &MountainCar{
		starter:        starter,
		goalEnder:      NewGoalEnder(goalX),
		stepEnder:      env.NewStepLimit(episodeSteps),
		positionBounds: r1.Interval{Min: MinPosition, Max: MaxPosition},
		speedBounds:    r1.Interval{Min: -MaxSpeed, Max: MaxSpeed},
	}

	if _, err := m.Reset(); err != nil {
		return nil, fmt.Errorf("newWith: %v", err)
	}
	return m, nil
}

// Reset resets the environment between episodes, drawing a new
// starting state from the environment's Starter.
func (m *MountainCar) Reset() (*mat.VecDense, error) {
	state := m.starter.Start()
	if err := m.validateState(state); err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}

	m.state = state
	m.stepNumber = 0

	return m.observation(), nil
}

// Step takes one environmental step given a 1-dimensional force
// action. Actions outside the legal range of [MinAction, MaxAction]
// are clipped to stay within this range. Step returns the next
// observation, the reward for the transition, whether the episode has
// ended, and the step number as its diagnostic value.
func (m *MountainCar) Step(action *mat.VecDense) (*mat.VecDense,
	float64, bool, interface{}, error) {
	if action.Len() != ActionDims {
		return nil, 0, true, nil, fmt.Errorf("step: actions should "+
			"be %v-dimensional, got %v dimensions", ActionDims,
			action.Len())
	}

	force := floatutils.ClipInterval(action.AtVec(0),
		r1.Interval{Min: MinAction, Max: MaxAction})

	nextState := m.nextState(force)
	m.state = nextState
	m.stepNumber++

	reward := -ActionCost * force * force
	if m.goalEnder.End(nextState, m.stepNumber) {
		reward += GoalReward
	}

	done := m.goalEnder.End(nextState, m.stepNumber) ||
		m.stepEnder.End(nextState, m.stepNumber)

	return m.observation(), reward, done, m.stepNumber, nil
}

// AtGoal returns whether the argument state is a goal state
func (m *MountainCar) AtGoal(state *mat.VecDense) bool {
	return m.goalEnder.End(state, 0)
}

// nextState calculates the next state of the environment given an
// applied force
func (m *MountainCar) nextState(force float64) *mat.VecDense {
	position, velocity := m.state.AtVec(0), m.state.AtVec(1)

	// Update the velocity
	velocity += force*Power - Gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	// Update the position
	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	// The car stops when it hits the left wall
	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(ObservationDims, []float64{position, velocity})
}

// observation returns a copy of the current state so that callers
// cannot mutate the environment's internal state
func (m *MountainCar) observation() *mat.VecDense {
	obs := mat.NewVecDense(ObservationDims, nil)
	obs.CopyVec(m.state)
	return obs
}

// validateState validates a state to ensure the position and speed
// are within the environmental limits
func (m *MountainCar) validateState(s *mat.VecDense) error {
	if s.Len() != ObservationDims {
		return fmt.Errorf("state should have %v features, got %v",
			ObservationDims, s.Len())
	}

	position := s.AtVec(0)
	if position < m.positionBounds.Min || position > m.positionBounds.Max {
		return fmt.Errorf("illegal position %v ∉ [%v, %v]", position,
			m.positionBounds.Min, m.positionBounds.Max)
	}

	speed := s.AtVec(1)
	if speed < m.speedBounds.Min || speed > m.speedBounds.Max {
		return fmt.Errorf("illegal speed %v ∉ [%v, %v]", speed,
			m.speedBounds.Min, m.speedBounds.Max)
	}
	return nil
}

// String returns a string representation of the environment
func (m *MountainCar) String() string {
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	return fmt.Sprintf(str, m.state.AtVec(0), m.state.AtVec(1))
}
