package mountaincar

import (
	"gonum.org/v1/gonum/mat"
)

// GoalEnder implements the environment.Ender interface to end episodes
// of the MountainCar environment once a goal x position has been
// reached. A position exactly at the goal ends the episode.
type GoalEnder struct {
	goalX float64
}

// NewGoalEnder creates and returns a new GoalEnder given a goal x
// position
func NewGoalEnder(goalX float64) *GoalEnder {
	return &GoalEnder{goalX}
}

// End returns whether the current episode should be ended because the
// car has reached the goal position
func (g *GoalEnder) End(state *mat.VecDense, _ int) bool {
	return state.AtVec(0) >= g.goalX
}
