package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/filter"
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// Rollout runs one full episode of policy against env and returns the
// episode as an ordered sequence of Trajectory records. For each step
// t the policy's action is computed from the current observation, the
// environment is stepped, and the reward is passed through the reward
// filter before being recorded and accumulated into the running raw
// and discounted returns. A nil filter leaves rewards unfiltered.
//
// The rollout ends when the environment reports done, or after
// c.MaxSteps steps when c.MaxSteps > 0. With MaxSteps == 0 the loop
// is unbounded, and an environment that never terminates makes
// Rollout spin forever; bounding the rollout is the caller's
// responsibility.
//
// Any error from the policy or the environment aborts the rollout and
// is returned unmodified; no step is ever retried.
func Rollout(env environment.Environment, policy *agent.Policy,
	rewardFilter *filter.MeanStd, c Config) ([]ts.Trajectory, error) {
	observation, err := env.Reset()
	if err != nil {
		return nil, fmt.Errorf("rollout: could not reset environment: %v",
			err)
	}

	rawReturn := 0.0
	discountedReturn := 0.0
	discount := 1.0 // DiscountFactor^t, updated per step

	var trajectories []ts.Trajectory
	for t := 0; ; t++ {
		action, err := policy.ComputeAction(observation)
		if err != nil {
			return nil, fmt.Errorf("rollout: %v", err)
		}

		nextObservation, reward, done, _, err := env.Step(action)
		if err != nil {
			return nil, fmt.Errorf("rollout: %v", err)
		}

		if rewardFilter != nil {
			reward = rewardFilter.Normalize(reward)
		}
		rawReturn += reward
		discountedReturn += reward * discount
		discount *= c.DiscountFactor

		trajectories = append(trajectories, ts.New(observation, reward,
			done, action, nextObservation, rawReturn, discountedReturn))
		observation = nextObservation

		if done {
			break
		}
		if c.MaxSteps > 0 && t+1 >= c.MaxSteps {
			break
		}
	}
	return trajectories, nil
}
