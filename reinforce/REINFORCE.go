// Package reinforce implements the REINFORCE policy gradient
// algorithm: Monte-Carlo rollouts of a neural network policy against
// an environment, with one gradient descent update per recorded step.
package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/filter"
	ts "github.com/samuelfneumann/goreinforce/timestep"
	"github.com/samuelfneumann/goreinforce/trackers"
)

// RewardClip is the symmetric bound that the reward filter clips
// normalized rewards to.
const RewardClip float64 = 5.0

// REINFORCE drives a training run. It owns its environment, policy,
// value function slot, and reward filter exclusively for the lifetime
// of the run; rollouts borrow them per call and retain no state
// across calls.
//
// Execution is single threaded and synchronous throughout: rollouts
// are collected one after another, and policy updates never overlap
// action selection, so no locking is needed.
type REINFORCE struct {
	config       Config
	env          environment.Environment
	policy       *agent.Policy
	valueFn      *agent.ValueFunction
	rewardFilter *filter.MeanStd
	trackers     []trackers.Tracker

	started bool
}

// New creates a new REINFORCE training run on the environment
// registered under c.EnvName. Any trackers are given each collected
// episode to observe.
func New(c Config, t ...trackers.Tracker) (*REINFORCE, error) {
	env, err := environment.Make(c.EnvName, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	return NewWithEnv(env, c, t...)
}

// NewWithEnv creates a new REINFORCE training run on a caller-supplied
// environment.
func NewWithEnv(env environment.Environment, c Config,
	t ...trackers.Tracker) (*REINFORCE, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newWithEnv: %v", err)
	}

	policy, err := agent.NewPolicy(c.LearningRate, c.LossType, c.Solver)
	if err != nil {
		return nil, fmt.Errorf("newWithEnv: could not create policy: %v",
			err)
	}

	valueFn, err := agent.NewValueFunction(c.LearningRate, c.Solver)
	if err != nil {
		return nil, fmt.Errorf("newWithEnv: could not create value "+
			"function: %v", err)
	}

	rewardFilter, err := filter.NewMeanStd(RewardClip)
	if err != nil {
		return nil, fmt.Errorf("newWithEnv: could not create reward "+
			"filter: %v", err)
	}

	return &REINFORCE{
		config:       c,
		env:          env,
		policy:       policy,
		valueFn:      valueFn,
		rewardFilter: rewardFilter,
		trackers:     t,
	}, nil
}

// Config returns the configuration of the training run
func (r *REINFORCE) Config() Config {
	return r.config
}

// Policy returns the policy being trained
func (r *REINFORCE) Policy() *agent.Policy {
	return r.policy
}

// ValueFunction returns the run's state value function slot. Check
// its Available method before requesting values.
func (r *REINFORCE) ValueFunction() *agent.ValueFunction {
	return r.valueFn
}

// Train starts training and returns the Training iterator that
// produces numIters iterations of per-step losses. A REINFORCE
// instance trains once: calling Train a second time returns an error,
// and a fresh instance is needed to retrain.
func (r *REINFORCE) Train(numIters int) (*Training, error) {
	if r.started {
		return nil, fmt.Errorf("train: training already started; " +
			"create a new REINFORCE instance to retrain")
	}
	r.started = true

	return &Training{run: r, remaining: numIters}, nil
}

// Close cleans up the run's policy
func (r *REINFORCE) Close() error {
	return r.policy.Close()
}

// trainIteration runs one training iteration: it collects
// config.NumEpisodes episodes sequentially and then performs one
// policy update per recorded step, each update using that single
// step's observation and action as a batch of size one. The ordered
// per-step losses of the iteration are returned.
func (r *REINFORCE) trainIteration() ([]float64, error) {
	episodes := make([][]ts.Trajectory, 0, r.config.NumEpisodes)
	for i := 0; i < r.config.NumEpisodes; i++ {
		episode, err := Rollout(r.env, r.policy, r.rewardFilter, r.config)
		if err != nil {
			return nil, fmt.Errorf("trainIteration: %v", err)
		}

		for _, tracker := range r.trackers {
			tracker.TrackEpisode(episode)
		}
		episodes = append(episodes, episode)
	}

	var losses []float64
	for _, episode := range episodes {
		for _, trajectory := range episode {
			loss, err := r.policy.Update(trajectory.Observation(),
				trajectory.Action())
			if err != nil {
				return nil, fmt.Errorf("trainIteration: %v", err)
			}
			losses = append(losses, loss)
		}
	}
	return losses, nil
}

// Training iterates over the iterations of a training run in the
// manner of bufio.Scanner: Next runs one full training iteration and
// reports whether it succeeded, Losses holds the ordered per-step
// losses of the iteration that Next just ran, and Err surfaces the
// error that stopped training early, if any.
//
// A Training is not restartable: once Next has returned false it
// returns false forever.
type Training struct {
	run       *REINFORCE
	remaining int
	losses    []float64
	err       error
}

// Next runs the next training iteration. It returns false when the
// requested number of iterations has been produced or when an
// iteration fails, in which case Err returns the failure.
func (t *Training) Next() bool {
	if t.err != nil || t.remaining <= 0 {
		t.losses = nil
		return false
	}
	t.remaining--

	losses, err := t.run.trainIteration()
	if err != nil {
		t.err = err
		t.losses = nil
		return false
	}
	t.losses = losses
	return true
}

// Losses returns the ordered per-step losses of the iteration that
// the last successful Next call ran.
func (t *Training) Losses() []float64 {
	return t.losses
}

// Err returns the error that stopped the Training early, or nil if
// iteration completed or has not yet failed. Errors are fatal:
// nothing is retried.
func (t *Training) Err() error {
	return t.err
}
