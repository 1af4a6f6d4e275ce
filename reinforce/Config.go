package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/solver"
)

// Config describes a configuration of a REINFORCE training run. A
// Config is constructed once per run and treated as read-only by
// every component it is handed to.
type Config struct {
	// EnvName is the name the training environment is registered
	// under with environment.Make
	EnvName string `json:"env_name"`

	// DiscountFactor weights future rewards when accumulating
	// discounted returns. Must be in (0, 1].
	DiscountFactor float64 `json:"discount_factor"`

	// LearningRate is the step size of the policy's gradient descent
	// solver. Must be positive.
	LearningRate float64 `json:"learning_rate"`

	// NumEpisodes is the number of rollouts collected per training
	// iteration. Must be positive.
	NumEpisodes int `json:"num_episodes"`

	// UseBias is an architecture flag. The current fixed policy
	// network never uses bias units, so the flag is recorded but
	// unused.
	UseBias bool `json:"use_bias"`

	// MaxSteps caps the number of steps in a single rollout. A value
	// of 0 leaves rollouts unbounded, in which case termination
	// relies entirely on the environment eventually reporting done.
	MaxSteps int `json:"max_steps"`

	// Seed seeds the training environment built from EnvName
	Seed uint64 `json:"seed"`

	// LossType selects the policy's loss construction
	LossType agent.Loss `json:"loss_type"`

	// Solver selects the gradient descent solver that steps the
	// policy's parameters
	Solver solver.Type `json:"solver"`
}

// DefaultConfig returns the default training configuration: 50
// episodes per iteration on continuous Mountain Car.
func DefaultConfig() Config {
	return Config{
		EnvName:        "MountainCarContinuous-v0",
		DiscountFactor: 0.995,
		LearningRate:   1e-3,
		NumEpisodes:    50,
		UseBias:        false,
		MaxSteps:       0,
		LossType:       agent.GaussianLoss,
		Solver:         solver.Vanilla,
	}
}

// TestConfig returns a small training configuration with 5 episodes
// per iteration, useful for quick runs.
func TestConfig() Config {
	c := DefaultConfig()
	c.NumEpisodes = 5
	return c
}

// Validate returns an error describing the first illegal field of the
// Config, if any.
func (c Config) Validate() error {
	if c.DiscountFactor <= 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("validate: discount factor %v ∉ (0, 1]",
			c.DiscountFactor)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, "+
			"got %v", c.LearningRate)
	}
	if c.NumEpisodes <= 0 {
		return fmt.Errorf("validate: number of episodes must be "+
			"positive, got %v", c.NumEpisodes)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("validate: step limit cannot be negative, "+
			"got %v", c.MaxSteps)
	}
	switch c.Solver {
	case solver.Vanilla, solver.Adam:
	default:
		return fmt.Errorf("validate: no such solver type: %q", c.Solver)
	}
	return nil
}
