package reinforce

import (
	"math"
	"testing"

	"github.com/samuelfneumann/goreinforce/solver"
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// countingTracker records how many episodes it was given
type countingTracker struct {
	episodes int
	steps    int
}

func (c *countingTracker) TrackEpisode(episode []ts.Trajectory) {
	c.episodes++
	c.steps += len(episode)
}

func (c *countingTracker) Save() error { return nil }

// TestTrainZeroIterations ensures training for zero iterations yields
// nothing and never touches the environment or the policy.
func TestTrainZeroIterations(t *testing.T) {
	env := &stubEnv{episodeSteps: 3}

	run, err := NewWithEnv(env, TestConfig())
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	training, err := run.Train(0)
	if err != nil {
		t.Fatalf("could not start training: %v", err)
	}

	if training.Next() {
		t.Error("Next should return false for zero iterations")
	}
	if training.Err() != nil {
		t.Errorf("unexpected error: %v", training.Err())
	}
	if env.resetCalls != 0 || env.stepCalls != 0 {
		t.Errorf("environment was touched: %v resets, %v steps",
			env.resetCalls, env.stepCalls)
	}
}

// TestTrainIterations checks iteration accounting: each iteration
// collects NumEpisodes episodes and performs one update per recorded
// step.
func TestTrainIterations(t *testing.T) {
	episodeSteps := 3
	numIters := 2

	config := TestConfig()
	config.NumEpisodes = 2

	env := &stubEnv{episodeSteps: episodeSteps}
	tracker := &countingTracker{}

	run, err := NewWithEnv(env, config, tracker)
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	training, err := run.Train(numIters)
	if err != nil {
		t.Fatalf("could not start training: %v", err)
	}

	iterations := 0
	for training.Next() {
		iterations++

		losses := training.Losses()
		want := config.NumEpisodes * episodeSteps
		if len(losses) != want {
			t.Fatalf("iteration %v: want %v losses, have %v", iterations,
				want, len(losses))
		}
		for i, loss := range losses {
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				t.Fatalf("iteration %v: loss %v is non-finite: %v",
					iterations, i, loss)
			}
		}
	}
	if err := training.Err(); err != nil {
		t.Fatalf("training failed: %v", err)
	}

	if iterations != numIters {
		t.Errorf("iterations: want %v, have %v", numIters, iterations)
	}
	if env.resetCalls != numIters*config.NumEpisodes {
		t.Errorf("resets: want %v, have %v",
			numIters*config.NumEpisodes, env.resetCalls)
	}
	if tracker.episodes != numIters*config.NumEpisodes {
		t.Errorf("tracked episodes: want %v, have %v",
			numIters*config.NumEpisodes, tracker.episodes)
	}
	if tracker.steps != numIters*config.NumEpisodes*episodeSteps {
		t.Errorf("tracked steps: want %v, have %v",
			numIters*config.NumEpisodes*episodeSteps, tracker.steps)
	}
}

// TestTrainNotRestartable ensures a REINFORCE instance trains only
// once.
func TestTrainNotRestartable(t *testing.T) {
	env := &stubEnv{episodeSteps: 3}

	run, err := NewWithEnv(env, TestConfig())
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	if _, err := run.Train(1); err != nil {
		t.Fatalf("could not start training: %v", err)
	}
	if _, err := run.Train(1); err == nil {
		t.Error("expected error when training a second time")
	}
}

// TestTrainExhaustedStaysExhausted ensures Next keeps returning false
// after the requested iterations have been produced.
func TestTrainExhaustedStaysExhausted(t *testing.T) {
	env := &stubEnv{episodeSteps: 2}

	config := TestConfig()
	config.NumEpisodes = 1

	run, err := NewWithEnv(env, config)
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	training, err := run.Train(1)
	if err != nil {
		t.Fatalf("could not start training: %v", err)
	}

	if !training.Next() {
		t.Fatalf("first iteration failed: %v", training.Err())
	}
	for i := 0; i < 3; i++ {
		if training.Next() {
			t.Fatal("Next returned true after exhaustion")
		}
	}
	if training.Losses() != nil {
		t.Error("Losses should be nil after exhaustion")
	}
}

func TestNewWithEnvRejectsInvalidConfig(t *testing.T) {
	env := &stubEnv{episodeSteps: 3}

	for _, modify := range []func(*Config){
		func(c *Config) { c.DiscountFactor = 0.0 },
		func(c *Config) { c.DiscountFactor = 1.5 },
		func(c *Config) { c.LearningRate = 0.0 },
		func(c *Config) { c.NumEpisodes = 0 },
		func(c *Config) { c.MaxSteps = -1 },
		func(c *Config) { c.Solver = solver.Type("Newton") },
	} {
		config := TestConfig()
		modify(&config)

		if _, err := NewWithEnv(env, config); err == nil {
			t.Errorf("expected error for config %+v", config)
		}
	}
}

// TestTrainWithAdam ensures a run configured with the Adam solver
// trains through a full iteration with finite losses.
func TestTrainWithAdam(t *testing.T) {
	env := &stubEnv{episodeSteps: 3}

	config := TestConfig()
	config.NumEpisodes = 2
	config.Solver = solver.Adam

	run, err := NewWithEnv(env, config)
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	training, err := run.Train(1)
	if err != nil {
		t.Fatalf("could not start training: %v", err)
	}
	if !training.Next() {
		t.Fatalf("iteration failed: %v", training.Err())
	}

	losses := training.Losses()
	if len(losses) == 0 {
		t.Fatal("iteration produced no losses")
	}
	for i, loss := range losses {
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			t.Fatalf("loss %v is non-finite: %v", i, loss)
		}
	}
}

// TestValueFunctionSlot ensures the run exposes the unimplemented
// value function capability explicitly.
func TestValueFunctionSlot(t *testing.T) {
	env := &stubEnv{episodeSteps: 3}

	run, err := NewWithEnv(env, TestConfig())
	if err != nil {
		t.Fatalf("could not create training run: %v", err)
	}
	defer run.Close()

	if run.ValueFunction() == nil {
		t.Fatal("value function slot should exist")
	}
	if run.ValueFunction().Available() {
		t.Error("value function should not report itself available")
	}
}
