package reinforce

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/filter"
	"github.com/samuelfneumann/goreinforce/solver"
)

const tolerance float64 = 1e-10

// stubEnv is a deterministic environment for testing rollouts. It
// always returns a reward of 1 and, when episodeSteps > 0, reports
// done on step number episodeSteps.
type stubEnv struct {
	episodeSteps int
	resetCalls   int
	stepCalls    int
	currentStep  int
}

func (s *stubEnv) Reset() (*mat.VecDense, error) {
	s.resetCalls++
	s.currentStep = 0
	return mat.NewVecDense(2, []float64{-0.5, 0.0}), nil
}

func (s *stubEnv) Step(_ *mat.VecDense) (*mat.VecDense, float64, bool,
	interface{}, error) {
	s.stepCalls++
	s.currentStep++

	obs := mat.NewVecDense(2, []float64{-0.5, 0.001 *
		float64(s.currentStep)})
	done := s.episodeSteps > 0 && s.currentStep >= s.episodeSteps
	return obs, 1.0, done, nil, nil
}

func testPolicy(t *testing.T) *agent.Policy {
	t.Helper()
	policy, err := agent.NewPolicy(1e-3, agent.GaussianLoss, solver.Vanilla)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}
	t.Cleanup(func() { policy.Close() })
	return policy
}

// TestRollout checks the concrete 3-step scenario: a constant reward
// of 1 with an identity filter gives raw returns 1, 2, 3 and a final
// discounted return of 1 + γ + γ².
func TestRollout(t *testing.T) {
	config := TestConfig()
	config.NumEpisodes = 2
	env := &stubEnv{episodeSteps: 3}

	episode, err := Rollout(env, testPolicy(t), nil, config)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	if len(episode) != 3 {
		t.Fatalf("episode length: want 3, have %v", len(episode))
	}

	for i, want := range []float64{1.0, 2.0, 3.0} {
		if math.Abs(episode[i].RawReturn()-want) > tolerance {
			t.Errorf("step %v raw return: want %v, have %v", i, want,
				episode[i].RawReturn())
		}
	}

	gamma := config.DiscountFactor
	want := 1.0 + gamma + gamma*gamma
	if math.Abs(episode[2].DiscountedReturn()-want) > tolerance {
		t.Errorf("final discounted return: want %v, have %v", want,
			episode[2].DiscountedReturn())
	}

	for i, trajectory := range episode {
		if trajectory.Done() != (i == len(episode)-1) {
			t.Errorf("step %v done flag: want %v, have %v", i,
				i == len(episode)-1, trajectory.Done())
		}
	}
}

// TestRolloutReturnAccumulation checks that the raw return telescopes:
// rawReturn[t] = rawReturn[t-1] + reward[t].
func TestRolloutReturnAccumulation(t *testing.T) {
	config := TestConfig()
	env := &stubEnv{episodeSteps: 7}

	episode, err := Rollout(env, testPolicy(t), nil, config)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	if episode[0].RawReturn() != episode[0].Reward() {
		t.Errorf("first raw return: want %v, have %v",
			episode[0].Reward(), episode[0].RawReturn())
	}
	for i := 1; i < len(episode); i++ {
		want := episode[i-1].RawReturn() + episode[i].Reward()
		if math.Abs(episode[i].RawReturn()-want) > tolerance {
			t.Errorf("step %v raw return: want %v, have %v", i, want,
				episode[i].RawReturn())
		}
	}
}

// TestRolloutUndiscounted ensures that with a discount factor of 1
// the discounted return equals the raw return on every step.
func TestRolloutUndiscounted(t *testing.T) {
	config := TestConfig()
	config.DiscountFactor = 1.0
	env := &stubEnv{episodeSteps: 5}

	episode, err := Rollout(env, testPolicy(t), nil, config)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	for i, trajectory := range episode {
		diff := trajectory.DiscountedReturn() - trajectory.RawReturn()
		if math.Abs(diff) > tolerance {
			t.Errorf("step %v: discounted return %v != raw return %v", i,
				trajectory.DiscountedReturn(), trajectory.RawReturn())
		}
	}
}

// TestRolloutStepLimit ensures that a configured step cap bounds
// rollouts against an environment that never reports done.
func TestRolloutStepLimit(t *testing.T) {
	config := TestConfig()
	config.MaxSteps = 5
	env := &stubEnv{episodeSteps: 0} // Never reports done

	episode, err := Rollout(env, testPolicy(t), nil, config)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	if len(episode) != config.MaxSteps {
		t.Fatalf("episode length: want %v, have %v", config.MaxSteps,
			len(episode))
	}
	if episode[len(episode)-1].Done() {
		t.Error("cut-off episode should not be marked done")
	}
}

// TestRolloutFiltersRewards ensures rollouts record filtered rewards
// when given a reward filter.
func TestRolloutFiltersRewards(t *testing.T) {
	config := TestConfig()
	env := &stubEnv{episodeSteps: 4}

	rewardFilter, err := filter.NewMeanStd(RewardClip)
	if err != nil {
		t.Fatalf("could not create filter: %v", err)
	}

	episode, err := Rollout(env, testPolicy(t), rewardFilter, config)
	if err != nil {
		t.Fatalf("rollout failed: %v", err)
	}

	// On a constant stream of 1s the filter returns the raw value
	// first and 0 afterwards, since every later sample equals the
	// running mean.
	if episode[0].Reward() != 1.0 {
		t.Errorf("first reward: want 1, have %v", episode[0].Reward())
	}
	for i := 1; i < len(episode); i++ {
		if episode[i].Reward() != 0.0 {
			t.Errorf("step %v reward: want 0, have %v", i,
				episode[i].Reward())
		}
	}
}
