package trackers

import (
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// episodeWithReturns builds a minimal episode whose final step holds
// the given raw return
func episodeWithReturns(rawReturns ...float64) []ts.Trajectory {
	obs := mat.NewVecDense(2, []float64{-0.5, 0.0})
	action := mat.NewVecDense(1, []float64{0.1})

	episode := make([]ts.Trajectory, len(rawReturns))
	for i, raw := range rawReturns {
		done := i == len(rawReturns)-1
		episode[i] = ts.New(obs, 1.0, done, action, obs, raw, raw)
	}
	return episode
}

func TestReturnTracksFinalRawReturn(t *testing.T) {
	tracker := NewReturn(filepath.Join(t.TempDir(), "data.bin"))

	tracker.TrackEpisode(episodeWithReturns(1.0, 2.0, 3.0))
	tracker.TrackEpisode(episodeWithReturns(-1.0, -2.0))
	tracker.TrackEpisode(nil) // Ignored

	returns := tracker.Returns()
	want := []float64{3.0, -2.0}
	if len(returns) != len(want) {
		t.Fatalf("returns: want %v, have %v", want, returns)
	}
	for i := range want {
		if returns[i] != want[i] {
			t.Errorf("return %v: want %v, have %v", i, want[i],
				returns[i])
		}
	}
}

func TestReturnSaveLoadRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.bin")
	tracker := NewReturn(filename)

	tracker.TrackEpisode(episodeWithReturns(5.0))
	tracker.TrackEpisode(episodeWithReturns(1.0, 7.5))

	if err := tracker.Save(); err != nil {
		t.Fatalf("could not save returns: %v", err)
	}

	loaded, err := LoadReturns(filename)
	if err != nil {
		t.Fatalf("could not load returns: %v", err)
	}

	want := []float64{5.0, 7.5}
	if len(loaded) != len(want) {
		t.Fatalf("loaded returns: want %v, have %v", want, loaded)
	}
	for i := range want {
		if loaded[i] != want[i] {
			t.Errorf("loaded return %v: want %v, have %v", i, want[i],
				loaded[i])
		}
	}
}
