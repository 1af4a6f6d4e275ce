package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// Return tracks the episodic return of every episode collected during
// a training run. Since each Trajectory carries its running raw
// return, the episodic return is the raw return recorded on the final
// step of the episode.
//
// Note that rollouts record rewards after reward filtering, so the
// returns tracked here are filtered returns, not the environment's
// raw returns.
type Return struct {
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker which saves its
// data to filename.
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// TrackEpisode caches the episodic return of a completed episode.
// Empty episodes are ignored.
func (r *Return) TrackEpisode(episode []ts.Trajectory) {
	if len(episode) == 0 {
		return
	}
	r.episodeReturns = append(r.episodeReturns,
		episode[len(episode)-1].RawReturn())
}

// Returns returns the episodic returns tracked so far
func (r *Return) Returns() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk with gob
// encoding.
func (r *Return) Save() error {
	file, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(r.episodeReturns); err != nil {
		return fmt.Errorf("save: could not encode return data: %v", err)
	}
	return nil
}

// LoadReturns loads episodic returns previously saved by a Return
// Tracker.
func LoadReturns(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadReturns: could not open file: %v", err)
	}
	defer file.Close()

	var data []float64
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadReturns: could not decode return "+
			"data: %v", err)
	}
	return data, nil
}
