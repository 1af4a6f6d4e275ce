// Package trackers implements functionality for tracking data
// generated during a training run
package trackers

import (
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// Tracker tracks data generated by episodes collected during a
// training run and saves the tracked data to disk. Trackers observe
// each collected episode; they never modify training behaviour.
type Tracker interface {
	// TrackEpisode caches data from a completed episode
	TrackEpisode([]ts.Trajectory)

	// Save saves all data cached by the Tracker to disk
	Save() error
}
