// Package experiment implements functionality for running an
// experiment
package experiment

import (
	"github.com/slitherlearn/slither/experiment/tracker"
	ts "github.com/slitherlearn/slither/timestep"
)

// Experiment outlines structs that can run experiments. Experiments
// run an agent on an environment episode by episode, sending each
// environment TimeStep to registered tracker.Trackers, which cache
// the data they care about. The Save() method then takes all cached
// data and saves it to disk, usually after the experiment has been
// run. The Run() method runs all episodes until the experiment's step
// budget is exhausted, while RunEpisode() runs a single episode.
//
// Experiments may also checkpoint agents periodically using
// checkpointer.Checkpointers registered at construction.
type Experiment interface {
	Run() error

	// RunEpisode runs a single episode, returning whether the
	// experiment's step budget has been exhausted
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save()

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment. Useful to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

// track sends the current timestep to each tracker
func track(trackers []tracker.Tracker, step ts.TimeStep) {
	for _, t := range trackers {
		t.Track(step)
	}
}
