package trackers

import (
	"encoding/gob"
	"log"
	"os"

	"github.com/slitherlearn/slither/experiment/tracker"
	ts "github.com/slitherlearn/slither/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
//
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that
// episode's length will not be saved.
type EpisodeLength struct {
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will
// save its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	var saver EpisodeLength
	saver.filename = filename
	return &saver
}

var _ tracker.Tracker = (*EpisodeLength)(nil)

// Track tracks the episode lengths in an experiment. When this
// function is called, it caches the episode length if the timestep
// passed to it is the last timestep in the episode. Otherwise, it
// waits to receive the last timestep in an episode before caching and
// storing the episode lengths, for saving later.
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(t.Number))
	}
}

// LastLength returns the length in steps of the most recently
// completed episode
func (e *EpisodeLength) LastLength() int {
	if len(e.episodeLengths) == 0 {
		return 0
	}
	return int(e.episodeLengths[len(e.episodeLengths)-1])
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() {
	// Open the file to save to
	file, err := os.Create(e.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	// Encode and save the file
	en := gob.NewEncoder(file)
	if err = en.Encode(e.episodeLengths); err != nil {
		log.Fatalf("could not encode episode length data: %v", err)
	}
}
