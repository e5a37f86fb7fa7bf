package trackers

import (
	"encoding/gob"
	"log"
	"os"

	"github.com/slitherlearn/slither/environment/snake"
	"github.com/slitherlearn/slither/experiment/tracker"
	ts "github.com/slitherlearn/slither/timestep"
)

// Boarder provides a read-only snapshot of a snake board. The snake
// environment implements this interface.
type Boarder interface {
	Snapshot() snake.Snapshot
}

// MaxLength tracks and saves the maximum snake length reached in each
// episode. The length cannot be recovered from the observation vector,
// which sees only along the four lines of sight, so this Tracker polls
// the environment's board snapshot instead.
//
// Note that an episode must finish for this Tracker to save its data.
type MaxLength struct {
	env        Boarder
	maxLengths []float64
	filename   string
}

// NewMaxLength returns a new MaxLength Tracker polling the argument
// environment, which will save its data at the specified location
// filename
func NewMaxLength(env Boarder, filename string) *MaxLength {
	return &MaxLength{env: env, filename: filename}
}

var _ tracker.Tracker = (*MaxLength)(nil)

// Track caches the episode's maximum snake length when the timestep
// passed to it is the last timestep in the episode
func (m *MaxLength) Track(t ts.TimeStep) {
	if t.Last() {
		m.maxLengths = append(m.maxLengths,
			float64(m.env.Snapshot().MaxLength))
	}
}

// LastMaxLength returns the maximum length reached in the most
// recently completed episode
func (m *MaxLength) LastMaxLength() int {
	if len(m.maxLengths) == 0 {
		return 0
	}
	return int(m.maxLengths[len(m.maxLengths)-1])
}

// Best returns the maximum length reached over all completed episodes
func (m *MaxLength) Best() int {
	best := 0.0
	for _, length := range m.maxLengths {
		if length > best {
			best = length
		}
	}
	return int(best)
}

// Average returns the mean maximum length over all completed episodes
func (m *MaxLength) Average() float64 {
	if len(m.maxLengths) == 0 {
		return 0.0
	}

	total := 0.0
	for _, length := range m.maxLengths {
		total += length
	}
	return total / float64(len(m.maxLengths))
}

// Save saves the data tracked by the MaxLength Tracker to disk
func (m *MaxLength) Save() {
	file, err := os.Create(m.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(m.maxLengths); err != nil {
		log.Fatalf("could not encode max length data: %v", err)
	}
}
