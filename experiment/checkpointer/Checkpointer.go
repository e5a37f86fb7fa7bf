// Package checkpointer implements periodic saving of learned state
// during an experiment
package checkpointer

import (
	ts "github.com/slitherlearn/slither/timestep"
)

// Serializable is an object that can save itself to a file
type Serializable interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves serializable objects based on
// timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
