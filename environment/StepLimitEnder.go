package environment

import "github.com/slitherlearn/slither/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit. A limit of 0 or
// lower disables the ender, leaving episodes unbounded.
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End modifies the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.StepLimitReached
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if s.episodeSteps <= 0 {
		return false
	}
	if t.Number >= s.episodeSteps {
		t.SetEnd(timestep.StepLimitReached)
		return true
	}
	return false
}
