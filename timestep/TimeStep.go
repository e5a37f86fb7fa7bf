// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended. Episodes may end because a
// terminal state was reached (e.g. the snake died) or because some
// step limit was reached. Episodes that end at a step limit are
// truncated, not terminal, and learners should still bootstrap off
// the final state.
type EndType int

const (
	// TerminalStateReached indicates that an episode ended in a
	// terminal state
	TerminalStateReached EndType = iota

	// StepLimitReached indicates that an episode ended because some
	// timestep limit was reached
	StepLimitReached

	// Nil indicates that an episode has not yet ended
	Nil
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case StepLimitReached:
		return "StepLimitReached"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	EndType
}

// New constructs a new TimeStep. Newly constructed TimeSteps always
// have their EndType set to Nil; an environment's Ender will adjust
// the EndType when it adjusts the StepType to Last.
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// Terminal returns whether a TimeStep transitioned into a terminal
// state. Timesteps which are last in an episode due to a step limit
// are not terminal.
func (t *TimeStep) Terminal() bool {
	return t.StepType == Last && t.EndType == TerminalStateReached
}

// SetEnd marks the TimeStep as the last in its episode with the
// argument EndType
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}

// Transition packages together a single transition of the
// agent-environment interaction
type Transition struct {
	State     mat.Vector
	Action    mat.Vector
	Reward    float64
	Discount  float64
	NextState mat.Vector
	End       bool
}
