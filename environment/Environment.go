// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when and how episodes end
type Ender interface {
	// End takes the most recent TimeStep in the episode and returns
	// whether the episode should end. If the episode should end, End
	// modifies the TimeStep so that its StepType is timestep.Last and
	// its EndType reflects why the episode ended.
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment and determines when episodes end
type Task interface {
	Ender

	// Min and Max return the minimum and maximum attainable reward
	// over all timesteps
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() timestep.TimeStep

	// Step takes one environmental step given a 1-dimensional,
	// discrete action and returns the next timestep and whether the
	// episode has ended. An error is returned if the action is not a
	// legal action of the environment.
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
