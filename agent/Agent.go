// Package agent defines an agent interface
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action value
// estimates, and a Policy which chooses actions in each state. The
// Policy chooses which actions are taken, and the Learner uses these
// actions to update the Policy. For a given agent, the Policy and
// Learner should share the same value store so that any changes the
// Learner makes are reflected in the actions the Policy chooses.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how action
// value estimates are updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Agents usually have a
// target and a behaviour policy.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Config represents a configuration from which an agent can be
// constructed
type Config interface {
	// Validate returns an error describing why the configuration is
	// invalid, if it is
	Validate() error
}
