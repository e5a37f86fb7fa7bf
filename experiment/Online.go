package experiment

import (
	"fmt"

	"github.com/slitherlearn/slither/agent"
	env "github.com/slitherlearn/slither/environment"
	"github.com/slitherlearn/slither/experiment/checkpointer"
	"github.com/slitherlearn/slither/experiment/tracker"
	ts "github.com/slitherlearn/slither/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed. Each environmental step is fed back to the
// agent immediately: the agent observes the timestep, updates, and
// selects the next action before the environment steps again.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter bounds the
// total number of timesteps taken across all episodes; a value of 0
// leaves the experiment unbounded, in which case the caller drives
// episodes through RunEpisode. The t and c parameters determine which
// data is tracked and how agents are checkpointed.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
	}
}

// Register adds a tracker.Tracker to the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether the experiment's step budget has been exhausted
func (o *Online) RunEpisode() (bool, error) {
	step := o.Environment.Reset()
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	track(o.trackers, step)

	for !step.Last() && !o.exhausted() {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		var err error
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		// Cache the environment step in each tracker
		track(o.trackers, step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		if err := o.checkpoint(step); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
	}

	return o.exhausted(), nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the experiment's trackers to disk
func (o *Online) Save() {
	for _, t := range o.trackers {
		t.Save()
	}
}

// checkpoint saves the current state of the agent through each
// registered checkpointer
func (o *Online) checkpoint(step ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(step); err != nil {
			return err
		}
	}
	return nil
}

func (o *Online) exhausted() bool {
	return o.maxSteps > 0 && o.currentSteps >= o.maxSteps
}
