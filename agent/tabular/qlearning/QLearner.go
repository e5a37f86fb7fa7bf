package qlearning

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/timestep"
)

// ErrInvalidInput is returned when an unrecognized action or a
// malformed state vector is supplied to the learner
var ErrInvalidInput = errors.New("invalid input")

// QLearner implements the update functionality for the tabular
// Q-Learning algorithm: one-step SARSA-max with no eligibility traces
// or batching. The learner records the most recent transition and
// updates the shared value table on each call to Step.
type QLearner struct {
	table        *qtable.Table
	step         timestep.TimeStep
	action       int
	nextStep     timestep.TimeStep
	learningRate float64
}

// NewQLearner creates a new QLearner updating the argument table
func NewQLearner(table *qtable.Table, learningRate float64) *QLearner {
	return &QLearner{
		table:        table,
		learningRate: learningRate,
	}
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: %w: timestep %d is not the first "+
			"in its episode", ErrInvalidInput, t.Number)
	}
	if err := q.checkObservation(t); err != nil {
		return fmt.Errorf("observeFirst: %w", err)
	}

	q.step = timestep.TimeStep{}
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first
// timestep
func (q *QLearner) Observe(action mat.Vector,
	nextStep timestep.TimeStep) error {

	if action.Len() != 1 {
		return fmt.Errorf("observe: %w: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", ErrInvalidInput,
			action.Len())
	}
	intAction := int(action.AtVec(0))
	if intAction < 0 || intAction >= q.table.Actions() {
		return fmt.Errorf("observe: %w: action %d ∉ [0, %d)",
			ErrInvalidInput, intAction, q.table.Actions())
	}
	if err := q.checkObservation(nextStep); err != nil {
		return fmt.Errorf("observe: %w", err)
	}

	q.step = q.nextStep
	q.action = intAction
	q.nextStep = nextStep
	return nil
}

// Step updates the value table from the most recent transition using
// the Q-Learning target:
//
//	target = r                           if the next state is terminal
//	target = r + γ·max_a Q(s', a)        otherwise
//
// The stored estimate moves toward the target by the learning rate.
func (q *QLearner) Step() error {
	if q.step.Observation == nil {
		return fmt.Errorf("step: no transition observed yet")
	}

	target := q.nextStep.Reward
	if !q.nextStep.Terminal() {
		target += q.nextStep.Discount * q.table.MaxValue(q.nextStep.Observation)
	}

	state := q.step.Observation
	current := q.table.Value(state, q.action)
	q.table.Update(state, q.action, current+q.learningRate*(target-current))
	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearner) EndEpisode() {}

// TdError returns the temporal difference error of the argument
// transition under the current value table
func (q *QLearner) TdError(t timestep.Transition) float64 {
	target := t.Reward
	if !t.End {
		target += t.Discount * q.table.MaxValue(t.NextState)
	}
	return target - q.table.Value(t.State, int(t.Action.AtVec(0)))
}

func (q *QLearner) checkObservation(t timestep.TimeStep) error {
	if t.Observation == nil {
		return fmt.Errorf("%w: timestep has no observation", ErrInvalidInput)
	}
	if t.Observation.Len() != q.table.Features() {
		return fmt.Errorf("%w: state vector has %d features, table "+
			"expects %d", ErrInvalidInput, t.Observation.Len(),
			q.table.Features())
	}
	return nil
}
