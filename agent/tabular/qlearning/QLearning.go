// Package qlearning implements the tabular Q-Learning algorithm
package qlearning

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/agent"
	"github.com/slitherlearn/slither/agent/tabular/policy"
	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/environment"
	"github.com/slitherlearn/slither/timestep"
	"github.com/slitherlearn/slither/utils/floatutils"
)

// QLearning implements the tabular Q-Learning algorithm. The
// behaviour policy is ε-greedy over the shared value table and the
// target policy is greedy, so updates use the maximum action value of
// the next state regardless of the action actually taken.
//
// The exploration rate starts at the configured initial value and
// decays multiplicatively once per episode, floored at the configured
// minimum:
//
//	ε = max(εMin, εInitial · decay^episodes)
//
// With learning disabled the agent runs in pure exploitation mode:
// ε is forced to 0 and value updates are skipped entirely.
type QLearning struct {
	learner   *QLearner
	behaviour *policy.EGreedy
	target    *policy.Greedy
	table     *qtable.Table
	config    Config
	episodes  int
	seed      uint64
}

// New creates a new QLearning agent acting in the argument
// environment, with a fresh, empty value table
func New(env environment.Environment, c Config,
	seed uint64) (*QLearning, error) {

	features := env.ObservationSpec().Shape.Len()
	actions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	return NewFrom(qtable.New(features, actions), env, c, seed)
}

// NewFrom creates a new QLearning agent around an existing value
// table, e.g. one restored from disk. The table must match the
// environment's observation and action specifications.
func NewFrom(table *qtable.Table, env environment.Environment, c Config,
	seed uint64) (*QLearning, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newFrom: invalid config: %v", err)
	}

	features := env.ObservationSpec().Shape.Len()
	if table.Features() != features {
		return nil, fmt.Errorf("newFrom: table keys states of %d features "+
			"but environment observations have %d", table.Features(), features)
	}
	actions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1
	if table.Actions() != actions {
		return nil, fmt.Errorf("newFrom: table stores %d actions but "+
			"environment has %d", table.Actions(), actions)
	}

	q := &QLearning{
		learner:   NewQLearner(table, c.LearningRate),
		behaviour: policy.NewEGreedy(table, c.Epsilon, seed),
		target:    policy.NewGreedy(table),
		table:     table,
		config:    c,
		seed:      seed,
	}

	if c.DisableLearning {
		q.Eval()
	}
	return q, nil
}

// SelectAction selects an action from the behaviour policy
func (q *QLearning) SelectAction(t timestep.TimeStep) *mat.VecDense {
	return q.behaviour.SelectAction(t)
}

// ObserveFirst records the first timestep in an episode
func (q *QLearning) ObserveFirst(t timestep.TimeStep) error {
	return q.learner.ObserveFirst(t)
}

// Observe records that an action lead to some timestep
func (q *QLearning) Observe(action mat.Vector,
	nextStep timestep.TimeStep) error {
	return q.learner.Observe(action, nextStep)
}

// Step performs a single update to the value table. In evaluation
// mode updates are skipped entirely.
func (q *QLearning) Step() error {
	if q.IsEval() {
		return nil
	}
	return q.learner.Step()
}

// EndEpisode ends the current episode, decaying the exploration rate
// once. The value table is never reset between episodes.
func (q *QLearning) EndEpisode() {
	q.learner.EndEpisode()
	if q.IsEval() {
		return
	}

	q.episodes++
	decayed := q.config.Epsilon * math.Pow(q.config.EpsilonDecay,
		float64(q.episodes))
	q.behaviour.SetEpsilon(floatutils.Max(q.config.MinEpsilon, decayed))
}

// TdError returns the temporal difference error of the argument
// transition under the current value table
func (q *QLearning) TdError(t timestep.Transition) float64 {
	return q.learner.TdError(t)
}

// Eval sets the agent to evaluation mode: pure exploitation with no
// learning
func (q *QLearning) Eval() {
	q.behaviour.Eval()
}

// Train sets the agent to training mode
func (q *QLearning) Train() {
	q.behaviour.Train()
}

// IsEval indicates whether the agent is in evaluation mode
func (q *QLearning) IsEval() bool {
	return q.behaviour.IsEval()
}

// Epsilon returns the behaviour policy's current exploration rate
func (q *QLearning) Epsilon() float64 {
	if q.IsEval() {
		return 0.0
	}
	return q.behaviour.Epsilon()
}

// Episodes returns the number of completed training episodes
func (q *QLearning) Episodes() int {
	return q.episodes
}

// Table returns the agent's value table, e.g. for persistence
func (q *QLearning) Table() *qtable.Table {
	return q.table
}

var _ agent.Agent = (*QLearning)(nil)
