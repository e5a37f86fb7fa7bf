// Package policy implements policies over tabular action value
// estimates
package policy

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/timestep"
	"github.com/slitherlearn/slither/utils/floatutils"
)

// EGreedy implements an ε-greedy policy over a tabular value store.
// With probability ε a uniformly random action is chosen; otherwise
// the table's best action for the current state is chosen. In
// evaluation mode ε is treated as 0 so that action selection is pure,
// deterministic exploitation.
type EGreedy struct {
	table   *qtable.Table
	epsilon float64
	eval    bool
	seed    rand.Source
}

// NewEGreedy constructs a new EGreedy policy over the argument table,
// where e = epsilon is the probability with which a random action is
// selected. Epsilon values outside [0, 1] are clipped.
func NewEGreedy(table *qtable.Table, e float64, seed uint64) *EGreedy {
	source := rand.NewSource(seed)

	return &EGreedy{
		table:   table,
		epsilon: floatutils.Clip(e, 0.0, 1.0),
		seed:    source,
	}
}

// SelectAction selects an action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation

	numActions := p.table.Actions()
	greedyAction := p.table.BestAction(obs)

	epsilon := p.epsilon
	if p.eval {
		epsilon = 0.0
	}

	// Calculate the ε probability of choosing any action at random
	prob := epsilon / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := range actionProbabilities {
		actionProbabilities[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilities[greedyAction] += 1.0 - epsilon

	// Sample an action from the resulting categorical distribution
	dist := distuv.NewCategorical(actionProbabilities, p.seed)
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Epsilon returns the policy's current exploration rate
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the policy's exploration rate, clipping values
// outside [0, 1]
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = floatutils.Clip(e, 0.0, 1.0)
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() {
	p.eval = true
}

// Train sets the policy to training mode
func (p *EGreedy) Train() {
	p.eval = false
}

// IsEval indicates whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool {
	return p.eval
}
