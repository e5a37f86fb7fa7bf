package policy

import (
	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/timestep"
)

// Greedy implements a purely greedy policy over a tabular value
// store. Greedy action selection is deterministic: ties between
// maximal action values are broken by the table's fixed priority
// order.
type Greedy struct {
	table *qtable.Table
}

// NewGreedy constructs a new Greedy policy over the argument table
func NewGreedy(table *qtable.Table) *Greedy {
	return &Greedy{table}
}

// SelectAction selects the table's best action for the current state
func (p *Greedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	action := p.table.BestAction(t.Observation)
	return mat.NewVecDense(1, []float64{float64(action)})
}

// Eval sets the policy to evaluation mode. Greedy policies behave
// identically in both modes.
func (p *Greedy) Eval() {}

// Train sets the policy to training mode
func (p *Greedy) Train() {}

// IsEval indicates whether the policy is in evaluation mode
func (p *Greedy) IsEval() bool {
	return true
}
