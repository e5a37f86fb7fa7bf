// Package qtable implements a tabular store of action value estimates
// keyed by encoded state vectors
package qtable

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/utils/floatutils"
)

// Table maps encoded states to per-action value estimates. Entries
// are created lazily, with every action value defaulting to 0.0 the
// first time a state is updated. Entries are never deleted during a
// run.
//
// State keys are the integer feature vectors produced by an
// environment's encoder; two observations with identical features
// share one entry. A Table is owned by a single agent and is not safe
// for concurrent use.
type Table struct {
	features int
	actions  int
	values   map[string][]float64
}

// New creates a new empty Table for states of the argument feature
// width and the argument number of discrete actions
func New(features, actions int) *Table {
	if features < 1 {
		panic(fmt.Sprintf("new: features must be positive, got %d", features))
	}
	if actions < 1 {
		panic(fmt.Sprintf("new: actions must be positive, got %d", actions))
	}

	return &Table{
		features: features,
		actions:  actions,
		values:   make(map[string][]float64),
	}
}

// Features returns the feature width of state vectors keyed by the
// Table
func (t *Table) Features() int {
	return t.features
}

// Actions returns the number of discrete actions the Table stores
// estimates for
func (t *Table) Actions() int {
	return t.actions
}

// States returns the number of distinct states observed so far
func (t *Table) States() int {
	return len(t.values)
}

// Value returns the stored estimate for taking action in state, or the
// default 0.0 if the state has not been seen. Reading a value never
// creates an entry.
func (t *Table) Value(state mat.Vector, action int) float64 {
	estimates, ok := t.values[t.key(state)]
	if !ok {
		return 0.0
	}
	return estimates[t.checkAction(action)]
}

// Update overwrites the stored estimate for taking action in state,
// creating the state's entry with default values first if the state
// has not been seen
func (t *Table) Update(state mat.Vector, action int, value float64) {
	estimates := t.getOrInsert(t.key(state))
	estimates[t.checkAction(action)] = value
}

// BestAction returns the action with the maximum stored value for
// state. Ties are broken deterministically by fixed action priority:
// the lowest-numbered action among the maxima wins, so identical table
// contents always reproduce the same greedy choice. Unseen states
// return action 0.
func (t *Table) BestAction(state mat.Vector) int {
	estimates, ok := t.values[t.key(state)]
	if !ok {
		return 0
	}
	_, indices := floatutils.MaxSlice(estimates)
	return indices[0]
}

// MaxValue returns the maximum stored estimate over all actions in
// state, or 0.0 for unseen states
func (t *Table) MaxValue(state mat.Vector) float64 {
	estimates, ok := t.values[t.key(state)]
	if !ok {
		return 0.0
	}
	max, _ := floatutils.MaxSlice(estimates)
	return max
}

// getOrInsert returns the estimates for key, creating a zero-valued
// entry if the key has not been seen
func (t *Table) getOrInsert(key string) []float64 {
	estimates, ok := t.values[key]
	if !ok {
		estimates = make([]float64, t.actions)
		t.values[key] = estimates
	}
	return estimates
}

// key encodes a state vector as a table key. State vectors that do not
// match the Table's feature width are programming errors and panic.
func (t *Table) key(state mat.Vector) string {
	if state.Len() != t.features {
		panic(fmt.Sprintf("key: state vector has %d features, table "+
			"expects %d", state.Len(), t.features))
	}

	var b strings.Builder
	for i := 0; i < state.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(state.AtVec(i))))
	}
	return b.String()
}

func (t *Table) checkAction(action int) int {
	if action < 0 || action >= t.actions {
		panic(fmt.Sprintf("checkAction: action %d ∉ [0, %d)", action,
			t.actions))
	}
	return action
}

// tableData mirrors Table for gob serialization
type tableData struct {
	Features int
	Actions  int
	Values   map[string][]float64
}

// GobEncode implements the gob.GobEncoder interface, serializing the
// Table to an opaque blob. GobEncode followed by GobDecode is a
// lossless round trip of every (state, action) value.
func (t *Table) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	en := gob.NewEncoder(&buf)

	data := tableData{Features: t.features, Actions: t.actions,
		Values: t.values}
	if err := en.Encode(data); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode table: %v", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface, restoring a Table
// from a blob produced by GobEncode. Corrupt or incompatible blobs are
// reported as errors, never silently replaced with an empty table.
func (t *Table) GobDecode(blob []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(blob))

	var data tableData
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("gobdecode: could not decode table: %v", err)
	}

	if data.Features < 1 || data.Actions < 1 {
		return fmt.Errorf("gobdecode: corrupt table: %d features, %d "+
			"actions", data.Features, data.Actions)
	}
	for key, estimates := range data.Values {
		if len(estimates) != data.Actions {
			return fmt.Errorf("gobdecode: corrupt table: state %q has %d "+
				"action values, want %d", key, len(estimates), data.Actions)
		}
	}

	t.features = data.Features
	t.actions = data.Actions
	t.values = data.Values
	if t.values == nil {
		t.values = make(map[string][]float64)
	}
	return nil
}

// Save writes the Table to the file at filename
func (t *Table) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(t); err != nil {
		return fmt.Errorf("save: could not encode table: %v", err)
	}
	return nil
}

// Load reads a Table from the file at filename. Loading fails with an
// error if the file does not exist or does not hold a valid table;
// callers that want to fall back to an empty table must do so
// explicitly.
func Load(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open table file: %v", err)
	}
	defer file.Close()

	table := &Table{}
	dec := gob.NewDecoder(file)
	if err := dec.Decode(table); err != nil {
		return nil, fmt.Errorf("load: could not decode table: %v", err)
	}
	return table, nil
}
