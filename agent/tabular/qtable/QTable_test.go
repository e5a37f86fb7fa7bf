package qtable

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func state(features ...float64) *mat.VecDense {
	return mat.NewVecDense(len(features), features)
}

func TestValueDefaultsToZero(t *testing.T) {
	table := New(3, 4)

	if got := table.Value(state(1, 2, 3), 2); got != 0.0 {
		t.Errorf("expected default value 0, got %v", got)
	}
	if table.States() != 0 {
		t.Errorf("reading a value should not create an entry, got %d states",
			table.States())
	}
}

func TestUpdateThenValue(t *testing.T) {
	table := New(3, 4)
	s := state(1, 2, 3)

	table.Update(s, 2, 1.5)
	if got := table.Value(s, 2); got != 1.5 {
		t.Errorf("expected value 1.5, got %v", got)
	}
	if got := table.Value(s, 0); got != 0.0 {
		t.Errorf("other actions should stay at the default, got %v", got)
	}
	if table.States() != 1 {
		t.Errorf("expected 1 state, got %d", table.States())
	}

	// States with identical features share one entry
	table.Update(state(1, 2, 3), 2, -0.5)
	if table.States() != 1 {
		t.Errorf("expected 1 state after updating an alias, got %d",
			table.States())
	}
	if got := table.Value(s, 2); got != -0.5 {
		t.Errorf("expected value -0.5, got %v", got)
	}
}

func TestBestAction(t *testing.T) {
	table := New(2, 4)
	s := state(7, 7)

	if got := table.BestAction(s); got != 0 {
		t.Errorf("unseen states should give action 0, got %d", got)
	}

	table.Update(s, 0, 2.0)
	table.Update(s, 1, 5.0)
	table.Update(s, 2, 5.0)
	table.Update(s, 3, 1.0)

	// Ties break toward the lowest-numbered action
	if got := table.BestAction(s); got != 1 {
		t.Errorf("expected action 1 to win the tie, got %d", got)
	}
	if got := table.MaxValue(s); got != 5.0 {
		t.Errorf("expected maximum value 5, got %v", got)
	}

	table.Update(s, 3, 9.0)
	if got := table.BestAction(s); got != 3 {
		t.Errorf("expected action 3, got %d", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	table := New(3, 4)
	table.Update(state(1, 2, 3), 0, 1.25)
	table.Update(state(1, 2, 3), 3, -4.0)
	table.Update(state(0, 0, 9), 2, 100.0)

	filename := filepath.Join(t.TempDir(), "table.bin")
	if err := table.Save(filename); err != nil {
		t.Fatalf("could not save table: %v", err)
	}

	loaded, err := Load(filename)
	if err != nil {
		t.Fatalf("could not load table: %v", err)
	}

	if loaded.Features() != 3 || loaded.Actions() != 4 {
		t.Fatalf("expected a 3-feature 4-action table, got %d and %d",
			loaded.Features(), loaded.Actions())
	}
	if loaded.States() != table.States() {
		t.Fatalf("expected %d states, got %d", table.States(), loaded.States())
	}
	for _, check := range []struct {
		state  *mat.VecDense
		action int
		want   float64
	}{
		{state(1, 2, 3), 0, 1.25},
		{state(1, 2, 3), 3, -4.0},
		{state(0, 0, 9), 2, 100.0},
		{state(1, 2, 3), 1, 0.0},
	} {
		if got := loaded.Value(check.state, check.action); got != check.want {
			t.Errorf("expected value %v, got %v", check.want, got)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected an error loading a missing file")
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "corrupt.bin")
	if err := os.WriteFile(filename, []byte("not a table"), 0o644); err != nil {
		t.Fatalf("could not write file: %v", err)
	}

	if _, err := Load(filename); err == nil {
		t.Error("expected an error loading a corrupt file")
	}
}
