package snake

import (
	"testing"
)

func TestSurviveRewards(t *testing.T) {
	task, err := NewSurvive(10, -10, -1, -100, 0)
	if err != nil {
		t.Fatalf("could not create task: %v", err)
	}

	tests := []struct {
		event Event
		want  float64
	}{
		{Moved, -1},
		{AteGreen, 10},
		{AteRed, -10},
		{Died, -100},
	}

	for _, test := range tests {
		if got := task.GetReward(test.event); got != test.want {
			t.Errorf("%v: expected reward %v, got %v", test.event, test.want,
				got)
		}
	}

	if task.Min() != -100 {
		t.Errorf("expected minimum reward -100, got %v", task.Min())
	}
	if task.Max() != 10 {
		t.Errorf("expected maximum reward 10, got %v", task.Max())
	}
}

func TestNewSurviveRejectsNegativeStepLimit(t *testing.T) {
	if _, err := NewSurvive(10, -10, -1, -100, -1); err == nil {
		t.Error("expected an error for a negative step limit")
	}
}
