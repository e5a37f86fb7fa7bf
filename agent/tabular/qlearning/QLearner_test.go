package qlearning

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/timestep"
)

func vec(features ...float64) *mat.VecDense {
	return mat.NewVecDense(len(features), features)
}

// observeTransition feeds a single (s, a, r, s') transition to the
// learner
func observeTransition(t *testing.T, q *QLearner, s *mat.VecDense,
	action float64, next timestep.TimeStep) {
	t.Helper()

	first := timestep.New(timestep.First, 0, next.Discount, s, 0)
	if err := q.ObserveFirst(first); err != nil {
		t.Fatalf("could not observe first timestep: %v", err)
	}
	if err := q.Observe(vec(action), next); err != nil {
		t.Fatalf("could not observe transition: %v", err)
	}
}

func TestStepMovesValueTowardTarget(t *testing.T) {
	table := qtable.New(1, 4)
	q := NewQLearner(table, 0.2)

	s, next := vec(5), vec(6)
	table.Update(next, 0, 2.0)
	table.Update(next, 1, 1.0)

	nextStep := timestep.New(timestep.Mid, 4.0, 0.9, next, 1)
	observeTransition(t, q, s, 2, nextStep)

	if err := q.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// target = r + γ·max_a Q(s', a) = 4 + 0.9·2 = 5.8
	// Q(s, 2) = 0 + 0.2·(5.8 - 0) = 1.16
	if got := table.Value(s, 2); math.Abs(got-1.16) > 1e-12 {
		t.Errorf("expected value 1.16, got %v", got)
	}

	// A second identical update moves the estimate further
	observeTransition(t, q, s, 2, nextStep)
	if err := q.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	want := 1.16 + 0.2*(5.8-1.16)
	if got := table.Value(s, 2); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected value %v, got %v", want, got)
	}
}

func TestTerminalTargetIgnoresNextState(t *testing.T) {
	table := qtable.New(1, 4)
	q := NewQLearner(table, 0.5)

	s, next := vec(5), vec(6)
	table.Update(next, 0, 100.0)

	nextStep := timestep.New(timestep.Mid, -100.0, 0.9, next, 1)
	nextStep.SetEnd(timestep.TerminalStateReached)
	observeTransition(t, q, s, 0, nextStep)

	if err := q.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// target = r alone: no bootstrapping off a terminal state
	if got := table.Value(s, 0); math.Abs(got-(-50.0)) > 1e-12 {
		t.Errorf("expected value -50, got %v", got)
	}
}

func TestStepLimitStillBootstraps(t *testing.T) {
	table := qtable.New(1, 4)
	q := NewQLearner(table, 1.0)

	s, next := vec(5), vec(6)
	table.Update(next, 3, 10.0)

	nextStep := timestep.New(timestep.Mid, -1.0, 0.9, next, 1)
	nextStep.SetEnd(timestep.StepLimitReached)
	observeTransition(t, q, s, 0, nextStep)

	if err := q.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// A truncated episode is not terminal, so the target bootstraps:
	// target = -1 + 0.9·10 = 8
	if got := table.Value(s, 0); math.Abs(got-8.0) > 1e-12 {
		t.Errorf("expected value 8, got %v", got)
	}
}

func TestObserveFirstRejectsNonFirstSteps(t *testing.T) {
	q := NewQLearner(qtable.New(1, 4), 0.2)

	err := q.ObserveFirst(timestep.New(timestep.Mid, 0, 0.9, vec(5), 3))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestObserveRejectsBadInput(t *testing.T) {
	q := NewQLearner(qtable.New(1, 4), 0.2)
	if err := q.ObserveFirst(timestep.New(timestep.First, 0, 0.9, vec(5),
		0)); err != nil {
		t.Fatalf("could not observe first timestep: %v", err)
	}

	next := timestep.New(timestep.Mid, 0, 0.9, vec(6), 1)

	if err := q.Observe(vec(0, 1), next); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a 2-dimensional action, "+
			"got %v", err)
	}
	if err := q.Observe(vec(4), next); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for action 4, got %v", err)
	}

	wide := timestep.New(timestep.Mid, 0, 0.9, vec(6, 6), 1)
	if err := q.Observe(vec(0), wide); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a wide state vector, got %v",
			err)
	}
}

func TestStepWithoutTransitionFails(t *testing.T) {
	q := NewQLearner(qtable.New(1, 4), 0.2)
	if err := q.Step(); err == nil {
		t.Error("expected an error stepping before any transition")
	}
}

func TestTdError(t *testing.T) {
	table := qtable.New(1, 4)
	q := NewQLearner(table, 0.2)

	s, next := vec(5), vec(6)
	table.Update(s, 1, 3.0)
	table.Update(next, 0, 2.0)

	transition := timestep.Transition{
		State:     s,
		Action:    vec(1),
		Reward:    4.0,
		Discount:  0.9,
		NextState: next,
	}

	// δ = r + γ·max_a Q(s', a) - Q(s, a) = 4 + 1.8 - 3 = 2.8
	if got := q.TdError(transition); math.Abs(got-2.8) > 1e-12 {
		t.Errorf("expected TD error 2.8, got %v", got)
	}

	transition.End = true
	if got := q.TdError(transition); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected TD error 1, got %v", got)
	}
}
