package snake

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/slitherlearn/slither/environment"
	ts "github.com/slitherlearn/slither/timestep"
	"github.com/slitherlearn/slither/utils/floatutils"
)

// Default reward magnitudes
const (
	DefaultGreenReward  float64 = 10.0
	DefaultRedPenalty   float64 = -10.0
	DefaultStepPenalty  float64 = -1.0
	DefaultDeathPenalty float64 = -100.0

	// DefaultMaxSteps bounds episode length so that a snake circling
	// forever still ends its episode
	DefaultMaxSteps int = 1000
)

// Event describes what happened on a single environmental step
type Event int

const (
	// Moved indicates the snake moved onto an empty cell
	Moved Event = iota

	// AteGreen indicates the snake ate a green apple and grew
	AteGreen

	// AteRed indicates the snake ate a red apple and shrank
	AteRed

	// Died indicates the snake hit a wall, hit its own body, or
	// shrank to length 0
	Died
)

func (e Event) String() string {
	switch e {
	case Moved:
		return "Moved"
	case AteGreen:
		return "AteGreen"
	case AteRed:
		return "AteRed"
	default:
		return "Died"
	}
}

// Task implements the reward scheme for snake step events and
// determines when episodes end
type Task interface {
	env.Task

	// GetReward returns the reward for the argument step event
	GetReward(Event) float64
}

// Survive implements the standard snake task. The snake is rewarded
// for eating green apples and penalized for eating red apples, for
// every move, and heavily for dying. Episodes end on death or after a
// step limit.
type Survive struct {
	greenReward  float64
	redPenalty   float64
	stepPenalty  float64
	deathPenalty float64
	stepEnder    env.StepLimit
}

// NewSurvive creates and returns a new Survive task with the argument
// reward magnitudes. Episodes are cut off after maxSteps steps; a
// maxSteps of 0 leaves episodes unbounded.
func NewSurvive(green, red, step, death float64, maxSteps int) (*Survive,
	error) {
	if maxSteps < 0 {
		return nil, fmt.Errorf("newSurvive: negative step limit %d", maxSteps)
	}

	return &Survive{
		greenReward:  green,
		redPenalty:   red,
		stepPenalty:  step,
		deathPenalty: death,
		stepEnder:    env.NewStepLimit(maxSteps),
	}, nil
}

// GetReward returns the reward for the argument step event
func (s *Survive) GetReward(e Event) float64 {
	switch e {
	case AteGreen:
		return s.greenReward
	case AteRed:
		return s.redPenalty
	case Died:
		return s.deathPenalty
	default:
		return s.stepPenalty
	}
}

// End determines whether the argument timestep is the last in the
// episode due to the task's step limit. Death is detected by the
// environment itself, not the task.
func (s *Survive) End(t *ts.TimeStep) bool {
	return s.stepEnder.End(t)
}

// Min returns the minimum attainable reward over all timesteps
func (s *Survive) Min() float64 {
	return floatutils.Min(s.greenReward, s.redPenalty, s.stepPenalty,
		s.deathPenalty)
}

// Max returns the maximum attainable reward over all timesteps
func (s *Survive) Max() float64 {
	return floatutils.Max(s.greenReward, s.redPenalty, s.stepPenalty,
		s.deathPenalty)
}

// RewardSpec returns the reward specification of the Task
func (s *Survive) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{s.Min()})
	upperBound := mat.NewVecDense(1, []float64{s.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Discrete)
}
