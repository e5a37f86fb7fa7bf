package qlearning

import (
	"fmt"

	"github.com/slitherlearn/slither/agent"
	"github.com/slitherlearn/slither/environment"
)

// Default hyperparameters
const (
	DefaultLearningRate float64 = 0.2
	DefaultEpsilon      float64 = 1.0
	DefaultEpsilonDecay float64 = 0.999
	DefaultMinEpsilon   float64 = 0.05
)

// Config represents a configuration for the QLearning agent
type Config struct {
	// LearningRate is the step size α of the value update
	LearningRate float64

	// Epsilon is the initial exploration rate of the behaviour policy
	Epsilon float64

	// EpsilonDecay multiplies the exploration rate once per episode
	EpsilonDecay float64

	// MinEpsilon floors the decayed exploration rate so that
	// exploration never fully stops
	MinEpsilon float64

	// DisableLearning runs the agent in pure exploitation mode: the
	// exploration rate is forced to 0 and value updates are skipped
	DisableLearning bool
}

// NewConfig returns a Config with default hyperparameters
func NewConfig() Config {
	return Config{
		LearningRate: DefaultLearningRate,
		Epsilon:      DefaultEpsilon,
		EpsilonDecay: DefaultEpsilonDecay,
		MinEpsilon:   DefaultMinEpsilon,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %v",
			c.LearningRate)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], got %v", c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon decay must be in (0, 1], got %v",
			c.EpsilonDecay)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > c.Epsilon {
		return fmt.Errorf("minimum epsilon must be in [0, %v], got %v",
			c.Epsilon, c.MinEpsilon)
	}
	return nil
}

// CreateAgent creates the agent described by the Config. The agent's
// value table starts empty; to start from a previously learned table,
// use NewFrom.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}
