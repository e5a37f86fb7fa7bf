// Package envconfig provides configuration structs for configuring
// the snake environment with default board, task, and reward
// parameters. Environment configurations in this package are JSON
// serializable.
package envconfig

import (
	"fmt"

	env "github.com/slitherlearn/slither/environment"
	"github.com/slitherlearn/slither/environment/snake"
	ts "github.com/slitherlearn/slither/timestep"
)

// Config implements a specific configuration of the snake environment
// and its task. The zero value is not useful; construct Configs with
// NewConfig and adjust fields as needed.
type Config struct {
	// BoardSize is the side length of the square board
	BoardSize int

	// StartLength is the number of segments a snake spawns with
	StartLength int

	// MaxSteps cuts episodes off after this many steps; 0 leaves
	// episodes unbounded
	MaxSteps int

	// Discount is the discount factor γ attached to every timestep
	Discount float64

	// Reward magnitudes
	GreenReward  float64
	RedPenalty   float64
	StepPenalty  float64
	DeathPenalty float64
}

// NewConfig returns a new environment Config with default parameters
func NewConfig() Config {
	return Config{
		BoardSize:    snake.DefaultBoardSize,
		StartLength:  snake.DefaultStartLength,
		MaxSteps:     snake.DefaultMaxSteps,
		Discount:     0.9,
		GreenReward:  snake.DefaultGreenReward,
		RedPenalty:   snake.DefaultRedPenalty,
		StepPenalty:  snake.DefaultStepPenalty,
		DeathPenalty: snake.DefaultDeathPenalty,
	}
}

// Validate ensures that the Config describes a playable environment.
// Configuration errors are detected here, before any session starts.
func (c Config) Validate() error {
	if c.BoardSize < snake.MinBoardSize {
		return fmt.Errorf("board size %d below minimum playable size %d",
			c.BoardSize, snake.MinBoardSize)
	}
	if c.StartLength < 1 {
		return fmt.Errorf("starting length must be positive, got %d",
			c.StartLength)
	}
	if 2*c.StartLength-1 > c.BoardSize {
		return fmt.Errorf("starting length %d does not fit on a board of "+
			"size %d", c.StartLength, c.BoardSize)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("negative step limit %d", c.MaxSteps)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1], got %v", c.Discount)
	}
	return nil
}

// CreateSnake returns the snake environment described by the Config
// as well as the first timestep of the environment. The seed
// determines apple placement and snake spawns, so the same seed
// reproduces the same session.
func (c Config) CreateSnake(seed uint64) (*snake.Env, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSnake: %v", err)
	}

	task, err := snake.NewSurvive(c.GreenReward, c.RedPenalty,
		c.StepPenalty, c.DeathPenalty, c.MaxSteps)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSnake: %v", err)
	}

	starter := snake.NewUniformStarter(snake.SpawnBounds(c.BoardSize,
		c.StartLength), seed)

	return snake.New(task, starter, c.BoardSize, c.StartLength, c.Discount,
		seed)
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	return c.CreateSnake(seed)
}
