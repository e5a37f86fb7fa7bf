// Package snake implements the grid-based snake environment
package snake

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"

	env "github.com/slitherlearn/slither/environment"
	ts "github.com/slitherlearn/slither/timestep"
)

const (
	// MinBoardSize is the smallest playable board. Boards smaller than
	// this are rejected when the environment is created.
	MinBoardSize int = 5

	// DefaultBoardSize is the side length of the default board
	DefaultBoardSize int = 10

	// DefaultStartLength is the number of segments a snake spawns with
	DefaultStartLength int = 3

	// Discrete Actions Env
	ActionDims        int = 1
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 3
)

// Direction is one of the four cardinal headings of the snake. The
// integer order of the directions is also the deterministic tie-break
// priority used when action values are equal: Up > Down > Left > Right.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Delta returns the (dx, dy) displacement of moving one cell in the
// direction. The y axis grows downward.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// Opposite returns the direction pointing 180° away from d
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	default:
		return "Right"
	}
}

// Point is a cell coordinate on the board. The origin is the top-left
// corner, with y growing downward.
type Point struct {
	X, Y int
}

// Cell describes the occupancy of a single board cell
type Cell byte

const (
	CellEmpty Cell = '0'
	CellWall  Cell = 'W'
	CellHead  Cell = 'H'
	CellBody  Cell = 'S'
	CellGreen Cell = 'G'
	CellRed   Cell = 'R'
)

// Env implements the snake environment. The snake moves on a square
// grid, one cell per step, eating green apples to grow and shrinking
// when it eats red apples. Walking into a wall or its own body kills
// the snake and ends the episode, as does shrinking to length 0.
//
// The environment state observed by agents is not the raw grid but the
// line-of-sight feature vector computed by the vision encoder (see
// Vision.go). Two boards that differ only outside the four lines of
// sight observe identically.
//
// Actions are 1-dimensional and discrete in (0, 1, 2, 3):
//
//	Action	Meaning
//	  0		Head up
//	  1		Head down
//	  2		Head left
//	  3		Head right
//
// Requesting the direction opposite to the current heading is not a
// legal move for a snake longer than one segment; the environment
// keeps the previous heading instead. Actions outside (0, 1, 2, 3)
// result in an error.
//
// Env implements the environment.Environment interface.
type Env struct {
	task     Task
	starter  env.Starter
	size     int
	startLen int
	discount float64
	rng      *rand.Rand

	body    []Point // head first
	heading Direction
	greens  []Point
	reds    []Point

	steps       int
	maxLength   int
	gameOver    bool
	currentStep ts.TimeStep
}

// New creates a new snake environment on a size x size board. The
// starter determines the head position and heading of freshly spawned
// snakes, which spawn with startLength segments. Apples are placed at
// unoccupied cells uniformly at random using the argument seed, so the
// same seed reproduces the same session. The environment starts ready
// to use; the returned timestep is the first of the initial episode.
func New(t Task, starter env.Starter, size, startLength int,
	discount float64, seed uint64) (*Env, ts.TimeStep, error) {

	if size < MinBoardSize {
		return nil, ts.TimeStep{}, fmt.Errorf("new: board size %d below "+
			"minimum playable size %d", size, MinBoardSize)
	}
	if startLength < 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: starting length must "+
			"be positive, got %d", startLength)
	}
	if 2*startLength-1 > size {
		return nil, ts.TimeStep{}, fmt.Errorf("new: starting length %d "+
			"does not fit on a board of size %d", startLength, size)
	}
	if discount < 0 || discount > 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: discount must be in "+
			"[0, 1], got %v", discount)
	}

	snake := &Env{
		task:     t,
		starter:  starter,
		size:     size,
		startLen: startLength,
		discount: discount,
		rng:      rand.New(rand.NewSource(seed)),
	}

	firstStep := snake.Reset()
	return snake, firstStep, nil
}

// Reset resets the environment between episodes and returns the first
// timestep of the new episode. The snake is respawned from the
// environment's Starter and exactly one green and one red apple are
// placed at unoccupied cells.
func (e *Env) Reset() ts.TimeStep {
	start := e.starter.Start()
	head := Point{int(start.AtVec(0)), int(start.AtVec(1))}
	heading := Direction(int(start.AtVec(2)))

	e.body = e.body[:0]
	dx, dy := heading.Delta()
	for i := 0; i < e.startLen; i++ {
		segment := Point{head.X - i*dx, head.Y - i*dy}
		if !e.inBounds(segment) {
			panic(fmt.Sprintf("reset: starter placed snake segment %v "+
				"outside board of size %d", segment, e.size))
		}
		e.body = append(e.body, segment)
	}
	e.heading = heading

	e.greens = e.greens[:0]
	e.reds = e.reds[:0]
	e.placeGreen()
	e.placeRed()

	e.steps = 0
	e.maxLength = len(e.body)
	e.gameOver = false

	startStep := ts.New(ts.First, 0, e.discount, e.observation(), 0)
	e.currentStep = startStep
	return startStep
}

// Step takes one environmental step given action a and returns the
// next timestep as a timestep.TimeStep and a bool indicating whether
// or not the episode has ended. Exactly one of the following happens,
// in order of precedence:
//
//  1. The new head cell is out of bounds or overlaps a body segment
//     (excluding the cell the tail vacates on this same move): the
//     snake dies and the episode ends with the death penalty.
//  2. The new head cell holds a green apple: the snake grows by one
//     segment, the apple is replaced at a random free cell, and the
//     green reward is given.
//  3. The new head cell holds a red apple: the snake shrinks by
//     exactly one segment net; the apple is replaced. If the snake
//     shrinks to length 0 the episode ends with the death penalty,
//     otherwise the red penalty is given.
//  4. The new head cell is empty: the snake moves and the per-step
//     penalty is given.
func (e *Env) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%d-dimensional, got %d-dimensional", ActionDims, a.Len())
	}

	intAction := int(a.AtVec(0))
	if intAction < MinDiscreteAction || intAction > MaxDiscreteAction {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2, 3)", intAction)
	}
	if e.gameOver {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"call Reset() to start a new episode")
	}

	// A direct reversal keeps the previous heading instead of crashing
	requested := Direction(intAction)
	if !(requested == e.heading.Opposite() && len(e.body) > 1) {
		e.heading = requested
	}

	dx, dy := e.heading.Delta()
	head := e.body[0]
	newHead := Point{head.X + dx, head.Y + dy}
	e.steps++

	event := Moved
	switch {
	case !e.inBounds(newHead) || e.hitsBody(newHead):
		event = Died
		e.gameOver = true

	case e.removeGreen(newHead):
		// Growth: tail is not removed on this step
		event = AteGreen
		e.body = append([]Point{newHead}, e.body...)
		e.placeGreen()

	case e.removeRed(newHead):
		// Shrink: the tail is removed in addition to the normal tail
		// removal from moving, a net loss of exactly one segment
		event = AteRed
		e.body = append([]Point{newHead}, e.body...)
		e.body = e.body[:len(e.body)-2]
		e.placeRed()
		if len(e.body) == 0 {
			event = Died
			e.gameOver = true
		}

	default:
		e.body = append([]Point{newHead}, e.body...)
		e.body = e.body[:len(e.body)-1]
	}

	if len(e.body) > e.maxLength {
		e.maxLength = len(e.body)
	}

	// A snake starved to length 0 has no head to see from, so the
	// final observation is that of the state before the fatal bite
	var obs mat.Vector
	if len(e.body) == 0 {
		obs = e.currentStep.Observation
	} else {
		obs = e.observation()
	}

	reward := e.task.GetReward(event)
	step := ts.New(ts.Mid, reward, e.discount, obs, e.currentStep.Number+1)

	if event == Died {
		step.SetEnd(ts.TerminalStateReached)
	} else if e.task.End(&step) {
		e.gameOver = true
	}

	e.currentStep = step
	return step, step.Last(), nil
}

// ObservationSpec returns the observation specification of the
// environment
func (e *Env) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	lowerBound := mat.NewVecDense(Features, nil)

	bounds := make([]float64, Features)
	for i := 0; i < Features-1; i++ {
		bounds[i] = float64(e.size)
	}
	bounds[Features-1] = float64(MaxDiscreteAction)
	upperBound := mat.NewVecDense(Features, bounds)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the
// environment
func (e *Env) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{e.discount})
	upperBound := mat.NewVecDense(1, []float64{e.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (e *Env) RewardSpec() env.Spec {
	return e.task.RewardSpec()
}

func (e *Env) String() string {
	return fmt.Sprintf("Snake | Board: %dx%d  |  Length: %d  |  Steps: %d",
		e.size, e.size, len(e.body), e.steps)
}

func (e *Env) inBounds(p Point) bool {
	return p.X >= 0 && p.X < e.size && p.Y >= 0 && p.Y < e.size
}

// hitsBody returns whether moving the head to p collides with the
// snake's body. The tail cell is excluded since the tail vacates it on
// the same move; a head moving onto an apple keeps the tail in place,
// but an apple can never occupy a body cell, so the exclusion is safe.
func (e *Env) hitsBody(p Point) bool {
	for i := 0; i < len(e.body)-1; i++ {
		if e.body[i] == p {
			return true
		}
	}
	return false
}

func (e *Env) occupied(p Point) bool {
	for _, segment := range e.body {
		if segment == p {
			return true
		}
	}
	for _, apple := range e.greens {
		if apple == p {
			return true
		}
	}
	for _, apple := range e.reds {
		if apple == p {
			return true
		}
	}
	return false
}

// freeCell returns an unoccupied cell chosen uniformly at random, or
// false if the board is full
func (e *Env) freeCell() (Point, bool) {
	free := make([]Point, 0, e.size*e.size-len(e.body))
	for y := 0; y < e.size; y++ {
		for x := 0; x < e.size; x++ {
			p := Point{x, y}
			if !e.occupied(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}
	return free[e.rng.Intn(len(free))], true
}

func (e *Env) placeGreen() {
	if p, ok := e.freeCell(); ok {
		e.greens = append(e.greens, p)
	}
}

func (e *Env) placeRed() {
	if p, ok := e.freeCell(); ok {
		e.reds = append(e.reds, p)
	}
}

// removeGreen removes and reports a green apple at p
func (e *Env) removeGreen(p Point) bool {
	for i, apple := range e.greens {
		if apple == p {
			e.greens = append(e.greens[:i], e.greens[i+1:]...)
			return true
		}
	}
	return false
}

// removeRed removes and reports a red apple at p
func (e *Env) removeRed(p Point) bool {
	for i, apple := range e.reds {
		if apple == p {
			e.reds = append(e.reds[:i], e.reds[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot is a read-only copy of the board for rendering
// collaborators
type Snapshot struct {
	Size      int
	Body      []Point
	Greens    []Point
	Reds      []Point
	Heading   Direction
	Length    int
	MaxLength int
	Steps     int
	GameOver  bool
}

// Snapshot returns a copy of the current board occupancy, score and
// episode progress. Mutating the returned value does not affect the
// environment.
func (e *Env) Snapshot() Snapshot {
	return Snapshot{
		Size:      e.size,
		Body:      append([]Point(nil), e.body...),
		Greens:    append([]Point(nil), e.greens...),
		Reds:      append([]Point(nil), e.reds...),
		Heading:   e.heading,
		Length:    len(e.body),
		MaxLength: e.maxLength,
		Steps:     e.steps,
		GameOver:  e.gameOver,
	}
}

// At returns the occupancy of cell (x, y). Coordinates outside the
// board are walls.
func (s Snapshot) At(x, y int) Cell {
	if x < 0 || x >= s.Size || y < 0 || y >= s.Size {
		return CellWall
	}
	p := Point{x, y}
	for i, segment := range s.Body {
		if segment == p {
			if i == 0 {
				return CellHead
			}
			return CellBody
		}
	}
	for _, apple := range s.Greens {
		if apple == p {
			return CellGreen
		}
	}
	for _, apple := range s.Reds {
		if apple == p {
			return CellRed
		}
	}
	return CellEmpty
}
