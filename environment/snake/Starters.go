package snake

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	env "github.com/slitherlearn/slither/environment"
)

// Starters sample a spawn for the snake as a 3-dimensional vector of
// (head x, head y, heading). The body extends opposite the heading,
// so legal head coordinates depend on the starting length: SpawnBounds
// gives the interval of coordinates from which the whole body fits
// regardless of heading.

// SpawnBounds returns the interval of head coordinates for which a
// snake of the argument starting length fits on a board of the
// argument size in every heading
func SpawnBounds(size, startLength int) r1.Interval {
	return r1.Interval{
		Min: float64(startLength - 1),
		Max: float64(size - startLength + 1),
	}
}

// UniformStarter samples snake spawns with the head placed uniformly
// at random within coordinate bounds and a heading chosen uniformly
// from the four cardinal directions
type UniformStarter struct {
	x, y    distuv.Uniform
	heading distuv.Categorical
}

// NewUniformStarter returns a new UniformStarter sampling both head
// coordinates from bounds
func NewUniformStarter(bounds r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)

	weights := []float64{1.0, 1.0, 1.0, 1.0}
	return UniformStarter{
		x:       distuv.Uniform{Min: bounds.Min, Max: bounds.Max, Src: source},
		y:       distuv.Uniform{Min: bounds.Min, Max: bounds.Max, Src: source},
		heading: distuv.NewCategorical(weights, source),
	}
}

// Start returns a starting (head x, head y, heading) vector
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(3, []float64{
		math.Floor(u.x.Rand()),
		math.Floor(u.y.Rand()),
		u.heading.Rand(),
	})
}

// SingleStart spawns the snake at a fixed position and heading on
// every episode. Useful for reproducing specific scenarios in tests.
type SingleStart struct {
	state *mat.VecDense
}

// NewSingleStart returns a Starter spawning the head at (x, y) with
// the argument heading on a size x size board. An error is returned
// if a snake of startLength segments would not fit.
func NewSingleStart(x, y int, heading Direction, size,
	startLength int) (env.Starter, error) {

	dx, dy := heading.Delta()
	for i := 0; i < startLength; i++ {
		segment := Point{x - i*dx, y - i*dy}
		if segment.X < 0 || segment.X >= size ||
			segment.Y < 0 || segment.Y >= size {
			return SingleStart{}, fmt.Errorf("newSingleStart: snake of "+
				"length %d heading %v at (%d, %d) does not fit on a board "+
				"of size %d", startLength, heading, x, y, size)
		}
	}

	state := mat.NewVecDense(3, []float64{float64(x), float64(y),
		float64(heading)})
	return SingleStart{state}, nil
}

// Start returns the fixed starting (head x, head y, heading) vector
func (s SingleStart) Start() *mat.VecDense {
	return s.state
}
