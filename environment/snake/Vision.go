package snake

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Features is the length of the observation vector: one obstacle
// distance, one green-apple distance, and one red-apple distance per
// cardinal direction, plus the heading code.
const Features int = 13

// scanOrder fixes the direction order of the per-direction features in
// the observation vector
var scanOrder = [4]Direction{Up, Down, Left, Right}

// visionVector encodes the snake's four-directional line of sight as a
// fixed-width feature vector. For each cardinal direction, scanning
// outward from the head:
//
//   - the distance to the first obstacle (wall or own body segment),
//     where a wall counts one cell past the last in-bounds cell;
//   - the distance to the first green apple seen before any obstacle,
//     or the board size if none is visible;
//   - the distance to the first red apple, encoded the same way.
//
// All distances are capped at the board size, so every feature is
// bounded. The final feature is the heading code.
//
// This vector is the sole Q-table key: any board detail outside the
// four lines of sight is deliberately invisible, which is what keeps
// the state space small enough for tabular learning.
func visionVector(body []Point, greens, reds []Point, size int,
	heading Direction) *mat.VecDense {

	if len(body) == 0 {
		panic("visionVector: snake has no head")
	}
	head := body[0]

	features := make([]float64, Features)
	for i, dir := range scanOrder {
		obstacle, green, red := scan(head, dir, body, greens, reds, size)
		features[i] = float64(obstacle)
		features[4+i] = float64(green)
		features[8+i] = float64(red)
	}
	features[12] = float64(heading)

	return mat.NewVecDense(Features, features)
}

// scan walks outward from head in direction dir and returns the
// obstacle, green-apple, and red-apple distances for that line of
// sight
func scan(head Point, dir Direction, body, greens, reds []Point,
	size int) (obstacle, green, red int) {

	green, red = size, size

	dx, dy := dir.Delta()
	distance := 0
	x, y := head.X+dx, head.Y+dy

	for x >= 0 && x < size && y >= 0 && y < size {
		distance++
		p := Point{x, y}

		if contains(body, p) {
			obstacle = distance
			return
		}
		if green == size && contains(greens, p) {
			green = distance
		}
		if red == size && contains(reds, p) {
			red = distance
		}

		x += dx
		y += dy
	}

	// Hit the wall one cell past the last in-bounds cell
	obstacle = distance + 1
	if obstacle > size {
		obstacle = size
	}
	return
}

func contains(points []Point, p Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// observation encodes the current raw board state as the environment's
// observation vector
func (e *Env) observation() *mat.VecDense {
	return visionVector(e.body, e.greens, e.reds, e.size, e.heading)
}

// VisionLines returns the raw cells the snake sees in each cardinal
// direction as strings of cell characters ordered outward from the
// head, ending with the wall. Intended for human-readable diagnostic
// display after a step.
func (e *Env) VisionLines() map[Direction]string {
	lines := make(map[Direction]string, len(scanOrder))
	if len(e.body) == 0 {
		return lines
	}
	snapshot := e.Snapshot()
	head := e.body[0]

	for _, dir := range scanOrder {
		var line strings.Builder
		dx, dy := dir.Delta()
		x, y := head.X+dx, head.Y+dy
		for x >= 0 && x < e.size && y >= 0 && y < e.size {
			line.WriteByte(byte(snapshot.At(x, y)))
			x += dx
			y += dy
		}
		line.WriteByte(byte(CellWall))
		lines[dir] = line.String()
	}
	return lines
}
