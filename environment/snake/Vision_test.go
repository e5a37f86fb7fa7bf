package snake

import (
	"testing"
)

func features(e *Env) []float64 {
	return e.observation().RawVector().Data
}

func TestVisionWallDistances(t *testing.T) {
	env := newTestEnv(t, 10, 1, 5, 5, Right, 0)
	placeApples(env, Point{0, 0}, Point{9, 9})

	// From (5, 5) the wall is one cell past the last in-bounds cell in
	// every direction; no apple is in any line of sight, so the apple
	// features hold the board size sentinel
	want := []float64{
		6, 5, 6, 5,
		10, 10, 10, 10,
		10, 10, 10, 10,
		float64(Right),
	}

	got := features(env)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feature %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestVisionSeesApples(t *testing.T) {
	env := newTestEnv(t, 10, 1, 5, 5, Right, 0)
	placeApples(env, Point{5, 2}, Point{8, 5})

	got := features(env)
	if got[4] != 3 {
		t.Errorf("expected green apple 3 cells up, got distance %v", got[4])
	}
	if got[11] != 3 {
		t.Errorf("expected red apple 3 cells right, got distance %v", got[11])
	}

	// Apples outside every line of sight are invisible
	for _, i := range []int{5, 6, 7, 8, 9, 10} {
		if got[i] != 10 {
			t.Errorf("feature %d: expected sentinel 10, got %v", i, got[i])
		}
	}
}

func TestVisionBodyHidesApples(t *testing.T) {
	env := newTestEnv(t, 10, 3, 5, 5, Right, 0)
	placeApples(env, Point{0, 0}, Point{9, 9})

	// Fold the body above the head so that it blocks the upward line
	// of sight with a green apple beyond it
	env.body = []Point{{5, 5}, {5, 4}, {5, 3}}
	env.heading = Down
	placeApples(env, Point{5, 1}, Point{9, 9})

	got := features(env)
	if got[0] != 1 {
		t.Errorf("expected upward obstacle at distance 1, got %v", got[0])
	}
	if got[4] != 10 {
		t.Errorf("an apple behind the body should be invisible, got "+
			"distance %v", got[4])
	}
}

func TestVisionHeadingFeature(t *testing.T) {
	for _, heading := range []Direction{Up, Down, Left, Right} {
		env := newTestEnv(t, 10, 3, 5, 5, heading, 0)
		got := features(env)
		if got[12] != float64(heading) {
			t.Errorf("heading %v: expected heading code %v, got %v",
				heading, float64(heading), got[12])
		}
	}
}

func TestIdenticalSightIdenticalObservation(t *testing.T) {
	// Two boards differing only outside the lines of sight must
	// observe identically
	first := newTestEnv(t, 10, 1, 5, 5, Right, 0)
	placeApples(first, Point{0, 0}, Point{9, 9})

	second := newTestEnv(t, 10, 1, 5, 5, Right, 0)
	placeApples(second, Point{1, 0}, Point{8, 9})

	f, s := features(first), features(second)
	for i := range f {
		if f[i] != s[i] {
			t.Errorf("feature %d: %v != %v", i, f[i], s[i])
		}
	}
}

func TestVisionLines(t *testing.T) {
	env := newTestEnv(t, 10, 1, 5, 5, Right, 0)
	placeApples(env, Point{8, 5}, Point{5, 7})

	lines := env.VisionLines()
	if lines[Right] != "00G0W" {
		t.Errorf("expected right line \"00G0W\", got %q", lines[Right])
	}
	if lines[Down] != "0R00W" {
		t.Errorf("expected down line \"0R00W\", got %q", lines[Down])
	}
	if lines[Up] != "00000W" {
		t.Errorf("expected up line \"00000W\", got %q", lines[Up])
	}
	if lines[Left] != "00000W" {
		t.Errorf("expected left line \"00000W\", got %q", lines[Left])
	}
}
