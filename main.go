package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/samuelfneumann/progressbar"

	"github.com/slitherlearn/slither/agent/tabular/qlearning"
	"github.com/slitherlearn/slither/agent/tabular/qtable"
	"github.com/slitherlearn/slither/environment/envconfig"
	"github.com/slitherlearn/slither/environment/snake"
	"github.com/slitherlearn/slither/experiment"
	"github.com/slitherlearn/slither/experiment/checkpointer"
	"github.com/slitherlearn/slither/experiment/tracker"
	"github.com/slitherlearn/slither/experiment/trackers"
)

func main() {
	var (
		sessions   = flag.Int("sessions", 1, "number of training sessions to run")
		boardSize  = flag.Int("board_size", snake.DefaultBoardSize, "side length of the square board")
		startLen   = flag.Int("start_length", snake.DefaultStartLength, "number of segments the snake spawns with")
		maxSteps   = flag.Int("max_steps", snake.DefaultMaxSteps, "step limit per session, 0 for unlimited")
		seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for all randomness")
		lr         = flag.Float64("lr", qlearning.DefaultLearningRate, "learning rate")
		gamma      = flag.Float64("gamma", 0.9, "discount factor")
		epsilon    = flag.Float64("epsilon", qlearning.DefaultEpsilon, "initial exploration rate")
		decay      = flag.Float64("epsilon_decay", qlearning.DefaultEpsilonDecay, "per-session exploration decay")
		minEps     = flag.Float64("epsilon_min", qlearning.DefaultMinEpsilon, "exploration rate floor")
		dontlearn  = flag.Bool("dontlearn", false, "disable learning and exploration, exploit the loaded table")
		savePath   = flag.String("save", "", "file to save the learned state-action values to")
		loadPath   = flag.String("load", "", "file to load previously learned state-action values from")
		checkEvery = flag.Int("checkpoint", 0, "checkpoint the state-action values every this many steps, 0 to disable")
		dataPrefix = flag.String("data", "", "prefix for tracked returns and episode length data files")
		verbose    = flag.Bool("verbose", false, "print a per-session summary and the snake's final vision")
	)
	flag.Parse()

	envConf := envconfig.NewConfig()
	envConf.BoardSize = *boardSize
	envConf.StartLength = *startLen
	envConf.MaxSteps = *maxSteps
	envConf.Discount = *gamma

	e, _, err := envConf.CreateSnake(*seed)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}

	agentConf := qlearning.NewConfig()
	agentConf.LearningRate = *lr
	agentConf.Epsilon = *epsilon
	agentConf.EpsilonDecay = *decay
	agentConf.MinEpsilon = *minEps
	agentConf.DisableLearning = *dontlearn

	var q *qlearning.QLearning
	if *loadPath != "" {
		table, err := qtable.Load(*loadPath)
		if err != nil {
			log.Fatalf("could not load state-action values: %v", err)
		}
		q, err = qlearning.NewFrom(table, e, agentConf, *seed)
		if err != nil {
			log.Fatalf("could not create agent: %v", err)
		}
	} else {
		if *dontlearn {
			log.Fatal("-dontlearn requires a table to exploit, use -load")
		}
		q, err = qlearning.New(e, agentConf, *seed)
		if err != nil {
			log.Fatalf("could not create agent: %v", err)
		}
	}

	returns := trackers.NewReturn(*dataPrefix + "_returns.bin")
	lengths := trackers.NewEpisodeLength(*dataPrefix + "_episode_lengths.bin")
	maxLengths := trackers.NewMaxLength(e, *dataPrefix+"_max_lengths.bin")
	track := []tracker.Tracker{returns, lengths, maxLengths}

	var check []checkpointer.Checkpointer
	if *checkEvery > 0 && *savePath != "" {
		check = append(check, checkpointer.NewNStep(*checkEvery, q.Table(),
			checkpointer.FileTimer(*savePath, ".bin")))
	}

	exp := experiment.NewOnline(e, q, 0, track, check)

	var bar *progressbar.ProgressBar
	if !*verbose {
		bar = progressbar.New(50, *sessions, time.Second, true)
		bar.Display()
	}

	for session := 1; session <= *sessions; session++ {
		if _, err := exp.RunEpisode(); err != nil {
			log.Fatalf("session %d failed: %v", session, err)
		}

		if *verbose {
			fmt.Printf("session %d/%d: length %d, steps %d, return %.1f, epsilon %.3f\n",
				session, *sessions, maxLengths.LastMaxLength(),
				lengths.LastLength(), returns.LastReturn(), q.Epsilon())
			printVision(e)
		} else {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Close()
	}

	if *dataPrefix != "" {
		exp.Save()
	}

	fmt.Printf("\nsessions:        %d\n", *sessions)
	fmt.Printf("average length:  %.2f\n", maxLengths.Average())
	fmt.Printf("best length:     %d\n", maxLengths.Best())
	fmt.Printf("states explored: %d\n", q.Table().States())
	fmt.Printf("final epsilon:   %.3f\n", q.Epsilon())

	if *savePath != "" {
		if err := q.Table().Save(*savePath); err != nil {
			log.Fatalf("could not save state-action values: %v", err)
		}
		fmt.Printf("state-action values saved to %v\n", *savePath)
	}
}

// printVision prints what the snake saw in each direction when the
// session ended, one line per direction ordered outward from the head
func printVision(e *snake.Env) {
	lines := e.VisionLines()
	for _, dir := range []snake.Direction{snake.Up, snake.Down, snake.Left,
		snake.Right} {
		fmt.Printf("  %-5v %v\n", dir, lines[dir])
	}
}
