// Package gridworld implements a 2D gridworld environment whose
// observations are frames of the grid
package gridworld

import (
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Frame cell values
const (
	EmptyCell = 0.0
	AgentCell = 1.0
	GoalCell  = 0.5
)

// Actions available in a GridWorld
const (
	Left = iota
	Right
	Up
	Down
	NumActions
)

// GridWorld represents a gridworld environment. Each observation is an
// (r, c) frame with the agent's cell set to AgentCell, goal cells set
// to GoalCell, and all other cells EmptyCell. The agent's cell takes
// precedence over a goal cell.
//
// Positions are (x, y) coordinates where x indexes columns and y indexes
// rows of the frame.
type GridWorld struct {
	task    *Goal
	starter environment.Starter
	ender   environment.Ender
	r, c    int

	x, y        int
	currentStep timestep.TimeStep

	out  io.Writer
	eval bool
}

// New creates a new gridworld with r rows and c columns, task t, and
// starting positions sampled from s. Episodes are cut off by e, which
// may be nil if episodes should only end at goal states.
func New(r, c int, t *Goal, s environment.Starter,
	e environment.Ender) (*GridWorld, error) {
	if r < 1 || c < 1 {
		return nil, fmt.Errorf("new: invalid gridworld shape (%d, %d)", r, c)
	}
	if t == nil {
		return nil, fmt.Errorf("new: a task is required")
	}
	if s == nil {
		return nil, fmt.Errorf("new: a starter is required")
	}
	if e == nil {
		e = environment.NewStepLimit(0)
	}

	return &GridWorld{
		task:    t,
		starter: s,
		ender:   e,
		r:       r,
		c:       c,
		out:     os.Stdout,
	}, nil
}

// SetOutput sets the destination of Render
func (g *GridWorld) SetOutput(w io.Writer) {
	g.out = w
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// FrameShape returns the shape of the frames observed
func (g *GridWorld) FrameShape() (rows, cols int) {
	return g.r, g.c
}

// NumActions returns the number of actions
func (g *GridWorld) NumActions() int {
	return NumActions
}

// Coordinates returns the current (x, y) position of the agent
func (g *GridWorld) Coordinates() (int, int) {
	return g.x, g.y
}

// NewEpisode starts a new episode at a position sampled from the
// Starter
func (g *GridWorld) NewEpisode() (timestep.TimeStep, error) {
	start := g.starter.Start()
	if len(start) != 2 {
		return timestep.TimeStep{}, fmt.Errorf("newepisode: invalid start "+
			"position dimension \n\twant(2) \n\thave(%v)", len(start))
	}

	x, y := start[0], start[1]
	if x < 0 || x >= g.c || y < 0 || y >= g.r {
		return timestep.TimeStep{}, fmt.Errorf("newepisode: start position "+
			"(%d, %d) out of bounds", x, y)
	}
	g.x, g.y = x, y

	g.currentStep = timestep.New(timestep.First, 0, g.frame(), 0)
	return g.currentStep, nil
}

// Step takes one step in the environment. Moves into a wall leave the
// agent in place.
func (g *GridWorld) Step(action int, _ bool) (timestep.TimeStep, error) {
	if g.currentStep.Last() {
		return timestep.TimeStep{}, fmt.Errorf("step: episode has ended")
	}

	switch action {
	case Left:
		if g.x > 0 {
			g.x--
		}
	case Right:
		if g.x < g.c-1 {
			g.x++
		}
	case Up:
		if g.y < g.r-1 {
			g.y++
		}
	case Down:
		if g.y > 0 {
			g.y--
		}
	default:
		return timestep.TimeStep{}, fmt.Errorf("step: invalid action "+
			"\n\twant([0, %v)) \n\thave(%v)", NumActions, action)
	}

	reward := g.task.GetReward(g.x, g.y)
	stepType := timestep.Mid
	if g.task.AtGoal(g.x, g.y) {
		stepType = timestep.Last
	}

	step := timestep.New(stepType, reward, g.frame(),
		g.currentStep.Number+1)
	g.ender.End(&step)
	g.currentStep = step

	return step, nil
}

// frame returns the current observation
func (g *GridWorld) frame() *mat.Dense {
	f := mat.NewDense(g.r, g.c, nil)
	for _, goal := range g.task.goals {
		f.Set(goal[1], goal[0], GoalCell)
	}
	f.Set(g.y, g.x, AgentCell)
	return f
}

// Render writes the current frame
func (g *GridWorld) Render() error {
	mode := "train"
	if g.eval {
		mode = "eval"
	}

	_, err := fmt.Fprintf(g.out, "[%s] step %d\n%v\n", mode,
		g.currentStep.Number, matutils.Format(g.frame()))
	return err
}

// StartEval marks the following episodes as evaluation episodes
func (g *GridWorld) StartEval() error {
	g.eval = true
	return nil
}

// EndEval marks the following episodes as training episodes
func (g *GridWorld) EndEval() error {
	g.eval = false
	return nil
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: (%d, %d)  |  Goal: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.x, g.y, g.task, g.r, g.c)
}
