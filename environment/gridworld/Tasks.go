package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Goal represents the task of reaching goal states in a GridWorld
type Goal struct {
	goals          [][2]int // (x, y) coordinates of goal cells
	timeStepReward float64
	goalReward     float64
}

// NewGoal creates and returns a new goal task with goals at positions
// (x[i], y[i]), given that the gridworld has r rows and c columns. Each
// step yields reward tr, except steps into a goal, which yield gr.
func NewGoal(x, y []int, r, c int, tr, gr float64) (*Goal, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("newgoal: x length (%d) != y length (%d)",
			len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("newgoal: at least one goal is required")
	}

	goals := make([][2]int, len(x))
	for i := range x {
		// Ensure that the goal is within the proper bounds
		if x[i] < 0 || x[i] >= c {
			return nil, fmt.Errorf("newgoal: x[%d] = %d outside [0, %d)", i,
				x[i], c)
		} else if y[i] < 0 || y[i] >= r {
			return nil, fmt.Errorf("newgoal: y[%d] = %d outside [0, %d)", i,
				y[i], r)
		}
		goals[i] = [2]int{x[i], y[i]}
	}

	return &Goal{goals, tr, gr}, nil
}

// GetReward returns the reward for moving into position (x, y)
func (g *Goal) GetReward(x, y int) float64 {
	if g.AtGoal(x, y) {
		return g.goalReward
	}
	return g.timeStepReward
}

// AtGoal returns whether (x, y) is a goal position
func (g *Goal) AtGoal(x, y int) bool {
	for _, goal := range g.goals {
		if goal[0] == x && goal[1] == y {
			return true
		}
	}
	return false
}

// String returns the Goal as a string
func (g *Goal) String() string {
	return fmt.Sprintf("%v", g.goals)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	return floats.Min([]float64{g.timeStepReward, g.goalReward})
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	return floats.Max([]float64{g.timeStepReward, g.goalReward})
}
