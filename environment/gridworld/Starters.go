package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/godqn/environment"
)

// NewSingleStart returns a Starter that always starts the agent at
// position (x, y) of a gridworld with r rows and c columns
func NewSingleStart(x, y, r, c int) (environment.Starter, error) {
	if x < 0 || x >= c {
		return nil, fmt.Errorf("newsinglestart: x = %d outside [0, %d)", x, c)
	} else if y < 0 || y >= r {
		return nil, fmt.Errorf("newsinglestart: y = %d outside [0, %d)", y, r)
	}

	return environment.FixedStarter{x, y}, nil
}

// NewRandomStart returns a Starter that starts the agent uniformly
// randomly in a gridworld with r rows and c columns
func NewRandomStart(r, c int, seed uint64) environment.Starter {
	return environment.NewCategoricalStarter([]int{c, r}, seed)
}
