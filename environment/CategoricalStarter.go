package environment

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting positions sampled from a
// multi-dimensional uniform categorical distribution. Dimension i is
// sampled from (0, 1, 2, ... bounds[i]-1).
type CategoricalStarter struct {
	rand []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i from (0, 1, 2, ... bounds[i]-1)
func NewCategoricalStarter(bounds []int, seed uint64) *CategoricalStarter {
	source := rand.NewSource(seed)

	dists := make([]distuv.Categorical, len(bounds))
	for i := range dists {
		// Create the weights for the uniform categorical distribution
		weights := make([]float64, bounds[i])
		for j := range weights {
			weights[j] = 1.0 / float64(len(weights))
		}

		dists[i] = distuv.NewCategorical(weights, source)
	}

	return &CategoricalStarter{dists}
}

// Start returns a starting position
func (c *CategoricalStarter) Start() []int {
	start := make([]int, len(c.rand))
	for i := range start {
		start[i] = int(c.rand[i].Rand())
	}
	return start
}

// FixedStarter always starts at the same position
type FixedStarter []int

// Start returns a copy of the starting position
func (f FixedStarter) Start() []int {
	return append([]int(nil), f...)
}
