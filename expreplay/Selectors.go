package expreplay

import (
	"golang.org/x/exp/rand"
)

// Selector implements functionality for choosing which index of an
// experience replay buffer data should be sampled from
type Selector interface {
	// choose selects an index in [low, high)
	choose(low, high int) int
}

// uniformSelector is a Selector which selects indices uniformly
// randomly
type uniformSelector struct {
	rng *rand.Rand
}

// NewUniformSelector returns a new Selector which selects indices
// uniformly randomly
func NewUniformSelector(seed uint64) Selector {
	source := rand.NewSource(seed)
	rng := rand.New(source)

	return &uniformSelector{rng: rng}
}

// choose selects an index uniformly randomly in [low, high)
func (u *uniformSelector) choose(low, high int) int {
	return low + u.rng.Intn(high-low)
}
