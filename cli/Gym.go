//go:build gogym

package cli

import (
	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/gym"
)

func makeGym(id string, seed uint64) (environment.Environment, error) {
	g, err := gym.New(id, seed)
	if err != nil {
		return nil, err
	}
	return g, nil
}
