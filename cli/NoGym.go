//go:build !gogym

package cli

import (
	"fmt"

	"github.com/samuelfneumann/godqn/environment"
)

func makeGym(id string, _ uint64) (environment.Environment, error) {
	return nil, fmt.Errorf("makeGym: cannot create %v: built without the "+
		"gogym build tag", id)
}
