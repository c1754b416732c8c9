//go:build gogym

package gym_test

import (
	"testing"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/gym"
	"github.com/samuelfneumann/gogym"
)

var _ environment.Environment = (*gym.GymEnv)(nil)

func TestNew(t *testing.T) {
	envs := []string{
		"MountainCar-v0",
		"CartPole-v0",
		"Acrobot-v1",
		"LunarLander-v2",
	}

	for _, envName := range envs {
		env, err := gym.New(envName, 123)
		if err != nil {
			t.Errorf("env %v: %v", envName, err)
			continue
		}

		step, err := env.NewEpisode()
		if err != nil {
			t.Errorf("env %v: %v", envName, err)
		} else if !step.First() {
			t.Error("newepisode: first timestep should have type First")
		}

		rows, cols := env.FrameShape()
		if r, c := step.Observation.Dims(); r != rows || c != cols {
			t.Errorf("frame shape: \n\twant(%v, %v) \n\thave(%v, %v)", rows,
				cols, r, c)
		}

		// Take a bunch of steps in the environment to ensure it works
		for i := 0; i < 15; i++ {
			next, err := env.Step(i%env.NumActions(), true)
			if err != nil {
				t.Errorf("env %v: %v", envName, err)
			} else if next.Number != step.Number+1 {
				t.Errorf("step: \n\twant(%v) \n\thave(%v)", step.Number+1,
					next.Number)
			}
			step = next

			if step.Last() {
				if step, err = env.NewEpisode(); err != nil {
					t.Errorf("env %v: %v", envName, err)
				}
			}
		}

		if _, err := env.Step(env.NumActions(), true); err == nil {
			t.Errorf("env %v: invalid action should error", envName)
		}

		env.Close()
	}

	// Close the package
	gogym.Close()
}
