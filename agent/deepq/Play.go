package deepq

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/timestep"
)

// Play runs episodes evaluation episodes in env, acting
// epsilon-greedily with the given epsilon, and returns the return of
// each episode. Episodes are cut off after maxSteps steps; if maxSteps
// is not positive, episodes run until they end.
//
// Nothing is stored in the replay memory and nothing is learned. If env
// is an environment.Evaluator it is informed of the evaluation run, and
// if render is set and env is an environment.Renderer, it is rendered
// before each action.
func (d *DeepQ) Play(ctx context.Context, env environment.Environment,
	episodes, maxSteps int, epsilon float64, render bool) (returns []float64,
	err error) {
	if err := d.checkEnv(env); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("play: epsilon must be in [0, 1] "+
			"\n\thave(%v)", epsilon)
	}

	if ev, ok := env.(environment.Evaluator); ok {
		if err := ev.StartEval(); err != nil {
			return nil, fmt.Errorf("play: start eval: %w", err)
		}
		defer func() {
			if endErr := ev.EndEval(); endErr != nil && err == nil {
				err = fmt.Errorf("play: end eval: %w", endErr)
			}
		}()
	}

	var renderer environment.Renderer
	if render {
		r, ok := env.(environment.Renderer)
		if !ok {
			d.logger.Printf("play: environment %T cannot be rendered", env)
		}
		renderer = r
	}

	returns = make([]float64, 0, episodes)
	for ep := 0; ep < episodes; ep++ {
		step, err := d.firstStep(env)
		if err != nil {
			return returns, fmt.Errorf("play: %w", err)
		}

		action := 0
		var episodeReturn float64
		for t := 0; maxSteps <= 0 || t < maxSteps; t++ {
			select {
			case <-ctx.Done():
				return returns, ctx.Err()
			default:
			}

			if renderer != nil {
				if err := renderer.Render(); err != nil {
					return returns, fmt.Errorf("play: render: %w", err)
				}
			}

			action, err = d.PerceiveEval(step.Observation, step.Reward,
				action, step.Last(), epsilon)
			if err != nil {
				return returns, fmt.Errorf("play: %w", err)
			}

			step, err = env.Step(action, false)
			if err != nil {
				return returns, fmt.Errorf("play: environment step: %w", err)
			}
			episodeReturn += step.Reward

			if step.Last() {
				d.logger.Printf("play: episode %v finished after %v "+
					"timesteps", ep, t+1)
				break
			}
		}
		returns = append(returns, episodeReturn)
	}

	return returns, nil
}

// firstStep starts a new evaluation episode in env
func (d *DeepQ) firstStep(env environment.Environment) (timestep.TimeStep,
	error) {
	step, err := env.NewEpisode()
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("environment new episode: %w",
			err)
	}
	d.evalHistory.Reset(step.Observation)
	return step, nil
}
