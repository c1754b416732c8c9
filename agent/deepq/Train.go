package deepq

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/utils/progressbar"
)

// progressEvery is the number of steps between progress bar redraws
const progressEvery = 1000

// Train trains the agent in env from the step saved in the latest
// checkpoint of the action-value function until the step counter
// reaches Config.MaxStep. The context is checked between steps; if it
// is cancelled, Train returns the context's error.
func (d *DeepQ) Train(ctx context.Context, env environment.Environment) error {
	if err := d.checkEnv(env); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	start, err := d.q.Load()
	if err != nil {
		return fmt.Errorf("train: load: %w", err)
	}
	if err := d.q.SyncTarget(); err != nil {
		return fmt.Errorf("train: target sync: %w", err)
	}
	if err := d.restoreMemory(start); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if start > 0 {
		d.logger.Printf("train: resuming at step %v", start)
	}

	d.step = start
	d.episodeReward = 0
	d.resetWindow()

	step, err := env.NewEpisode()
	if err != nil {
		return fmt.Errorf("train: environment new episode: %w", err)
	}
	d.history.Reset(step.Observation)
	action := 0

	var bar *progressbar.ManualProgressBar
	if d.config.Progress {
		bar = progressbar.NewManualProgressBar(d.progressOut, 40, start,
			d.config.MaxStep)
		defer bar.Close()
	}

	for ; d.step < d.config.MaxStep; d.step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		action, err = d.Perceive(step.Observation, step.Reward, action,
			step.Last())
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}

		if step.Last() {
			step, err = env.NewEpisode()
			if err != nil {
				return fmt.Errorf("train: environment new episode: %w", err)
			}
			d.history.Reset(step.Observation)
			action = 0
			d.endEpisode()
		} else {
			step, err = env.Step(action, true)
			if err != nil {
				return fmt.Errorf("train: environment step: %w", err)
			}
			d.episodeReward += step.Reward
		}
		d.totalReward += step.Reward

		if d.Phase() == Training {
			if err := d.periodic(); err != nil {
				return fmt.Errorf("train: %w", err)
			}
		}

		if bar != nil {
			bar.Increment()
			if d.step%progressEvery == 0 {
				bar.Display()
			}
		}
	}

	if bar != nil {
		bar.Display()
	}
	return nil
}

// periodic emits reports and saves checkpoints on their cadences
func (d *DeepQ) periodic() error {
	testStep, saveStep := d.config.TestStep, d.config.SaveStep

	if d.step%testStep == testStep-1 {
		if d.tracker != nil {
			if err := d.tracker.Track(d.report()); err != nil {
				d.logger.Printf("report: %v", err)
			}
		}
		d.resetWindow()
	}

	if d.step%saveStep == saveStep-1 {
		if err := d.checkpoint(d.step + 1); err != nil {
			return err
		}
	}
	return nil
}

// checkEnv returns an error if env does not match the agent's action
// and frame shapes
func (d *DeepQ) checkEnv(env environment.Environment) error {
	if env.NumActions() != d.numActions {
		return fmt.Errorf("invalid number of environment actions "+
			"\n\twant(%v) \n\thave(%v)", d.numActions, env.NumActions())
	}
	if r, c := env.FrameShape(); r != d.rows || c != d.cols {
		return fmt.Errorf("invalid environment frame shape "+
			"\n\twant(%v, %v) \n\thave(%v, %v)", d.rows, d.cols, r, c)
	}
	return nil
}
