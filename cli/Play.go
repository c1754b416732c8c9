package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/samuelfneumann/godqn/agent/deepq"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// playFlags are the flags of the play command
type playFlags struct {
	episodes int
	steps    int
	epsilon  float64
	render   bool
}

func playCommand(flags *rootFlags) *cobra.Command {
	pf := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run evaluation episodes with the latest checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, flags, pf)
		},
	}

	f := cmd.Flags()
	f.IntVar(&pf.episodes, "episodes", 20, "number of episodes")
	f.IntVar(&pf.steps, "steps", 1000, "maximum steps per episode")
	f.Float64Var(&pf.epsilon, "epsilon", 0.01, "exploration rate")
	f.BoolVar(&pf.render, "render", false, "render the environment")
	return cmd
}

func runPlay(cmd *cobra.Command, flags *rootFlags, pf *playFlags) error {
	c, err := flags.runConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(cmd.ErrOrStderr(), "godqn: ", log.LstdFlags)

	env, q, err := flags.build(c)
	if err != nil {
		return err
	}
	defer closeEnv(env)

	step, err := q.Load()
	if err != nil {
		return err
	}
	if step == 0 {
		logger.Printf("play: no checkpoint found, playing with an untrained " +
			"network")
	}

	rows, cols := env.FrameShape()
	a, err := deepq.New(c.Agent, q, env.NumActions(), rows, cols,
		deepq.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	returns, err := a.Play(ctx, env, pf.episodes, pf.steps, pf.epsilon,
		pf.render)
	for i, r := range returns {
		fmt.Fprintf(cmd.OutOrStdout(), "episode %d: return %.4f\n", i, r)
	}
	if len(returns) > 0 {
		mean, std := stat.MeanStdDev(returns, nil)
		fmt.Fprintf(cmd.OutOrStdout(), "average return over %d episodes: "+
			"%.4f ± %.4f\n", len(returns), mean, std)
	}
	return err
}
