package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/godqn/agent/deepq"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/spf13/cobra"
)

// trainFlags are the flags of the train command
type trainFlags struct {
	plot    string
	chart   string
	reports string
	redis   string
	status  string
	noColor bool
}

func trainCommand(flags *rootFlags) *cobra.Command {
	tf := &trainFlags{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an agent, resuming from the latest checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, flags, tf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&tf.plot, "plot", "", "save training curves to a PNG file")
	f.StringVar(&tf.chart, "chart", "",
		"save training curves to an HTML chart")
	f.StringVar(&tf.reports, "reports", "", "save all reports to a gob file")
	f.StringVar(&tf.redis, "redis", "",
		"publish reports to a Redis server (default $"+RedisAddrEnv+")")
	f.StringVar(&tf.status, "status", "",
		"serve reports over HTTP on this address")
	f.BoolVar(&tf.noColor, "no-color", false, "disable coloured reports")
	return cmd
}

func runTrain(cmd *cobra.Command, flags *rootFlags, tf *trainFlags) error {
	c, err := flags.runConfig(cmd)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := log.New(cmd.ErrOrStderr(), "godqn: ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	trackers, shutdown, err := tf.trackers(ctx, runID, logger, cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	env, q, err := flags.build(c)
	if err != nil {
		return err
	}
	defer closeEnv(env)

	opts := []deepq.Option{
		deepq.WithLogger(logger),
		deepq.WithTrackers(trackers...),
		deepq.WithRunID(runID),
		deepq.WithProgressOutput(cmd.ErrOrStderr()),
	}
	if c.Agent.SaveMemory {
		if c.Network.CheckpointDir == "" {
			return fmt.Errorf("train: saving the replay memory requires a " +
				"checkpoint directory")
		}
		mem, err := checkpointer.New(c.Network.CheckpointDir, "memory",
			c.Network.KeepCheckpoints)
		if err != nil {
			return err
		}
		logger.Printf("run %v: saving the replay memory to %v", runID,
			mem.Dir())
		opts = append(opts, deepq.WithMemoryCheckpointer(mem))
	}

	rows, cols := env.FrameShape()
	a, err := deepq.New(c.Agent, q, env.NumActions(), rows, cols, opts...)
	if err != nil {
		return err
	}

	logger.Printf("run %v: training on %v until step %v", runID, flags.env,
		c.Agent.MaxStep)
	trainErr := a.Train(ctx, env)
	if errors.Is(trainErr, context.Canceled) {
		logger.Printf("run %v: interrupted at step %v", runID, a.Step())
		trainErr = nil
	}

	saveErr := tracker.Register(trackers...).Save()
	return errors.Join(trainErr, saveErr)
}

// trackers creates the Trackers requested on the command line. The
// returned function stops any Tracker that runs in the background.
func (tf *trainFlags) trackers(ctx context.Context, runID string,
	logger *log.Logger, cmd *cobra.Command) ([]tracker.Tracker, func(),
	error) {
	trackers := []tracker.Tracker{
		tracker.NewLog(cmd.OutOrStdout(), !tf.noColor),
	}
	shutdown := func() {}

	if tf.reports != "" {
		trackers = append(trackers, tracker.NewGob(tf.reports))
	}
	if tf.plot != "" {
		trackers = append(trackers, tracker.NewPlot(tf.plot, "run "+runID))
	}
	if tf.chart != "" {
		trackers = append(trackers, tracker.NewChart(tf.chart, "run "+runID))
	}

	addr := tf.redis
	if addr == "" {
		addr = os.Getenv(RedisAddrEnv)
	}
	if addr != "" {
		r := tracker.NewRedis(addr, runID)
		if err := r.Ping(ctx); err != nil {
			return nil, shutdown, fmt.Errorf("train: redis at %v: %w", addr,
				err)
		}
		logger.Printf("run %v: publishing reports to %v", runID, r.Key())
		trackers = append(trackers, r)
	}

	if tf.status != "" {
		s := tracker.NewStatus(tf.status)
		errCh := s.Start()
		go func() {
			for err := range errCh {
				logger.Printf("status: %v", err)
			}
		}()
		logger.Printf("run %v: serving status on %v", runID, tf.status)

		trackers = append(trackers, s)
		shutdown = func() {
			ctx, cancel := context.WithTimeout(context.Background(),
				5*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				logger.Printf("status: %v", err)
			}
		}
	}

	return trackers, shutdown, nil
}
