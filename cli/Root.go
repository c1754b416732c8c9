// Package cli implements the godqn command line tool
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/network"
	"github.com/spf13/cobra"
)

// Environment variables read by the command line tool. They may also be
// set in a .env file.
const (
	ConfigEnv        = "GODQN_CONFIG"
	CheckpointDirEnv = "GODQN_CHECKPOINT_DIR"
	RedisAddrEnv     = "GODQN_REDIS_ADDR"
)

// rootFlags are the flags shared by all commands
type rootFlags struct {
	envFile       string
	config        string
	env           string
	checkpointDir string
}

// GetRootCommand returns the root command of the command line tool
func GetRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "godqn",
		Short:        "Train and play deep Q-learning agents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(flags.envFile)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env",
		"file of environment variables to load if it exists")
	pf.StringVar(&flags.config, "config", "",
		"JSON run configuration (default $"+ConfigEnv+")")
	pf.StringVar(&flags.env, "env", "gridworld",
		"environment: gridworld or gym:<id>")
	pf.StringVar(&flags.checkpointDir, "checkpoint-dir", "",
		"checkpoint directory (default $"+CheckpointDirEnv+")")
	addAgentFlags(pf)

	cmd.AddCommand(
		trainCommand(flags),
		playCommand(flags),
		configCommand(flags),
	)
	return cmd
}

// loadEnvFile loads the environment variables in filename. A missing
// file is not an error. Variables that are already set are kept.
func loadEnvFile(filename string) error {
	if filename == "" {
		return nil
	}

	err := godotenv.Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("could not load %v: %w", filename, err)
	}
	return nil
}

// runConfig resolves the run configuration of cmd: the defaults,
// overridden by the configuration file, overridden by the command line.
// The checkpoint directory of the file is kept unless the flag or
// environment variable names another.
func (r *rootFlags) runConfig(cmd *cobra.Command) (RunConfig, error) {
	path := r.config
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	c, err := loadRunConfig(path)
	if err != nil {
		return c, err
	}
	if err := applyAgentFlags(cmd.Flags(), &c.Agent); err != nil {
		return c, err
	}

	if r.checkpointDir != "" {
		c.Network.CheckpointDir = r.checkpointDir
	} else if dir := os.Getenv(CheckpointDirEnv); dir != "" {
		c.Network.CheckpointDir = dir
	}

	return c, c.Validate()
}

// build creates the environment and action-value function of a run
func (r *rootFlags) build(c RunConfig) (environment.Environment,
	*network.QNetwork, error) {
	env, err := makeEnv(r.env, c.Env, c.Agent.Seed)
	if err != nil {
		return nil, nil, err
	}

	rows, cols := env.FrameShape()
	q, err := network.New(c.Network, c.Agent.HistoryLength*rows*cols,
		env.NumActions(), c.Agent.BatchSize, c.Agent.MinDelta,
		c.Agent.MaxDelta)
	if err != nil {
		closeEnv(env)
		return nil, nil, err
	}
	return env, q, nil
}

// closeEnv closes env if it holds resources
func closeEnv(env environment.Environment) error {
	if c, ok := env.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func configCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective run configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.runConfig(cmd)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
