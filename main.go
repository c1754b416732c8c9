package main

import (
	"os"

	"github.com/samuelfneumann/godqn/cli"
)

func main() {
	if err := cli.GetRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
