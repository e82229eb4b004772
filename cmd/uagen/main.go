// Package main is the entry point for the uagen CLI.
package main

import (
	"os"

	"github.com/FranksOps/uagen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
