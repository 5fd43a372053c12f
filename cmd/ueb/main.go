// Package main is the entry point for the ueb CLI.
package main

import (
	"os"

	"github.com/thoreinstein/ueb/cmd/ueb/commands"
	"github.com/thoreinstein/ueb/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
