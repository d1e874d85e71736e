package main

import (
	"errors"
	"os"

	"github.com/csafmatch/csafmatch/cmd/csafmatch/commands"
	"github.com/csafmatch/csafmatch/pkg/csaf"
)

// main executes the csafmatch CLI.
//
// Exit codes:
//   - 0: Success
//   - 1: General error (default)
//   - 2: A named input is not usable (missing file, non-CSAF document)
func main() {
	err := commands.NewCommand().Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, csaf.ErrNotCSAF) || errors.Is(err, os.ErrNotExist) {
		return 2
	}
	return 1
}
