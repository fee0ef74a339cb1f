package main

import (
	"os"

	"github.com/kutbudev/foodgram/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
