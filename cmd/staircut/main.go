// StairCut - Staircase Plank Optimizer
//
// A command line tool that turns staircase step measurements into the
// cheapest plank purchase and cutting plan.
//
// Build:
//   go build -o staircut ./cmd/staircut
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o staircut.exe ./cmd/staircut
//   GOOS=darwin  GOARCH=arm64 go build -o staircut-darwin ./cmd/staircut

package main

import (
	"os"

	"github.com/piwi3910/StairCut/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
