// meanfield fits a factored Normal x Gamma approximation to the posterior of a
// Gaussian's mean and precision by coordinate-ascent variational inference.
//
// Usage:
//
//	meanfield fit [--config run.cue] [--plot posterior.png] [--format json]
//	meanfield sample [--config run.yaml] [--n 10 --seed 7]
//	meanfield validate run.cue
package main

import (
	"os"

	"github.com/roach88/meanfield/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
