// Package main defines the discreteid command line entry point.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp assembles the application with all available commands.
func newApp() *cli.App {
	return &cli.App{
		Name:     "discreteid",
		HelpName: "discreteid",
		Usage:    "estimates the intrinsic dimension of integer lattice data",
		Version:  version,
		Flags: []cli.Flag{
			&ConfigFlag,
			&InputFlag,
			&MetricFlag,
			&PeriodFlag,
			&CondensedFlag,
			&DMaxFlag,
			&MaxKFlag,
			&WorkersFlag,
			&SeedFlag,
			&LogLevelFlag,
		},
		Commands: []*cli.Command{
			&FitCommand,
			&SweepKCommand,
			&SweepRadiusCommand,
			&GrowthCommand,
			&HistogramCommand,
		},
	}
}
