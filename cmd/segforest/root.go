package main

import (
	"fmt"
	"os"

	"github.com/davecheney/profile"
	"github.com/spf13/cobra"

	"github.com/wlattner/segforest/internal/log"
	"github.com/wlattner/segforest/internal/segerr"
)

var (
	logMode    string
	profileRun bool
)

var rootCmd = &cobra.Command{
	Use:   "segforest",
	Short: "Randomized forest + Markov random field image segmentation",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(log.Mode(logMode))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return segerr.NewConfig("exactly one of \"training\" or \"inferenz\" must be given")
	},
}

// Execute runs the CLI, registering both subcommands. It is the whole
// of main's job: when the command returns an error it prints it to
// stderr and exits with status 1.
func Execute() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "pretty", "log output mode: pretty, json, or disabled")
	rootCmd.PersistentFlags().BoolVar(&profileRun, "profile", false, "enable CPU profiling for the duration of the command")

	rootCmd.AddCommand(trainingCmd)
	rootCmd.AddCommand(inferenzCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// startProfile begins a CPU profile when --profile was given, and
// returns the stop function to defer.
func startProfile() func() {
	if !profileRun {
		return func() {}
	}
	p := profile.Start(profile.CPUProfile)
	return p.Stop
}
