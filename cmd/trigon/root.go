package main

import (
	"fmt"
	"os"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "trigon",
	Short: "Trigon - triangle classification tooling",
	Long: `Trigon classifies triangles from three side lengths and verifies the
classifier against fixture files.

It provides:
  - One-off classification with structured output
  - A fixture harness with in-process and subprocess runners
  - An HTTP classification service with metrics and tracing
  - A history of fixture runs with scheduled retention`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
