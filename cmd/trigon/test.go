package main

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/fixture"
	"mercator-hq/trigon/pkg/history"

	"github.com/spf13/cobra"
)

// formatLines prints success or error per case, one per line.
const formatLines = "lines"

// ErrCasesFailed is returned when a structured test report contains failures.
var ErrCasesFailed = errors.New("fixture cases failed")

var testFlags struct {
	output   string
	exec     string
	execArgs []string
	record   bool
	strict   bool
	progress bool
}

var testCmd = &cobra.Command{
	Use:   "test [fixture-file]",
	Short: "Run the classifier against a fixture file",
	Long: `Run the classifier against a fixture file.

Each non-blank line holds the CLI arguments followed by the two-word expected
label. By default the classifier is called in-process; --exec runs a built
binary instead and compares its standard output.

The default "lines" output prints success or error per case and exits 0,
leaving the verdict to the per-line output. The text, json, yaml and csv
outputs print a report and exit 1 when any case fails.

Examples:
  trigon test
  trigon test testdata/test_cases.txt -o json
  trigon test --exec ./triangle --record -o text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVarP(&testFlags.output, "output", "o", formatLines, "output format (lines, text, json, yaml, csv)")
	testCmd.Flags().StringVar(&testFlags.exec, "exec", "", "run this binary for each case instead of the in-process classifier")
	testCmd.Flags().StringSliceVar(&testFlags.execArgs, "exec-arg", nil, "argument placed before the case arguments (repeatable)")
	testCmd.Flags().BoolVar(&testFlags.record, "record", false, "store the run in the history database")
	testCmd.Flags().BoolVar(&testFlags.strict, "strict", false, "reject fixtures whose expected text is not a known label")
	testCmd.Flags().BoolVar(&testFlags.progress, "progress", false, "show a progress bar on stderr")
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if testFlags.output != formatLines {
		if _, err := cli.ParseOutputFormat(testFlags.output); err != nil {
			return err
		}
	}

	path := cfg.Fixtures.Path
	if len(args) == 1 {
		path = args[0]
	}

	cases, err := fixture.Load(path)
	if err != nil {
		return cli.NewCommandError("test", err)
	}
	if testFlags.strict {
		if err := fixture.ValidateLabels(cases); err != nil {
			return cli.NewCommandError("test", err)
		}
	}

	opts := []fixture.Option{fixture.WithLogger(logger)}
	if testFlags.exec != "" {
		opts = append(opts, fixture.WithRunner(fixture.ExecRunner{Binary: testFlags.exec, Args: testFlags.execArgs}))
	}
	if testFlags.progress {
		opts = append(opts, fixture.WithProgress(cli.NewProgressReporter(cmd.ErrOrStderr())))
	}

	ctx, cancel := cli.SetupSignalHandler()
	defer cancel()

	report, err := fixture.NewHarness(opts...).Run(ctx, cases)
	if err != nil {
		return cli.NewCommandError("test", err)
	}
	report.FixturePath = path

	if testFlags.record {
		if err := recordRun(ctx, cfg, report); err != nil {
			return err
		}
		logger.Info("Fixture run recorded", "run_id", report.RunID)
	}

	out := cmd.OutOrStdout()
	if testFlags.output == formatLines {
		return report.WriteLines(out)
	}
	if err := writeOutput(out, testFlags.output, report); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d %w", report.Failed, report.Total, ErrCasesFailed)
	}
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, report *fixture.Report) error {
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Store(ctx, history.FromReport(report)); err != nil {
		return fmt.Errorf("failed to record run %s: %w", report.RunID, err)
	}
	return nil
}
