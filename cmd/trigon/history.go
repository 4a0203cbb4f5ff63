package main

import (
	"errors"
	"fmt"
	"time"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/history"
	"mercator-hq/trigon/pkg/history/retention"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune recorded fixture runs",
	Long: `Inspect and prune fixture runs recorded with "trigon test --record" or
by "trigon serve --watch".`,
}

var historyListFlags struct {
	output  string
	limit   int
	offset  int
	failed  bool
	fixture string
	since   time.Duration
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Long: `List recorded runs, newest first.

Examples:
  trigon history list
  trigon history list --failed --since 24h
  trigon history list -o csv --limit 500`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowFlags struct {
	output string
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded run with its cases",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneFlags struct {
	days    int
	maxRuns int
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs beyond the retention limits",
	Long: `Delete runs older than history.retention.days and beyond
history.retention.max_runs. Flags override the configured limits.

Examples:
  trigon history prune
  trigon history prune --days 7 --max-runs 100`,
	Args: cobra.NoArgs,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyListCmd.Flags().StringVarP(&historyListFlags.output, "output", "o", "csv", "output format (text, json, yaml, csv)")
	historyListCmd.Flags().IntVar(&historyListFlags.limit, "limit", history.DefaultListLimit, "maximum runs to list")
	historyListCmd.Flags().IntVar(&historyListFlags.offset, "offset", 0, "runs to skip")
	historyListCmd.Flags().BoolVar(&historyListFlags.failed, "failed", false, "only runs with failing cases")
	historyListCmd.Flags().StringVar(&historyListFlags.fixture, "fixture", "", "only runs of this fixture file")
	historyListCmd.Flags().DurationVar(&historyListFlags.since, "since", 0, "only runs started within this duration (e.g. 24h)")

	historyShowCmd.Flags().StringVarP(&historyShowFlags.output, "output", "o", "text", "output format (text, json, yaml, csv)")

	historyPruneCmd.Flags().IntVar(&historyPruneFlags.days, "days", -1, "override retention days (0 disables age pruning)")
	historyPruneCmd.Flags().IntVar(&historyPruneFlags.maxRuns, "max-runs", -1, "override maximum stored runs (0 disables)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	query := &history.Query{
		FixturePath: historyListFlags.fixture,
		FailedOnly:  historyListFlags.failed,
		Limit:       historyListFlags.limit,
		Offset:      historyListFlags.offset,
	}
	if historyListFlags.since > 0 {
		since := time.Now().Add(-historyListFlags.since)
		query.Since = &since
	}

	runs, err := store.List(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	return writeOutput(cmd.OutOrStdout(), historyListFlags.output, history.RunList(runs))
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("run %q not found", args[0])
	}
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	if historyShowFlags.output == string(cli.FormatText) {
		return writeRunText(cmd, run)
	}
	return writeOutput(cmd.OutOrStdout(), historyShowFlags.output, run)
}

func writeRunText(cmd *cobra.Command, run *history.Run) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Fixture:  %s\n", run.FixturePath)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration.Round(time.Microsecond))
	fmt.Fprintf(out, "Result:   %d passed, %d failed of %d\n", run.Passed, run.Failed, run.Total)
	for _, row := range run.Rows() {
		fmt.Fprintf(out, "  %-4s %-7s %s -> %s (expected %s)\n", row[0], row[4], row[1], row[3], row[2])
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := cfg.History.Retention
	if historyPruneFlags.days >= 0 {
		retentionCfg.Days = historyPruneFlags.days
	}
	if historyPruneFlags.maxRuns >= 0 {
		retentionCfg.MaxRuns = historyPruneFlags.maxRuns
	}

	deleted, err := retention.NewPruner(store, retentionCfg, logger).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s)\n", deleted)
	return nil
}
