package main

import (
	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/triangle"

	"github.com/spf13/cobra"
)

var classifyFlags struct {
	output string
}

var classifyCmd = &cobra.Command{
	Use:   "classify [--] <a> <b> <c>",
	Short: "Classify a triangle from three side lengths",
	Long: `Classify a triangle from three side lengths.

The rules are those of the triangle binary: exactly three arguments, each a
positive number, satisfying the strict triangle inequality. Anything else is
reported as a label, never as an error, and the exit status is 0.

Place -- before the sides when one of them starts with a dash.

Examples:
  trigon classify 3 4 5
  trigon classify -o json 2 2 3
  trigon classify -- -3 4 5`,
	Args: cobra.ArbitraryArgs,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyFlags.output, "output", "o", "text", "output format (text, json, yaml)")
}

// classifyResult is the structured form of a classification.
type classifyResult struct {
	Args  []string       `json:"args" yaml:"args"`
	Label triangle.Label `json:"label" yaml:"label"`
}

func (r classifyResult) String() string {
	return string(r.Label)
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(classifyFlags.output)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return cli.NewConfigError("output", "csv is not supported for classify")
	}

	result := classifyResult{Args: args, Label: cli.Invoke(args)}
	if result.Args == nil {
		result.Args = []string{}
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)
}
