/*
Package cli provides the command-line boundary for trigon.

The cli package contains the argument-vector wrapper used by the triangle
binary, output formatters and progress reporting used by the trigon ops
command, and signal handling for long-running commands.

Classifier Wrapper:

The wrapper turns a raw argument vector into exactly one printed label:

	os.Exit(cli.Run(os.Args[1:], os.Stdout))

Any argument count other than three prints "unknown error" without invoking
the classifier. Run always returns ExitSuccess.

Output Formatting:

Reports can be rendered as text, JSON, YAML or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

CSV output requires the value to implement Tabular.

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(cases)))
	for i := range cases {
		// Run case
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
