// Trigon is the operations CLI around the triangle classifier.
//
// Usage:
//
//	# Classify from the command line (use -- before negative sides)
//	trigon classify 3 4 5
//	trigon classify -o json -- -3 4 5
//
//	# Run the fixture harness, printing success/error per line
//	trigon test test_cases.txt
//
//	# Run it against a built binary and store the run
//	trigon test --exec ./triangle --record -o text
//
//	# Serve the classifier over HTTP, re-running fixtures on change
//	trigon serve --watch
//
//	# Inspect and prune stored runs
//	trigon history list --failed
//	trigon history show <run-id>
//	trigon history prune --days 7
package main

func main() {
	Execute()
}
