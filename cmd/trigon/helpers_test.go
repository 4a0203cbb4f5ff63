package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/history"
)

// testConfig returns a default config with history in a temp SQLite file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Logging.Level = "error"
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	cfg.Fixtures.Path = filepath.Join("..", "..", "pkg", "fixture", "testdata", "test_cases.txt")
	return cfg
}

// resetFlags restores every command flag variable to its default.
func resetFlags() {
	verbose = false

	classifyFlags.output = "text"

	testFlags.output = formatLines
	testFlags.exec = ""
	testFlags.execArgs = nil
	testFlags.record = false
	testFlags.strict = false
	testFlags.progress = false

	historyListFlags.output = "csv"
	historyListFlags.limit = history.DefaultListLimit
	historyListFlags.offset = 0
	historyListFlags.failed = false
	historyListFlags.fixture = ""
	historyListFlags.since = 0
	historyShowFlags.output = "text"
	historyPruneFlags.days = -1
	historyPruneFlags.maxRuns = -1

	serveFlags.listenAddress = ""
	serveFlags.logLevel = ""
	serveFlags.watch = false
	serveFlags.fixtures = ""
	serveFlags.dryRun = false
}

// execute runs the root command with args against cfg and returns stdout.
// A nil cfg leaves the global configuration untouched.
func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	if cfg != nil {
		prev := config.GetConfig()
		config.SetConfig(cfg)
		t.Cleanup(func() { config.SetConfig(prev) })
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

// TestMain lets the test binary stand in for the triangle binary when
// the fixture harness runs it with TRIGON_WANT_HELPER_PROCESS=1.
func TestMain(m *testing.M) {
	if os.Getenv("TRIGON_WANT_HELPER_PROCESS") == "1" {
		os.Exit(cli.Run(os.Args[1:], os.Stdout))
	}
	os.Exit(m.Run())
}

// writeFixture writes content to a fixture file in a temp dir.
func writeFixture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cases.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testBinary is the running test binary, which behaves as the triangle
// binary under TRIGON_WANT_HELPER_PROCESS=1.
func testBinary(t *testing.T) string {
	t.Helper()

	if os.Getenv("TRIGON_WANT_HELPER_PROCESS") != "1" {
		t.Fatal("testBinary requires TRIGON_WANT_HELPER_PROCESS=1")
	}
	return os.Args[0]
}
